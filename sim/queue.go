package sim

// queueItem is one pending activation: resume proc when the clock reaches
// time. seq breaks ties between equal times, keeping simultaneous
// activations in first-scheduled order.
type queueItem struct {
	time float64
	seq  uint64
	proc *Process
}

// eventQueue is a min-heap over (time, seq) implementing heap.Interface.
type eventQueue []*queueItem

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].time != q[j].time {
		return q[i].time < q[j].time
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(*queueItem)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return it
}
