package core

// StateRecord captures the states of every node-bound agent at one sampling
// instant. States appear in ascending node id order; node identity is not
// recorded, mirroring the record's role as a population-level time series.
type StateRecord struct {
	Time   float64 `json:"time"`
	States []State `json:"states"`
}

// TopologyRecord captures a structure-only topology snapshot at the instant
// a structural change was observed. Between two consecutive records the
// topology kept (or appeared to keep, see Snapshot.CouldBeIsomorphic) the
// same shape.
type TopologyRecord struct {
	Time     float64   `json:"time"`
	Topology *Snapshot `json:"topology"`
}
