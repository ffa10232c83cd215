package core

import "testing"

func TestRunContextNextID(t *testing.T) {
	rc := NewRunContext(nil, nil, func(o *RunContextOptions) { o.FirstID = 10 })

	for want := int64(10); want < 15; want++ {
		if got := rc.NextID(); got != want {
			t.Fatalf("NextID() = %d, want %d", got, want)
		}
	}

	if got := rc.PeekID(); got != 15 {
		t.Fatalf("PeekID() = %d, want 15", got)
	}
}

func TestRunContextSeededRand(t *testing.T) {
	a := NewRunContext(nil, nil, func(o *RunContextOptions) { o.Seed = 42 })
	b := NewRunContext(nil, nil, func(o *RunContextOptions) { o.Seed = 42 })

	for i := 0; i < 8; i++ {
		if a.Rand.Int63() != b.Rand.Int63() {
			t.Fatal("equal seeds must produce identical sequences")
		}
	}
}

func TestRunContextDefaults(t *testing.T) {
	rc := NewRunContext(nil, nil)

	if rc.RunID == "" {
		t.Fatal("RunID should be generated when unset")
	}
	if rc.Trial != 0 {
		t.Fatalf("Trial = %d, want 0", rc.Trial)
	}
	if rc.PeekID() != 0 {
		t.Fatalf("counter starts at %d, want 0", rc.PeekID())
	}
	if rc.Logger() == nil {
		t.Fatal("logger must never be nil")
	}
}

func TestEmptyState(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"string", "susceptible", false},
		{"zero int", 0, false},
		{"struct", struct{ N int }{1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EmptyState(tt.state); got != tt.want {
				t.Fatalf("EmptyState(%v) = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}
