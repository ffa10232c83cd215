package trial

import (
	"errors"
	"testing"
)

func TestCodecStatesRoundTrip(t *testing.T) {
	data, err := EncodeStates("t1", sampleStates())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	recs, err := DecodeStates(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(recs) != 2 || recs[1].Time != 1 || recs[1].States[0] != "s" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestCodecTopologiesRoundTrip(t *testing.T) {
	data, err := EncodeTopologies("t1", sampleTopologies())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	recs, err := DecodeTopologies(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(recs) != 1 || recs[0].Topology.EdgeCount() != 2 {
		t.Fatalf("unexpected records: %+v", recs)
	}

	seq := recs[0].Topology.DegreeSequence()
	if len(seq) != 3 || seq[0] != 1 || seq[2] != 2 {
		t.Fatalf("degree sequence lost in round trip: %v", seq)
	}
}

func TestCodecRejectsForeignVersion(t *testing.T) {
	if _, err := DecodeStates([]byte(`{"schema_version": 2, "records": []}`)); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected version mismatch, got %v", err)
	}
	if _, err := DecodeTopologies([]byte(`{"schema_version": 0, "records": []}`)); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected version mismatch, got %v", err)
	}
}

func TestCodecEmptySeries(t *testing.T) {
	data, err := EncodeStates("t1", nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	recs, err := DecodeStates(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected empty series, got %+v", recs)
	}
}
