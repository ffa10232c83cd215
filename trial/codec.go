package trial

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hupe1980/netsim/core"
)

// CurrentSchemaVersion is stamped into every encoded document. Decoding a
// document with a different version fails instead of guessing.
const CurrentSchemaVersion = 1

// ErrVersionMismatch signals a persisted document written under a different
// schema version.
var ErrVersionMismatch = errors.New("record schema version mismatch")

// statesDocument is the persisted envelope for one trial's state series.
type statesDocument struct {
	SchemaVersion int                `json:"schema_version"`
	TrialID       string             `json:"trial_id"`
	Records       []core.StateRecord `json:"records"`
}

// topologiesDocument is the persisted envelope for one trial's topology
// series.
type topologiesDocument struct {
	SchemaVersion int                   `json:"schema_version"`
	TrialID       string                `json:"trial_id"`
	Records       []core.TopologyRecord `json:"records"`
}

// EncodeStates serializes a state record series for trialID.
func EncodeStates(trialID string, recs []core.StateRecord) ([]byte, error) {
	return json.Marshal(statesDocument{
		SchemaVersion: CurrentSchemaVersion,
		TrialID:       trialID,
		Records:       recs,
	})
}

// DecodeStates deserializes a state record series, validating the schema
// version.
func DecodeStates(data []byte) ([]core.StateRecord, error) {
	var doc statesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if err := checkVersion(doc.SchemaVersion); err != nil {
		return nil, err
	}
	return doc.Records, nil
}

// EncodeTopologies serializes a topology record series for trialID.
func EncodeTopologies(trialID string, recs []core.TopologyRecord) ([]byte, error) {
	return json.Marshal(topologiesDocument{
		SchemaVersion: CurrentSchemaVersion,
		TrialID:       trialID,
		Records:       recs,
	})
}

// DecodeTopologies deserializes a topology record series, validating the
// schema version.
func DecodeTopologies(data []byte) ([]core.TopologyRecord, error) {
	var doc topologiesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if err := checkVersion(doc.SchemaVersion); err != nil {
		return nil, err
	}
	return doc.Records, nil
}

func checkVersion(v int) error {
	if v != CurrentSchemaVersion {
		return fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, v, CurrentSchemaVersion)
	}
	return nil
}
