package trial

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hupe1980/netsim/core"
	"github.com/hupe1980/netsim/internal/util"
)

const (
	trialsDir      = "trials"
	statesFile     = "states.json"
	topologiesFile = "topologies.json"
)

// FileStore persists record series as JSON documents on disk, one directory
// per trial:
//
//	<base>/trials/<trial-id>/states.json
//	<base>/trials/<trial-id>/topologies.json
//
// Trial ids are sanitized into path tokens, so distinct ids that sanitize to
// the same token collide; keep ids filesystem-friendly. Writes replace the
// whole document. FileStore keeps no state besides the base directory and is
// safe for concurrent use on distinct trials.
type FileStore struct {
	baseDir string
}

// Compile-time interface check.
var _ core.TrialStore = (*FileStore)(nil)

// NewFileStore constructs a file store rooted at baseDir. The directory is
// created lazily on first save.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("%w: base directory", core.ErrMissingArgument)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// BaseDir returns the root directory the store writes under.
func (s *FileStore) BaseDir() string { return s.baseDir }

// SaveStates writes the state record series document for trialID.
func (s *FileStore) SaveStates(_ context.Context, trialID string, recs []core.StateRecord) error {
	if trialID == "" {
		return core.ErrMissingTrialID
	}

	data, err := EncodeStates(trialID, recs)
	if err != nil {
		return fmt.Errorf("encode states for trial %s: %w", trialID, err)
	}

	return s.writeDocument(s.trialPath(trialID, statesFile), data)
}

// States reads back the state record series for trialID. A trial that was
// never saved reports absence, not an error.
func (s *FileStore) States(_ context.Context, trialID string) ([]core.StateRecord, bool, error) {
	if trialID == "" {
		return nil, false, core.ErrMissingTrialID
	}

	data, err := os.ReadFile(s.trialPath(trialID, statesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	recs, err := DecodeStates(data)
	if err != nil {
		return nil, false, fmt.Errorf("decode states for trial %s: %w", trialID, err)
	}

	return recs, true, nil
}

// SaveTopologies writes the topology record series document for trialID.
func (s *FileStore) SaveTopologies(_ context.Context, trialID string, recs []core.TopologyRecord) error {
	if trialID == "" {
		return core.ErrMissingTrialID
	}

	data, err := EncodeTopologies(trialID, recs)
	if err != nil {
		return fmt.Errorf("encode topologies for trial %s: %w", trialID, err)
	}

	return s.writeDocument(s.trialPath(trialID, topologiesFile), data)
}

// Topologies reads back the topology record series for trialID. A trial that
// was never saved reports absence, not an error.
func (s *FileStore) Topologies(_ context.Context, trialID string) ([]core.TopologyRecord, bool, error) {
	if trialID == "" {
		return nil, false, core.ErrMissingTrialID
	}

	data, err := os.ReadFile(s.trialPath(trialID, topologiesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	recs, err := DecodeTopologies(data)
	if err != nil {
		return nil, false, fmt.Errorf("decode topologies for trial %s: %w", trialID, err)
	}

	return recs, true, nil
}

// Trials lists the trial directories present under the base directory, in
// directory order.
func (s *FileStore) Trials() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, trialsDir))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			ids = append(ids, entry.Name())
		}
	}

	return ids, nil
}

// writeDocument indents the encoded document for readability and writes it
// with a trailing newline, creating the trial directory as needed.
func (s *FileStore) writeDocument(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func (s *FileStore) trialPath(trialID, file string) string {
	return filepath.Join(s.baseDir, trialsDir, util.SanitizeToken(trialID), file)
}
