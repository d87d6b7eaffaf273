package sink

import (
	"bytes"
	"context"
	"os"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
)

// DriftKind classifies a difference between generated and existing output.
type DriftKind string

const (
	// DriftMissing means the file does not exist on disk.
	DriftMissing DriftKind = "missing"

	// DriftChanged means the file exists with different content.
	DriftChanged DriftKind = "changed"
)

// Drift is one generated file that does not match the file on disk.
type Drift struct {
	Path string
	Kind DriftKind
}

// CheckSink compares generated files with the files under Root instead of
// writing them. It is used to verify that committed output is current.
type CheckSink struct {
	Root string

	mu     sync.Mutex
	drift  []Drift
	writes int
}

// NewCheckSink returns a sink comparing against root.
func NewCheckSink(root string) *CheckSink {
	return &CheckSink{Root: root}
}

// WriteFile implements OutputSink. Differences are recorded, not returned;
// the error is reserved for paths that cannot be read.
func (s *CheckSink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return errors.Wrapf(err, "invalid path %q", path)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := resolve(s.Root, path)
	if err != nil {
		return err
	}

	var d *Drift
	existing, err := os.ReadFile(fullPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		d = &Drift{Path: path, Kind: DriftMissing}
	case err != nil:
		return errors.Wrapf(err, "read %s", path)
	case !bytes.Equal(existing, content):
		d = &Drift{Path: path, Kind: DriftChanged}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if d != nil {
		s.drift = append(s.drift, *d)
	}
	return nil
}

// Drift returns the recorded differences sorted by path.
func (s *CheckSink) Drift() []Drift {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]Drift(nil), s.drift...)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Checked returns the number of files compared.
func (s *CheckSink) Checked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
