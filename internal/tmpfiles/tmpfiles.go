package tmpfiles

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Artifacts names the filesystem endpoints of one external process run.
// Output receives the structured result lines, SideChannel the diagnostic
// stream. Marker and Progress are optional and empty when unused.
type Artifacts struct {
	Output      string
	SideChannel string
	Marker      string
	Progress    string

	removed bool
}

// Namer allocates unique artifact sets under a work directory.
type Namer struct {
	dir string
}

// NewNamer returns a namer rooted at dir.
func NewNamer(dir string) *Namer {
	return &Namer{dir: dir}
}

// Allocate reserves a fresh artifact set. withMarker and withProgress
// control whether the optional paths are populated.
func (n *Namer) Allocate(withMarker, withProgress bool) (*Artifacts, error) {
	if n == nil || n.dir == "" {
		return nil, errors.New("work directory is not configured")
	}
	if err := os.MkdirAll(n.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create work directory: %w", err)
	}

	id := uuid.NewString()
	arts := &Artifacts{
		Output:      filepath.Join(n.dir, fmt.Sprintf("job-%s.out", id)),
		SideChannel: filepath.Join(n.dir, fmt.Sprintf("job-%s.err", id)),
	}
	if withMarker {
		arts.Marker = filepath.Join(n.dir, fmt.Sprintf("job-%s.done", id))
	}
	if withProgress {
		arts.Progress = filepath.Join(n.dir, fmt.Sprintf("job-%s.progress", id))
	}
	return arts, nil
}

// Remove deletes every allocated artifact. It is safe to call repeatedly;
// only the first call touches the filesystem.
func (a *Artifacts) Remove() error {
	if a == nil || a.removed {
		return nil
	}
	a.removed = true

	var firstErr error
	for _, path := range []string{a.Output, a.SideChannel, a.Marker, a.Progress} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			if firstErr == nil {
				firstErr = fmt.Errorf("remove artifact %s: %w", path, err)
			}
		}
	}
	return firstErr
}

// Removed reports whether cleanup already ran.
func (a *Artifacts) Removed() bool {
	return a != nil && a.removed
}
