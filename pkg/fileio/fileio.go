// Package fileio stores binary blobs on the local filesystem under a
// per-unit-user directory, sharding by filename to keep directories small.
package fileio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// deletedSuffix marks a logically deleted file. The blob stays on disk until
// a cleanup job removes it.
const deletedSuffix = ".deleted"

var ErrNotFound = errors.New("file not found")

// SyncableSink is a destination that can force its buffers to stable
// storage. *os.File satisfies it.
type SyncableSink interface {
	io.Writer
	Sync() error
}

// Accessor reads and writes blobs for one unit user.
type Accessor struct {
	baseDir  string
	unitUser string

	// physicalDelete removes blobs immediately instead of renaming them
	// with the deleted suffix.
	physicalDelete bool

	retryCount    int
	retryInterval time.Duration

	fsync bool
}

type Option func(*Accessor)

// WithPhysicalDelete makes Delete remove the file instead of marking it.
func WithPhysicalDelete() Option {
	return func(a *Accessor) {
		a.physicalDelete = true
	}
}

// WithRetry configures how often a failed delete is retried and the pause
// between attempts.
func WithRetry(count int, interval time.Duration) Option {
	return func(a *Accessor) {
		a.retryCount = count
		a.retryInterval = interval
	}
}

// WithFsync forces every write to stable storage before Write returns.
func WithFsync() Option {
	return func(a *Accessor) {
		a.fsync = true
	}
}

func New(baseDir, unitUser string, opts ...Option) *Accessor {
	a := &Accessor{
		baseDir:       baseDir,
		unitUser:      unitUser,
		retryCount:    3,
		retryInterval: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Path returns the sharded on-disk location for name. Files are fanned out
// over two directory levels derived from the name so no single directory
// grows unbounded.
func (a *Accessor) Path(name string) string {
	shard1, shard2 := "_", "_"
	if len(name) >= 2 {
		shard1 = name[0:2]
	}
	if len(name) >= 4 {
		shard2 = name[2:4]
	}
	return filepath.Join(a.baseDir, a.unitUser, shard1, shard2, name)
}

// Write stores the contents of r under name, creating shard directories as
// needed.
func (a *Accessor) Write(name string, r io.Reader) (int64, error) {
	path := a.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return 0, fmt.Errorf("creating shard directory for '%s': %w", name, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0640)
	if err != nil {
		return 0, fmt.Errorf("opening '%s' for writing: %w", path, err)
	}

	n, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		return n, fmt.Errorf("writing '%s': %w", path, err)
	}
	if a.fsync {
		if err := f.Sync(); err != nil {
			_ = f.Close()
			return n, fmt.Errorf("syncing '%s': %w", path, err)
		}
	}
	if err := f.Close(); err != nil {
		return n, fmt.Errorf("closing '%s': %w", path, err)
	}
	return n, nil
}

// Copy streams the blob named name into w. If w can sync, the copy is forced
// to stable storage when fsync is enabled.
func (a *Accessor) Copy(name string, w io.Writer) (int64, error) {
	path := a.Path(name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return 0, fmt.Errorf("opening '%s': %w", path, err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	n, err := io.Copy(w, f)
	if err != nil {
		return n, fmt.Errorf("copying '%s': %w", path, err)
	}
	if a.fsync {
		if sink, ok := w.(SyncableSink); ok {
			if err := sink.Sync(); err != nil {
				return n, fmt.Errorf("syncing copy of '%s': %w", path, err)
			}
		}
	}
	return n, nil
}

// Exists reports whether a live (not logically deleted) blob exists.
func (a *Accessor) Exists(name string) bool {
	_, err := os.Stat(a.Path(name))
	return err == nil
}

// Delete removes the blob named name. By default it renames the file with
// the deleted suffix; with physical delete enabled it unlinks it. Transient
// failures are retried a bounded number of times.
func (a *Accessor) Delete(name string) error {
	path := a.Path(name)

	op := func() error {
		if a.physicalDelete {
			return os.Remove(path)
		}
		return os.Rename(path, path+deletedSuffix)
	}

	var err error
	for attempt := 0; attempt <= a.retryCount; attempt++ {
		if attempt > 0 {
			time.Sleep(a.retryInterval)
			log.Warn().
				Str("name", name).
				Int("attempt", attempt).
				Msg("retrying blob delete")
		}
		if err = op(); err == nil {
			return nil
		}
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
	}
	return fmt.Errorf("deleting '%s': %w", path, err)
}
