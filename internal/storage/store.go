package storage

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"rail-ticketing/internal/models"
)

// Record is anything addressable by an integer id.
type Record interface {
	RecordID() int
}

// Collection is a named set of records persisted as a single JSON file under
// the data directory. Every read-modify-write goes through the collection
// mutex, so two concurrent mutations can never overwrite each other's save.
// Saves are staged to a temp file and renamed into place, so a concurrent
// reader observes either the old or the new content, never a partial write.
type Collection[T Record] struct {
	mu   sync.Mutex
	name string
	path string
	seed []T
}

// NewCollection creates a handle for the collection file <dataDir>/<name>.json.
// The seed is written on first load if the file does not exist yet.
func NewCollection[T Record](dataDir, name string, seed []T) *Collection[T] {
	return &Collection[T]{
		name: name,
		path: filepath.Join(dataDir, name+".json"),
		seed: seed,
	}
}

func (c *Collection[T]) Name() string { return c.name }

// Load returns the full collection, initializing the file with the seed when
// absent. Malformed content fails with CorruptionError and is never coerced
// to an empty collection.
func (c *Collection[T]) Load() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked()
}

// Save overwrites the entire stored collection.
func (c *Collection[T]) Save(records []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLocked(records)
}

// Update applies the mutator under exclusive access and persists the result.
// When the mutator returns an error, nothing is written and the error passes
// through unchanged. The persisted records are returned on success.
func (c *Collection[T]) Update(fn func([]T) ([]T, error)) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.loadLocked()
	if err != nil {
		return nil, err
	}
	updated, err := fn(records)
	if err != nil {
		return nil, err
	}
	if err := c.saveLocked(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdatePair applies one mutator across two collections and commits both
// writes together. Locks are taken in argument order; every caller touching
// the same pair must pass them in the same order. Both files are fully
// staged before either rename, so an I/O fault aborts the whole transaction.
// The first collection is renamed first: the ticket ledger passes routes
// first, so a crash between the renames can only lose a ticket whose seat
// was already decremented, never persist a ticket without its decrement.
func UpdatePair[A Record, B Record](a *Collection[A], b *Collection[B], fn func([]A, []B) ([]A, []B, error)) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	b.mu.Lock()
	defer b.mu.Unlock()

	aRecords, err := a.loadLocked()
	if err != nil {
		return err
	}
	bRecords, err := b.loadLocked()
	if err != nil {
		return err
	}

	aUpdated, bUpdated, err := fn(aRecords, bRecords)
	if err != nil {
		return err
	}

	aTmp, err := a.stageLocked(aUpdated)
	if err != nil {
		return err
	}
	bTmp, err := b.stageLocked(bUpdated)
	if err != nil {
		os.Remove(aTmp)
		return err
	}
	if err := os.Rename(aTmp, a.path); err != nil {
		os.Remove(aTmp)
		os.Remove(bTmp)
		return models.StorageError{Op: "commit", Path: a.path, Err: err}
	}
	if err := os.Rename(bTmp, b.path); err != nil {
		os.Remove(bTmp)
		return models.StorageError{Op: "commit", Path: b.path, Err: err}
	}
	return nil
}

// NextID derives the next unique id: 1 for an empty collection, otherwise
// max(existing)+1. If the highest-numbered record is deleted its id can be
// reissued; that is a documented property of the allocator, not a bug.
func NextID[T Record](records []T) int {
	maxID := 0
	for _, r := range records {
		if r.RecordID() > maxID {
			maxID = r.RecordID()
		}
	}
	return maxID + 1
}

func (c *Collection[T]) loadLocked() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			seed := append([]T(nil), c.seed...)
			if err := c.saveLocked(seed); err != nil {
				return nil, err
			}
			return seed, nil
		}
		return nil, models.StorageError{Op: "read", Path: c.path, Err: err}
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, models.CorruptionError{Path: c.path, Err: err}
	}
	return records, nil
}

func (c *Collection[T]) saveLocked(records []T) error {
	tmp, err := c.stageLocked(records)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return models.StorageError{Op: "commit", Path: c.path, Err: err}
	}
	return nil
}

// stageLocked writes the encoded collection to a temp file in the data
// directory and returns its path. The caller renames it into place.
func (c *Collection[T]) stageLocked(records []T) (string, error) {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", models.StorageError{Op: "encode", Path: c.path, Err: err}
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", models.StorageError{Op: "mkdir", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, c.name+"-*.tmp")
	if err != nil {
		return "", models.StorageError{Op: "stage", Path: c.path, Err: err}
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", models.StorageError{Op: "write", Path: c.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", models.StorageError{Op: "write", Path: c.path, Err: err}
	}
	return tmp.Name(), nil
}
