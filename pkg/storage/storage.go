package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/nasbench/pkg/nasbench"
)

// ErrNotFound is returned when no record is stored under a module hash
var ErrNotFound = errors.New("storage: record not found")

// Entry is the stored form of a record
type Entry struct {
	ImportID ksuid.KSUID         `json:"import_id"` // Import run that last wrote the record
	Record   *nasbench.RawRecord `json:"record"`
}

// Archive keeps decoded records in pebble, keyed by the 16 big-endian bytes
// of their module hash. Writing a hash again replaces the earlier entry.
type Archive struct {
	db *pebble.DB
}

// NewArchive opens or creates an archive in dir
func NewArchive(dir string) (*Archive, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return &Archive{db: db}, nil
}

// NewImportID returns a fresh id for one import run
func NewImportID() ksuid.KSUID {
	return ksuid.New()
}

// Put stores one record
func (a *Archive) Put(importID ksuid.KSUID, record *nasbench.RawRecord) error {
	key, value, err := encodeEntry(importID, record)
	if err != nil {
		return err
	}
	return a.db.Set(key, value, pebble.NoSync)
}

// PutBatch stores records atomically and syncs them to disk
func (a *Archive) PutBatch(importID ksuid.KSUID, records []*nasbench.RawRecord) error {
	b := a.db.NewBatch()
	defer b.Close()

	for _, record := range records {
		key, value, err := encodeEntry(importID, record)
		if err != nil {
			return err
		}
		if err := b.Set(key, value, nil); err != nil {
			return err
		}
	}
	return b.Commit(pebble.Sync)
}

// Get returns the entry stored for hash
func (a *Archive) Get(hash nasbench.ModuleHash) (*Entry, error) {
	key := hash.Bytes()
	data, closer, err := a.db.Get(key[:])
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, hash)
		}
		return nil, err
	}
	defer closer.Close()

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode entry %s: %w", hash, err)
	}
	return &entry, nil
}

// Count returns the number of stored records
func (a *Archive) Count() (int, error) {
	iter, err := a.db.NewIter(nil)
	if err != nil {
		return 0, err
	}

	n := 0
	for iter.First(); iter.Valid(); iter.Next() {
		n++
	}
	if err := iter.Close(); err != nil {
		return 0, err
	}
	return n, nil
}

// Close flushes and closes the archive
func (a *Archive) Close() error {
	return a.db.Close()
}

func encodeEntry(importID ksuid.KSUID, record *nasbench.RawRecord) ([]byte, []byte, error) {
	if record == nil {
		return nil, nil, errors.New("storage: nil record")
	}
	value, err := json.Marshal(Entry{ImportID: importID, Record: record})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode record %s: %w", record.ModuleHash, err)
	}
	key := record.ModuleHash.Bytes()
	return key[:], value, nil
}
