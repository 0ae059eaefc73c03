package store

import (
	"encoding/binary"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
)

var (
	bucketSnapshot = []byte("snapshot")
	bucketMeta     = []byte("meta")
	keyCurrent     = []byte("current")
	keyEpoch       = []byte("epoch")
)

// Snapshot describes the persisted search segment and the corpus it was
// built from.
type Snapshot struct {
	SegmentID   string    `json:"segment"`
	Fingerprint string    `json:"fingerprint"`
	NumRecords  uint64    `json:"records"`
	BuiltAt     time.Time `json:"built_at"`
}

// Metadata provides persistent storage for snapshot metadata using BoltDB.
type Metadata struct {
	db *bolt.DB
}

// NewMetadata opens or creates a metadata store.
func NewMetadata(dir string) (*Metadata, error) {
	dbPath := filepath.Join(dir, "meta.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	// Initialize buckets
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketSnapshot, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Metadata{db: db}, nil
}

// Current returns the active snapshot, if one was recorded.
func (m *Metadata) Current() (Snapshot, bool, error) {
	var snap Snapshot
	var found bool
	err := m.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketSnapshot).Get(keyCurrent)
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &snap)
	})
	return snap, found, err
}

// GetEpoch returns the number of snapshots committed so far.
func (m *Metadata) GetEpoch() (uint64, error) {
	var epoch uint64
	err := m.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keyEpoch)
		if data != nil {
			epoch = binary.BigEndian.Uint64(data)
		}
		return nil
	})
	return epoch, err
}

func (m *Metadata) Close() error {
	return m.db.Close()
}

// Update runs fn within a write transaction.
func (m *Metadata) Update(fn func(*Tx) error) error {
	return m.db.Update(func(tx *bolt.Tx) error {
		return fn(&Tx{tx: tx})
	})
}

// Tx provides write operations within a transaction.
type Tx struct {
	tx *bolt.Tx
}

// SetCurrent records snap as the active snapshot and returns the one it
// replaces.
func (t *Tx) SetCurrent(snap Snapshot) (prev Snapshot, replaced bool, err error) {
	b := t.tx.Bucket(bucketSnapshot)
	if data := b.Get(keyCurrent); data != nil {
		if err := json.Unmarshal(data, &prev); err != nil {
			return prev, false, err
		}
		replaced = true
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return prev, replaced, err
	}
	return prev, replaced, b.Put(keyCurrent, data)
}

// ClearCurrent forgets the active snapshot.
func (t *Tx) ClearCurrent() error {
	return t.tx.Bucket(bucketSnapshot).Delete(keyCurrent)
}

// IncrementEpoch increments and returns the epoch.
func (t *Tx) IncrementEpoch() (uint64, error) {
	b := t.tx.Bucket(bucketMeta)
	var epoch uint64
	data := b.Get(keyEpoch)
	if data != nil {
		epoch = binary.BigEndian.Uint64(data)
	}
	epoch++
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, epoch)
	return epoch, b.Put(keyEpoch, buf)
}
