package index

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"harshagw/qanun/internal/segment"
	"harshagw/qanun/internal/store"
)

// Save persists the index under dir, tagged with the corpus fingerprint.
// The previous snapshot's segment is removed once the new one is committed.
func (idx *Index) Save(dir, fingerprint string) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return ErrClosed
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	meta, err := store.NewMetadata(dir)
	if err != nil {
		return fmt.Errorf("failed to open metadata store: %w", err)
	}
	defer meta.Close()

	currentEpoch, err := meta.GetEpoch()
	if err != nil {
		return err
	}
	segmentID := fmt.Sprintf("%012d", currentEpoch+1)

	segPath, err := segment.WriteFile(dir, segmentID, idx.seg.Data())
	if err != nil {
		return err
	}

	var prev store.Snapshot
	var replaced bool
	err = meta.Update(func(tx *store.Tx) error {
		if _, err := tx.IncrementEpoch(); err != nil {
			return err
		}
		prev, replaced, err = tx.SetCurrent(store.Snapshot{
			SegmentID:   segmentID,
			Fingerprint: fingerprint,
			NumRecords:  uint64(len(idx.records)),
			BuiltAt:     time.Now().UTC(),
		})
		return err
	})
	if err != nil {
		os.Remove(segPath)
		return err
	}

	if replaced && prev.SegmentID != segmentID {
		os.Remove(filepath.Join(dir, prev.SegmentID+".seg"))
	}
	return nil
}

// Open loads the snapshot stored under dir. found is false when no snapshot
// exists or it was built from a different fingerprint.
func Open(dir, fingerprint string, config Config) (idx *Index, found bool, err error) {
	if _, err := os.Stat(filepath.Join(dir, "meta.db")); os.IsNotExist(err) {
		return nil, false, nil
	}
	meta, err := store.NewMetadata(dir)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open metadata store: %w", err)
	}
	snap, ok, err := meta.Current()
	meta.Close()
	if err != nil || !ok || snap.Fingerprint != fingerprint {
		return nil, false, err
	}

	seg, err := segment.Open(filepath.Join(dir, snap.SegmentID+".seg"), snap.SegmentID)
	if err != nil {
		return nil, false, err
	}
	records, err := seg.Records()
	if err != nil {
		seg.Close()
		return nil, false, err
	}
	return newIndex(seg, records, config.withDefaults()), true, nil
}
