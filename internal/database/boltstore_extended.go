// internal/database/boltstore_extended.go - Maintenance operations for the BoltDB store
package database

import (
    "context"
    "fmt"
    "os"
    "time"

    "github.com/sirupsen/logrus"
    "go.etcd.io/bbolt"
)

// Stats returns record counts per kind and the size of the database file.
func (s *BoltStore) Stats(ctx context.Context) (*StoreStats, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    if s.db == nil {
        return nil, ErrStoreClosed
    }

    stats := &StoreStats{
        Records:   make(map[Kind]int, len(Kinds)),
        CheckedAt: time.Now().UTC(),
    }

    err := s.db.View(func(tx *bbolt.Tx) error {
        for _, kind := range Kinds {
            if b := tx.Bucket([]byte(kind)); b != nil {
                stats.Records[kind] = b.Stats().KeyN
            }
        }
        return nil
    })
    if err != nil {
        return nil, fmt.Errorf("failed to get database stats: %w", err)
    }

    if fileInfo, err := os.Stat(s.path); err == nil {
        stats.DatabaseSize = fileInfo.Size()
    }

    return stats, nil
}

// Compact rewrites the database into a fresh file and swaps it in place.
func (s *BoltStore) Compact(ctx context.Context) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    if s.db == nil {
        return ErrStoreClosed
    }

    logrus.Info("Starting database compaction")

    tmpPath := s.path + ".compact.tmp"

    newDB, err := bbolt.Open(tmpPath, 0600, &bbolt.Options{Timeout: s.timeout})
    if err != nil {
        return fmt.Errorf("failed to create compact database: %w", err)
    }
    closed := false
    defer func() {
        if !closed {
            newDB.Close()
            os.Remove(tmpPath)
        }
    }()

    if err := initBuckets(newDB); err != nil {
        return fmt.Errorf("failed to initialize compact database: %w", err)
    }

    copied := 0
    err = s.db.View(func(oldTx *bbolt.Tx) error {
        return newDB.Update(func(newTx *bbolt.Tx) error {
            for _, name := range bucketNames() {
                oldBucket := oldTx.Bucket(name)
                newBucket := newTx.Bucket(name)
                if oldBucket == nil {
                    continue
                }

                cursor := oldBucket.Cursor()
                for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
                    if err := ctx.Err(); err != nil {
                        return err
                    }
                    if err := newBucket.Put(copyBytes(k), copyBytes(v)); err != nil {
                        return fmt.Errorf("failed to copy data: %w", err)
                    }
                    copied++
                }
            }
            return nil
        })
    })
    if err != nil {
        return fmt.Errorf("failed to copy data to compact database: %w", err)
    }

    closed = true
    newDB.Close()
    s.db.Close()
    s.db = nil

    // Whatever happens below, s.db is either a working handle or nil, and
    // a nil handle makes every operation return ErrStoreClosed.
    if err := os.Rename(tmpPath, s.path); err != nil {
        os.Remove(tmpPath)
        if reopenErr := s.reopen(); reopenErr != nil {
            return fmt.Errorf("failed to replace database: %w (reopen: %v)", err, reopenErr)
        }
        return fmt.Errorf("failed to replace database: %w", err)
    }

    if err := s.reopen(); err != nil {
        return fmt.Errorf("failed to reopen compacted database: %w", err)
    }

    logrus.WithField("records", copied).Info("Database compaction completed")
    return nil
}

// reopen opens s.path into s.db. The caller holds the write lock.
func (s *BoltStore) reopen() error {
    db, err := bbolt.Open(s.path, 0600, &bbolt.Options{Timeout: s.timeout})
    if err != nil {
        logrus.WithError(err).WithField("path", s.path).Error("Database unavailable after compaction")
        return err
    }
    s.db = db
    return nil
}

// copyBytes creates a copy of a byte slice
func copyBytes(b []byte) []byte {
    if b == nil {
        return nil
    }
    copied := make([]byte, len(b))
    copy(copied, b)
    return copied
}
