// internal/database/boltstore.go - BoltDB record store
package database

import (
    "context"
    "fmt"
    "os"
    "path/filepath"
    "sort"
    "sync"
    "time"

    "github.com/google/uuid"
    jsoniter "github.com/json-iterator/go"
    "go.etcd.io/bbolt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var MetaBucket = []byte("meta")

type BoltStore struct {
    mu      sync.RWMutex
    db      *bbolt.DB
    path    string
    timeout time.Duration
}

func NewBoltStore(path string, openTimeout time.Duration) (*BoltStore, error) {
    if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
        return nil, fmt.Errorf("failed to create data directory: %w", err)
    }
    if openTimeout <= 0 {
        openTimeout = time.Second
    }

    db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: openTimeout})
    if err != nil {
        return nil, fmt.Errorf("failed to open BoltDB: %w", err)
    }

    store := &BoltStore{db: db, path: path, timeout: openTimeout}

    if err := initBuckets(db); err != nil {
        db.Close()
        return nil, fmt.Errorf("failed to initialize buckets: %w", err)
    }

    return store, nil
}

func bucketNames() [][]byte {
    names := make([][]byte, 0, len(Kinds)+1)
    for _, kind := range Kinds {
        names = append(names, []byte(kind))
    }
    return append(names, MetaBucket)
}

func initBuckets(db *bbolt.DB) error {
    return db.Update(func(tx *bbolt.Tx) error {
        for _, bucket := range bucketNames() {
            if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
                return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
            }
        }
        return nil
    })
}

func bucketFor(tx *bbolt.Tx, kind Kind) (*bbolt.Bucket, error) {
    b := tx.Bucket([]byte(kind))
    if b == nil {
        return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
    }
    return b, nil
}

func (s *BoltStore) List(ctx context.Context, kind Kind, q Query) ([]Record, error) {
    if err := ctx.Err(); err != nil {
        return nil, err
    }
    s.mu.RLock()
    defer s.mu.RUnlock()
    if s.db == nil {
        return nil, ErrStoreClosed
    }

    records := []Record{}
    // Without an ordering the first matches in key order are the answer, so
    // a capped read stops as soon as it has them.
    capped := q.Limit > 0 && q.OrderBy == ""
    err := s.db.View(func(tx *bbolt.Tx) error {
        b, err := bucketFor(tx, kind)
        if err != nil {
            return err
        }
        c := b.Cursor()
        for k, v := c.First(); k != nil; k, v = c.Next() {
            var rec Record
            if err := json.Unmarshal(v, &rec); err != nil {
                continue // Skip malformed entries
            }
            if !matches(rec, q.Where) {
                continue
            }
            records = append(records, rec)
            if capped && len(records) >= q.Limit {
                break
            }
        }
        return nil
    })
    if err != nil {
        return nil, err
    }

    if q.OrderBy != "" {
        sort.SliceStable(records, func(i, j int) bool {
            if q.Desc {
                return less(records[j][q.OrderBy], records[i][q.OrderBy])
            }
            return less(records[i][q.OrderBy], records[j][q.OrderBy])
        })
    }
    if q.Limit > 0 && len(records) > q.Limit {
        records = records[:q.Limit]
    }

    return records, nil
}

func (s *BoltStore) Create(ctx context.Context, kind Kind, rec Record) (Record, error) {
    if err := ctx.Err(); err != nil {
        return nil, err
    }
    s.mu.RLock()
    defer s.mu.RUnlock()
    if s.db == nil {
        return nil, ErrStoreClosed
    }

    out := make(Record, len(rec)+1)
    for k, v := range rec {
        out[k] = v
    }
    id := out.String("id")
    if id == "" {
        id = uuid.New().String()
        out["id"] = id
    }

    err := s.db.Update(func(tx *bbolt.Tx) error {
        b, err := bucketFor(tx, kind)
        if err != nil {
            return err
        }
        if b.Get([]byte(id)) != nil {
            return fmt.Errorf("%s record %s already exists", kind, id)
        }
        data, err := json.Marshal(out)
        if err != nil {
            return fmt.Errorf("failed to marshal record: %w", err)
        }
        return b.Put([]byte(id), data)
    })
    if err != nil {
        return nil, err
    }
    return out, nil
}

func (s *BoltStore) Update(ctx context.Context, kind Kind, id string, patch Record) (Record, error) {
    if err := ctx.Err(); err != nil {
        return nil, err
    }
    s.mu.RLock()
    defer s.mu.RUnlock()
    if s.db == nil {
        return nil, ErrStoreClosed
    }

    var merged Record
    err := s.db.Update(func(tx *bbolt.Tx) error {
        b, err := bucketFor(tx, kind)
        if err != nil {
            return err
        }
        v := b.Get([]byte(id))
        if v == nil {
            return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
        }
        if err := json.Unmarshal(v, &merged); err != nil {
            return fmt.Errorf("failed to unmarshal record %s: %w", id, err)
        }
        for k, val := range patch {
            if k == "id" {
                continue
            }
            merged[k] = val
        }
        data, err := json.Marshal(merged)
        if err != nil {
            return fmt.Errorf("failed to marshal record: %w", err)
        }
        return b.Put([]byte(id), data)
    })
    if err != nil {
        return nil, err
    }
    return merged, nil
}

func (s *BoltStore) Delete(ctx context.Context, kind Kind, id string) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    s.mu.RLock()
    defer s.mu.RUnlock()
    if s.db == nil {
        return ErrStoreClosed
    }

    return s.db.Update(func(tx *bbolt.Tx) error {
        b, err := bucketFor(tx, kind)
        if err != nil {
            return err
        }
        return b.Delete([]byte(id))
    })
}

func (s *BoltStore) Close() error {
    s.mu.Lock()
    defer s.mu.Unlock()
    if s.db == nil {
        return nil
    }
    err := s.db.Close()
    s.db = nil
    return err
}

func matches(rec Record, where map[string]interface{}) bool {
    for key, want := range where {
        got, ok := rec[key]
        if !ok {
            return false
        }
        if fmt.Sprint(got) != fmt.Sprint(want) {
            return false
        }
    }
    return true
}

// less orders numbers numerically and everything else by its text form.
// Missing values sort first.
func less(a, b interface{}) bool {
    if a == nil {
        return b != nil
    }
    if b == nil {
        return false
    }
    af, aok := a.(float64)
    bf, bok := b.(float64)
    if aok && bok {
        return af < bf
    }
    return fmt.Sprint(a) < fmt.Sprint(b)
}
