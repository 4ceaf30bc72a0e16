// Package store caches rendered HTML between runs, keyed by a digest of
// the markdown source.
package store

import (
	"fmt"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Initialization steps keyed by description, run inside the opening
// transaction. Files register their steps in init functions.
var initDB = map[string]func(tx *bolt.Tx) error{}

// schemaVersion identifies the cache layout. A cache written with a
// different layout is discarded when opened.
var schemaVersion = 1

const (
	bucketMeta = "meta"
	bucketHTML = "html"

	keySchemaVersion = "schema-version"
)

// Store is a persistent cache of rendered documents.
type Store struct {
	db *bolt.DB
}

// Open opens the cache database at path, creating it if needed. The
// database is locked by the opening process; Open fails after a timeout
// when another process holds the lock.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if err := resetOutdated(tx); err != nil {
			return err
		}
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				return fmt.Errorf("failed to %s: %v", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db}, nil
}

// Close closes the database, after waiting for any pending writes.
func (s *Store) Close() error {
	return s.db.Close()
}

func init() {
	initDB["record schema version"] = func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucketMeta))
		if err != nil {
			return err
		}
		if b.Get([]byte(keySchemaVersion)) == nil {
			return b.Put([]byte(keySchemaVersion), []byte(strconv.Itoa(schemaVersion)))
		}
		return nil
	}
}

// resetOutdated drops every bucket when the database was written by a
// different schema version. The meta bucket is recreated with the current
// version by the initialization steps that follow.
func resetOutdated(tx *bolt.Tx) error {
	b := tx.Bucket([]byte(bucketMeta))
	if b == nil {
		return nil
	}
	if v := b.Get([]byte(keySchemaVersion)); v != nil && string(v) == strconv.Itoa(schemaVersion) {
		return nil
	}
	var names [][]byte
	err := tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
		names = append(names, append([]byte(nil), name...))
		return nil
	})
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := tx.DeleteBucket(name); err != nil {
			return err
		}
	}
	return nil
}
