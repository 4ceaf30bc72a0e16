package store

import (
	"crypto/sha256"
	"errors"

	bolt "go.etcd.io/bbolt"
)

// ErrNoCachedHTML is returned by (*Store).GetHTML when the source has no
// cached rendering.
var ErrNoCachedHTML = errors.New("no cached html")

func init() {
	initDB["initialize html table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketHTML))
		return err
	}
}

// GetHTML returns the cached rendering of the given markdown source.
func (s *Store) GetHTML(markdown string) (string, error) {
	var html string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketHTML))
		v := b.Get(sourceKey(markdown))
		if v == nil {
			return ErrNoCachedHTML
		}
		html = string(v)
		return nil
	})
	return html, err
}

// PutHTML caches the rendering of the given markdown source.
func (s *Store) PutHTML(markdown, html string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketHTML))
		return b.Put(sourceKey(markdown), []byte(html))
	})
}

// sourceKey derives the fixed-size cache key for a piece of markdown
// source.
func sourceKey(markdown string) []byte {
	sum := sha256.Sum256([]byte(markdown))
	return sum[:]
}
