// Package store persists conversation sessions in a bbolt database.
// Each session's branch tree is stored as one state record alongside a
// BLAKE3 digest of the encoded bytes, verified on load.
package store

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"
	"lukechampine.com/blake3"

	"github.com/grove-cli/grove/internal/branch"
)

// Buckets
var (
	BucketSessions = []byte("sessions") // session id -> session metadata (json)
	BucketTrees    = []byte("trees")    // session id -> tree state (json)
	BucketDigests  = []byte("digests")  // session id -> blake3 hex of tree state bytes
	BucketConfig   = []byte("config")   // store-level configuration
)

// ErrNotFound is returned when a key has no record in its bucket.
var ErrNotFound = errors.New("not found")

// ErrCorrupt is returned when a stored tree fails digest verification.
var ErrCorrupt = errors.New("tree state digest mismatch")

type DB struct{ *bbolt.DB }

func Open(path string) (*DB, error) {
	db, err := bbolt.Open(path, 0666, nil)
	if err != nil {
		return nil, err
	}
	// Ensure buckets exist
	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{BucketSessions, BucketTrees, BucketDigests, BucketConfig} {
			if _, e := tx.CreateBucketIfNotExists(b); e != nil {
				return e
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{db}, nil
}

func (db *DB) Close() error { return db.DB.Close() }

// PutTree stores a session's tree state and its digest.
func (db *DB) PutTree(id string, st branch.TreeState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode tree state: %w", err)
	}
	sum := blake3.Sum256(data)
	digest := hex.EncodeToString(sum[:])

	return db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(BucketTrees).Put([]byte(id), data); err != nil {
			return err
		}
		return tx.Bucket(BucketDigests).Put([]byte(id), []byte(digest))
	})
}

// GetTree loads a session's tree state, verifying the stored digest
// before decoding.
func (db *DB) GetTree(id string) (branch.TreeState, error) {
	var st branch.TreeState
	err := db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(BucketTrees).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("tree %s: %w", id, ErrNotFound)
		}
		if want := tx.Bucket(BucketDigests).Get([]byte(id)); want != nil {
			sum := blake3.Sum256(data)
			if hex.EncodeToString(sum[:]) != string(want) {
				return fmt.Errorf("tree %s: %w", id, ErrCorrupt)
			}
		}
		return json.Unmarshal(data, &st)
	})
	return st, err
}

// PutMeta stores a session's metadata record. The caller owns the
// encoding; the store treats it as opaque bytes.
func (db *DB) PutMeta(id string, data []byte) error {
	return db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(BucketSessions).Put([]byte(id), data)
	})
}

// GetMeta retrieves a session's metadata record.
func (db *DB) GetMeta(id string) ([]byte, error) {
	var out []byte
	err := db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(BucketSessions).Get([]byte(id))
		if v == nil {
			return fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

// ForEachMeta visits every session metadata record.
func (db *DB) ForEachMeta(fn func(id string, data []byte) error) error {
	return db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(BucketSessions).ForEach(func(k, v []byte) error {
			return fn(string(k), append([]byte(nil), v...))
		})
	})
}

// DeleteSession removes a session's metadata, tree and digest.
func (db *DB) DeleteSession(id string) error {
	return db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(BucketSessions).Delete([]byte(id)); err != nil {
			return err
		}
		if err := tx.Bucket(BucketTrees).Delete([]byte(id)); err != nil {
			return err
		}
		return tx.Bucket(BucketDigests).Delete([]byte(id))
	})
}

// PutConfig stores a configuration key-value pair.
func (db *DB) PutConfig(key, value string) error {
	return db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(BucketConfig).Put([]byte(key), []byte(value))
	})
}

// GetConfig retrieves a configuration value by key.
func (db *DB) GetConfig(key string) (string, error) {
	var value string
	err := db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(BucketConfig).Get([]byte(key))
		if v == nil {
			return fmt.Errorf("config %s: %w", key, ErrNotFound)
		}
		value = string(v)
		return nil
	})
	return value, err
}

// RemoveConfig removes a configuration key-value pair.
func (db *DB) RemoveConfig(key string) error {
	return db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(BucketConfig).Delete([]byte(key))
	})
}
