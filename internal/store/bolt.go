package store

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/nstake/nstake/internal/errors"
	"go.etcd.io/bbolt"
)

// bucket is the single bbolt bucket nstake writes to.
var bucket = []byte("nstake")

// openTimeout bounds how long Open waits for the file lock held by another
// nstake process.
const openTimeout = time.Second

// BoltStore implements Store on a bbolt database file.
//
// bbolt serializes write transactions, so overlapping Set calls from
// concurrent fetch completions each replace the value whole; the last
// commit wins.
type BoltStore struct {
	db   *bbolt.DB
	path string
}

// OpenBolt opens or creates the database at path, creating parent
// directories as needed.
func OpenBolt(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore,
			"Can't create the data directory for "+path,
			"Check directory permissions or set store.path in your config")
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore,
			"Can't open the staker database at "+path,
			"Another nstake may be running. Close it, or use --ephemeral.")
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		db.Close() //nolint:errcheck // Already failing
		return nil, errors.WrapWithCode(err, errors.ErrStore,
			"Can't initialize the staker database",
			"Delete "+path+" to start fresh")
	}

	return &BoltStore{db: db, path: path}, nil
}

// Path returns the database file path.
func (b *BoltStore) Path() string {
	return b.path
}

// Get returns the value stored under key.
func (b *BoltStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	var (
		val string
		ok  bool
	)
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucket).Get([]byte(key))
		if v == nil {
			return nil
		}
		// string() copies; bbolt values are only valid inside the transaction
		val, ok = string(v), true
		return nil
	})
	if err != nil {
		return "", false, errors.WrapWithCode(err, errors.ErrStore, "Failed to read "+key, "")
	}
	return val, ok, nil
}

// Set overwrites the value stored under key.
func (b *BoltStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore, "Failed to write "+key, "")
	}
	return nil
}

// Close releases the database file.
func (b *BoltStore) Close() error {
	return b.db.Close()
}
