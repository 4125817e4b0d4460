// Package kvstore persists each collection as a single serialized JSON blob
// under a fixed key, the way the browser build keeps them in local storage,
// and emulates the remote backend's query/insert/update semantics and
// relational joins on top of that medium.
//
// Every operation is one uninterrupted read-whole-collection, mutate-a-copy,
// write-whole-collection round trip. An RWMutex serializes calls within the
// process; concurrent writers from other processes are last-writer-wins.
package kvstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/mkele/darasa/core"
)

// collection keys, fixed names in the persistence medium
const (
	usersKey       = "lms_users"
	coursesKey     = "lms_courses"
	assignmentsKey = "lms_assignments"
	submissionsKey = "lms_submissions"
	enrollmentsKey = "lms_enrollments"
)

var collectionKeys = []string{usersKey, coursesKey, assignmentsKey, submissionsKey, enrollmentsKey}

type DB struct {
	mu  sync.RWMutex
	dir string

	seedOnce sync.Once
	seedErr  error
}

func Open(conf *core.Config) (*DB, error) {
	if err := os.MkdirAll(conf.DataDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating data dir")
	}
	return &DB{dir: conf.DataDir}, nil
}

func (db *DB) path(key string) string {
	return filepath.Join(db.dir, key+".json")
}

// read loads the collection stored under key into dest.
// A collection that was never written is an empty collection, not an error.
func (db *DB) read(key string, dest interface{}) error {
	b, err := os.ReadFile(db.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "reading "+key)
	}
	if len(b) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(b, dest), "decoding "+key)
}

// write atomically replaces the whole collection stored under key.
func (db *DB) write(key string, records interface{}) error {
	b, err := json.Marshal(records)
	if err != nil {
		return errors.Wrap(err, "encoding "+key)
	}

	// write to a temp file first so readers never see a partial blob
	tmp, err := os.CreateTemp(db.dir, key+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file for "+key)
	}
	if _, err = tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "writing "+key)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "closing "+key)
	}
	return errors.Wrap(os.Rename(tmp.Name(), db.path(key)), "replacing "+key)
}

func (db *DB) exists(key string) bool {
	_, err := os.Stat(db.path(key))
	return err == nil
}

// Reset drops all collections. Test & admin tooling only.
func (db *DB) Reset() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, key := range collectionKeys {
		if err := os.Remove(db.path(key)); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "removing "+key)
		}
	}
	db.seedOnce = sync.Once{}
	db.seedErr = nil
	return nil
}

// userNames builds an id -> name index of the users collection for read-time
// denormalization. Callers must hold the lock.
func (db *DB) userNames() (map[string]string, error) {
	var rows []userRow
	if err := db.read(usersKey, &rows); err != nil {
		return nil, err
	}
	names := make(map[string]string, len(rows))
	for _, r := range rows {
		names[r.ID] = r.Name
	}
	return names, nil
}
