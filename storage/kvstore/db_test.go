package kvstore

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mkele/darasa/core"
)

func openDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(&core.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	return db
}

func Test_db_readMissingCollection(t *testing.T) {
	db := openDB(t)

	var rows []userRow
	if err := db.read(usersKey, &rows); err != nil {
		t.Fatalf("read() error = %v, want nil", err)
	}
	if len(rows) != 0 {
		t.Errorf("read() rows = %v, want empty", rows)
	}
}

func Test_db_writeRead(t *testing.T) {
	db := openDB(t)

	want := []userRow{
		{ID: "teacher-1", Email: "t@test.cd", Name: "Teach", Role: "teacher"},
		{ID: "student-1", Email: "s@test.cd", Name: "Stud", Role: "student"},
	}
	if err := db.write(usersKey, want); err != nil {
		t.Fatalf("write() failed: %v", err)
	}

	var got []userRow
	if err := db.read(usersKey, &got); err != nil {
		t.Fatalf("read() failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("read() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !reflect.DeepEqual(got[i], want[i]) {
			t.Errorf("read() rows[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func Test_db_writeReplacesWholeCollection(t *testing.T) {
	db := openDB(t)

	if err := db.write(coursesKey, []courseRow{{ID: "course-1"}, {ID: "course-2"}}); err != nil {
		t.Fatalf("write() failed: %v", err)
	}
	if err := db.write(coursesKey, []courseRow{{ID: "course-3"}}); err != nil {
		t.Fatalf("write() failed: %v", err)
	}

	var got []courseRow
	if err := db.read(coursesKey, &got); err != nil {
		t.Fatalf("read() failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "course-3" {
		t.Errorf("read() rows = %+v, want only course-3", got)
	}

	// no temp files may survive a successful write
	leftovers, err := filepath.Glob(filepath.Join(db.dir, "*.tmp"))
	if err != nil {
		t.Fatalf("Glob() failed: %v", err)
	}
	if len(leftovers) != 0 {
		t.Errorf("write() left temp files behind: %v", leftovers)
	}
}

func Test_db_Reset(t *testing.T) {
	db := openDB(t)

	if err := db.write(usersKey, []userRow{{ID: "student-1"}}); err != nil {
		t.Fatalf("write() failed: %v", err)
	}
	if err := db.Reset(); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}

	for _, key := range collectionKeys {
		if db.exists(key) {
			t.Errorf("Reset() left %s behind", key)
		}
	}
	if _, err := os.Stat(db.path(usersKey)); !os.IsNotExist(err) {
		t.Errorf("os.Stat() error = %v, want not-exist", err)
	}
}
