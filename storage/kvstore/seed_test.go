package kvstore

import (
	"bytes"
	"os"
	"testing"
)

func Test_db_EnsureSeeded(t *testing.T) {
	db := openDB(t)

	if err := db.EnsureSeeded(); err != nil {
		t.Fatalf("EnsureSeeded() failed: %v", err)
	}
	for _, key := range collectionKeys {
		if !db.exists(key) {
			t.Errorf("EnsureSeeded() did not create %s", key)
		}
	}

	// the demo accounts must be able to log in
	repo := NewUserRepository(db)
	for _, email := range []string{DemoTeacherEmail, DemoStudentEmail} {
		usr, err := repo.GetUserByEmail(email)
		if err != nil {
			t.Fatalf("GetUserByEmail(%s) failed: %v", email, err)
		}
		if err = usr.CheckPassword(DemoPassword); err != nil {
			t.Errorf("CheckPassword() failed for %s: %v", email, err)
		}
	}
}

func Test_db_EnsureSeeded_idempotent(t *testing.T) {
	db := openDB(t)

	if err := db.EnsureSeeded(); err != nil {
		t.Fatalf("EnsureSeeded() failed: %v", err)
	}

	before := make(map[string][]byte, len(collectionKeys))
	for _, key := range collectionKeys {
		b, err := os.ReadFile(db.path(key))
		if err != nil {
			t.Fatalf("ReadFile(%s) failed: %v", key, err)
		}
		before[key] = b
	}

	if err := db.EnsureSeeded(); err != nil {
		t.Fatalf("EnsureSeeded() failed: %v", err)
	}
	for _, key := range collectionKeys {
		after, err := os.ReadFile(db.path(key))
		if err != nil {
			t.Fatalf("ReadFile(%s) failed: %v", key, err)
		}
		if !bytes.Equal(before[key], after) {
			t.Errorf("EnsureSeeded() modified %s on second run", key)
		}
	}
}

func Test_db_EnsureSeeded_keepsExistingCollections(t *testing.T) {
	db := openDB(t)

	existing := []userRow{{ID: "teacher-42", Email: "t42@test.cd", Name: "T42", Role: "teacher"}}
	if err := db.write(usersKey, existing); err != nil {
		t.Fatalf("write() failed: %v", err)
	}

	if err := db.EnsureSeeded(); err != nil {
		t.Fatalf("EnsureSeeded() failed: %v", err)
	}

	// the pre-existing collection is untouched, absent ones are seeded
	var users []userRow
	if err := db.read(usersKey, &users); err != nil {
		t.Fatalf("read() failed: %v", err)
	}
	if len(users) != 1 || users[0].ID != "teacher-42" {
		t.Errorf("EnsureSeeded() overwrote users: %+v", users)
	}
	var courses []courseRow
	if err := db.read(coursesKey, &courses); err != nil {
		t.Fatalf("read() failed: %v", err)
	}
	if len(courses) == 0 {
		t.Error("EnsureSeeded() did not seed courses")
	}
}

func Test_db_Reset_allowsReseeding(t *testing.T) {
	db := openDB(t)

	if err := db.EnsureSeeded(); err != nil {
		t.Fatalf("EnsureSeeded() failed: %v", err)
	}
	if err := db.Reset(); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	if err := db.EnsureSeeded(); err != nil {
		t.Fatalf("EnsureSeeded() failed: %v", err)
	}
	for _, key := range collectionKeys {
		if !db.exists(key) {
			t.Errorf("EnsureSeeded() did not recreate %s after Reset()", key)
		}
	}
}

func Test_db_EnsureSeeded_latchesError(t *testing.T) {
	db := openDB(t)

	// removing the data dir makes the temp-file creation fail
	if err := os.RemoveAll(db.dir); err != nil {
		t.Fatalf("RemoveAll() failed: %v", err)
	}

	first := db.EnsureSeeded()
	if first == nil {
		t.Fatal("EnsureSeeded() error = nil, want seed failure")
	}

	// a failed seed must not report success later
	if second := db.EnsureSeeded(); second != first {
		t.Errorf("EnsureSeeded() error = %v, want %v", second, first)
	}
}
