package testutil

import (
	"net/mail"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mkele/darasa/core"
	"github.com/mkele/darasa/core/assignment"
	"github.com/mkele/darasa/core/course"
	"github.com/mkele/darasa/core/user"
	"github.com/mkele/darasa/storage/kvstore"
)

// NewConfig returns a Config suitable for tests.
// The store medium lives in a fresh per-test temp dir.
func NewConfig(t *testing.T) *core.Config {
	t.Helper()
	return &core.Config{
		Debug:            false,
		TestMode:         true,
		Env:              "TEST",
		AppName:          "Darasa",
		SecretKey:        "s3cr3t",
		DefaultFromEmail: mail.Address{Name: "Darasa", Address: "noreply@test.cd"},
		DataDir:          t.TempDir(),
		Server: core.ServerConfig{
			JWTExpirationDelta:        1 * time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
}

// OpenDB opens an empty store in a fresh per-test temp dir.
func OpenDB(t *testing.T) *kvstore.DB {
	t.Helper()
	db, err := kvstore.Open(NewConfig(t))
	if err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	return db
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, role, pwd string,
) user.User {
	t.Helper()
	usr := user.User{
		ID:    role + "-" + uuid.New().String(),
		Email: email,
		Name:  name,
		Role:  role,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateCourse(
	t *testing.T,
	repo course.Repository,
	title, duration, createdBy string,
	createdAt ...time.Time,
) course.Course {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	crs, err := repo.CreateCourse(course.Course{
		ID:          "course-" + uuid.New().String(),
		Title:       title,
		Description: title + " description",
		Duration:    duration,
		CreatedBy:   createdBy,
		CreatedAt:   tstamp,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}

func CreateEnrollment(
	t *testing.T,
	repo course.Repository,
	studentID, courseID string,
) course.Enrollment {
	t.Helper()
	enr, err := repo.CreateEnrollment(course.Enrollment{
		ID:         "enrollment-" + uuid.New().String(),
		StudentID:  studentID,
		CourseID:   courseID,
		EnrolledAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateEnrollment() failed: %v", err)
	}
	return enr
}

func CreateAssignment(
	t *testing.T,
	repo assignment.Repository,
	courseID, title, createdBy string,
	dueDate time.Time,
) assignment.Assignment {
	t.Helper()
	asg, err := repo.CreateAssignment(assignment.Assignment{
		ID:          "assignment-" + uuid.New().String(),
		CourseID:    courseID,
		Title:       title,
		Description: title + " description",
		DueDate:     dueDate.UTC(),
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return asg
}

func CreateSubmission(
	t *testing.T,
	repo assignment.Repository,
	assignmentID, studentID, content string,
) assignment.Submission {
	t.Helper()
	sub, err := repo.CreateSubmission(assignment.Submission{
		ID:           "submission-" + uuid.New().String(),
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Content:      content,
		SubmittedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateSubmission() failed: %v", err)
	}
	return sub
}
