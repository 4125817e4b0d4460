package kvstore

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/mkele/darasa/core/assignment"
	"github.com/mkele/darasa/core/user"
)

func Test_assignmentRepository_QueryCourseAssignments(t *testing.T) {
	db := openDB(t)
	repo := NewAssignmentRepository(db)

	mkAssignment := func(id, courseID string, due time.Time) {
		if _, err := repo.CreateAssignment(assignment.Assignment{ID: id, CourseID: courseID, Title: id, DueDate: due}); err != nil {
			t.Fatalf("CreateAssignment() failed: %v", err)
		}
	}
	// insertion order deliberately not the due-date order
	mkAssignment("assignment-1", "course-1", time.Date(2024, 12, 30, 23, 59, 0, 0, time.UTC))
	mkAssignment("assignment-2", "course-1", time.Date(2024, 12, 25, 23, 59, 0, 0, time.UTC))
	mkAssignment("assignment-3", "course-2", time.Date(2024, 12, 28, 23, 59, 0, 0, time.UTC))
	mkAssignment("assignment-4", "course-1", time.Date(2024, 12, 28, 23, 59, 0, 0, time.UTC))

	assignments, err := repo.QueryCourseAssignments("course-1")
	if err != nil {
		t.Fatalf("QueryCourseAssignments() failed: %v", err)
	}

	// course-filtered, earliest due date first
	wantOrder := []string{"assignment-2", "assignment-4", "assignment-1"}
	if len(assignments) != len(wantOrder) {
		t.Fatalf("QueryCourseAssignments() len = %d, want %d", len(assignments), len(wantOrder))
	}
	for i, want := range wantOrder {
		if assignments[i].ID != want {
			t.Errorf("QueryCourseAssignments()[%d] = %s, want %s", i, assignments[i].ID, want)
		}
	}
}

func Test_assignmentRepository_GetAssignmentByID(t *testing.T) {
	db := openDB(t)
	repo := NewAssignmentRepository(db)

	if _, err := repo.CreateAssignment(assignment.Assignment{ID: "assignment-1", Title: "JavaScript Calculator"}); err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}

	asg, err := repo.GetAssignmentByID("assignment-1")
	if err != nil {
		t.Fatalf("GetAssignmentByID() failed: %v", err)
	}
	if asg.Title != "JavaScript Calculator" {
		t.Errorf("GetAssignmentByID() Title = %s, want JavaScript Calculator", asg.Title)
	}

	if _, err = repo.GetAssignmentByID("assignment-404"); err != assignment.ErrNotFound {
		t.Errorf("GetAssignmentByID() error = %v, want ErrNotFound", err)
	}
}

func Test_assignmentRepository_submissions(t *testing.T) {
	db := openDB(t)
	repo := NewAssignmentRepository(db)
	usrRepo := NewUserRepository(db)

	student, err := usrRepo.CreateUser(user.User{ID: "student-1", Email: "s@test.cd", Name: "John Smith", Role: user.RoleStudent})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	t.Run("not submitted yet", func(t *testing.T) {
		sub, err := repo.GetStudentSubmission("assignment-1", student.ID)
		if err != nil {
			t.Fatalf("GetStudentSubmission() error = %v, want nil", err)
		}
		if sub != nil {
			t.Errorf("GetStudentSubmission() = %+v, want nil", sub)
		}
	})

	created, err := repo.CreateSubmission(assignment.Submission{
		ID:           "submission-1",
		AssignmentID: "assignment-1",
		StudentID:    student.ID,
		Content:      "done!",
		SubmittedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateSubmission() failed: %v", err)
	}
	if created.StudentName == nil || *created.StudentName != student.Name {
		t.Errorf("CreateSubmission() StudentName = %v, want %s", created.StudentName, student.Name)
	}

	t.Run("duplicate pair rejected", func(t *testing.T) {
		if err := repo.CheckSubmissionUniqueness("assignment-1", student.ID); err != assignment.ErrAlreadySubmitted {
			t.Errorf("CheckSubmissionUniqueness() error = %v, want ErrAlreadySubmitted", err)
		}
		if err := repo.CheckSubmissionUniqueness("assignment-2", student.ID); err != nil {
			t.Errorf("CheckSubmissionUniqueness() error = %v, want nil", err)
		}

		dup := assignment.Submission{ID: "submission-dup", AssignmentID: "assignment-1", StudentID: student.ID, Content: "again", SubmittedAt: time.Now().UTC()}
		if _, err := repo.CreateSubmission(dup); err != assignment.ErrAlreadySubmitted {
			t.Errorf("CreateSubmission() error = %v, want ErrAlreadySubmitted", err)
		}
	})

	t.Run("QueryAssignmentSubmissions annotates the student", func(t *testing.T) {
		submissions, err := repo.QueryAssignmentSubmissions("assignment-1")
		if err != nil {
			t.Fatalf("QueryAssignmentSubmissions() failed: %v", err)
		}
		if len(submissions) != 1 {
			t.Fatalf("QueryAssignmentSubmissions() len = %d, want 1", len(submissions))
		}
		sub := submissions[0]
		if sub.StudentName == nil || *sub.StudentName != student.Name {
			t.Errorf("StudentName = %v, want %s", sub.StudentName, student.Name)
		}
		if sub.Profiles == nil || sub.Profiles.Name != student.Name {
			t.Errorf("Profiles = %v, want %s", sub.Profiles, student.Name)
		}
		if sub.IsGraded() {
			t.Error("IsGraded() = true, want false")
		}
	})

	t.Run("GetStudentSubmission", func(t *testing.T) {
		sub, err := repo.GetStudentSubmission("assignment-1", student.ID)
		if err != nil {
			t.Fatalf("GetStudentSubmission() failed: %v", err)
		}
		if sub == nil || sub.ID != "submission-1" {
			t.Errorf("GetStudentSubmission() = %+v, want submission-1", sub)
		}
	})
}

func Test_assignmentRepository_GradeSubmission(t *testing.T) {
	db := openDB(t)
	repo := NewAssignmentRepository(db)

	if _, err := repo.CreateSubmission(assignment.Submission{
		ID:           "submission-1",
		AssignmentID: "assignment-1",
		StudentID:    "student-1",
		Content:      "done!",
		SubmittedAt:  time.Now().UTC(),
	}); err != nil {
		t.Fatalf("CreateSubmission() failed: %v", err)
	}

	t.Run("unknown id leaves the collection untouched", func(t *testing.T) {
		before, err := os.ReadFile(db.path(submissionsKey))
		if err != nil {
			t.Fatalf("ReadFile() failed: %v", err)
		}

		if _, err = repo.GradeSubmission("submission-404", 50, "lol"); err != assignment.ErrSubmissionNotFound {
			t.Errorf("GradeSubmission() error = %v, want ErrSubmissionNotFound", err)
		}

		after, err := os.ReadFile(db.path(submissionsKey))
		if err != nil {
			t.Fatalf("ReadFile() failed: %v", err)
		}
		if !bytes.Equal(before, after) {
			t.Error("GradeSubmission() modified the collection on a failed grade")
		}
	})

	t.Run("grade", func(t *testing.T) {
		sub, err := repo.GradeSubmission("submission-1", 85, "Great work!")
		if err != nil {
			t.Fatalf("GradeSubmission() failed: %v", err)
		}
		if !sub.IsGraded() || *sub.Grade != 85 || *sub.Feedback != "Great work!" {
			t.Errorf("GradeSubmission() = %+v, want grade 85 / Great work!", sub)
		}
	})

	t.Run("re-grade overwrites in place", func(t *testing.T) {
		sub, err := repo.GradeSubmission("submission-1", 90, "Even better.")
		if err != nil {
			t.Fatalf("GradeSubmission() failed: %v", err)
		}
		if *sub.Grade != 90 || *sub.Feedback != "Even better." {
			t.Errorf("GradeSubmission() = %+v, want grade 90 / Even better.", sub)
		}

		// still a single record
		submissions, err := repo.QueryAssignmentSubmissions("assignment-1")
		if err != nil {
			t.Fatalf("QueryAssignmentSubmissions() failed: %v", err)
		}
		if len(submissions) != 1 {
			t.Errorf("QueryAssignmentSubmissions() len = %d, want 1", len(submissions))
		}
	})
}

// Concurrent submissions for the same pair must yield exactly one record;
// the pair check and the insert share one critical section.
func Test_assignmentRepository_CreateSubmission_concurrent(t *testing.T) {
	db := openDB(t)
	repo := NewAssignmentRepository(db)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.CreateSubmission(assignment.Submission{
				ID:           fmt.Sprintf("submission-%d", i),
				AssignmentID: "assignment-1",
				StudentID:    "student-1",
				Content:      "done!",
				SubmittedAt:  time.Now().UTC(),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	var created, rejected int
	for err := range errs {
		switch err {
		case nil:
			created++
		case assignment.ErrAlreadySubmitted:
			rejected++
		default:
			t.Fatalf("CreateSubmission() unexpected error = %v", err)
		}
	}
	if created != 1 || rejected != workers-1 {
		t.Errorf("CreateSubmission() created = %d, rejected = %d; want 1, %d", created, rejected, workers-1)
	}

	submissions, err := repo.QueryAssignmentSubmissions("assignment-1")
	if err != nil {
		t.Fatalf("QueryAssignmentSubmissions() failed: %v", err)
	}
	if len(submissions) != 1 {
		t.Errorf("QueryAssignmentSubmissions() len = %d, want 1", len(submissions))
	}
}
