package assignment_test

import (
	"strings"
	"testing"
	"time"

	"github.com/mkele/darasa/core/assignment"
	"github.com/mkele/darasa/core/user"
	"github.com/mkele/darasa/services/email"
	"github.com/mkele/darasa/storage/kvstore"
	"github.com/mkele/darasa/tests"
)

func Test_Service_Grade_notifiesStudent(t *testing.T) {
	conf := testutil.NewConfig(t)
	db, err := kvstore.Open(conf)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	usrRepo := kvstore.NewUserRepository(db)
	asgRepo := kvstore.NewAssignmentRepository(db)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	svc := assignment.NewService(asgRepo, usrRepo, mailSvc)

	student := testutil.CreateUser(t, usrRepo, "John Smith", "s@test.cd", user.RoleStudent, "")
	asg := testutil.CreateAssignment(t, asgRepo, "course-1", "React Todo App", "teacher-1", time.Now().Add(24*time.Hour))
	sub := testutil.CreateSubmission(t, asgRepo, asg.ID, student.ID, "done!")

	emailsvc.ClearSentMessages()

	graded, err := svc.Grade(sub.ID, assignment.GradeInput{Grade: 85, Feedback: "Great work!"})
	if err != nil {
		t.Fatalf("Grade() failed: %v", err)
	}
	if !graded.IsGraded() || *graded.Grade != 85 {
		t.Errorf("Grade() = %+v, want grade 85", graded)
	}

	if len(emailsvc.SentMessages) != 1 {
		t.Fatalf("SentMessages len = %d, want 1", len(emailsvc.SentMessages))
	}
	msg := emailsvc.SentMessages[0]
	if len(msg.To) != 1 || msg.To[0].Address != student.Email {
		t.Errorf("To = %v, want %s", msg.To, student.Email)
	}
	if !strings.Contains(msg.TextContent, "85/100") {
		t.Errorf("TextContent = %q, want the grade in it", msg.TextContent)
	}
	if !strings.Contains(msg.TextContent, asg.Title) {
		t.Errorf("TextContent = %q, want the assignment title in it", msg.TextContent)
	}
}

func Test_Service_Grade_unknownSubmission(t *testing.T) {
	conf := testutil.NewConfig(t)
	db, err := kvstore.Open(conf)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	svc := assignment.NewService(
		kvstore.NewAssignmentRepository(db),
		kvstore.NewUserRepository(db),
		emailsvc.NewConsoleServiceMock(conf),
	)

	emailsvc.ClearSentMessages()

	if _, err = svc.Grade("submission-404", assignment.GradeInput{Grade: 50}); err != assignment.ErrSubmissionNotFound {
		t.Errorf("Grade() error = %v, want ErrSubmissionNotFound", err)
	}
	if len(emailsvc.SentMessages) != 0 {
		t.Errorf("SentMessages len = %d, want 0", len(emailsvc.SentMessages))
	}
}
