package assignment

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/mkele/darasa/core"
	"github.com/mkele/darasa/core/user"
)

var (
	// errors
	ErrNotFound           = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAlreadySubmitted   = errors.New("assignment already submitted")
)

type (
	Repository interface {
		CreateAssignment(asg Assignment) (Assignment, error)
		// QueryCourseAssignments returns the course's assignments ordered by
		// due date, earliest first, regardless of insertion order.
		QueryCourseAssignments(courseID string) ([]Assignment, error)
		GetAssignmentByID(id string) (Assignment, error)

		// CheckSubmissionUniqueness returns ErrAlreadySubmitted if a submission
		// already exists for the (assignment, student) pair. Read-only;
		// CreateSubmission re-checks atomically before inserting.
		CheckSubmissionUniqueness(assignmentID, studentID string) error
		// CreateSubmission inserts the submission, failing with
		// ErrAlreadySubmitted when the (assignment, student) pair already
		// exists. Check and insert happen under one critical section, so
		// concurrent calls for the same pair yield exactly one record.
		CreateSubmission(sub Submission) (Submission, error)
		// QueryAssignmentSubmissions returns the assignment's submissions, each
		// annotated with the submitting student's name.
		QueryAssignmentSubmissions(assignmentID string) ([]Submission, error)
		// GetStudentSubmission returns nil when the student has not submitted;
		// absence is not an error.
		GetStudentSubmission(assignmentID, studentID string) (*Submission, error)
		// GradeSubmission overwrites grade and feedback in place. It returns
		// ErrSubmissionNotFound, leaving the collection untouched, when no
		// submission has that id.
		GradeSubmission(id string, grade int, feedback string) (Submission, error)
	}

	Service struct {
		repo    Repository
		usrRepo user.Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, usrRepo user.Repository, mailSvc core.EmailService) *Service {
	return &Service{
		repo:    repo,
		usrRepo: usrRepo,
		mailSvc: mailSvc,
	}
}

func (svc *Service) Create(na NewAssignment, courseID, createdBy string) (Assignment, error) {
	asg := Assignment{
		ID:          "assignment-" + uuid.New().String(),
		CourseID:    courseID,
		Title:       na.Title,
		Description: na.Description,
		DueDate:     na.DueDate.UTC(),
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateAssignment(asg)
}

func (svc *Service) QueryByCourse(courseID string) ([]Assignment, error) {
	return svc.repo.QueryCourseAssignments(courseID)
}

func (svc *Service) GetByID(id string) (Assignment, error) {
	return svc.repo.GetAssignmentByID(id)
}

// Submit records the student's one submission for the assignment; a second
// call for the same pair fails with ErrAlreadySubmitted and inserts nothing.
// Uniqueness is enforced by the repository inside the insert.
func (svc *Service) Submit(ns NewSubmission, assignmentID, studentID string) (Submission, error) {
	sub := Submission{
		ID:           "submission-" + uuid.New().String(),
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Content:      ns.Content,
		SubmittedAt:  time.Now().UTC(),
	}
	return svc.repo.CreateSubmission(sub)
}

func (svc *Service) QuerySubmissions(assignmentID string) ([]Submission, error) {
	return svc.repo.QueryAssignmentSubmissions(assignmentID)
}

func (svc *Service) GetStudentSubmission(assignmentID, studentID string) (*Submission, error) {
	return svc.repo.GetStudentSubmission(assignmentID, studentID)
}

// Grade grades (or re-grades) the submission and notifies the student by email.
func (svc *Service) Grade(id string, gi GradeInput) (Submission, error) {
	sub, err := svc.repo.GradeSubmission(id, gi.Grade, gi.Feedback)
	if err != nil {
		return Submission{}, err
	}
	svc.sendGradedEmail(sub)
	return sub, nil
}

func (svc *Service) sendGradedEmail(sub Submission) {
	student, err := svc.usrRepo.GetUserByID(sub.StudentID)
	if err != nil {
		return // student gone; notification is best-effort
	}
	asg, err := svc.repo.GetAssignmentByID(sub.AssignmentID)
	if err != nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: student.Name, Address: student.Email}},
		Subject: "Your submission has been graded",
		BodyStr: fmt.Sprintf(
			"Hi %s,\n\nYour submission for %q has been graded: %d/100.\n\nFeedback: %s\n",
			student.Name, asg.Title, *sub.Grade, *sub.Feedback,
		),
	})
}
