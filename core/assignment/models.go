package assignment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mkele/darasa/core"
	"github.com/mkele/darasa/core/user"
)

// Assignment belongs to exactly one course.
type Assignment struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// Submission is a student's answer to an assignment. It is ungraded until a
// teacher sets Grade and Feedback; re-grading overwrites both in place.
type Submission struct {
	ID           string    `json:"id"`
	AssignmentID string    `json:"assignment_id"`
	StudentID    string    `json:"student_id"`
	Content      string    `json:"content"`
	Grade        *int      `json:"grade,omitempty"`
	Feedback     *string   `json:"feedback,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at"`

	// read-time denormalizations; never persisted
	StudentName *string       `json:"student_name"`
	Profiles    *user.NameRef `json:"profiles"`
}

func (s *Submission) IsGraded() bool {
	return s.Grade != nil
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	DueDate     time.Time `json:"due_date" validate:"required"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	return validate.Struct(na)
}

// NewSubmission contains information needed to submit an assignment.
type NewSubmission struct {
	Content string `json:"content" validate:"required"`
}

func (ns *NewSubmission) Validate(validate *validator.Validate) error {
	ns.Content = core.CleanString(ns.Content)
	return validate.Struct(ns)
}

// GradeInput contains a teacher's grading of a submission.
// The 0-100 range is a presentation concern; the storage layer stores
// whatever number it is given.
type GradeInput struct {
	Grade    int    `json:"grade" validate:"min=0,max=100"`
	Feedback string `json:"feedback"`
}

func (gi *GradeInput) Validate(validate *validator.Validate) error {
	gi.Feedback = core.CleanString(gi.Feedback)
	return validate.Struct(gi)
}
