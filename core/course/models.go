package course

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mkele/darasa/core"
	"github.com/mkele/darasa/core/user"
)

type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    string    `json:"duration"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`

	// read-time denormalizations; never persisted
	TeacherName *string       `json:"teacher_name"`
	Profiles    *user.NameRef `json:"profiles"`
}

type Enrollment struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	CourseID   string    `json:"course_id"`
	EnrolledAt time.Time `json:"enrolled_at"`

	// joined course; nil if the reference no longer resolves
	Course *Course `json:"courses,omitempty"`
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Duration    string `json:"duration" validate:"required"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	nc.Duration = core.CleanString(nc.Duration)
	return validate.Struct(nc)
}
