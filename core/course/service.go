package course

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// errors
	ErrNotFound        = errors.New("course not found")
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
)

type (
	Repository interface {
		CreateCourse(crs Course) (Course, error)
		// QueryAllCourses returns all courses, newest first, each annotated
		// with the owning teacher's name (nil when the owner does not resolve).
		QueryAllCourses() ([]Course, error)
		GetCourseByID(id string) (Course, error)

		// CheckEnrollmentUniqueness returns ErrAlreadyEnrolled if an enrollment
		// already exists for the (student, course) pair. Read-only;
		// CreateEnrollment re-checks atomically before inserting.
		CheckEnrollmentUniqueness(studentID, courseID string) error
		// CreateEnrollment inserts the enrollment, failing with
		// ErrAlreadyEnrolled when the (student, course) pair already exists.
		// Check and insert happen under one critical section, so concurrent
		// calls for the same pair yield exactly one record.
		CreateEnrollment(enr Enrollment) (Enrollment, error)
		// QueryStudentEnrollments returns the student's enrollments, each joined
		// with its full course record.
		QueryStudentEnrollments(studentID string) ([]Enrollment, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(nc NewCourse, createdBy string) (Course, error) {
	crs := Course{
		ID:          "course-" + uuid.New().String(),
		Title:       nc.Title,
		Description: nc.Description,
		Duration:    nc.Duration,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateCourse(crs)
}

func (svc *Service) QueryAll() ([]Course, error) {
	return svc.repo.QueryAllCourses()
}

func (svc *Service) GetByID(id string) (Course, error) {
	return svc.repo.GetCourseByID(id)
}

// Enroll enrolls the student in the course once; a second call for the same
// pair fails with ErrAlreadyEnrolled and inserts nothing. Uniqueness is
// enforced by the repository inside the insert.
func (svc *Service) Enroll(studentID, courseID string) (Enrollment, error) {
	enr := Enrollment{
		ID:         "enrollment-" + uuid.New().String(),
		StudentID:  studentID,
		CourseID:   courseID,
		EnrolledAt: time.Now().UTC(),
	}
	return svc.repo.CreateEnrollment(enr)
}

func (svc *Service) QueryStudentEnrollments(studentID string) ([]Enrollment, error) {
	return svc.repo.QueryStudentEnrollments(studentID)
}
