package kvstore

import (
	"sort"
	"time"

	"github.com/mkele/darasa/core/course"
	"github.com/mkele/darasa/core/user"
)

// courseRow is the persisted shape of a course record.
// teacher_name is a read-time projection and is never stored.
type courseRow struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    string    `json:"duration"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func newCourseRow(crs course.Course) courseRow {
	return courseRow{
		ID:          crs.ID,
		Title:       crs.Title,
		Description: crs.Description,
		Duration:    crs.Duration,
		CreatedBy:   crs.CreatedBy,
		CreatedAt:   crs.CreatedAt,
	}
}

// toCourse resolves the owning teacher's name against the given index;
// an owner that does not resolve yields nil annotations, never an error.
func (r courseRow) toCourse(teacherNames map[string]string) course.Course {
	crs := course.Course{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Duration:    r.Duration,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
	}
	if name, ok := teacherNames[r.CreatedBy]; ok {
		crs.TeacherName = &name
		crs.Profiles = &user.NameRef{Name: name}
	}
	return crs
}

type enrollmentRow struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	CourseID   string    `json:"course_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

func newEnrollmentRow(enr course.Enrollment) enrollmentRow {
	return enrollmentRow{
		ID:         enr.ID,
		StudentID:  enr.StudentID,
		CourseID:   enr.CourseID,
		EnrolledAt: enr.EnrolledAt,
	}
}

func (r enrollmentRow) toEnrollment() course.Enrollment {
	return course.Enrollment{
		ID:         r.ID,
		StudentID:  r.StudentID,
		CourseID:   r.CourseID,
		EnrolledAt: r.EnrolledAt,
	}
}

type courseRepository struct {
	db *DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CreateCourse(crs course.Course) (course.Course, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	var rows []courseRow
	if err := repo.db.read(coursesKey, &rows); err != nil {
		return course.Course{}, err
	}
	rows = append(rows, newCourseRow(crs))
	if err := repo.db.write(coursesKey, rows); err != nil {
		return course.Course{}, err
	}
	return crs, nil
}

func (repo *courseRepository) QueryAllCourses() ([]course.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var rows []courseRow
	if err := repo.db.read(coursesKey, &rows); err != nil {
		return nil, err
	}
	names, err := repo.db.userNames()
	if err != nil {
		return nil, err
	}

	courses := make([]course.Course, 0, len(rows))
	for _, r := range rows {
		courses = append(courses, r.toCourse(names))
	}
	// newest first, matching the remote variant's ordering
	sort.SliceStable(courses, func(i, j int) bool { return courses[i].CreatedAt.After(courses[j].CreatedAt) })
	return courses, nil
}

func (repo *courseRepository) GetCourseByID(id string) (course.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var rows []courseRow
	if err := repo.db.read(coursesKey, &rows); err != nil {
		return course.Course{}, err
	}
	for _, r := range rows {
		if r.ID == id {
			names, err := repo.db.userNames()
			if err != nil {
				return course.Course{}, err
			}
			return r.toCourse(names), nil
		}
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) CheckEnrollmentUniqueness(studentID, courseID string) error {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var rows []enrollmentRow
	if err := repo.db.read(enrollmentsKey, &rows); err != nil {
		return err
	}
	for _, r := range rows {
		if r.StudentID == studentID && r.CourseID == courseID {
			return course.ErrAlreadyEnrolled
		}
	}
	return nil
}

func (repo *courseRepository) CreateEnrollment(enr course.Enrollment) (course.Enrollment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	var rows []enrollmentRow
	if err := repo.db.read(enrollmentsKey, &rows); err != nil {
		return course.Enrollment{}, err
	}
	// the pair scan must happen under the same lock as the insert, or two
	// concurrent requests could both pass it and both append
	for _, r := range rows {
		if r.StudentID == enr.StudentID && r.CourseID == enr.CourseID {
			return course.Enrollment{}, course.ErrAlreadyEnrolled
		}
	}
	rows = append(rows, newEnrollmentRow(enr))
	if err := repo.db.write(enrollmentsKey, rows); err != nil {
		return course.Enrollment{}, err
	}
	return enr, nil
}

func (repo *courseRepository) QueryStudentEnrollments(studentID string) ([]course.Enrollment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var rows []enrollmentRow
	if err := repo.db.read(enrollmentsKey, &rows); err != nil {
		return nil, err
	}
	var crsRows []courseRow
	if err := repo.db.read(coursesKey, &crsRows); err != nil {
		return nil, err
	}
	courses := make(map[string]courseRow, len(crsRows))
	for _, r := range crsRows {
		courses[r.ID] = r
	}

	enrollments := make([]course.Enrollment, 0, len(rows))
	for _, r := range rows {
		if r.StudentID != studentID {
			continue
		}
		enr := r.toEnrollment()
		// the referenced course cannot vanish under the no-delete policy,
		// but a dangling reference must not break the listing
		if crsRow, ok := courses[r.CourseID]; ok {
			crs := crsRow.toCourse(nil)
			enr.Course = &crs
		}
		enrollments = append(enrollments, enr)
	}
	return enrollments, nil
}
