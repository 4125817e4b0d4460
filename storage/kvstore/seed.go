package kvstore

import (
	"time"

	"github.com/pkg/errors"

	"github.com/mkele/darasa/core/user"
)

// Demo credentials; the login shortcut documented on the landing page.
const (
	DemoTeacherEmail = "teacher@demo.com"
	DemoStudentEmail = "student@demo.com"
	DemoPassword     = "demo123"
)

// EnsureSeeded populates any absent collection with its fixed starting
// records. Collections that already exist are left untouched, so calling it
// any number of times is the same as calling it once. It runs once per DB
// instance; the outcome, error included, is latched for subsequent calls.
func (db *DB) EnsureSeeded() error {
	db.seedOnce.Do(func() {
		db.seedErr = db.seed()
	})
	return db.seedErr
}

func (db *DB) seed() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if !db.exists(usersKey) {
		rows, err := seedUsers()
		if err != nil {
			return errors.Wrap(err, "seeding users")
		}
		if err = db.write(usersKey, rows); err != nil {
			return err
		}
	}
	if !db.exists(coursesKey) {
		if err := db.write(coursesKey, seedCourses()); err != nil {
			return err
		}
	}
	if !db.exists(assignmentsKey) {
		if err := db.write(assignmentsKey, seedAssignments()); err != nil {
			return err
		}
	}
	if !db.exists(submissionsKey) {
		if err := db.write(submissionsKey, seedSubmissions()); err != nil {
			return err
		}
	}
	if !db.exists(enrollmentsKey) {
		if err := db.write(enrollmentsKey, seedEnrollments()); err != nil {
			return err
		}
	}
	return nil
}

func seedUsers() ([]userRow, error) {
	teacher := user.User{
		ID:    "teacher-1",
		Email: DemoTeacherEmail,
		Name:  "Dr. Sarah Johnson",
		Role:  user.RoleTeacher,
	}
	student := user.User{
		ID:    "student-1",
		Email: DemoStudentEmail,
		Name:  "John Smith",
		Role:  user.RoleStudent,
	}
	if err := teacher.SetPassword(DemoPassword); err != nil {
		return nil, err
	}
	if err := student.SetPassword(DemoPassword); err != nil {
		return nil, err
	}
	return []userRow{newUserRow(teacher), newUserRow(student)}, nil
}

func seedCourses() []courseRow {
	return []courseRow{
		{
			ID:          "course-1",
			Title:       "Introduction to Web Development",
			Description: "Learn the fundamentals of HTML, CSS, and JavaScript to build modern web applications.",
			Duration:    "8 weeks",
			CreatedBy:   "teacher-1",
			CreatedAt:   time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:          "course-2",
			Title:       "React.js Fundamentals",
			Description: "Master React.js concepts including components, state management, and hooks.",
			Duration:    "6 weeks",
			CreatedBy:   "teacher-1",
			CreatedAt:   time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:          "course-3",
			Title:       "Database Design",
			Description: "Learn how to design efficient and scalable database systems.",
			Duration:    "10 weeks",
			CreatedBy:   "teacher-1",
			CreatedAt:   time.Date(2024, 1, 25, 10, 0, 0, 0, time.UTC),
		},
	}
}

func seedAssignments() []assignmentRow {
	return []assignmentRow{
		{
			ID:          "assignment-1",
			CourseID:    "course-1",
			Title:       "Build a Personal Portfolio",
			Description: "Create a responsive personal portfolio website using HTML, CSS, and JavaScript.",
			DueDate:     time.Date(2024, 12, 30, 23, 59, 0, 0, time.UTC),
			CreatedBy:   "teacher-1",
			CreatedAt:   time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:          "assignment-2",
			CourseID:    "course-1",
			Title:       "JavaScript Calculator",
			Description: "Build a functional calculator using vanilla JavaScript.",
			DueDate:     time.Date(2024, 12, 25, 23, 59, 0, 0, time.UTC),
			CreatedBy:   "teacher-1",
			CreatedAt:   time.Date(2024, 1, 18, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:          "assignment-3",
			CourseID:    "course-2",
			Title:       "React Todo App",
			Description: "Create a todo application using React with add, edit, and delete functionality.",
			DueDate:     time.Date(2024, 12, 28, 23, 59, 0, 0, time.UTC),
			CreatedBy:   "teacher-1",
			CreatedAt:   time.Date(2024, 1, 22, 10, 0, 0, 0, time.UTC),
		},
	}
}

func seedSubmissions() []submissionRow {
	grade := 85
	feedback := "Great work! Your portfolio looks professional and is well-structured. " +
		"Consider adding more interactive elements."
	return []submissionRow{
		{
			ID:           "submission-1",
			AssignmentID: "assignment-1",
			StudentID:    "student-1",
			Content: "I have created a responsive portfolio website with sections for about, projects, " +
				"and contact. The site uses modern CSS Grid and Flexbox for layout.",
			Grade:       &grade,
			Feedback:    &feedback,
			SubmittedAt: time.Date(2024, 1, 20, 15, 30, 0, 0, time.UTC),
		},
	}
}

func seedEnrollments() []enrollmentRow {
	return []enrollmentRow{
		{
			ID:         "enrollment-1",
			StudentID:  "student-1",
			CourseID:   "course-1",
			EnrolledAt: time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC),
		},
	}
}
