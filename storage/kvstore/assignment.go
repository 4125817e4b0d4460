package kvstore

import (
	"sort"
	"time"

	"github.com/mkele/darasa/core/assignment"
	"github.com/mkele/darasa/core/user"
)

type assignmentRow struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func newAssignmentRow(asg assignment.Assignment) assignmentRow {
	return assignmentRow(asg)
}

func (r assignmentRow) toAssignment() assignment.Assignment {
	return assignment.Assignment(r)
}

// submissionRow is the persisted shape of a submission record.
// student_name is a read-time projection and is never stored.
type submissionRow struct {
	ID           string    `json:"id"`
	AssignmentID string    `json:"assignment_id"`
	StudentID    string    `json:"student_id"`
	Content      string    `json:"content"`
	Grade        *int      `json:"grade,omitempty"`
	Feedback     *string   `json:"feedback,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

func newSubmissionRow(sub assignment.Submission) submissionRow {
	return submissionRow{
		ID:           sub.ID,
		AssignmentID: sub.AssignmentID,
		StudentID:    sub.StudentID,
		Content:      sub.Content,
		Grade:        sub.Grade,
		Feedback:     sub.Feedback,
		SubmittedAt:  sub.SubmittedAt,
	}
}

// toSubmission resolves the submitting student's name against the given index;
// a student that does not resolve yields nil annotations, never an error.
func (r submissionRow) toSubmission(studentNames map[string]string) assignment.Submission {
	sub := assignment.Submission{
		ID:           r.ID,
		AssignmentID: r.AssignmentID,
		StudentID:    r.StudentID,
		Content:      r.Content,
		Grade:        r.Grade,
		Feedback:     r.Feedback,
		SubmittedAt:  r.SubmittedAt,
	}
	if name, ok := studentNames[r.StudentID]; ok {
		sub.StudentName = &name
		sub.Profiles = &user.NameRef{Name: name}
	}
	return sub
}

type assignmentRepository struct {
	db *DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(asg assignment.Assignment) (assignment.Assignment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	var rows []assignmentRow
	if err := repo.db.read(assignmentsKey, &rows); err != nil {
		return assignment.Assignment{}, err
	}
	rows = append(rows, newAssignmentRow(asg))
	if err := repo.db.write(assignmentsKey, rows); err != nil {
		return assignment.Assignment{}, err
	}
	return asg, nil
}

func (repo *assignmentRepository) QueryCourseAssignments(courseID string) ([]assignment.Assignment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var rows []assignmentRow
	if err := repo.db.read(assignmentsKey, &rows); err != nil {
		return nil, err
	}
	assignments := make([]assignment.Assignment, 0, len(rows))
	for _, r := range rows {
		if r.CourseID == courseID {
			assignments = append(assignments, r.toAssignment())
		}
	}
	sort.SliceStable(assignments, func(i, j int) bool { return assignments[i].DueDate.Before(assignments[j].DueDate) })
	return assignments, nil
}

func (repo *assignmentRepository) GetAssignmentByID(id string) (assignment.Assignment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var rows []assignmentRow
	if err := repo.db.read(assignmentsKey, &rows); err != nil {
		return assignment.Assignment{}, err
	}
	for _, r := range rows {
		if r.ID == id {
			return r.toAssignment(), nil
		}
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) CheckSubmissionUniqueness(assignmentID, studentID string) error {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var rows []submissionRow
	if err := repo.db.read(submissionsKey, &rows); err != nil {
		return err
	}
	for _, r := range rows {
		if r.AssignmentID == assignmentID && r.StudentID == studentID {
			return assignment.ErrAlreadySubmitted
		}
	}
	return nil
}

func (repo *assignmentRepository) CreateSubmission(sub assignment.Submission) (assignment.Submission, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	var rows []submissionRow
	if err := repo.db.read(submissionsKey, &rows); err != nil {
		return assignment.Submission{}, err
	}
	// the pair scan must happen under the same lock as the insert, or two
	// concurrent requests could both pass it and both append
	for _, r := range rows {
		if r.AssignmentID == sub.AssignmentID && r.StudentID == sub.StudentID {
			return assignment.Submission{}, assignment.ErrAlreadySubmitted
		}
	}
	rows = append(rows, newSubmissionRow(sub))
	if err := repo.db.write(submissionsKey, rows); err != nil {
		return assignment.Submission{}, err
	}

	names, err := repo.db.userNames()
	if err != nil {
		return assignment.Submission{}, err
	}
	return newSubmissionRow(sub).toSubmission(names), nil
}

func (repo *assignmentRepository) QueryAssignmentSubmissions(assignmentID string) ([]assignment.Submission, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var rows []submissionRow
	if err := repo.db.read(submissionsKey, &rows); err != nil {
		return nil, err
	}
	names, err := repo.db.userNames()
	if err != nil {
		return nil, err
	}

	submissions := make([]assignment.Submission, 0, len(rows))
	for _, r := range rows {
		if r.AssignmentID == assignmentID {
			submissions = append(submissions, r.toSubmission(names))
		}
	}
	return submissions, nil
}

func (repo *assignmentRepository) GetStudentSubmission(assignmentID, studentID string) (*assignment.Submission, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var rows []submissionRow
	if err := repo.db.read(submissionsKey, &rows); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if r.AssignmentID == assignmentID && r.StudentID == studentID {
			names, err := repo.db.userNames()
			if err != nil {
				return nil, err
			}
			sub := r.toSubmission(names)
			return &sub, nil
		}
	}
	return nil, nil // not submitted yet; not an error
}

func (repo *assignmentRepository) GradeSubmission(id string, grade int, feedback string) (assignment.Submission, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	var rows []submissionRow
	if err := repo.db.read(submissionsKey, &rows); err != nil {
		return assignment.Submission{}, err
	}
	idx := -1
	for i, r := range rows {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return assignment.Submission{}, assignment.ErrSubmissionNotFound
	}

	rows[idx].Grade = &grade
	rows[idx].Feedback = &feedback
	if err := repo.db.write(submissionsKey, rows); err != nil {
		return assignment.Submission{}, err
	}

	names, err := repo.db.userNames()
	if err != nil {
		return assignment.Submission{}, err
	}
	return rows[idx].toSubmission(names), nil
}
