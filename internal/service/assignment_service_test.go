package service

import (
	"errors"
	"testing"
	"time"

	"campus_backend/internal/model"
	"campus_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const submissionTableDDL = `CREATE TABLE assignment_submissions (
	id integer PRIMARY KEY AUTOINCREMENT,
	created_at datetime,
	updated_at datetime,
	deleted_at datetime,
	assignment_id integer NOT NULL,
	student_id integer NOT NULL,
	submitted_at datetime,
	marks_obtained integer DEFAULT 0,
	percentage real DEFAULT 0,
	status text NOT NULL DEFAULT 'pending',
	CONSTRAINT idx_submission_student_assignment UNIQUE (assignment_id, student_id)
)`

func TestGradeSurfacesRecomputeFailure(t *testing.T) {
	store := newFakeSkillStore()
	store.listErr = errors.New("skill store unavailable")

	db := openServiceDB(t)
	require.NoError(t, db.AutoMigrate(&model.Assignment{}))
	require.NoError(t, db.Exec(submissionTableDDL).Error)
	repo := repository.NewAssignmentRepository(db)
	svc := NewAssignmentService(repo, repository.NewAcademicRepository(db), NewSkillService(store, &fakeCourseStore{}))

	assignment := &model.Assignment{
		BatchID:    1,
		SubjectID:  1,
		FacultyID:  2,
		Title:      "Essay",
		TotalMarks: 20,
		DueDate:    time.Now().Add(24 * time.Hour),
		IsActive:   true,
	}
	require.NoError(t, repo.Create(assignment))
	sub := &model.AssignmentSubmission{AssignmentID: assignment.ID, StudentID: 9, SubmittedAt: time.Now()}
	require.NoError(t, repo.CreateSubmission(sub))

	_, err := svc.Grade(2, sub.ID, &GradeSubmissionRequest{MarksObtained: 15})
	require.Error(t, err)

	// Grading committed; the failed recompute must not read as success.
	stored, err := repo.FindSubmissionByID(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionGraded, stored.Status)
	assert.Equal(t, 15, stored.MarksObtained)
	assert.Equal(t, 75.0, stored.Percentage)
}
