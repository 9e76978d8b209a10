package service

import (
	"errors"
	"testing"
	"time"

	"campus_backend/internal/model"
	"campus_backend/internal/repository"
	"campus_backend/pkg/logger"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// sqlite stands in for MySQL here; tables with enum columns are created by
// hand because sqlite does not parse the enum type.
const assessmentTableDDL = `CREATE TABLE assessments (
	id integer PRIMARY KEY AUTOINCREMENT,
	created_at datetime,
	updated_at datetime,
	deleted_at datetime,
	batch_id integer NOT NULL,
	subject_id integer NOT NULL,
	faculty_id integer NOT NULL,
	title text NOT NULL,
	description text,
	total_marks integer NOT NULL,
	duration_minutes integer NOT NULL,
	passing_percentage real NOT NULL,
	start_time datetime NOT NULL,
	end_time datetime NOT NULL,
	status text NOT NULL DEFAULT 'draft',
	is_active boolean DEFAULT true
)`

const attemptTableDDL = `CREATE TABLE attempts (
	id integer PRIMARY KEY AUTOINCREMENT,
	created_at datetime,
	updated_at datetime,
	deleted_at datetime,
	assessment_id integer NOT NULL,
	student_id integer NOT NULL,
	started_at datetime NOT NULL,
	submitted_at datetime,
	marks_obtained integer DEFAULT 0,
	percentage real DEFAULT 0,
	status text NOT NULL DEFAULT 'in_progress',
	CONSTRAINT idx_attempt_student_assessment UNIQUE (assessment_id, student_id)
)`

func openServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Log = zap.NewNop()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func newAttemptFixture(t *testing.T, store *fakeSkillStore) (*AttemptService, *repository.AttemptRepository, *repository.AssessmentRepository) {
	t.Helper()
	db := openServiceDB(t)
	require.NoError(t, db.Exec(assessmentTableDDL).Error)
	require.NoError(t, db.Exec(attemptTableDDL).Error)
	require.NoError(t, db.AutoMigrate(&model.Question{}, &model.Option{}, &model.Answer{}))

	attempts := repository.NewAttemptRepository(db)
	assessments := repository.NewAssessmentRepository(db)
	academics := repository.NewAcademicRepository(db)
	skills := NewSkillService(store, &fakeCourseStore{})
	results := NewResultsService(assessments, attempts, academics, repository.NewSkillRepository(db), nil)
	return NewAttemptService(attempts, assessments, academics, skills, results), attempts, assessments
}

// seedActiveAssessment stores an active single-question assessment worth 5
// marks and returns it with the question and correct option IDs.
func seedActiveAssessment(t *testing.T, assessments *repository.AssessmentRepository, start time.Time) (*model.Assessment, uint, uint) {
	t.Helper()
	a := &model.Assessment{
		BatchID:           1,
		SubjectID:         1,
		FacultyID:         2,
		Title:             "Checkpoint quiz",
		TotalMarks:        5,
		DurationMinutes:   30,
		PassingPercentage: 40,
		StartTime:         start,
		EndTime:           start.Add(4 * time.Hour),
		Status:            model.AssessmentActive,
		IsActive:          true,
	}
	require.NoError(t, assessments.Create(a))

	q := &model.Question{
		AssessmentID: a.ID,
		Text:         "2+2?",
		Marks:        5,
		IsActive:     true,
		Options: []model.Option{
			{Label: "A", Text: "3"},
			{Label: "B", Text: "4", IsCorrect: true},
			{Label: "C", Text: "5"},
			{Label: "D", Text: "6"},
		},
	}
	require.NoError(t, assessments.CreateQuestion(q))
	correct := q.CorrectOption()
	require.NotNil(t, correct)
	return a, q.ID, correct.ID
}

func TestListByStudentSettlesExpiredAttempt(t *testing.T) {
	svc, attempts, assessments := newAttemptFixture(t, newFakeSkillStore())
	a, questionID, correctID := seedActiveAssessment(t, assessments, time.Now().Add(-2*time.Hour))

	at := &model.Attempt{
		AssessmentID: a.ID,
		StudentID:    9,
		StartedAt:    time.Now().Add(-time.Hour),
		Status:       model.AttemptInProgress,
	}
	require.NoError(t, attempts.Create(at))
	require.NoError(t, attempts.SaveAnswer(&model.Answer{
		AttemptID:        at.ID,
		QuestionID:       questionID,
		SelectedOptionID: &correctID,
	}))

	// The duration ran out half an hour ago; the listing must not hand the
	// student a stale in-progress row while waiting for the next sweep.
	listed, err := svc.ListByStudent(9)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	got := listed[0]
	assert.Equal(t, model.AttemptEvaluated, got.Status)
	assert.Equal(t, 5, got.MarksObtained)
	assert.Equal(t, 100.0, got.Percentage)
	require.NotNil(t, got.SubmittedAt)
	assert.WithinDuration(t, got.StartedAt.Add(30*time.Minute), *got.SubmittedAt, time.Second)

	stored, err := attempts.FindByID(at.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptEvaluated, stored.Status)
}

func TestSubmitSurfacesRecomputeFailure(t *testing.T) {
	store := newFakeSkillStore()
	store.listErr = errors.New("skill store unavailable")
	svc, attempts, assessments := newAttemptFixture(t, store)
	a, questionID, correctID := seedActiveAssessment(t, assessments, time.Now().Add(-time.Hour))

	at := &model.Attempt{
		AssessmentID: a.ID,
		StudentID:    9,
		StartedAt:    time.Now().Add(-5 * time.Minute),
		Status:       model.AttemptInProgress,
	}
	require.NoError(t, attempts.Create(at))
	require.NoError(t, attempts.SaveAnswer(&model.Answer{
		AttemptID:        at.ID,
		QuestionID:       questionID,
		SelectedOptionID: &correctID,
	}))

	_, err := svc.Submit(9, at.ID)
	require.Error(t, err)

	// The evaluation itself committed; only the recompute is outstanding.
	stored, err := attempts.FindByID(at.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptEvaluated, stored.Status)
	assert.Equal(t, 5, stored.MarksObtained)
}
