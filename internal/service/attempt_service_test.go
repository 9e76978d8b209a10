package service

import (
	"testing"
	"time"

	"campus_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func optID(q model.Question, label string) *uint {
	for _, o := range q.Options {
		if o.Label == label {
			id := o.ID
			return &id
		}
	}
	return nil
}

func TestGradeAnswersFullMarks(t *testing.T) {
	questions := []model.Question{mcq(1, 4, "A"), mcq(2, 6, "C")}
	answers := []model.Answer{
		{QuestionID: 1, SelectedOptionID: optID(questions[0], "A")},
		{QuestionID: 2, SelectedOptionID: optID(questions[1], "C")},
	}
	graded, marks := GradeAnswers(questions, answers)
	require.Len(t, graded, 2)
	assert.Equal(t, 10, marks)
	assert.True(t, graded[0].IsCorrect)
	assert.Equal(t, 4, graded[0].MarksAwarded)
	assert.True(t, graded[1].IsCorrect)
	assert.Equal(t, 6, graded[1].MarksAwarded)
}

func TestGradeAnswersWrongSelection(t *testing.T) {
	questions := []model.Question{mcq(1, 4, "A")}
	answers := []model.Answer{{QuestionID: 1, SelectedOptionID: optID(questions[0], "B")}}
	graded, marks := GradeAnswers(questions, answers)
	assert.Equal(t, 0, marks)
	assert.False(t, graded[0].IsCorrect)
	assert.Equal(t, 0, graded[0].MarksAwarded)
}

func TestGradeAnswersUnansweredGetsRow(t *testing.T) {
	// Every active question gets an answer row even when the student never
	// touched it.
	questions := []model.Question{mcq(1, 4, "A"), mcq(2, 6, "C")}
	answers := []model.Answer{{QuestionID: 1, SelectedOptionID: optID(questions[0], "A")}}
	graded, marks := GradeAnswers(questions, answers)
	require.Len(t, graded, 2)
	assert.Equal(t, 4, marks)
	assert.Nil(t, graded[1].SelectedOptionID)
	assert.False(t, graded[1].IsCorrect)
}

func TestGradeAnswersNilSelection(t *testing.T) {
	questions := []model.Question{mcq(1, 4, "A")}
	answers := []model.Answer{{QuestionID: 1, SelectedOptionID: nil}}
	graded, marks := GradeAnswers(questions, answers)
	assert.Equal(t, 0, marks)
	assert.False(t, graded[0].IsCorrect)
}

func TestGradeAnswersStructurallyBrokenQuestionScoresZero(t *testing.T) {
	// A question without exactly one correct option can never award marks.
	q := mcq(1, 4, "A")
	q.Options[1].IsCorrect = true
	selected := q.Options[0].ID
	graded, marks := GradeAnswers([]model.Question{q}, []model.Answer{{QuestionID: 1, SelectedOptionID: &selected}})
	assert.Equal(t, 0, marks)
	assert.False(t, graded[0].IsCorrect)
}

func TestApplyEvaluation(t *testing.T) {
	questions := []model.Question{mcq(1, 4, "A"), mcq(2, 6, "C")}
	submittedAt := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	assessment := &model.Assessment{TotalMarks: 10, PassingPercentage: 40}

	attempt := &model.Attempt{
		Status: model.AttemptInProgress,
		Answers: []model.Answer{
			{QuestionID: 1, SelectedOptionID: optID(questions[0], "A")},
		},
	}
	attempt.ID = 5
	graded := ApplyEvaluation(attempt, assessment, questions, submittedAt)

	require.Len(t, graded, 2)
	assert.Equal(t, uint(5), graded[0].AttemptID)
	assert.Equal(t, 4, attempt.MarksObtained)
	assert.Equal(t, 40.0, attempt.Percentage)
	assert.Equal(t, model.AttemptEvaluated, attempt.Status)
	require.NotNil(t, attempt.SubmittedAt)
	assert.Equal(t, submittedAt, *attempt.SubmittedAt)
}

func TestApplyEvaluationDeterministic(t *testing.T) {
	// Re-running the evaluation with the same inputs yields the same stored
	// values, so a retried finalize cannot double-count.
	questions := []model.Question{mcq(1, 4, "A")}
	submittedAt := time.Now()
	assessment := &model.Assessment{TotalMarks: 4}

	attempt := &model.Attempt{
		Answers: []model.Answer{{QuestionID: 1, SelectedOptionID: optID(questions[0], "A")}},
	}
	ApplyEvaluation(attempt, assessment, questions, submittedAt)
	first := *attempt
	ApplyEvaluation(attempt, assessment, questions, submittedAt)

	assert.Equal(t, first.MarksObtained, attempt.MarksObtained)
	assert.Equal(t, first.Percentage, attempt.Percentage)
	assert.Equal(t, first.Status, attempt.Status)
}

func TestApplyEvaluationZeroTotalMarks(t *testing.T) {
	attempt := &model.Attempt{}
	ApplyEvaluation(attempt, &model.Assessment{TotalMarks: 0}, nil, time.Now())
	assert.Equal(t, 0.0, attempt.Percentage)
	assert.Equal(t, model.AttemptEvaluated, attempt.Status)
}

func TestAttemptDeadlineDurationWins(t *testing.T) {
	started := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	a := &model.Assessment{
		DurationMinutes: 30,
		EndTime:         started.Add(2 * time.Hour),
	}
	assert.Equal(t, started.Add(30*time.Minute), AttemptDeadline(a, started))
}

func TestAttemptDeadlineWindowEndWins(t *testing.T) {
	// Starting near the window end truncates the attempt duration.
	started := time.Date(2026, 3, 10, 9, 50, 0, 0, time.UTC)
	end := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	a := &model.Assessment{DurationMinutes: 30, EndTime: end}
	assert.Equal(t, end, AttemptDeadline(a, started))
}
