package service

import (
	"testing"
	"time"

	"campus_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcq(id uint, marks int, correctLabel string) model.Question {
	q := model.Question{Text: "q", Marks: marks, IsActive: true}
	q.ID = id
	for i, label := range model.OptionLabels {
		o := model.Option{Label: label, Text: label, IsCorrect: label == correctLabel}
		o.ID = id*10 + uint(i)
		q.Options = append(q.Options, o)
	}
	return q
}

func TestValidateForPublishOK(t *testing.T) {
	a := &model.Assessment{
		TotalMarks: 10,
		StartTime:  time.Now(),
		EndTime:    time.Now().Add(time.Hour),
	}
	questions := []model.Question{mcq(1, 4, "A"), mcq(2, 6, "C")}
	assert.Empty(t, ValidateForPublish(a, questions))
}

func TestValidateForPublishNoQuestions(t *testing.T) {
	a := &model.Assessment{TotalMarks: 10, EndTime: time.Now().Add(time.Hour)}
	problems := ValidateForPublish(a, nil)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "no active questions")
}

func TestValidateForPublishMarksMismatch(t *testing.T) {
	a := &model.Assessment{
		TotalMarks: 10,
		EndTime:    time.Now().Add(time.Hour),
	}
	problems := ValidateForPublish(a, []model.Question{mcq(1, 4, "A"), mcq(2, 4, "B")})
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "sum to 8")
}

func TestValidateForPublishNoCorrectOption(t *testing.T) {
	a := &model.Assessment{TotalMarks: 4, EndTime: time.Now().Add(time.Hour)}
	q := mcq(1, 4, "A")
	q.Options[0].IsCorrect = false
	problems := ValidateForPublish(a, []model.Question{q})
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "exactly one correct option")
}

func TestValidateForPublishTwoCorrectOptions(t *testing.T) {
	a := &model.Assessment{TotalMarks: 4, EndTime: time.Now().Add(time.Hour)}
	q := mcq(1, 4, "A")
	q.Options[1].IsCorrect = true
	problems := ValidateForPublish(a, []model.Question{q})
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "exactly one correct option")
}

func TestValidateForPublishCollectsAllProblems(t *testing.T) {
	a := &model.Assessment{TotalMarks: 100, EndTime: time.Now().Add(-time.Hour), StartTime: time.Now()}
	q := mcq(1, 4, "A")
	q.Options[0].IsCorrect = false
	problems := ValidateForPublish(a, []model.Question{q})
	assert.Len(t, problems, 3)
}

func TestNextStatusScheduledToActive(t *testing.T) {
	now := time.Now()
	a := &model.Assessment{
		Status:    model.AssessmentScheduled,
		StartTime: now.Add(-time.Minute),
		EndTime:   now.Add(time.Hour),
	}
	assert.Equal(t, model.AssessmentActive, NextStatus(a, now))
}

func TestNextStatusActiveToCompleted(t *testing.T) {
	now := time.Now()
	a := &model.Assessment{
		Status:    model.AssessmentActive,
		StartTime: now.Add(-2 * time.Hour),
		EndTime:   now.Add(-time.Minute),
	}
	assert.Equal(t, model.AssessmentCompleted, NextStatus(a, now))
}

func TestNextStatusScheduledSkipsToCompleted(t *testing.T) {
	// A scheduled assessment whose whole window already passed jumps
	// straight to completed.
	now := time.Now()
	a := &model.Assessment{
		Status:    model.AssessmentScheduled,
		StartTime: now.Add(-2 * time.Hour),
		EndTime:   now.Add(-time.Hour),
	}
	assert.Equal(t, model.AssessmentCompleted, NextStatus(a, now))
}

func TestNextStatusNoTransitionDue(t *testing.T) {
	now := time.Now()
	cases := []*model.Assessment{
		{Status: model.AssessmentDraft},
		{Status: model.AssessmentCompleted},
		{Status: model.AssessmentScheduled, StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)},
		{Status: model.AssessmentActive, StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour)},
	}
	for _, a := range cases {
		assert.Equal(t, model.AssessmentStatus(""), NextStatus(a, now), "status %s", a.Status)
	}
}

func TestValidateQuestionRequest(t *testing.T) {
	good := func() *QuestionRequest {
		return &QuestionRequest{
			Text:  "q",
			Marks: 2,
			Options: []OptionRequest{
				{Label: "A", Text: "a", IsCorrect: true},
				{Label: "B", Text: "b"},
				{Label: "C", Text: "c"},
				{Label: "D", Text: "d"},
			},
		}
	}
	require.NoError(t, validateQuestionRequest(good()))

	dup := good()
	dup.Options[1].Label = "A"
	assert.Error(t, validateQuestionRequest(dup))

	none := good()
	none.Options[0].IsCorrect = false
	assert.Error(t, validateQuestionRequest(none))

	two := good()
	two.Options[1].IsCorrect = true
	assert.Error(t, validateQuestionRequest(two))
}
