package service

import (
	"testing"
	"time"

	"campus_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evaluatedAttempt(studentID uint, marks int, percentage float64) model.Attempt {
	now := time.Now()
	return model.Attempt{
		StudentID:     studentID,
		Status:        model.AttemptEvaluated,
		MarksObtained: marks,
		Percentage:    percentage,
		SubmittedAt:   &now,
	}
}

func TestBuildSummary(t *testing.T) {
	a := &model.Assessment{
		Title:             "Midterm",
		TotalMarks:        50,
		PassingPercentage: 40,
		Status:            model.AssessmentCompleted,
	}
	a.ID = 3
	attempts := []model.Attempt{
		evaluatedAttempt(1, 45, 90),
		evaluatedAttempt(2, 17, 35),
		evaluatedAttempt(3, 20, 40),
		{StudentID: 4, Status: model.AttemptInProgress},
	}

	s := BuildSummary(a, attempts, 10)
	assert.Equal(t, int64(10), s.EnrolledCount)
	assert.Equal(t, 4, s.AttemptedCount)
	assert.Equal(t, int64(6), s.NotAttemptedCount)
	assert.Equal(t, 3, s.EvaluatedCount)
	assert.Equal(t, 2, s.PassCount)
	assert.Equal(t, 1, s.FailCount)
	assert.Equal(t, 27.33, s.AverageMarks)
	assert.Equal(t, 45, s.HighestMarks)
	assert.Equal(t, 17, s.LowestMarks)
	assert.Equal(t, 55.0, s.AveragePercentage)
	assert.Equal(t, 90.0, s.HighestPercentage)
	assert.Equal(t, 35.0, s.LowestPercentage)
}

func TestBuildSummaryNoAttempts(t *testing.T) {
	a := &model.Assessment{TotalMarks: 50, PassingPercentage: 40}
	s := BuildSummary(a, nil, 5)
	assert.Equal(t, 0, s.AttemptedCount)
	assert.Equal(t, int64(5), s.NotAttemptedCount)
	assert.Equal(t, 0, s.EvaluatedCount)
	assert.Equal(t, 0.0, s.AverageMarks)
	assert.Equal(t, 0, s.HighestMarks)
	assert.Equal(t, 0, s.LowestMarks)
	assert.Equal(t, 0.0, s.AveragePercentage)
	assert.Equal(t, 0.0, s.HighestPercentage)
	assert.Equal(t, 0.0, s.LowestPercentage)
}

func TestBuildSummaryNotAttemptedFloor(t *testing.T) {
	// Unenrollment after an attempt must not produce a negative count.
	a := &model.Assessment{TotalMarks: 50, PassingPercentage: 40}
	s := BuildSummary(a, []model.Attempt{evaluatedAttempt(1, 25, 50)}, 0)
	assert.Equal(t, int64(0), s.NotAttemptedCount)
}

func TestBuildSummaryPassBoundary(t *testing.T) {
	// Percentage exactly at passing counts as a pass.
	a := &model.Assessment{PassingPercentage: 40}
	s := BuildSummary(a, []model.Attempt{evaluatedAttempt(1, 20, 40)}, 1)
	assert.Equal(t, 1, s.PassCount)
	assert.Equal(t, 0, s.FailCount)
}

func TestBuildImpacts(t *testing.T) {
	refs := []skillRef{
		{id: 1, name: "Algebra", weight: 60},
		{id: 2, name: "Geometry", weight: 40},
	}
	rows := []model.StudentSkill{
		{SkillID: 1, Percentage: 72.5, MasteryLevel: model.MasteryIntermediate, EvaluationCount: 3},
	}

	impacts := buildImpacts(refs, rows)
	require.Len(t, impacts, 2)
	assert.Equal(t, SkillImpact{
		SkillID:         1,
		SkillName:       "Algebra",
		Weight:          60,
		Percentage:      72.5,
		MasteryLevel:    model.MasteryIntermediate,
		EvaluationCount: 3,
	}, impacts[0])
	// A skill with no aggregate row yet reads as untouched.
	assert.Equal(t, SkillImpact{
		SkillID:      2,
		SkillName:    "Geometry",
		Weight:       40,
		MasteryLevel: model.MasteryNotAcquired,
	}, impacts[1])
}
