package repository

import (
	"testing"

	"campus_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func optionSet(prefix string) []model.Option {
	opts := make([]model.Option, 0, len(model.OptionLabels))
	for i, label := range model.OptionLabels {
		opts = append(opts, model.Option{Label: label, Text: prefix + " " + label, IsCorrect: i == 0})
	}
	return opts
}

func TestReplaceOptionsReusesLabels(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.AutoMigrate(&model.Question{}, &model.Option{}))
	repo := NewAssessmentRepository(db)

	q := &model.Question{AssessmentID: 1, Text: "2+2?", Marks: 2, IsActive: true}
	require.NoError(t, repo.CreateQuestion(q))
	require.NoError(t, repo.ReplaceOptions(q.ID, optionSet("first")))

	// Replacing must free the (question_id, label) slots; rows left behind
	// by a soft delete would still hold them and fail the second insert.
	require.NoError(t, repo.ReplaceOptions(q.ID, optionSet("second")))

	var stored []model.Option
	require.NoError(t, db.Where("question_id = ?", q.ID).Order("label asc").Find(&stored).Error)
	require.Len(t, stored, 4)
	assert.Equal(t, "second A", stored[0].Text)

	var total int64
	require.NoError(t, db.Unscoped().Model(&model.Option{}).Count(&total).Error)
	assert.EqualValues(t, 4, total)
}
