package service

import (
	"strings"
	"testing"

	"campus_backend/internal/parser"
	"campus_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodBlock = `What is the capital of France?
A. Berlin
B. Madrid
C. Paris
D. Rome
ANSWER: C`

func TestImportTextRejectsBeforeTouchingStorage(t *testing.T) {
	// One malformed block among many blocks the whole import. The service
	// has no repositories here, so reaching storage would panic.
	svc := NewQuestionBankService(nil, nil)

	blocks := make([]string, 0, 10)
	for i := 0; i < 9; i++ {
		blocks = append(blocks, goodBlock)
	}
	blocks = append(blocks, "too short")
	doc := strings.Join(blocks, "\n\n")

	bank, err := svc.ImportText(1, &ImportBankRequest{Name: "geo"}, doc)
	require.Error(t, err)
	assert.Nil(t, bank)

	ve, ok := util.AsValidation(err)
	require.True(t, ok)
	errs, ok := ve.Details.([]parser.ParseError)
	require.True(t, ok)
	assert.Len(t, errs, 1)
}
