package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, isDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKey(errors.New("Error 1062 (23000): Duplicate entry '3-7' for key 'idx_attempt_student_assessment'")))
	assert.True(t, isDuplicateKey(fmt.Errorf("create attempt: %w", gorm.ErrDuplicatedKey)))
	assert.False(t, isDuplicateKey(gorm.ErrRecordNotFound))
	assert.False(t, isDuplicateKey(errors.New("connection refused")))
}
