package repository

import (
	"campus_backend/internal/model"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrDuplicateAttempt surfaces the (student, assessment) unique constraint.
var ErrDuplicateAttempt = errors.New("attempt already exists for this student and assessment")

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// Create relies on the storage-layer unique index to close the race between
// two concurrent start requests.
func (r *AttemptRepository) Create(attempt *model.Attempt) error {
	err := r.DB.Create(attempt).Error
	if err != nil && isDuplicateKey(err) {
		return ErrDuplicateAttempt
	}
	return err
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "Duplicate entry")
}

func (r *AttemptRepository) FindByID(id uint) (*model.Attempt, error) {
	var at model.Attempt
	err := r.DB.Preload("Answers").First(&at, id).Error
	return &at, err
}

func (r *AttemptRepository) FindByStudentAndAssessment(studentID, assessmentID uint) (*model.Attempt, error) {
	var at model.Attempt
	err := r.DB.Preload("Answers").
		Where("student_id = ? AND assessment_id = ?", studentID, assessmentID).
		First(&at).Error
	return &at, err
}

func (r *AttemptRepository) ListByStudent(studentID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.Where("student_id = ?", studentID).Order("started_at desc").Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ListByAssessment(assessmentID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.Where("assessment_id = ?", assessmentID).Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) Update(attempt *model.Attempt) error {
	return r.DB.Save(attempt).Error
}

func (r *AttemptRepository) SaveAnswer(answer *model.Answer) error {
	return r.DB.Save(answer).Error
}

func (r *AttemptRepository) FindAnswer(attemptID, questionID uint) (*model.Answer, error) {
	var ans model.Answer
	err := r.DB.Where("attempt_id = ? AND question_id = ?", attemptID, questionID).First(&ans).Error
	return &ans, err
}

// ListExpiredInProgress returns in-progress attempts whose window has
// closed, either because the assessment ended or the per-attempt duration
// ran out. The expiry sweep finalizes them.
func (r *AttemptRepository) ListExpiredInProgress(now time.Time) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.Model(&model.Attempt{}).
		Joins("JOIN assessments ON assessments.id = attempts.assessment_id").
		Where("attempts.status = ?", model.AttemptInProgress).
		Where("assessments.end_time <= ? OR DATE_ADD(attempts.started_at, INTERVAL assessments.duration_minutes MINUTE) <= ?", now, now).
		Preload("Answers").
		Find(&attempts).Error
	return attempts, err
}

// EvaluateInTx persists the full outcome of one evaluation atomically:
// every answer row plus the attempt's marks, percentage, status and submit
// timestamp. Partial evaluation is never visible.
func (r *AttemptRepository) EvaluateInTx(attempt *model.Attempt, answers []model.Answer) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for i := range answers {
			if err := tx.Save(&answers[i]).Error; err != nil {
				return err
			}
		}
		return tx.Save(attempt).Error
	})
}
