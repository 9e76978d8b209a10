package repository

import (
	"campus_backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(a *model.Assignment) error {
	return r.DB.Create(a).Error
}

func (r *AssignmentRepository) FindByID(id uint) (*model.Assignment, error) {
	var a model.Assignment
	err := r.DB.First(&a, id).Error
	return &a, err
}

func (r *AssignmentRepository) ListByBatch(batchID uint, page, limit int) ([]model.Assignment, int64, error) {
	var as []model.Assignment
	var total int64
	query := r.DB.Model(&model.Assignment{}).Where("batch_id = ? AND is_active = ?", batchID, true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("due_date desc").Offset(offset).Limit(limit).Find(&as).Error
	return as, total, err
}

func (r *AssignmentRepository) CreateSubmission(s *model.AssignmentSubmission) error {
	err := r.DB.Create(s).Error
	if err != nil && isDuplicateKey(err) {
		return ErrDuplicateAttempt
	}
	return err
}

func (r *AssignmentRepository) FindSubmissionByID(id uint) (*model.AssignmentSubmission, error) {
	var s model.AssignmentSubmission
	err := r.DB.First(&s, id).Error
	return &s, err
}

func (r *AssignmentRepository) ListSubmissions(assignmentID uint) ([]model.AssignmentSubmission, error) {
	var ss []model.AssignmentSubmission
	err := r.DB.Where("assignment_id = ?", assignmentID).Find(&ss).Error
	return ss, err
}

func (r *AssignmentRepository) UpdateSubmission(s *model.AssignmentSubmission) error {
	return r.DB.Save(s).Error
}
