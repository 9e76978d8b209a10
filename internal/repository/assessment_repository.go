package repository

import (
	"campus_backend/internal/model"

	"gorm.io/gorm"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

func (r *AssessmentRepository) Create(a *model.Assessment) error {
	return r.DB.Create(a).Error
}

func (r *AssessmentRepository) FindByID(id uint) (*model.Assessment, error) {
	var a model.Assessment
	err := r.DB.First(&a, id).Error
	return &a, err
}

// FindByIDWithQuestions preloads active questions and their options in
// display order.
func (r *AssessmentRepository) FindByIDWithQuestions(id uint) (*model.Assessment, error) {
	var a model.Assessment
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("`order` asc, id asc")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("label asc")
		}).
		First(&a, id).Error
	return &a, err
}

func (r *AssessmentRepository) ListByBatch(batchID uint, page, limit int) ([]model.Assessment, int64, error) {
	var as []model.Assessment
	var total int64
	query := r.DB.Model(&model.Assessment{}).Where("batch_id = ?", batchID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("start_time desc").Offset(offset).Limit(limit).Find(&as).Error
	return as, total, err
}

func (r *AssessmentRepository) ListByFaculty(facultyID uint, page, limit int) ([]model.Assessment, int64, error) {
	var as []model.Assessment
	var total int64
	query := r.DB.Model(&model.Assessment{}).Where("faculty_id = ?", facultyID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&as).Error
	return as, total, err
}

func (r *AssessmentRepository) Update(a *model.Assessment) error {
	return r.DB.Save(a).Error
}

func (r *AssessmentRepository) UpdateStatus(id uint, status model.AssessmentStatus) error {
	return r.DB.Model(&model.Assessment{}).Where("id = ?", id).Update("status", status).Error
}

func (r *AssessmentRepository) Deactivate(id uint) error {
	return r.DB.Model(&model.Assessment{}).Where("id = ?", id).Update("is_active", false).Error
}

// ListDueForTransition returns assessments whose stored status lags the
// clock, for the periodic sweep.
func (r *AssessmentRepository) ListDueForTransition() ([]model.Assessment, error) {
	var as []model.Assessment
	err := r.DB.
		Where("(status = ? AND start_time <= NOW()) OR (status IN ? AND end_time <= NOW())",
			model.AssessmentScheduled,
			[]model.AssessmentStatus{model.AssessmentScheduled, model.AssessmentActive}).
		Find(&as).Error
	return as, err
}

// Question and option access.

func (r *AssessmentRepository) CreateQuestion(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *AssessmentRepository) FindQuestionByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("label asc")
	}).First(&q, id).Error
	return &q, err
}

func (r *AssessmentRepository) ListActiveQuestions(assessmentID uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("label asc")
		}).
		Where("assessment_id = ? AND is_active = ?", assessmentID, true).
		Order("`order` asc, id asc").
		Find(&qs).Error
	return qs, err
}

func (r *AssessmentRepository) UpdateQuestion(q *model.Question) error {
	return r.DB.Save(q).Error
}

func (r *AssessmentRepository) DeleteQuestion(id uint) error {
	return r.DB.Select("Options").Delete(&model.Question{BaseModel: model.BaseModel{ID: id}}).Error
}

// ReplaceOptions swaps a question's option set atomically. The old rows are
// hard-deleted: soft-deleted rows would still occupy
// idx_option_question_label and block re-inserting the same labels.
func (r *AssessmentRepository) ReplaceOptions(questionID uint, options []model.Option) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("question_id = ?", questionID).Delete(&model.Option{}).Error; err != nil {
			return err
		}
		for i := range options {
			options[i].QuestionID = questionID
		}
		return tx.Create(&options).Error
	})
}
