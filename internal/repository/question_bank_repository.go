package repository

import (
	"campus_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionBankRepository struct {
	DB *gorm.DB
}

func NewQuestionBankRepository(db *gorm.DB) *QuestionBankRepository {
	return &QuestionBankRepository{DB: db}
}

// CreateWithQuestions persists a bank and all of its questions atomically;
// a rejected import never leaves rows behind.
func (r *QuestionBankRepository) CreateWithQuestions(bank *model.QuestionBank, questions []model.BankQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(bank).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].BankID = bank.ID
		}
		if len(questions) == 0 {
			return nil
		}
		return tx.Create(&questions).Error
	})
}

func (r *QuestionBankRepository) FindByID(id uint) (*model.QuestionBank, error) {
	var b model.QuestionBank
	err := r.DB.Preload("Questions").First(&b, id).Error
	return &b, err
}

func (r *QuestionBankRepository) ListByFaculty(facultyID uint, page, limit int) ([]model.QuestionBank, int64, error) {
	var banks []model.QuestionBank
	var total int64
	query := r.DB.Model(&model.QuestionBank{}).Where("faculty_id = ? AND is_active = ?", facultyID, true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&banks).Error
	return banks, total, err
}

func (r *QuestionBankRepository) ListQuestions(bankID uint, ids []uint) ([]model.BankQuestion, error) {
	var qs []model.BankQuestion
	query := r.DB.Where("bank_id = ?", bankID)
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}
	err := query.Order("id asc").Find(&qs).Error
	return qs, err
}

func (r *QuestionBankRepository) Deactivate(id uint) error {
	return r.DB.Model(&model.QuestionBank{}).Where("id = ?", id).Update("is_active", false).Error
}
