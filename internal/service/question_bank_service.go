package service

import (
	"errors"

	"campus_backend/internal/model"
	"campus_backend/internal/parser"
	"campus_backend/internal/repository"
	"campus_backend/internal/util"
	"campus_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// ImportBankRequest names the bank a bulk text upload should create.
type ImportBankRequest struct {
	SubjectID   uint   `json:"subjectId"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// ImportFromBankRequest copies selected bank questions into an assessment.
// Empty QuestionIDs means the whole bank. MarksEach overrides the stored
// per-question marks when positive.
type ImportFromBankRequest struct {
	BankID      uint   `json:"bankId" binding:"required"`
	QuestionIDs []uint `json:"questionIds"`
	MarksEach   int    `json:"marksEach"`
}

type QuestionBankService struct {
	banks       *repository.QuestionBankRepository
	assessments *repository.AssessmentRepository
}

func NewQuestionBankService(banks *repository.QuestionBankRepository, assessments *repository.AssessmentRepository) *QuestionBankService {
	return &QuestionBankService{banks: banks, assessments: assessments}
}

// ImportText parses a plain-text upload and persists the bank with every
// question in one transaction. Any parse error blocks the whole import; the
// full line-tagged error list comes back as validation detail.
func (s *QuestionBankService) ImportText(facultyID uint, req *ImportBankRequest, text string) (*model.QuestionBank, error) {
	result := parser.Parse(text)
	if !result.IsSuccessful() {
		monitoring.ImportCounter.WithLabelValues("rejected").Inc()
		return nil, util.NewValidationError("import failed, no questions were saved", result.Errors)
	}

	bank := &model.QuestionBank{
		FacultyID:   facultyID,
		SubjectID:   req.SubjectID,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	questions := make([]model.BankQuestion, 0, len(result.Questions))
	for _, q := range result.Questions {
		questions = append(questions, model.BankQuestion{
			Text:          q.Text,
			OptionA:       q.Options["A"],
			OptionB:       q.Options["B"],
			OptionC:       q.Options["C"],
			OptionD:       q.Options["D"],
			CorrectOption: q.CorrectOption,
			Marks:         1,
		})
	}
	if err := s.banks.CreateWithQuestions(bank, questions); err != nil {
		monitoring.ImportCounter.WithLabelValues("failed").Inc()
		return nil, err
	}
	monitoring.ImportCounter.WithLabelValues("success").Inc()
	return bank, nil
}

func (s *QuestionBankService) Get(facultyID, bankID uint) (*model.QuestionBank, error) {
	return s.ownedBy(facultyID, bankID)
}

func (s *QuestionBankService) List(facultyID uint, page, limit int) ([]model.QuestionBank, int64, error) {
	return s.banks.ListByFaculty(facultyID, page, limit)
}

func (s *QuestionBankService) Deactivate(facultyID, bankID uint) error {
	if _, err := s.ownedBy(facultyID, bankID); err != nil {
		return err
	}
	return s.banks.Deactivate(bankID)
}

// ImportFromBank copies bank questions into an assessment as fresh question
// rows with A-D options. Allowed while the assessment is draft or scheduled;
// the copies are independent of the bank afterwards.
func (s *QuestionBankService) ImportFromBank(facultyID, assessmentID uint, req *ImportFromBankRequest) ([]model.Question, error) {
	assessment, err := s.assessments.FindByID(assessmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAssessmentNotFound
	}
	if err != nil {
		return nil, err
	}
	if !assessment.IsActive {
		return nil, util.ErrAssessmentNotFound
	}
	if assessment.FacultyID != facultyID {
		return nil, util.ErrPermissionDenied
	}
	if assessment.Status != model.AssessmentDraft && assessment.Status != model.AssessmentScheduled {
		return nil, util.ErrAssessmentLocked
	}

	if _, err := s.ownedBy(facultyID, req.BankID); err != nil {
		return nil, err
	}
	bankQuestions, err := s.banks.ListQuestions(req.BankID, req.QuestionIDs)
	if err != nil {
		return nil, err
	}
	if len(bankQuestions) == 0 {
		return nil, util.NewValidationError("no matching bank questions to import", nil)
	}
	if len(req.QuestionIDs) > 0 && len(bankQuestions) != len(req.QuestionIDs) {
		return nil, util.NewValidationError("some requested questions do not belong to this bank", nil)
	}

	existing, err := s.assessments.ListActiveQuestions(assessmentID)
	if err != nil {
		return nil, err
	}
	order := len(existing)

	created := make([]model.Question, 0, len(bankQuestions))
	for _, bq := range bankQuestions {
		marks := bq.Marks
		if req.MarksEach > 0 {
			marks = req.MarksEach
		}
		order++
		question := &model.Question{
			AssessmentID: assessmentID,
			Text:         bq.Text,
			Marks:        marks,
			Order:        order,
			IsActive:     true,
		}
		for _, label := range model.OptionLabels {
			question.Options = append(question.Options, model.Option{
				Label:     label,
				Text:      bq.OptionTexts()[label],
				IsCorrect: label == bq.CorrectOption,
			})
		}
		if err := s.assessments.CreateQuestion(question); err != nil {
			return nil, err
		}
		created = append(created, *question)
	}
	return created, nil
}

func (s *QuestionBankService) ownedBy(facultyID, bankID uint) (*model.QuestionBank, error) {
	bank, err := s.banks.FindByID(bankID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrBankNotFound
	}
	if err != nil {
		return nil, err
	}
	if !bank.IsActive {
		return nil, util.ErrBankNotFound
	}
	if bank.FacultyID != facultyID {
		return nil, util.ErrPermissionDenied
	}
	return bank, nil
}
