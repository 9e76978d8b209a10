package model

// QuestionBank is a faculty-scoped reusable question store, filled by the
// bulk text import and copied from when an assessment imports questions.
type QuestionBank struct {
	BaseModel
	FacultyID   uint   `gorm:"index;not null" json:"facultyId"`
	SubjectID   uint   `gorm:"index" json:"subjectId"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IsActive    bool   `gorm:"default:true" json:"isActive"`

	Questions []BankQuestion `gorm:"foreignKey:BankID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (QuestionBank) TableName() string {
	return "question_banks"
}

// BankQuestion is the parser's validated output at rest. It is independent
// of any assessment until explicitly copied into one.
type BankQuestion struct {
	BaseModel
	BankID        uint   `gorm:"index;not null" json:"bankId"`
	Text          string `gorm:"type:text;not null" json:"text"`
	OptionA       string `gorm:"type:text;not null" json:"optionA"`
	OptionB       string `gorm:"type:text;not null" json:"optionB"`
	OptionC       string `gorm:"type:text;not null" json:"optionC"`
	OptionD       string `gorm:"type:text;not null" json:"optionD"`
	CorrectOption string `gorm:"size:1;not null" json:"correctOption"`
	Marks         int    `gorm:"default:1" json:"marks"`
}

func (BankQuestion) TableName() string {
	return "bank_questions"
}

// OptionTexts returns the option texts keyed in fixed A-D order.
func (bq *BankQuestion) OptionTexts() map[string]string {
	return map[string]string{
		"A": bq.OptionA,
		"B": bq.OptionB,
		"C": bq.OptionC,
		"D": bq.OptionD,
	}
}
