package model

import (
	"time"
)

type AssessmentStatus string

const (
	AssessmentDraft     AssessmentStatus = "draft"
	AssessmentScheduled AssessmentStatus = "scheduled"
	AssessmentActive    AssessmentStatus = "active"
	AssessmentCompleted AssessmentStatus = "completed"
)

// swagger:model Assessment
type Assessment struct {
	BaseModel
	BatchID           uint             `gorm:"index;not null" json:"batchId"`
	SubjectID         uint             `gorm:"index;not null" json:"subjectId"`
	FacultyID         uint             `gorm:"index;not null" json:"facultyId"`
	Title             string           `gorm:"size:255;not null" json:"title"`
	Description       string           `gorm:"type:text" json:"description"`
	TotalMarks        int              `gorm:"not null" json:"totalMarks"`
	DurationMinutes   int              `gorm:"not null" json:"durationMinutes"`
	PassingPercentage float64          `gorm:"not null" json:"passingPercentage"`
	StartTime         time.Time        `gorm:"not null" json:"startTime"`
	EndTime           time.Time        `gorm:"not null" json:"endTime"`
	Status            AssessmentStatus `gorm:"type:enum('draft','scheduled','active','completed');default:'draft';index" json:"status"`
	IsActive          bool             `gorm:"default:true" json:"isActive"`

	Questions []Question `gorm:"foreignKey:AssessmentID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// Editable reports whether question-level edits are still allowed.
// Question-bank imports are additionally allowed while scheduled.
func (a *Assessment) Editable() bool {
	return a.Status == AssessmentDraft
}

// AvailableAt reports whether a student may start or continue an attempt at
// the given instant. Enrollment is checked separately.
func (a *Assessment) AvailableAt(now time.Time) bool {
	if !a.IsActive {
		return false
	}
	if a.Status != AssessmentScheduled && a.Status != AssessmentActive {
		return false
	}
	return !now.Before(a.StartTime) && !now.After(a.EndTime)
}

type Question struct {
	BaseModel
	AssessmentID uint   `gorm:"index;not null" json:"assessmentId"`
	Text         string `gorm:"type:text;not null" json:"text"`
	Marks        int    `gorm:"not null" json:"marks"`
	Order        int    `gorm:"default:0" json:"order"`
	IsActive     bool   `gorm:"default:true" json:"isActive"`

	Options []Option `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// CorrectOption returns the single option flagged correct, or nil when the
// question is structurally incomplete.
func (q *Question) CorrectOption() *Option {
	var found *Option
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			if found != nil {
				return nil
			}
			found = &q.Options[i]
		}
	}
	return found
}

// Option labels are fixed to A-D.
var OptionLabels = []string{"A", "B", "C", "D"}

type Option struct {
	BaseModel
	QuestionID uint   `gorm:"uniqueIndex:idx_option_question_label;not null" json:"questionId"`
	Label      string `gorm:"uniqueIndex:idx_option_question_label;size:1;not null" json:"label"`
	Text       string `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}

func (Option) TableName() string {
	return "options"
}
