package model

// MasteryLevel is one of four ordered bands derived from a skill's
// aggregated percentage.
type MasteryLevel string

const (
	MasteryNotAcquired  MasteryLevel = "NOT_ACQUIRED"
	MasteryBeginner     MasteryLevel = "BEGINNER"
	MasteryIntermediate MasteryLevel = "INTERMEDIATE"
	MasteryAdvanced     MasteryLevel = "ADVANCED"
)

// MasteryLevelFor maps an aggregated percentage to its band. Bands are
// inclusive-lower/exclusive-upper except the top band.
func MasteryLevelFor(percentage float64) MasteryLevel {
	switch {
	case percentage >= 80:
		return MasteryAdvanced
	case percentage >= 60:
		return MasteryIntermediate
	case percentage >= 40:
		return MasteryBeginner
	default:
		return MasteryNotAcquired
	}
}

type Skill struct {
	BaseModel
	CourseID uint   `gorm:"uniqueIndex:idx_skill_course_name;not null" json:"courseId"`
	Name     string `gorm:"uniqueIndex:idx_skill_course_name;size:255;not null" json:"name"`
	IsActive bool   `gorm:"default:true" json:"isActive"`
}

func (Skill) TableName() string {
	return "skills"
}

// MappingSource identifies which kind of evaluable artifact a SkillMapping
// hangs off.
type MappingSource string

const (
	SourceAssessment MappingSource = "assessment"
	SourceAssignment MappingSource = "assignment"
)

// SkillMapping links an assessment or assignment to a skill it partially
// evaluates, with an integer weight percentage in [1,100].
type SkillMapping struct {
	BaseModel
	SourceType       MappingSource `gorm:"type:enum('assessment','assignment');uniqueIndex:idx_mapping_source_skill;not null" json:"sourceType"`
	SourceID         uint          `gorm:"uniqueIndex:idx_mapping_source_skill;not null" json:"sourceId"`
	SkillID          uint          `gorm:"uniqueIndex:idx_mapping_source_skill;index;not null" json:"skillId"`
	WeightPercentage int           `gorm:"not null" json:"weightPercentage"`
}

func (SkillMapping) TableName() string {
	return "skill_mappings"
}

// SkillContribution is one evaluated artifact's input to a student's skill
// aggregate: the attempt or submission percentage paired with its mapping
// weight.
type SkillContribution struct {
	SourceType MappingSource `json:"sourceType"`
	SourceID   uint          `json:"sourceId"`
	Percentage float64       `json:"percentage"`
	Weight     int           `json:"weight"`
}

// StudentSkill is the materialized per-(student, skill) aggregate. It is
// rebuilt in full by SkillService.RecomputeStudentSkill, never appended to.
type StudentSkill struct {
	BaseModel
	StudentID       uint         `gorm:"uniqueIndex:idx_student_skill;not null" json:"studentId"`
	SkillID         uint         `gorm:"uniqueIndex:idx_student_skill;index;not null" json:"skillId"`
	Percentage      float64      `gorm:"default:0" json:"percentage"`
	MasteryLevel    MasteryLevel `gorm:"size:20;default:'NOT_ACQUIRED'" json:"masteryLevel"`
	EvaluationCount int          `gorm:"default:0" json:"evaluationCount"`
}

func (StudentSkill) TableName() string {
	return "student_skills"
}
