package model

// Centre, batch, course and subject records are plain record-keeping; the
// evaluation engine only reads them through the enrollment and assignment
// checks below.

type Centre struct {
	BaseModel
	Name     string `gorm:"size:255;not null" json:"name"`
	Code     string `gorm:"size:50;unique" json:"code"`
	IsActive bool   `gorm:"default:true" json:"isActive"`
}

func (Centre) TableName() string {
	return "centres"
}

type Course struct {
	BaseModel
	Name string `gorm:"size:255;not null" json:"name"`
	Code string `gorm:"size:50;unique" json:"code"`
	// Raw skill catalog as authored on the course; synced into Skill rows
	// by SkillService.SyncCourseSkills.
	SkillNames StringList `gorm:"type:json" json:"skillNames"`
	IsActive   bool       `gorm:"default:true" json:"isActive"`
}

func (Course) TableName() string {
	return "courses"
}

type Batch struct {
	BaseModel
	CentreID uint   `gorm:"index;not null" json:"centreId"`
	CourseID uint   `gorm:"index;not null" json:"courseId"`
	Name     string `gorm:"size:255;not null" json:"name"`
	IsActive bool   `gorm:"default:true" json:"isActive"`
}

func (Batch) TableName() string {
	return "batches"
}

type Subject struct {
	BaseModel
	CourseID uint   `gorm:"index;not null" json:"courseId"`
	Name     string `gorm:"size:255;not null" json:"name"`
	IsActive bool   `gorm:"default:true" json:"isActive"`
}

func (Subject) TableName() string {
	return "subjects"
}

// Enrollment links a student to a batch.
type Enrollment struct {
	BaseModel
	StudentID uint `gorm:"uniqueIndex:idx_enroll_student_batch;not null" json:"studentId"`
	BatchID   uint `gorm:"uniqueIndex:idx_enroll_student_batch;index;not null" json:"batchId"`
	IsActive  bool `gorm:"default:true" json:"isActive"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// FacultyAssignment links a faculty member to a batch and subject. It gates
// assessment creation and question-bank imports.
type FacultyAssignment struct {
	BaseModel
	FacultyID uint `gorm:"uniqueIndex:idx_fac_batch_subject;not null" json:"facultyId"`
	BatchID   uint `gorm:"uniqueIndex:idx_fac_batch_subject;index;not null" json:"batchId"`
	SubjectID uint `gorm:"uniqueIndex:idx_fac_batch_subject;index;not null" json:"subjectId"`
	IsActive  bool `gorm:"default:true" json:"isActive"`
}

func (FacultyAssignment) TableName() string {
	return "faculty_assignments"
}
