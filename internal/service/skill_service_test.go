package service

import (
	"testing"

	"campus_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSkillStore struct {
	skills        map[uint]*model.Skill
	mappings      map[uint]*model.SkillMapping
	contributions map[[2]uint][]model.SkillContribution
	studentSkills map[[2]uint]*model.StudentSkill
	nextID        uint
	listErr       error
}

func newFakeSkillStore() *fakeSkillStore {
	return &fakeSkillStore{
		skills:        make(map[uint]*model.Skill),
		mappings:      make(map[uint]*model.SkillMapping),
		contributions: make(map[[2]uint][]model.SkillContribution),
		studentSkills: make(map[[2]uint]*model.StudentSkill),
	}
}

func (f *fakeSkillStore) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeSkillStore) FindSkillByID(id uint) (*model.Skill, error) {
	if s, ok := f.skills[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSkillStore) ListSkillsByCourse(courseID uint) ([]model.Skill, error) {
	var out []model.Skill
	for _, s := range f.skills {
		if s.CourseID == courseID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSkillStore) CreateSkill(s *model.Skill) error {
	s.ID = f.id()
	f.skills[s.ID] = s
	return nil
}

func (f *fakeSkillStore) UpdateSkill(s *model.Skill) error {
	f.skills[s.ID] = s
	return nil
}

func (f *fakeSkillStore) CreateMapping(m *model.SkillMapping) error {
	m.ID = f.id()
	f.mappings[m.ID] = m
	return nil
}

func (f *fakeSkillStore) FindMappingByID(id uint) (*model.SkillMapping, error) {
	if m, ok := f.mappings[id]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSkillStore) ListMappings(source model.MappingSource, sourceID uint) ([]model.SkillMapping, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.SkillMapping
	for _, m := range f.mappings {
		if m.SourceType == source && m.SourceID == sourceID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeSkillStore) DeleteMapping(id uint) error {
	delete(f.mappings, id)
	return nil
}

func (f *fakeSkillStore) ContributionsFor(studentID, skillID uint) ([]model.SkillContribution, error) {
	return f.contributions[[2]uint{studentID, skillID}], nil
}

func (f *fakeSkillStore) FindStudentSkill(studentID, skillID uint) (*model.StudentSkill, error) {
	if ss, ok := f.studentSkills[[2]uint{studentID, skillID}]; ok {
		return ss, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSkillStore) SaveStudentSkill(ss *model.StudentSkill) error {
	if ss.ID == 0 {
		ss.ID = f.id()
	}
	f.studentSkills[[2]uint{ss.StudentID, ss.SkillID}] = ss
	return nil
}

func (f *fakeSkillStore) ListStudentSkills(studentID uint) ([]model.StudentSkill, error) {
	var out []model.StudentSkill
	for key, ss := range f.studentSkills {
		if key[0] == studentID {
			out = append(out, *ss)
		}
	}
	return out, nil
}

type fakeCourseStore struct {
	courses map[uint]*model.Course
}

func (f *fakeCourseStore) FindCourseByID(id uint) (*model.Course, error) {
	if c, ok := f.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestAggregateContributionsSkipsBelowThreshold(t *testing.T) {
	// A failed attempt neither raises nor dilutes the aggregate.
	got := AggregateContributions([]model.SkillContribution{
		{Percentage: 80, Weight: 50},
		{Percentage: 30, Weight: 50},
	})
	assert.Equal(t, 80.0, got)
}

func TestAggregateContributionsWeighted(t *testing.T) {
	got := AggregateContributions([]model.SkillContribution{
		{Percentage: 90, Weight: 60},
		{Percentage: 60, Weight: 40},
	})
	assert.Equal(t, 78.0, got)
}

func TestAggregateContributionsThresholdBoundary(t *testing.T) {
	// Exactly the threshold qualifies; just below does not.
	assert.Equal(t, 50.0, AggregateContributions([]model.SkillContribution{
		{Percentage: 50, Weight: 25},
	}))
	assert.Equal(t, 0.0, AggregateContributions([]model.SkillContribution{
		{Percentage: 49.99, Weight: 25},
	}))
}

func TestAggregateContributionsEmpty(t *testing.T) {
	assert.Equal(t, 0.0, AggregateContributions(nil))
}

func TestAggregateContributionsRounds(t *testing.T) {
	got := AggregateContributions([]model.SkillContribution{
		{Percentage: 66.67, Weight: 30},
		{Percentage: 85, Weight: 70},
	})
	assert.Equal(t, 79.5, got)
}

func TestRecomputeStudentSkillCreatesRow(t *testing.T) {
	store := newFakeSkillStore()
	store.contributions[[2]uint{7, 3}] = []model.SkillContribution{
		{SourceType: model.SourceAssessment, SourceID: 1, Percentage: 80, Weight: 50},
		{SourceType: model.SourceAssessment, SourceID: 2, Percentage: 30, Weight: 50},
	}
	svc := NewSkillService(store, &fakeCourseStore{})

	row, err := svc.RecomputeStudentSkill(7, 3)
	require.NoError(t, err)
	assert.Equal(t, 80.0, row.Percentage)
	assert.Equal(t, model.MasteryAdvanced, row.MasteryLevel)
	assert.Equal(t, 2, row.EvaluationCount)
}

func TestRecomputeStudentSkillReplacesNotIncrements(t *testing.T) {
	store := newFakeSkillStore()
	key := [2]uint{7, 3}
	store.studentSkills[key] = &model.StudentSkill{
		StudentID: 7, SkillID: 3,
		Percentage: 95, MasteryLevel: model.MasteryAdvanced, EvaluationCount: 4,
	}
	store.studentSkills[key].ID = 11
	store.contributions[key] = []model.SkillContribution{
		{SourceType: model.SourceAssessment, SourceID: 1, Percentage: 55, Weight: 100},
	}
	svc := NewSkillService(store, &fakeCourseStore{})

	row, err := svc.RecomputeStudentSkill(7, 3)
	require.NoError(t, err)
	assert.Equal(t, uint(11), row.ID)
	assert.Equal(t, 55.0, row.Percentage)
	assert.Equal(t, model.MasteryBeginner, row.MasteryLevel)
	assert.Equal(t, 1, row.EvaluationCount)
}

func TestRecomputeStudentSkillIdempotent(t *testing.T) {
	store := newFakeSkillStore()
	store.contributions[[2]uint{7, 3}] = []model.SkillContribution{
		{SourceType: model.SourceAssessment, SourceID: 1, Percentage: 72, Weight: 40},
	}
	svc := NewSkillService(store, &fakeCourseStore{})

	first, err := svc.RecomputeStudentSkill(7, 3)
	require.NoError(t, err)
	second, err := svc.RecomputeStudentSkill(7, 3)
	require.NoError(t, err)
	assert.Equal(t, first.Percentage, second.Percentage)
	assert.Equal(t, first.MasteryLevel, second.MasteryLevel)
	assert.Equal(t, first.ID, second.ID)
}

func TestRecomputeForSourceTouchesEveryMappedSkill(t *testing.T) {
	store := newFakeSkillStore()
	store.CreateMapping(&model.SkillMapping{SourceType: model.SourceAssessment, SourceID: 5, SkillID: 1, WeightPercentage: 50})
	store.CreateMapping(&model.SkillMapping{SourceType: model.SourceAssessment, SourceID: 5, SkillID: 2, WeightPercentage: 30})
	store.contributions[[2]uint{9, 1}] = []model.SkillContribution{{Percentage: 70, Weight: 50}}
	store.contributions[[2]uint{9, 2}] = []model.SkillContribution{{Percentage: 88, Weight: 30}}
	svc := NewSkillService(store, &fakeCourseStore{})

	require.NoError(t, svc.RecomputeForSource(model.SourceAssessment, 5, 9))

	rows, err := svc.StudentSkillProfile(9)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestSyncCourseSkills(t *testing.T) {
	store := newFakeSkillStore()
	store.CreateSkill(&model.Skill{CourseID: 1, Name: "Algebra", IsActive: true})
	store.CreateSkill(&model.Skill{CourseID: 1, Name: "Geometry", IsActive: true})
	courses := &fakeCourseStore{courses: map[uint]*model.Course{
		1: {SkillNames: model.StringList{"Algebra", "Calculus"}},
	}}
	svc := NewSkillService(store, courses)

	skills, err := svc.SyncCourseSkills(1)
	require.NoError(t, err)

	byName := make(map[string]model.Skill, len(skills))
	for _, s := range skills {
		byName[s.Name] = s
	}
	assert.True(t, byName["Algebra"].IsActive)
	assert.True(t, byName["Calculus"].IsActive)
	assert.False(t, byName["Geometry"].IsActive)
}

func TestSyncCourseSkillsRevivesDeactivated(t *testing.T) {
	store := newFakeSkillStore()
	store.CreateSkill(&model.Skill{CourseID: 1, Name: "Algebra", IsActive: false})
	courses := &fakeCourseStore{courses: map[uint]*model.Course{
		1: {SkillNames: model.StringList{"Algebra"}},
	}}
	svc := NewSkillService(store, courses)

	skills, err := svc.SyncCourseSkills(1)
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.True(t, skills[0].IsActive)
	assert.Equal(t, uint(1), skills[0].ID)
}

func TestCreateMappingValidatesWeight(t *testing.T) {
	store := newFakeSkillStore()
	store.CreateSkill(&model.Skill{CourseID: 1, Name: "Algebra", IsActive: true})
	svc := NewSkillService(store, &fakeCourseStore{})

	for _, weight := range []int{0, -5, 101} {
		_, err := svc.CreateMapping(model.SourceAssessment, 5, 1, weight)
		assert.Error(t, err, "weight %d", weight)
	}

	m, err := svc.CreateMapping(model.SourceAssessment, 5, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, m.WeightPercentage)
}

func TestCreateMappingRejectsInactiveSkill(t *testing.T) {
	store := newFakeSkillStore()
	store.CreateSkill(&model.Skill{CourseID: 1, Name: "Algebra", IsActive: false})
	svc := NewSkillService(store, &fakeCourseStore{})

	_, err := svc.CreateMapping(model.SourceAssessment, 5, 1, 50)
	assert.Error(t, err)
}
