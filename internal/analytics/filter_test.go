package analytics

import (
	"testing"

	"github.com/godilite/survey-dashboard/internal/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	records := disciplinaryFixture()
	base := NewCriteria(survey.TypeDisciplineInPerson)

	t.Run("empty criteria returns everything", func(t *testing.T) {
		assert.Equal(t, records, Filter(records, base))
	})

	t.Run("fields are ANDed and values ORed", func(t *testing.T) {
		c := base
		c.Sectors = []string{"Exatas", "Humanas"}
		c.Questions = []string{"Clareza"}
		got := Filter(records, c)

		require.Len(t, got, 4)
		for _, r := range got {
			assert.Equal(t, "Clareza", r.Question)
		}
	})

	t.Run("period uses the survey bucket", func(t *testing.T) {
		c := base
		c.Periods = []string{"03/2024"}
		assert.Len(t, Filter(records, c), 4)
	})

	t.Run("no match", func(t *testing.T) {
		c := base
		c.Courses = []string{"Química"}
		got := Filter(records, c)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("institutional ignores course and uses department", func(t *testing.T) {
		c := NewCriteria(survey.TypeInstitutional)
		c.Courses = []string{"does not exist"}
		c.Departments = []string{"Reitoria", "Biblioteca"}

		got := Filter(institutionalFixture(), c)
		require.Len(t, got, 2)
		assert.Equal(t, "Reitoria", got[0].Department)
	})

	t.Run("department ignored outside institutional", func(t *testing.T) {
		c := base
		c.Departments = []string{"Reitoria"}
		assert.Len(t, Filter(records, c), len(records))
	})
}

func TestFilterMonotonicNarrowing(t *testing.T) {
	records := disciplinaryFixture()
	steps := []struct {
		field  Field
		values []string
	}{
		{FieldSector, []string{"Exatas"}},
		{FieldProfessor, []string{"P2"}},
		{FieldQuestion, []string{"Clareza"}},
		{FieldPeriod, []string{"11/2023"}},
		{FieldDiscipline, []string{"Cálculo I"}},
	}

	c := NewCriteria(survey.TypeDisciplineInPerson)
	prev := len(Filter(records, c))
	for _, s := range steps {
		c = c.with(s.field, s.values)
		n := len(Filter(records, c))
		assert.LessOrEqual(t, n, prev, "adding %s", s.field)
		prev = n
	}
	assert.Zero(t, prev)
}

func TestMatches(t *testing.T) {
	r := disciplinaryFixture()[0]
	c := NewCriteria(survey.TypeDisciplineInPerson)
	assert.True(t, Matches(r, c))

	c.Courses = []string{"Matemática"}
	assert.True(t, Matches(r, c))

	c.Disciplines = []string{"Álgebra"}
	assert.False(t, Matches(r, c))
}

func TestCascadingOptions(t *testing.T) {
	records := disciplinaryFixture()
	c := NewCriteria(survey.TypeDisciplineInPerson)

	assert.Equal(t, []string{"Exatas", "Humanas"}, SectorOptions(records, c))
	assert.Equal(t, []string{}, CourseOptions(records, c))
	assert.Equal(t, []string{}, DisciplineOptions(records, c))
	assert.Equal(t, []string{"Clareza", "Didática", "Material"}, QuestionOptions(records, c))
	assert.Equal(t, []string{"P1", "P2", "P3"}, ProfessorOptions(records, c))

	c.Sectors = []string{"Exatas"}
	assert.Equal(t, []string{"Matemática", "Física"}, CourseOptions(records, c))
	assert.Equal(t, []string{"Clareza", "Didática"}, QuestionOptions(records, c))

	c.Courses = []string{"Matemática"}
	assert.Equal(t, []string{"Cálculo I", "Álgebra"}, DisciplineOptions(records, c))

	c.Disciplines = []string{"Álgebra"}
	assert.Equal(t, []string{"Clareza"}, QuestionOptions(records, c))
}

func TestDisciplineOptionsMultipleCourses(t *testing.T) {
	records := disciplinaryFixture()
	c := NewCriteria(survey.TypeDisciplineInPerson)
	c.Sectors = []string{"Exatas", "Humanas"}
	c.Courses = []string{"Matemática", "História"}

	assert.Equal(t, []string{}, DisciplineOptions(records, c))

	opts, err := Options(ViewDashboard, FieldDiscipline, records, c)
	require.NoError(t, err)
	assert.Empty(t, opts)
}

func TestPeriodOptions(t *testing.T) {
	records := disciplinaryFixture()

	assert.Equal(t,
		[]string{"01/2025", "03/2024", "11/2023"},
		PeriodOptions(records, NewCriteria(survey.TypeDisciplineInPerson)))
	assert.Equal(t,
		[]string{"2025", "2024", "2023"},
		PeriodOptions(records, NewCriteria(survey.TypeCourse)))

	assert.Equal(t, 202501, periodOrder("01/2025"))
	assert.Equal(t, 202400, periodOrder("2024"))
	assert.Equal(t, 0, periodOrder("n/a"))
}

func TestInstitutionalOptions(t *testing.T) {
	records := institutionalFixture()
	c := NewCriteria(survey.TypeInstitutional)

	assert.Equal(t, []string{"Reitoria", "Biblioteca", "Secretaria"}, DepartmentOptions(records, c))
	assert.Equal(t, []string{}, CourseOptions(records, c))

	c.Departments = []string{"Secretaria"}
	assert.Equal(t, []string{"Atendimento"}, QuestionOptions(records, c))

	_, err := Options(ViewDashboard, FieldDiscipline, records, c)
	assert.ErrorIs(t, err, ErrFieldNotApplicable)
}

func TestProfessorView(t *testing.T) {
	records := disciplinaryFixture()
	h := HierarchyFor(ViewProfessor, survey.TypeDisciplineInPerson)
	c := NewCriteria(survey.TypeDisciplineInPerson)

	assert.Equal(t, []Field{FieldProfessor, FieldCourse, FieldDiscipline, FieldQuestion, FieldPeriod}, h.FieldNames())

	courses, err := h.Options(FieldCourse, records, c)
	require.NoError(t, err)
	assert.Empty(t, courses)

	c, err = h.Update(c, FieldProfessor, []string{"P2"})
	require.NoError(t, err)

	courses, err = h.Options(FieldCourse, records, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"Física", "Matemática"}, courses)

	c, err = h.Update(c, FieldCourse, []string{"Física"})
	require.NoError(t, err)
	disciplines, err := h.Options(FieldDiscipline, records, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mecânica"}, disciplines)

	_, err = h.Update(c, FieldSector, []string{"Exatas"})
	assert.ErrorIs(t, err, ErrFieldNotApplicable)
}
