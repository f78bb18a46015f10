package analytics

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/godilite/survey-dashboard/internal/survey"
)

// Field names a filterable attribute of a response.
type Field string

const (
	FieldSurveyType Field = "surveyType"
	FieldSector     Field = "sector"
	FieldCourse     Field = "course"
	FieldDiscipline Field = "discipline"
	FieldQuestion   Field = "question"
	FieldProfessor  Field = "professor"
	FieldDepartment Field = "department"
	FieldPeriod     Field = "period"
)

// selectionFields are the multi-valued fields of Criteria in key order.
var selectionFields = []Field{
	FieldSector, FieldCourse, FieldDiscipline, FieldQuestion,
	FieldProfessor, FieldDepartment, FieldPeriod,
}

// SelectionFields returns the multi-valued fields.
func SelectionFields() []Field {
	return slices.Clone(selectionFields)
}

var (
	ErrUnknownField       = errors.New("unknown filter field")
	ErrFieldNotApplicable = errors.New("filter field not applicable to view")
)

// ParseField validates a field name.
func ParseField(s string) (Field, error) {
	f := Field(strings.TrimSpace(s))
	if f == FieldSurveyType || slices.Contains(selectionFields, f) {
		return f, nil
	}
	return "", ErrUnknownField
}

// Criteria is the active filter state. It is a value: every change produces
// a new Criteria and slices held by an existing value are never written.
// An empty selection imposes no constraint.
type Criteria struct {
	SurveyType  survey.Type `json:"surveyType"`
	Sectors     []string    `json:"sectors,omitempty"`
	Courses     []string    `json:"courses,omitempty"`
	Disciplines []string    `json:"disciplines,omitempty"`
	Questions   []string    `json:"questions,omitempty"`
	Professors  []string    `json:"professors,omitempty"`
	Departments []string    `json:"departments,omitempty"`
	Periods     []string    `json:"periods,omitempty"`
}

// NewCriteria returns the all-empty criteria for a survey type.
func NewCriteria(t survey.Type) Criteria {
	return Criteria{SurveyType: t}
}

// Values returns the selection of a field.
func (c Criteria) Values(f Field) []string {
	switch f {
	case FieldSurveyType:
		if c.SurveyType == "" {
			return nil
		}
		return []string{string(c.SurveyType)}
	case FieldSector:
		return c.Sectors
	case FieldCourse:
		return c.Courses
	case FieldDiscipline:
		return c.Disciplines
	case FieldQuestion:
		return c.Questions
	case FieldProfessor:
		return c.Professors
	case FieldDepartment:
		return c.Departments
	case FieldPeriod:
		return c.Periods
	}
	return nil
}

// with returns a copy of c with one selection replaced. Blank and repeated
// values are dropped.
func (c Criteria) with(f Field, values []string) Criteria {
	v := cleanSelection(values)
	switch f {
	case FieldSector:
		c.Sectors = v
	case FieldCourse:
		c.Courses = v
	case FieldDiscipline:
		c.Disciplines = v
	case FieldQuestion:
		c.Questions = v
	case FieldProfessor:
		c.Professors = v
	case FieldDepartment:
		c.Departments = v
	case FieldPeriod:
		c.Periods = v
	}
	return c
}

// With replaces one selection without any cascade reset. It is meant for
// building criteria from a complete request; interactive changes go through
// Update.
func (c Criteria) With(f Field, values []string) Criteria {
	return c.with(f, values)
}

// Clear resets every selection and keeps the survey type.
func (c Criteria) Clear() Criteria {
	return NewCriteria(c.SurveyType)
}

// IsEmpty reports whether no selection is active.
func (c Criteria) IsEmpty() bool {
	for _, f := range selectionFields {
		if len(c.Values(f)) > 0 {
			return false
		}
	}
	return true
}

// Key renders the criteria canonically: selections are sorted so that two
// criteria selecting the same sets share a key. Values are quoted, so no
// value can forge a separator.
func (c Criteria) Key() string {
	var b strings.Builder
	b.WriteString(string(c.SurveyType))
	for _, f := range selectionFields {
		vals := c.Values(f)
		if len(vals) == 0 {
			continue
		}
		sorted := slices.Clone(vals)
		slices.Sort(sorted)
		b.WriteByte('|')
		b.WriteString(string(f))
		b.WriteByte('=')
		for i, v := range sorted {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(v))
		}
	}
	return b.String()
}

func cleanSelection(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
