package analytics

import (
	"github.com/godilite/survey-dashboard/internal/survey"
)

// fieldValue reads the value of f from a record.
func fieldValue(r survey.Response, f Field, t survey.Type) string {
	switch f {
	case FieldSector:
		return r.Sector
	case FieldCourse:
		return r.Course
	case FieldDiscipline:
		return r.Discipline
	case FieldQuestion:
		return r.Question
	case FieldProfessor:
		return r.ProfessorCode
	case FieldDepartment:
		return r.Department
	case FieldPeriod:
		return r.Period(t)
	}
	return ""
}

// applicable reports whether f takes part in filtering for survey type t.
// Institutional surveys have no course or discipline and are the only ones
// classified by department.
func applicable(f Field, t survey.Type) bool {
	switch f {
	case FieldCourse, FieldDiscipline:
		return !t.IsInstitutional()
	case FieldDepartment:
		return t.IsInstitutional()
	}
	return true
}

// matcher is a compiled conjunction of field constraints.
type matcher struct {
	surveyType survey.Type
	fields     []Field
	sets       []map[string]struct{}
}

// compile builds a matcher over the given fields, skipping empty selections
// and fields that do not apply to the survey type.
func compile(c Criteria, fields []Field) matcher {
	m := matcher{surveyType: c.SurveyType}
	for _, f := range fields {
		vals := c.Values(f)
		if len(vals) == 0 || !applicable(f, c.SurveyType) {
			continue
		}
		set := make(map[string]struct{}, len(vals))
		for _, v := range vals {
			set[v] = struct{}{}
		}
		m.fields = append(m.fields, f)
		m.sets = append(m.sets, set)
	}
	return m
}

func (m matcher) match(r survey.Response) bool {
	for i, f := range m.fields {
		if _, ok := m.sets[i][fieldValue(r, f, m.surveyType)]; !ok {
			return false
		}
	}
	return true
}

// Matches reports whether a record satisfies every active constraint of c.
func Matches(r survey.Response, c Criteria) bool {
	return compile(c, selectionFields).match(r)
}

// Filter returns the records matching c in input order. The input slice is
// returned as is when no constraint is active.
func Filter(records []survey.Response, c Criteria) []survey.Response {
	m := compile(c, selectionFields)
	if len(m.fields) == 0 {
		return records
	}
	out := make([]survey.Response, 0, len(records)/2)
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// distinctValues lists the non-empty values of f, in first-appearance order,
// among records matching the scope fields of c.
func distinctValues(f Field, records []survey.Response, c Criteria, scope []Field) []string {
	m := compile(c, scope)
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range records {
		if !m.match(r) {
			continue
		}
		v := fieldValue(r, f, c.SurveyType)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
