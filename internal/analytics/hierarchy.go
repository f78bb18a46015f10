package analytics

import (
	"slices"

	"github.com/godilite/survey-dashboard/internal/survey"
)

// View selects which filter panel layout applies.
type View string

const (
	// ViewDashboard is the sector/course/discipline panel.
	ViewDashboard View = "dashboard"
	// ViewProfessor is the per-professor analysis panel.
	ViewProfessor View = "professor"
)

// ParseView validates a view name; the empty string means ViewDashboard.
func ParseView(s string) (View, bool) {
	switch View(s) {
	case "", ViewDashboard:
		return ViewDashboard, true
	case ViewProfessor:
		return ViewProfessor, true
	}
	return "", false
}

// Gate decides whether a field offers options under the current criteria.
type Gate func(c Criteria) bool

// Extractor computes the option list of a field.
type Extractor func(records []survey.Response, c Criteria) []string

// FieldSpec declares one filter field: the upstream fields whose selection
// scopes its options, an optional gate and an optional custom extractor.
// Without an extractor the options are the distinct values of Field among
// records matching the DependsOn selections.
type FieldSpec struct {
	Field     Field
	DependsOn []Field
	Gate      Gate
	Extract   Extractor
}

// Hierarchy is the ordered field layout of one panel.
type Hierarchy struct {
	View   View
	Fields []FieldSpec
}

func requireSelection(f Field) Gate {
	return func(c Criteria) bool { return len(c.Values(f)) > 0 }
}

// requireSingle refuses to union the children of several parents.
func requireSingle(f Field) Gate {
	return func(c Criteria) bool { return len(c.Values(f)) == 1 }
}

var (
	dashboardFields = []FieldSpec{
		{Field: FieldSector},
		{Field: FieldCourse, DependsOn: []Field{FieldSector}, Gate: requireSelection(FieldSector)},
		{Field: FieldDiscipline, DependsOn: []Field{FieldSector, FieldCourse}, Gate: requireSingle(FieldCourse)},
		{Field: FieldQuestion, DependsOn: []Field{FieldSector, FieldCourse, FieldDiscipline}},
		{Field: FieldPeriod, Extract: PeriodOptions},
	}

	institutionalFields = []FieldSpec{
		{Field: FieldSector},
		{Field: FieldDepartment},
		{Field: FieldQuestion, DependsOn: []Field{FieldSector, FieldDepartment}},
		{Field: FieldPeriod, Extract: PeriodOptions},
	}

	professorFields = []FieldSpec{
		{Field: FieldProfessor},
		{Field: FieldCourse, DependsOn: []Field{FieldProfessor}, Gate: requireSelection(FieldProfessor)},
		{Field: FieldDiscipline, DependsOn: []Field{FieldProfessor, FieldCourse}, Gate: requireSingle(FieldCourse)},
		{Field: FieldQuestion, DependsOn: []Field{FieldProfessor, FieldCourse, FieldDiscipline}},
		{Field: FieldPeriod, Extract: PeriodOptions},
	}
)

// HierarchyFor returns the field layout of a view for a survey type.
func HierarchyFor(view View, t survey.Type) Hierarchy {
	switch {
	case view == ViewProfessor:
		return Hierarchy{View: view, Fields: professorFields}
	case t.IsInstitutional():
		return Hierarchy{View: view, Fields: institutionalFields}
	default:
		return Hierarchy{View: ViewDashboard, Fields: dashboardFields}
	}
}

// Spec returns the declaration of a field.
func (h Hierarchy) Spec(f Field) (FieldSpec, bool) {
	for _, s := range h.Fields {
		if s.Field == f {
			return s, true
		}
	}
	return FieldSpec{}, false
}

// FieldNames lists the fields in layout order.
func (h Hierarchy) FieldNames() []Field {
	out := make([]Field, len(h.Fields))
	for i, s := range h.Fields {
		out[i] = s.Field
	}
	return out
}

// Downstream returns every field that depends, directly or transitively, on f.
func (h Hierarchy) Downstream(f Field) []Field {
	var out []Field
	frontier := []Field{f}
	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]
		for _, s := range h.Fields {
			if slices.Contains(s.DependsOn, cur) && !slices.Contains(out, s.Field) {
				out = append(out, s.Field)
				frontier = append(frontier, s.Field)
			}
		}
	}
	return out
}

// Update replaces the selection of f and empties every downstream field in
// the same transition. Changing the survey type resets the whole criteria.
func (h Hierarchy) Update(c Criteria, f Field, values []string) (Criteria, error) {
	if f == FieldSurveyType {
		if len(values) == 0 {
			return Criteria{}, nil
		}
		t, err := survey.ParseType(values[0])
		if err != nil {
			return c, err
		}
		return NewCriteria(t), nil
	}
	if _, ok := h.Spec(f); !ok {
		return c, ErrFieldNotApplicable
	}

	next := c.with(f, values)
	for _, d := range h.Downstream(f) {
		next = next.with(d, nil)
	}
	return next, nil
}

// Options computes the option list of f under criteria c.
func (h Hierarchy) Options(f Field, records []survey.Response, c Criteria) ([]string, error) {
	spec, ok := h.Spec(f)
	if !ok {
		return nil, ErrFieldNotApplicable
	}
	if spec.Gate != nil && !spec.Gate(c) {
		return []string{}, nil
	}
	if spec.Extract != nil {
		return spec.Extract(records, c), nil
	}
	return distinctValues(f, records, c, spec.DependsOn), nil
}

// AllOptions computes every field's options in layout order.
func (h Hierarchy) AllOptions(records []survey.Response, c Criteria) map[Field][]string {
	out := make(map[Field][]string, len(h.Fields))
	for _, s := range h.Fields {
		opts, _ := h.Options(s.Field, records, c)
		out[s.Field] = opts
	}
	return out
}
