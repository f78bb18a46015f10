package dataset

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/godilite/survey-dashboard/internal/survey"
)

// Layout maps a survey type to the ordered parts that make up its dataset.
type Layout map[survey.Type][]string

// DefaultLayout mirrors the exported cache files. The in-person discipline
// survey is too large for a single export and is split in two.
func DefaultLayout() Layout {
	return Layout{
		survey.TypeCourse: {"cursos"},
		survey.TypeDisciplineInPerson: {
			"disciplina_presencial_parte1",
			"disciplina_presencial_parte2",
		},
		survey.TypeDisciplineRemote: {"disciplina_ead"},
		survey.TypeInstitutional:    {"institucional"},
	}
}

// TableLayout reads every survey type from a single table named after it.
func TableLayout() Layout {
	l := make(Layout, len(survey.Types))
	for _, t := range survey.Types {
		l[t] = []string{string(t)}
	}
	return l
}

// Parts returns the part names of t in concatenation order.
func (l Layout) Parts(t survey.Type) ([]string, error) {
	parts, ok := l[t]
	if !ok || len(parts) == 0 {
		return nil, fmt.Errorf("%w: %q", survey.ErrUnknownType, t)
	}
	return slices.Clone(parts), nil
}

var partName = regexp.MustCompile(`^[a-z0-9_]+$`)

// ValidPart reports whether name is safe to use as a file name, URL path
// segment or table name.
func ValidPart(name string) bool {
	return partName.MatchString(name)
}
