package survey

import (
	"fmt"
	"strings"
	"time"
)

// Type is the top-level dataset partition. It selects the JSON source and
// the field hierarchy that applies.
type Type string

const (
	TypeCourse             Type = "cursos"
	TypeDisciplineInPerson Type = "disciplina_presencial"
	TypeDisciplineRemote   Type = "disciplina_ead"
	TypeInstitutional      Type = "institucional"
)

// Types lists every known survey type in display order.
var Types = []Type{TypeCourse, TypeDisciplineInPerson, TypeDisciplineRemote, TypeInstitutional}

// ParseType validates a survey type key.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Types {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// IsDisciplinary reports whether the survey evaluates individual disciplines.
func (t Type) IsDisciplinary() bool {
	return t == TypeDisciplineInPerson || t == TypeDisciplineRemote
}

// IsInstitutional reports whether department replaces course and discipline.
func (t Type) IsInstitutional() bool {
	return t == TypeInstitutional
}

// PeriodLayout is the time layout used to bucket entry dates.
func (t Type) PeriodLayout() string {
	if t.IsDisciplinary() {
		return "01/2006"
	}
	return "2006"
}

// Label is the human readable name of the survey type.
func (t Type) Label() string {
	switch t {
	case TypeCourse:
		return "Cursos"
	case TypeDisciplineInPerson:
		return "Disciplina Presencial"
	case TypeDisciplineRemote:
		return "Disciplina EAD"
	case TypeInstitutional:
		return "Institucional"
	}
	return string(t)
}

// Response is one respondent's answer to one question. Values are never
// mutated after load.
type Response struct {
	RespondentID  string    `json:"respondentId"`
	Question      string    `json:"question"`
	Answer        Answer    `json:"answer"`
	Sector        string    `json:"sector,omitempty"`
	Course        string    `json:"course,omitempty"`
	Discipline    string    `json:"discipline,omitempty"`
	Department    string    `json:"department,omitempty"`
	ProfessorCode string    `json:"professorCode,omitempty"`
	EntryDate     time.Time `json:"entryDate,omitzero"`
}

// Period formats the entry date with the survey type's bucket layout. It
// returns "" for records without a date.
func (r Response) Period(t Type) string {
	if r.EntryDate.IsZero() {
		return ""
	}
	return r.EntryDate.Format(t.PeriodLayout())
}
