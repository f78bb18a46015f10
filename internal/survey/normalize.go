package survey

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	ErrUnknownType     = errors.New("unknown survey type")
	ErrMissingQuestion = errors.New("record has no question")
	ErrMissingAnswer   = errors.New("record has no answer")
	// ErrBadEntryDate is not fatal: Normalize still returns the record,
	// without a date.
	ErrBadEntryDate = errors.New("unrecognized entry date")
)

// RawRecord is one decoded JSON object from a dataset cache.
type RawRecord map[string]any

// Schema identifies which key convention a raw record uses.
type Schema int

const (
	SchemaUnknown Schema = iota
	// SchemaDomain uses lowercase keys (pergunta, resposta, curso, ...).
	SchemaDomain
	// SchemaInstitutional uses the uppercase export keys (PERGUNTA, SETOR_CURSO, ...).
	SchemaInstitutional
)

func (s Schema) String() string {
	switch s {
	case SchemaDomain:
		return "domain"
	case SchemaInstitutional:
		return "institutional"
	}
	return "unknown"
}

// fieldKeys lists, in priority order, the raw keys that feed one canonical
// field.
type fieldKeys struct {
	respondent []string
	question   []string
	answer     []string
	sector     []string
	course     []string
	discipline []string
	department []string
	professor  []string
	entryDate  []string
}

var schemaKeys = map[Schema]fieldKeys{
	SchemaDomain: {
		respondent: []string{"id_pesquisa", "idPesquisa"},
		question:   []string{"pergunta"},
		answer:     []string{"resposta"},
		sector:     []string{"setor_curso", "setorCurso", "setor"},
		course:     []string{"curso"},
		discipline: []string{"disciplina", "nome_disciplina"},
		department: []string{"lotacao"},
		professor:  []string{"codprof", "codProf"},
		entryDate:  []string{"data_entrada", "dataEntrada", "data"},
	},
	SchemaInstitutional: {
		respondent: []string{"ID_PESQUISA"},
		question:   []string{"PERGUNTA"},
		answer:     []string{"RESPOSTA"},
		sector:     []string{"SETOR_CURSO"},
		course:     []string{"CURSO"},
		discipline: []string{"NOME_DISCIPLINA"},
		department: []string{"LOTACAO"},
		professor:  []string{"CODPROF"},
		entryDate:  []string{"DATA_ENTRADA", "DT_ENTRADA", "DATA"},
	},
}

// DetectSchema inspects the question key to pick the key convention.
func DetectSchema(raw RawRecord) Schema {
	if _, ok := raw["PERGUNTA"]; ok {
		return SchemaInstitutional
	}
	if _, ok := raw["pergunta"]; ok {
		return SchemaDomain
	}
	return SchemaUnknown
}

// Normalize adapts a raw record of either key convention to a Response. An
// unreadable entry date yields the record with a zero EntryDate together with
// an error wrapping ErrBadEntryDate; the answer still counts.
func Normalize(raw RawRecord) (Response, error) {
	schema := DetectSchema(raw)
	if schema == SchemaUnknown {
		return Response{}, ErrMissingQuestion
	}
	keys := schemaKeys[schema]

	r := Response{
		RespondentID:  lookupString(raw, keys.respondent),
		Question:      lookupString(raw, keys.question),
		Answer:        ParseAnswer(lookupString(raw, keys.answer)),
		Sector:        lookupString(raw, keys.sector),
		Course:        lookupString(raw, keys.course),
		Discipline:    lookupString(raw, keys.discipline),
		Department:    lookupString(raw, keys.department),
		ProfessorCode: lookupString(raw, keys.professor),
	}
	if r.Question == "" {
		return Response{}, ErrMissingQuestion
	}
	if r.Answer == "" {
		return Response{}, fmt.Errorf("%w: question %q", ErrMissingAnswer, r.Question)
	}

	if v, ok := lookup(raw, keys.entryDate); ok {
		t, err := parseEntryDate(v)
		if err != nil {
			return r, fmt.Errorf("%w: %v", ErrBadEntryDate, err)
		}
		r.EntryDate = t
	}
	return r, nil
}

func lookup(raw RawRecord, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func lookupString(raw RawRecord, keys []string) string {
	v, ok := lookup(raw, keys)
	if !ok {
		return ""
	}
	return stringify(v)
}

// stringify renders JSON scalars. Integral numbers lose their ".0" so that
// numeric respondent ids compare equal across exports.
func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	case []byte:
		return strings.TrimSpace(string(x))
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

// parseEntryDate accepts epoch milliseconds (the spreadsheet exporter's
// default), ISO timestamps and dd/mm/yyyy dates. Empty strings mean no date.
func parseEntryDate(v any) (time.Time, error) {
	switch x := v.(type) {
	case float64:
		return time.UnixMilli(int64(x)).UTC(), nil
	case int64:
		return time.UnixMilli(x).UTC(), nil
	case time.Time:
		return x.UTC(), nil
	}

	s := stringify(v)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
