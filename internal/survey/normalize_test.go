package survey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectSchema(t *testing.T) {
	assert.Equal(t, SchemaInstitutional, DetectSchema(RawRecord{"PERGUNTA": "q"}))
	assert.Equal(t, SchemaDomain, DetectSchema(RawRecord{"pergunta": "q"}))
	assert.Equal(t, SchemaUnknown, DetectSchema(RawRecord{"question": "q"}))
}

func TestNormalize(t *testing.T) {
	t.Run("uppercase export keys", func(t *testing.T) {
		r, err := Normalize(RawRecord{
			"ID_PESQUISA":     float64(1042),
			"PERGUNTA":        "O professor domina o conteúdo?",
			"RESPOSTA":        "Concordo",
			"CURSO":           "Engenharia Civil",
			"SETOR_CURSO":     "Exatas",
			"NOME_DISCIPLINA": "Cálculo I",
			"LOTACAO":         nil,
			"CODPROF":         "P-77",
			"DATA_ENTRADA":    float64(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC).UnixMilli()),
		})
		require.NoError(t, err)

		assert.Equal(t, "1042", r.RespondentID)
		assert.Equal(t, "O professor domina o conteúdo?", r.Question)
		assert.Equal(t, AnswerAgree, r.Answer)
		assert.Equal(t, "Engenharia Civil", r.Course)
		assert.Equal(t, "Exatas", r.Sector)
		assert.Equal(t, "Cálculo I", r.Discipline)
		assert.Empty(t, r.Department)
		assert.Equal(t, "P-77", r.ProfessorCode)
		assert.Equal(t, "03/2025", r.Period(TypeDisciplineInPerson))
		assert.Equal(t, "2025", r.Period(TypeCourse))
	})

	t.Run("lowercase domain keys", func(t *testing.T) {
		r, err := Normalize(RawRecord{
			"id_pesquisa": "7",
			"pergunta":    "A biblioteca atende?",
			"resposta":    "NÃO",
			"curso":       "Direito",
			"setorCurso":  "Humanas",
			"disciplina":  "Ética",
			"lotacao":     "Reitoria",
			"data":        "2024-11-02",
		})
		require.NoError(t, err)

		assert.Equal(t, "7", r.RespondentID)
		assert.Equal(t, AnswerNo, r.Answer)
		assert.Equal(t, "Humanas", r.Sector)
		assert.Equal(t, "Ética", r.Discipline)
		assert.Equal(t, "Reitoria", r.Department)
		assert.Equal(t, "11/2024", r.Period(TypeDisciplineRemote))
	})

	t.Run("missing question", func(t *testing.T) {
		_, err := Normalize(RawRecord{"PERGUNTA": "", "RESPOSTA": "Sim"})
		assert.ErrorIs(t, err, ErrMissingQuestion)

		_, err = Normalize(RawRecord{"foo": "bar"})
		assert.ErrorIs(t, err, ErrMissingQuestion)
	})

	t.Run("missing answer", func(t *testing.T) {
		_, err := Normalize(RawRecord{"PERGUNTA": "q", "RESPOSTA": "  "})
		assert.ErrorIs(t, err, ErrMissingAnswer)
	})

	t.Run("bad date keeps the answer", func(t *testing.T) {
		r, err := Normalize(RawRecord{"pergunta": "q", "resposta": "Sim", "curso": "Física", "data": "yesterday"})
		require.ErrorIs(t, err, ErrBadEntryDate)
		assert.Equal(t, "q", r.Question)
		assert.Equal(t, AnswerYes, r.Answer)
		assert.Equal(t, "Física", r.Course)
		assert.True(t, r.EntryDate.IsZero())
		assert.Empty(t, r.Period(TypeCourse))
	})

	t.Run("no date leaves period empty", func(t *testing.T) {
		r, err := Normalize(RawRecord{"pergunta": "q", "resposta": "Sim", "data": ""})
		require.NoError(t, err)
		assert.True(t, r.EntryDate.IsZero())
		assert.Empty(t, r.Period(TypeCourse))
	})
}

func TestParseAnswer(t *testing.T) {
	cases := []struct {
		in   string
		want Answer
	}{
		{"Concordo", AnswerAgree},
		{" discordo ", AnswerDisagree},
		{"Desconheço", AnswerUnsure},
		{"Desconheço", AnswerUnsure},
		{"SIM", AnswerYes},
		{"Não", AnswerNo},
		{"Talvez", Answer("Talvez")},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseAnswer(tc.in))
		})
	}
}

func TestAnswerPolarity(t *testing.T) {
	assert.Equal(t, PolarityPositive, AnswerAgree.Polarity())
	assert.Equal(t, PolarityPositive, AnswerYes.Polarity())
	assert.Equal(t, PolarityNeutral, AnswerUnsure.Polarity())
	assert.Equal(t, PolarityNegative, AnswerDisagree.Polarity())
	assert.Equal(t, PolarityNegative, AnswerNo.Polarity())
	assert.Equal(t, PolarityNone, Answer("Talvez").Polarity())
	assert.False(t, Answer("Talvez").Known())
	assert.Equal(t, "Desconheço", AnswerUnsure.Label())
}

func TestParseType(t *testing.T) {
	typ, err := ParseType(" Institucional ")
	require.NoError(t, err)
	assert.Equal(t, TypeInstitutional, typ)
	assert.True(t, typ.IsInstitutional())
	assert.False(t, typ.IsDisciplinary())

	_, err = ParseType("pos_graduacao")
	assert.ErrorIs(t, err, ErrUnknownType)
}
