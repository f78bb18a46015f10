package analytics

import (
	"time"

	"github.com/godilite/survey-dashboard/internal/survey"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// disciplinaryFixture is a small in-person discipline dataset spanning two
// sectors, three courses and three professors.
func disciplinaryFixture() []survey.Response {
	return []survey.Response{
		{RespondentID: "1", Question: "Clareza", Answer: survey.AnswerAgree, Sector: "Exatas", Course: "Matemática", Discipline: "Cálculo I", ProfessorCode: "P1", EntryDate: day(2024, 3, 10)},
		{RespondentID: "1", Question: "Didática", Answer: survey.AnswerDisagree, Sector: "Exatas", Course: "Matemática", Discipline: "Cálculo I", ProfessorCode: "P1", EntryDate: day(2024, 3, 10)},
		{RespondentID: "2", Question: "Clareza", Answer: survey.AnswerUnsure, Sector: "Exatas", Course: "Física", Discipline: "Mecânica", ProfessorCode: "P2", EntryDate: day(2023, 11, 5)},
		{RespondentID: "4", Question: "Clareza", Answer: survey.AnswerAgree, Sector: "Exatas", Course: "Matemática", Discipline: "Álgebra", ProfessorCode: "P2", EntryDate: day(2024, 3, 22)},
		{RespondentID: "3", Question: "Clareza", Answer: survey.AnswerAgree, Sector: "Humanas", Course: "História", Discipline: "Brasil Colônia", ProfessorCode: "P3", EntryDate: day(2024, 3, 20)},
		{RespondentID: "3", Question: "Material", Answer: survey.AnswerNo, Sector: "Humanas", Course: "História", Discipline: "Brasil Colônia", ProfessorCode: "P3", EntryDate: day(2025, 1, 2)},
	}
}

func institutionalFixture() []survey.Response {
	return []survey.Response{
		{RespondentID: "10", Question: "Infraestrutura", Answer: survey.AnswerYes, Sector: "Administrativo", Department: "Reitoria", Course: "ignored", EntryDate: day(2023, 6, 1)},
		{RespondentID: "11", Question: "Infraestrutura", Answer: survey.AnswerNo, Sector: "Administrativo", Department: "Biblioteca", EntryDate: day(2024, 6, 1)},
		{RespondentID: "12", Question: "Atendimento", Answer: survey.AnswerYes, Sector: "Acadêmico", Department: "Secretaria", EntryDate: day(2024, 2, 1)},
		{RespondentID: "12", Question: "Infraestrutura", Answer: survey.AnswerUnsure, Sector: "Acadêmico", Department: "", EntryDate: day(2024, 2, 1)},
	}
}

func answers(question string, as ...survey.Answer) []survey.Response {
	out := make([]survey.Response, len(as))
	for i, a := range as {
		out[i] = survey.Response{RespondentID: string(rune('a' + i)), Question: question, Answer: a}
	}
	return out
}
