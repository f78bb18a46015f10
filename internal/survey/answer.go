package survey

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Answer is a canonical answer category. Unrecognized labels are kept
// verbatim so they still count, but they belong to no polarity bucket.
type Answer string

const (
	AnswerAgree    Answer = "agree"
	AnswerDisagree Answer = "disagree"
	AnswerUnsure   Answer = "unsure"
	AnswerYes      Answer = "yes"
	AnswerNo       Answer = "no"
)

// Polarity is the three-way display bucket of an answer.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNeutral  Polarity = "neutral"
	PolarityNegative Polarity = "negative"
	PolarityNone     Polarity = ""
)

var answerLabels = map[Answer]string{
	AnswerAgree:    "Concordo",
	AnswerDisagree: "Discordo",
	AnswerUnsure:   "Desconheço",
	AnswerYes:      "Sim",
	AnswerNo:       "Não",
}

// answerAliases maps folded locale labels to their category.
var answerAliases = map[string]Answer{
	"concordo":   AnswerAgree,
	"agree":      AnswerAgree,
	"discordo":   AnswerDisagree,
	"disagree":   AnswerDisagree,
	"desconheço": AnswerUnsure,
	"desconheco": AnswerUnsure,
	"unsure":     AnswerUnsure,
	"sim":        AnswerYes,
	"yes":        AnswerYes,
	"não":        AnswerNo,
	"nao":        AnswerNo,
	"no":         AnswerNo,
}

// ParseAnswer maps a locale label (any case, composed or decomposed accents)
// to its category.
func ParseAnswer(label string) Answer {
	trimmed := strings.TrimSpace(label)
	key := cases.Fold().String(norm.NFC.String(trimmed))
	if a, ok := answerAliases[key]; ok {
		return a
	}
	return Answer(trimmed)
}

// Known reports whether a is one of the closed set of categories.
func (a Answer) Known() bool {
	_, ok := answerLabels[a]
	return ok
}

// Label returns the pt-BR display label.
func (a Answer) Label() string {
	if l, ok := answerLabels[a]; ok {
		return l
	}
	return string(a)
}

// Polarity returns the display bucket of the answer.
func (a Answer) Polarity() Polarity {
	switch a {
	case AnswerAgree, AnswerYes:
		return PolarityPositive
	case AnswerUnsure:
		return PolarityNeutral
	case AnswerDisagree, AnswerNo:
		return PolarityNegative
	}
	return PolarityNone
}
