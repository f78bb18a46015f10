package analytics

import (
	"fmt"
	"sort"

	"github.com/godilite/survey-dashboard/internal/survey"
)

// fullScale is 100% expressed in hundredths of a percent.
const fullScale = 10000

// ResidualPolicy decides which category absorbs the rounding residual so that
// the emitted percentages of a question always sum to exactly 100.00.
type ResidualPolicy int

const (
	// LastCategory rounds every category to two decimals and gives the last
	// category in first-appearance order 100 minus the sum of the others.
	LastCategory ResidualPolicy = iota
	// LargestRemainder floors every category to two decimals and hands the
	// missing hundredths to the largest remainders, earlier categories first
	// on ties.
	LargestRemainder
)

func (p ResidualPolicy) String() string {
	if p == LargestRemainder {
		return "largest_remainder"
	}
	return "last_category"
}

// ParseResidualPolicy maps a policy name; unknown names select LastCategory.
func ParseResidualPolicy(s string) ResidualPolicy {
	if s == "largest_remainder" {
		return LargestRemainder
	}
	return LastCategory
}

// Share is a percentage with the count behind it.
type Share struct {
	Percentage float64 `json:"percentage"`
	Count      int     `json:"count"`
}

// CategoryShare is the share of one answer category within a question.
type CategoryShare struct {
	Answer survey.Answer `json:"answer"`
	Label  string        `json:"label"`
	Share
}

// QuestionAggregate is the chart-ready distribution of one question.
type QuestionAggregate struct {
	Question      string          `json:"question"`
	OriginalIndex int             `json:"originalIndex"`
	Respondents   int             `json:"respondents"`
	Categories    []CategoryShare `json:"categories"`
	Positive      Share           `json:"positive"`
	Neutral       Share           `json:"neutral"`
	Negative      Share           `json:"negative"`
}

// Label is the stable "Q<n>" tag of the question.
func (q QuestionAggregate) Label() string {
	return fmt.Sprintf("Q%d", q.OriginalIndex+1)
}

// Category returns the share of an answer, zero when nobody chose it.
func (q QuestionAggregate) Category(a survey.Answer) CategoryShare {
	for _, c := range q.Categories {
		if c.Answer == a {
			return c
		}
	}
	return CategoryShare{Answer: a, Label: a.Label()}
}

type aggregateConfig struct {
	policy        ResidualPolicy
	questionIndex map[string]int
}

// AggregateOption configures Aggregate.
type AggregateOption func(*aggregateConfig)

// WithResidualPolicy selects the rounding residual policy.
func WithResidualPolicy(p ResidualPolicy) AggregateOption {
	return func(c *aggregateConfig) { c.policy = p }
}

// WithQuestionIndex supplies the position of every question in the
// unfiltered dataset, see IndexQuestions.
func WithQuestionIndex(index map[string]int) AggregateOption {
	return func(c *aggregateConfig) { c.questionIndex = index }
}

// IndexQuestions maps every question to its first-appearance position.
func IndexQuestions(records []survey.Response) map[string]int {
	index := make(map[string]int)
	for _, r := range records {
		if _, ok := index[r.Question]; !ok {
			index[r.Question] = len(index)
		}
	}
	return index
}

// questionGroup collects one answer per respondent, last one wins.
// Respondents keep the position of their first row.
type questionGroup struct {
	question    string
	respondents []string
	answers     map[string]survey.Answer
}

// Aggregate turns filtered responses into one distribution per question, in
// first-appearance order of the questions. Records without a respondent id
// each count as a distinct respondent.
func Aggregate(records []survey.Response, opts ...AggregateOption) []QuestionAggregate {
	cfg := &aggregateConfig{policy: LastCategory}
	for _, opt := range opts {
		opt(cfg)
	}

	groups := make(map[string]*questionGroup)
	order := make([]string, 0)
	for i, r := range records {
		g, ok := groups[r.Question]
		if !ok {
			g = &questionGroup{question: r.Question, answers: make(map[string]survey.Answer)}
			groups[r.Question] = g
			order = append(order, r.Question)
		}

		id := respondentKey(r, i)
		if _, seen := g.answers[id]; !seen {
			g.respondents = append(g.respondents, id)
		}
		g.answers[id] = r.Answer
	}

	out := make([]QuestionAggregate, 0, len(order))
	for pos, q := range order {
		agg := aggregateGroup(groups[q], cfg.policy)
		agg.OriginalIndex = pos
		if idx, ok := cfg.questionIndex[q]; ok {
			agg.OriginalIndex = idx
		}
		out = append(out, agg)
	}
	return out
}

func aggregateGroup(g *questionGroup, policy ResidualPolicy) QuestionAggregate {
	agg := QuestionAggregate{
		Question:    g.question,
		Respondents: len(g.respondents),
		Categories:  []CategoryShare{},
	}
	total := len(g.respondents)
	if total == 0 {
		return agg
	}

	var answers []survey.Answer
	counts := make(map[survey.Answer]int)
	for _, id := range g.respondents {
		a := g.answers[id]
		if _, ok := counts[a]; !ok {
			answers = append(answers, a)
		}
		counts[a]++
	}

	countList := make([]int, len(answers))
	for i, a := range answers {
		countList[i] = counts[a]
	}
	hundredths := distribute(countList, total, policy)

	var buckets [3]struct{ hundredths, count int }
	for i, a := range answers {
		agg.Categories = append(agg.Categories, CategoryShare{
			Answer: a,
			Label:  a.Label(),
			Share:  Share{Percentage: fromHundredths(hundredths[i]), Count: countList[i]},
		})

		var b int
		switch a.Polarity() {
		case survey.PolarityPositive:
			b = 0
		case survey.PolarityNeutral:
			b = 1
		case survey.PolarityNegative:
			b = 2
		default:
			continue
		}
		buckets[b].hundredths += hundredths[i]
		buckets[b].count += countList[i]
	}

	agg.Positive = Share{Percentage: fromHundredths(buckets[0].hundredths), Count: buckets[0].count}
	agg.Neutral = Share{Percentage: fromHundredths(buckets[1].hundredths), Count: buckets[1].count}
	agg.Negative = Share{Percentage: fromHundredths(buckets[2].hundredths), Count: buckets[2].count}
	return agg
}

// distribute converts counts into hundredths of a percent that sum to
// exactly fullScale.
func distribute(counts []int, total int, policy ResidualPolicy) []int {
	out := make([]int, len(counts))
	if total == 0 || len(counts) == 0 {
		return out
	}

	if policy == LargestRemainder {
		type rem struct{ idx, r int }
		rems := make([]rem, len(counts))
		sum := 0
		for i, c := range counts {
			out[i] = c * fullScale / total
			sum += out[i]
			rems[i] = rem{idx: i, r: c * fullScale % total}
		}
		sort.SliceStable(rems, func(i, j int) bool { return rems[i].r > rems[j].r })
		for k := 0; sum < fullScale; k++ {
			out[rems[k%len(rems)].idx]++
			sum++
		}
		return out
	}

	sum := 0
	last := len(counts) - 1
	for i := 0; i < last; i++ {
		out[i] = roundHundredths(counts[i], total)
		sum += out[i]
	}
	out[last] = fullScale - sum
	return out
}

// roundHundredths is count/total as a percentage rounded half up to two
// decimals, in hundredths.
func roundHundredths(count, total int) int {
	return (count*2*fullScale + total) / (2 * total)
}

func fromHundredths(h int) float64 {
	return float64(h) / 100
}
