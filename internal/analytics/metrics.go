package analytics

import (
	"math"
	"strconv"

	"github.com/godilite/survey-dashboard/internal/survey"
)

// Metrics are the headline numbers of a filtered subset.
type Metrics struct {
	SurveyType   survey.Type `json:"surveyType"`
	Responses    int         `json:"responses"`
	ApprovalRate float64     `json:"approvalRate"`
	Respondents  int         `json:"respondents"`
	Disciplines  int         `json:"disciplines"`
	Courses      int         `json:"courses"`
}

// ComputeMetrics summarizes records. Institutional surveys count departments
// in place of courses and have no disciplines.
func ComputeMetrics(records []survey.Response, t survey.Type) Metrics {
	m := Metrics{SurveyType: t, Responses: len(records)}

	respondents := make(map[string]struct{})
	disciplines := make(map[string]struct{})
	courses := make(map[string]struct{})
	positive, answered := 0, 0

	for i, r := range records {
		respondents[respondentKey(r, i)] = struct{}{}
		if r.Answer != "" {
			answered++
			if r.Answer.Polarity() == survey.PolarityPositive {
				positive++
			}
		}
		if t.IsInstitutional() {
			if r.Department != "" {
				courses[r.Department] = struct{}{}
			}
			continue
		}
		if r.Discipline != "" {
			disciplines[r.Discipline] = struct{}{}
		}
		if r.Course != "" {
			courses[r.Course] = struct{}{}
		}
	}

	m.Respondents = len(respondents)
	m.Disciplines = len(disciplines)
	m.Courses = len(courses)
	if answered > 0 {
		m.ApprovalRate = roundTo(float64(positive)/float64(answered)*100, 2)
	}
	return m
}

// Trend is the direction of a metric between two panels.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// MetricDelta compares one metric of two panels.
type MetricDelta struct {
	Left        float64 `json:"left"`
	Right       float64 `json:"right"`
	Difference  float64 `json:"difference"`
	PercentDiff float64 `json:"percentDiff"`
	Trend       Trend   `json:"trend"`
}

// MetricsComparison holds the deltas of every metric.
type MetricsComparison struct {
	Responses    MetricDelta `json:"responses"`
	ApprovalRate MetricDelta `json:"approvalRate"`
	Respondents  MetricDelta `json:"respondents"`
	Disciplines  MetricDelta `json:"disciplines"`
	Courses      MetricDelta `json:"courses"`
}

// CompareMetrics computes right minus left for every metric.
func CompareMetrics(left, right Metrics) MetricsComparison {
	return MetricsComparison{
		Responses:    delta(float64(left.Responses), float64(right.Responses)),
		ApprovalRate: delta(left.ApprovalRate, right.ApprovalRate),
		Respondents:  delta(float64(left.Respondents), float64(right.Respondents)),
		Disciplines:  delta(float64(left.Disciplines), float64(right.Disciplines)),
		Courses:      delta(float64(left.Courses), float64(right.Courses)),
	}
}

func delta(left, right float64) MetricDelta {
	d := MetricDelta{Left: left, Right: right, Difference: roundTo(right-left, 2), Trend: TrendFlat}
	if left != 0 {
		d.PercentDiff = roundTo((right-left)/left*100, 1)
	}
	switch {
	case d.Difference > 0:
		d.Trend = TrendUp
	case d.Difference < 0:
		d.Trend = TrendDown
	}
	return d
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// respondentKey identifies the respondent of the i-th record. Records without
// an id each stand for their own respondent.
func respondentKey(r survey.Response, i int) string {
	if r.RespondentID != "" {
		return r.RespondentID
	}
	return "\x00row-" + strconv.Itoa(i)
}
