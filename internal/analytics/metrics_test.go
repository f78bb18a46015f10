package analytics

import (
	"testing"

	"github.com/godilite/survey-dashboard/internal/survey"
	"github.com/stretchr/testify/assert"
)

func TestComputeMetrics(t *testing.T) {
	t.Run("disciplinary", func(t *testing.T) {
		m := ComputeMetrics(disciplinaryFixture(), survey.TypeDisciplineInPerson)

		assert.Equal(t, Metrics{
			SurveyType:   survey.TypeDisciplineInPerson,
			Responses:    6,
			ApprovalRate: 50,
			Respondents:  4,
			Disciplines:  4,
			Courses:      3,
		}, m)
	})

	t.Run("institutional counts departments", func(t *testing.T) {
		m := ComputeMetrics(institutionalFixture(), survey.TypeInstitutional)

		assert.Equal(t, 4, m.Responses)
		assert.Equal(t, 3, m.Respondents)
		assert.Equal(t, 0, m.Disciplines)
		assert.Equal(t, 3, m.Courses)
		assert.Equal(t, 50.0, m.ApprovalRate)
	})

	t.Run("empty", func(t *testing.T) {
		m := ComputeMetrics(nil, survey.TypeCourse)
		assert.Equal(t, Metrics{SurveyType: survey.TypeCourse}, m)
	})

	t.Run("approval rate rounded", func(t *testing.T) {
		m := ComputeMetrics(answers("Q", survey.AnswerAgree, survey.AnswerNo, survey.AnswerNo), survey.TypeCourse)
		assert.Equal(t, 33.33, m.ApprovalRate)
	})
}

func TestCompareMetrics(t *testing.T) {
	left := Metrics{Responses: 200, ApprovalRate: 60, Respondents: 50, Disciplines: 0, Courses: 4}
	right := Metrics{Responses: 150, ApprovalRate: 75.5, Respondents: 50, Disciplines: 3, Courses: 5}

	cmp := CompareMetrics(left, right)

	assert.Equal(t, MetricDelta{Left: 200, Right: 150, Difference: -50, PercentDiff: -25, Trend: TrendDown}, cmp.Responses)
	assert.Equal(t, MetricDelta{Left: 60, Right: 75.5, Difference: 15.5, PercentDiff: 25.8, Trend: TrendUp}, cmp.ApprovalRate)
	assert.Equal(t, TrendFlat, cmp.Respondents.Trend)
	assert.Equal(t, 0.0, cmp.Respondents.PercentDiff)
	assert.Equal(t, MetricDelta{Left: 0, Right: 3, Difference: 3, PercentDiff: 0, Trend: TrendUp}, cmp.Disciplines)
	assert.Equal(t, 25.0, cmp.Courses.PercentDiff)
}
