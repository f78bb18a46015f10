package service

import (
	"github.com/godilite/survey-dashboard/internal/analytics"
	"github.com/godilite/survey-dashboard/internal/dataset"
)

// QuestionChart is one bar of the chart with its stable "Q<n>" code.
type QuestionChart struct {
	analytics.QuestionAggregate
	Code string `json:"code"`
}

// Dashboard is everything a filter panel renders for one criteria value.
type Dashboard struct {
	View      analytics.View               `json:"view"`
	Criteria  analytics.Criteria           `json:"criteria"`
	DatasetID string                       `json:"datasetId"`
	Options   map[analytics.Field][]string `json:"options"`
	Total     int                          `json:"total"`
	Matched   int                          `json:"matched"`
	Questions []QuestionChart              `json:"questions"`
	Metrics   analytics.Metrics            `json:"metrics"`
}

// Comparison is two independent panels side by side.
type Comparison struct {
	Left    Dashboard                   `json:"left"`
	Right   Dashboard                   `json:"right"`
	Metrics analytics.MetricsComparison `json:"metrics"`
}

// SessionState is the observable state of a panel session. Dashboard is nil
// unless the dataset is ready; a failed load sets Error instead, which is
// how "no data" differs from a dashboard with zero matches.
type SessionState struct {
	ID        string             `json:"id"`
	View      analytics.View     `json:"view"`
	Criteria  analytics.Criteria `json:"criteria"`
	State     dataset.State      `json:"state"`
	LoadToken string             `json:"loadToken,omitempty"`
	Error     string             `json:"error,omitempty"`
	Dashboard *Dashboard         `json:"dashboard,omitempty"`
}
