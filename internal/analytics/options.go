package analytics

import (
	"sort"
	"strconv"
	"strings"

	"github.com/godilite/survey-dashboard/internal/survey"
)

// SectorOptions lists every sector in the dataset.
func SectorOptions(records []survey.Response, c Criteria) []string {
	return dashboardOptions(FieldSector, records, c)
}

// CourseOptions lists the courses of the selected sectors; empty until a
// sector is selected.
func CourseOptions(records []survey.Response, c Criteria) []string {
	return dashboardOptions(FieldCourse, records, c)
}

// DisciplineOptions lists the disciplines of the single selected course.
// Zero or several selected courses yield no options.
func DisciplineOptions(records []survey.Response, c Criteria) []string {
	return dashboardOptions(FieldDiscipline, records, c)
}

// QuestionOptions lists the questions reachable under the upstream selections.
func QuestionOptions(records []survey.Response, c Criteria) []string {
	return dashboardOptions(FieldQuestion, records, c)
}

// DepartmentOptions lists every department of an institutional dataset.
func DepartmentOptions(records []survey.Response, c Criteria) []string {
	return dashboardOptions(FieldDepartment, records, c)
}

// ProfessorOptions lists every professor code in the dataset.
func ProfessorOptions(records []survey.Response, c Criteria) []string {
	opts, _ := HierarchyFor(ViewProfessor, c.SurveyType).Options(FieldProfessor, records, c)
	return opts
}

func dashboardOptions(f Field, records []survey.Response, c Criteria) []string {
	opts, err := HierarchyFor(ViewDashboard, c.SurveyType).Options(f, records, c)
	if err != nil {
		return []string{}
	}
	return opts
}

// PeriodOptions lists the entry-date buckets of the dataset, most recent
// first. Disciplinary surveys bucket by MM/YYYY, the others by YYYY.
func PeriodOptions(records []survey.Response, c Criteria) []string {
	periods := distinctValues(FieldPeriod, records, c, nil)
	sort.SliceStable(periods, func(i, j int) bool {
		return periodOrder(periods[i]) > periodOrder(periods[j])
	})
	return periods
}

// periodOrder converts "MM/YYYY" or "YYYY" into a sortable year*100+month.
func periodOrder(p string) int {
	month, year := 0, p
	if m, y, ok := strings.Cut(p, "/"); ok {
		month, _ = strconv.Atoi(m)
		year = y
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return 0
	}
	return y*100 + month
}

// Options computes the option list of a field for a view.
func Options(view View, f Field, records []survey.Response, c Criteria) ([]string, error) {
	return HierarchyFor(view, c.SurveyType).Options(f, records, c)
}

// Update applies a field change with cascade reset for a view.
func Update(view View, c Criteria, f Field, values []string) (Criteria, error) {
	return HierarchyFor(view, c.SurveyType).Update(c, f, values)
}
