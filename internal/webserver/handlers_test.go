package webserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/surveylens/surveylens/internal/adjust"
	"github.com/surveylens/surveylens/internal/dataset"
	"github.com/surveylens/surveylens/internal/engine"
	"github.com/surveylens/surveylens/internal/series"
	"github.com/surveylens/surveylens/internal/survey"
)

func testServer() *Server {
	ds := &dataset.Dataset{
		RespondentIDColumn: "ID",
		Columns:            []string{"ID", "Plan", "Age", "Satisfied"},
		Version:            "test.csv@cafe",
	}
	id := 0
	add := func(plan, age string, satisfied, total int) {
		for i := 0; i < total; i++ {
			id++
			answer := "No"
			if i < satisfied {
				answer = "Yes"
			}
			ds.Rows = append(ds.Rows, dataset.Row{
				"ID":        fmt.Sprintf("r%d", id),
				"Plan":      plan,
				"Age":       age,
				"Satisfied": answer,
			})
		}
	}
	add("Free", "Young", 3, 6)
	add("Free", "Old", 1, 4)
	add("Paid", "Young", 4, 4)
	add("Paid", "Old", 2, 6)

	questions := []*survey.QuestionDef{
		{ID: "sat", Label: "Are you satisfied?", Type: survey.TypeSingle, SingleSourceColumn: "Satisfied"},
	}
	eng := engine.New(ds, questions, 8)
	return New(Config{Port: 0, NoBrowser: true}, eng)
}

func get(t *testing.T, srv *Server, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, testServer(), "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	require.Equal(t, "ok", health.Status)
	require.Equal(t, 1, health.Questions)
	require.Equal(t, 20, health.Respondents)
}

func TestHandleQuestions(t *testing.T) {
	rec := get(t, testServer(), "/api/questions")
	require.Equal(t, http.StatusOK, rec.Code)

	var questions []*survey.QuestionDef
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &questions))
	require.Len(t, questions, 1)
	require.Equal(t, "sat", questions[0].ID)
}

func TestHandleSeries(t *testing.T) {
	rec := get(t, testServer(), "/api/series?question=sat&group=Plan%3DFree&group=Plan%3DPaid&sort=desc")
	require.Equal(t, http.StatusOK, rec.Code)

	var result series.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Groups, 2)
	require.Equal(t, "Free", result.Groups[0].Label)
	require.Len(t, result.Data, 2) // Yes and No

	for _, dp := range result.Data {
		require.Len(t, dp.GroupSummaries, 2)
	}
}

func TestHandleSeriesDefaultsToOverall(t *testing.T) {
	rec := get(t, testServer(), "/api/series?question=sat")
	require.Equal(t, http.StatusOK, rec.Code)

	var result series.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Groups, 1)
	require.Equal(t, survey.OverallLabel, result.Groups[0].Label)
}

func TestHandleSeriesUnknownQuestion(t *testing.T) {
	rec := get(t, testServer(), "/api/series?question=nope")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body["error"], "nope")
}

func TestHandleAnalysis(t *testing.T) {
	rec := get(t, testServer(), "/api/analysis?question=sat&compare=Plan&a=Free&b=Paid&control=Age&option=Yes")
	require.Equal(t, http.StatusOK, rec.Code)

	var analysis adjust.FullAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	require.Equal(t, "Yes", analysis.Stratified.Option)
	require.Equal(t, "Free", analysis.Propensity.ReferenceGroup)
	require.NotEmpty(t, analysis.OptionResults)
	require.NotEmpty(t, analysis.Summary.Interpretation)
}

func TestHandleAnalysisMissingParams(t *testing.T) {
	rec := get(t, testServer(), "/api/analysis?question=sat&compare=Plan&a=Free")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalysisUnknownOption(t *testing.T) {
	rec := get(t, testServer(), "/api/analysis?question=sat&compare=Plan&a=Free&b=Paid&control=Age&option=Maybe")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleReport(t *testing.T) {
	rec := get(t, testServer(), "/report?question=sat&compare=Plan&a=Free&b=Paid&control=Age")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), "Confounder analysis")
}

func TestHandleIndex(t *testing.T) {
	rec := get(t, testServer(), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "sat")
	require.Contains(t, rec.Body.String(), "Are you satisfied?")
}

func TestParseGroups(t *testing.T) {
	groups := parseGroups([]string{"Overall", "Region=West", "bogus"})
	require.Len(t, groups, 2)
	require.Equal(t, survey.OverallLabel, groups[0].Label)
	require.Equal(t, "West", groups[1].Label)
	require.Equal(t, []survey.SegmentDef{{Column: "Region", Value: "West"}}, groups[1].Segments)

	require.Len(t, parseGroups(nil), 1)
	require.Equal(t, survey.OverallLabel, parseGroups(nil)[0].Label)
}
