package webserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/surveylens/surveylens/internal/adjust"
	"github.com/surveylens/surveylens/internal/engine"
	"github.com/surveylens/surveylens/internal/reporting"
	"github.com/surveylens/surveylens/internal/series"
	"github.com/surveylens/surveylens/internal/survey"
	"github.com/yuin/goldmark"
)

// Handlers holds the HTTP handler methods for the API.
type Handlers struct {
	engine *engine.Engine
	logger *slog.Logger
}

// NewHandlers creates Handlers over the given engine.
func NewHandlers(eng *engine.Engine, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{engine: eng, logger: logger}
}

// HealthResponse is the /api/health payload.
type HealthResponse struct {
	Status      string `json:"status"`
	Questions   int    `json:"questions"`
	Respondents int    `json:"respondents"`
}

// HandleHealth returns a simple health check response.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		Questions:   len(h.engine.Questions),
		Respondents: len(h.engine.Dataset.Respondents(h.engine.Dataset.Rows)),
	})
}

// HandleQuestions lists the configured question definitions.
func (h *Handlers) HandleQuestions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Questions)
}

// HandleSeries computes the distribution for one question.
//
//	GET /api/series?question=q1&group=Region=West&group=Overall&sort=desc
func (h *Handlers) HandleSeries(w http.ResponseWriter, r *http.Request) {
	q, err := h.engine.Question(r.URL.Query().Get("question"))
	if err != nil {
		writeQuestionError(w, err)
		return
	}

	groups := parseGroups(r.URL.Query()["group"])
	order := series.SortOrder(r.URL.Query().Get("sort"))

	h.logger.Debug("series request", "question", q.ID, "groups", len(groups), "sort", order)
	writeJSON(w, http.StatusOK, h.engine.Series(q, groups, order))
}

// HandleAnalysis runs the full confounder analysis.
//
//	GET /api/analysis?question=q1&compare=Plan&a=Free&b=Pro&control=Age&control=Region&option=Brand%20A
func (h *Handlers) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, _, err := h.runAnalysis(r)
	if err != nil {
		writeQuestionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// HandleReport renders the analysis as an HTML page.
func (h *Handlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	analysis, _, err := h.runAnalysis(r)
	if err != nil {
		writeQuestionError(w, err)
		return
	}

	md := reporting.FormatAnalysisReport(analysis)
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(md), &body); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("rendering report: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = reportPage.Execute(w, template.HTML(body.String())) //nolint:errcheck
}

// HandleIndex serves a minimal landing page listing the questions.
func (h *Handlers) HandleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = indexPage.Execute(w, h.engine.Questions) //nolint:errcheck
}

func (h *Handlers) runAnalysis(r *http.Request) (*adjust.FullAnalysis, *survey.QuestionDef, error) {
	query := r.URL.Query()
	q, err := h.engine.Question(query.Get("question"))
	if err != nil {
		return nil, nil, err
	}

	cmp := adjust.Comparison{
		Column: query.Get("compare"),
		GroupA: query.Get("a"),
		GroupB: query.Get("b"),
	}
	if cmp.Column == "" || cmp.GroupA == "" || cmp.GroupB == "" {
		return nil, nil, errBadRequest("compare, a and b parameters are required")
	}

	analysis, err := h.engine.Analyze(q, cmp, query["control"], query.Get("option"))
	if err != nil {
		return nil, nil, err
	}
	return analysis, q, nil
}

// parseGroups converts repeated group=Column=Value parameters into group
// definitions. The bare value "Overall" selects the full dataset; an
// empty list defaults to Overall only.
func parseGroups(params []string) []survey.GroupDef {
	var groups []survey.GroupDef
	for _, p := range params {
		if p == survey.OverallLabel {
			groups = append(groups, survey.OverallGroup())
			continue
		}
		column, value, found := strings.Cut(p, "=")
		if !found || column == "" || value == "" {
			continue
		}
		groups = append(groups, survey.GroupDef{
			Label:    value,
			Key:      survey.KeyForLabel(value),
			Segments: []survey.SegmentDef{{Column: column, Value: value}},
		})
	}
	if len(groups) == 0 {
		groups = []survey.GroupDef{survey.OverallGroup()}
	}
	return groups
}

type badRequestError string

func errBadRequest(msg string) error { return badRequestError(msg) }

func (e badRequestError) Error() string { return string(e) }

func writeQuestionError(w http.ResponseWriter, err error) {
	var br badRequestError
	switch {
	case errors.Is(err, engine.ErrQuestionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &br):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

var indexPage = template.Must(template.New("index").Parse(`<!doctype html>
<html><head><title>surveylens</title></head><body>
<h1>surveylens</h1>
<p>Configured questions:</p>
<ul>
{{range .}}<li><a href="/api/series?question={{.ID}}">{{.ID}}</a> — {{.Label}} ({{.Type}})</li>
{{end}}</ul>
</body></html>
`))

var reportPage = template.Must(template.New("report").Parse(`<!doctype html>
<html><head><title>surveylens report</title>
<style>body{font-family:sans-serif;max-width:60em;margin:2em auto}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:4px 8px}</style>
</head><body>{{.}}</body></html>
`))
