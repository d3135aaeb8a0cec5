// Package wizard collects question-config metadata interactively and
// renders a starter questions.yaml.
package wizard

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// QuestionSpec holds all fields collected during the interactive wizard.
type QuestionSpec struct {
	ID               string
	Label            string
	Type             string
	SourceColumn     string
	OptionLabels     []string
	OptionColumns    []string
	RespondentColumn string
}

const questionsTemplate = `respondent_column: {{ .RespondentColumn }}
questions:
  - id: {{ .ID }}
    label: {{ printf "%q" .Label }}
    type: {{ .Type }}
{{- if eq .Type "single" }}
    source_column: {{ printf "%q" .SourceColumn }}
{{- else }}
    options:
{{- range $i, $label := .OptionLabels }}
      - label: {{ printf "%q" $label }}
        column: {{ printf "%q" (index $.OptionColumns $i) }}
{{- end }}
{{- end }}
`

// RunQuestionWizard runs an interactive huh form to collect question
// metadata. If initialID is non-empty, it pre-populates the id field.
func RunQuestionWizard(in io.Reader, out io.Writer, initialID string) (*QuestionSpec, error) {
	var (
		id           = initialID
		label        string
		qType        string
		sourceColumn string
		respondentID string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Question id").
				Description("A short identifier, e.g. q1").
				Placeholder("q1").
				Value(&id).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("id is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Question label").
				Description("The display label charts will use").
				Placeholder("Which brands have you purchased?").
				Value(&label),
			huh.NewSelect[string]().
				Title("Question type").
				Options(
					huh.NewOption("single", "single"),
					huh.NewOption("multi", "multi"),
					huh.NewOption("ranking", "ranking"),
				).
				Value(&qType),
			huh.NewInput().
				Title("Source column (single) or option columns (multi/ranking)").
				Description("For multi/ranking: comma-separated Label:Column pairs").
				Placeholder("Brand A:Q1 Brand A, Brand B:Q1 Brand B").
				Value(&sourceColumn),
			huh.NewInput().
				Title("Respondent id column").
				Placeholder("Respondent ID").
				Value(&respondentID),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	spec := &QuestionSpec{
		ID:               strings.TrimSpace(id),
		Label:            strings.TrimSpace(label),
		Type:             qType,
		RespondentColumn: strings.TrimSpace(respondentID),
	}
	if spec.Label == "" {
		spec.Label = spec.ID
	}
	if spec.RespondentColumn == "" {
		spec.RespondentColumn = "Respondent ID"
	}

	if qType == "single" {
		spec.SourceColumn = strings.TrimSpace(sourceColumn)
		if spec.SourceColumn == "" {
			return nil, fmt.Errorf("single question requires a source column")
		}
		return spec, nil
	}

	for _, pair := range strings.Split(sourceColumn, ",") {
		labelPart, columnPart, found := strings.Cut(pair, ":")
		if !found {
			continue
		}
		labelPart = strings.TrimSpace(labelPart)
		columnPart = strings.TrimSpace(columnPart)
		if labelPart == "" || columnPart == "" {
			continue
		}
		spec.OptionLabels = append(spec.OptionLabels, labelPart)
		spec.OptionColumns = append(spec.OptionColumns, columnPart)
	}
	if len(spec.OptionLabels) == 0 {
		return nil, fmt.Errorf("%s question requires at least one Label:Column pair", qType)
	}
	return spec, nil
}

// GenerateQuestionsYAML renders a questions.yaml from the given spec.
func GenerateQuestionsYAML(spec *QuestionSpec) (string, error) {
	tmpl, err := template.New("questions").Parse(questionsTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, spec); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}
