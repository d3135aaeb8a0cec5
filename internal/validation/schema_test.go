package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateQuestionsBytes(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		wantValid bool
	}{
		{
			name: "minimal valid config",
			yaml: `questions:
  - id: q1
    type: single
    source_column: "Satisfaction"
`,
			wantValid: true,
		},
		{
			name: "multi with options",
			yaml: `respondent_column: Respondent ID
questions:
  - id: brands
    type: multi
    options:
      - label: "Brand A"
        column: "Q1 Brand A"
`,
			wantValid: true,
		},
		{
			name:      "missing questions key",
			yaml:      "respondent_column: ID\n",
			wantValid: false,
		},
		{
			name:      "empty questions list",
			yaml:      "questions: []\n",
			wantValid: false,
		},
		{
			name: "question without type",
			yaml: `questions:
  - id: q1
`,
			wantValid: false,
		},
		{
			name: "unknown question type",
			yaml: `questions:
  - id: q1
    type: matrix
`,
			wantValid: false,
		},
		{
			name: "option missing column",
			yaml: `questions:
  - id: q1
    type: multi
    options:
      - label: "Brand A"
`,
			wantValid: false,
		},
		{
			name: "unknown top-level key",
			yaml: `questions:
  - id: q1
    type: single
    source_column: X
surprise: true
`,
			wantValid: false,
		},
		{
			name:      "unparseable yaml",
			yaml:      "questions: [",
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateQuestionsBytes([]byte(tt.yaml))
			if tt.wantValid {
				require.Empty(t, errs)
			} else {
				require.NotEmpty(t, errs)
			}
		})
	}
}

func TestValidateQuestionsBytesErrorsNameLocation(t *testing.T) {
	errs := ValidateQuestionsBytes([]byte(`questions:
  - id: q1
    type: matrix
`))
	require.NotEmpty(t, errs)
	require.Contains(t, errs[0], "/questions/0")
}
