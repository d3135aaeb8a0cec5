package wizard

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/surveylens/surveylens/internal/survey"
)

func TestGenerateQuestionsYAMLSingle(t *testing.T) {
	spec := &QuestionSpec{
		ID:               "nps",
		Label:            "How likely are you to recommend us?",
		Type:             "single",
		SourceColumn:     "NPS Score",
		RespondentColumn: "Respondent ID",
	}

	content, err := GenerateQuestionsYAML(spec)
	require.NoError(t, err)

	cfg, defs, err := survey.ParseConfig([]byte(content))
	require.NoError(t, err, "generated YAML must pass the loader's validation")
	require.Equal(t, "Respondent ID", cfg.RespondentColumn)
	require.Len(t, defs, 1)
	require.Equal(t, survey.TypeSingle, defs[0].Type)
	require.Equal(t, "NPS Score", defs[0].SingleSourceColumn)
	require.Equal(t, "How likely are you to recommend us?", defs[0].Label)
}

func TestGenerateQuestionsYAMLMulti(t *testing.T) {
	spec := &QuestionSpec{
		ID:               "brands",
		Label:            "Which brands have you purchased?",
		Type:             "multi",
		OptionLabels:     []string{"Brand A", "Brand B"},
		OptionColumns:    []string{"Q1 Brand A", "Q1 Brand B"},
		RespondentColumn: "Respondent ID",
	}

	content, err := GenerateQuestionsYAML(spec)
	require.NoError(t, err)

	_, defs, err := survey.ParseConfig([]byte(content))
	require.NoError(t, err)
	require.Len(t, defs, 1)
	require.Equal(t, survey.TypeMulti, defs[0].Type)
	require.Len(t, defs[0].Options, 2)
	require.Equal(t, "Brand A", defs[0].Options[0].Label)
	require.Equal(t, "Q1 Brand A", defs[0].Options[0].Header)
}

func TestGenerateQuestionsYAMLRanking(t *testing.T) {
	spec := &QuestionSpec{
		ID:               "pref",
		Label:            "Rank your priorities",
		Type:             "ranking",
		OptionLabels:     []string{"Taste"},
		OptionColumns:    []string{"Q3 Taste"},
		RespondentColumn: "Respondent ID",
	}

	content, err := GenerateQuestionsYAML(spec)
	require.NoError(t, err)

	_, defs, err := survey.ParseConfig([]byte(content))
	require.NoError(t, err)
	require.Equal(t, survey.TypeRanking, defs[0].Type)
}

func TestGenerateQuestionsYAMLQuotesSpecialCharacters(t *testing.T) {
	spec := &QuestionSpec{
		ID:               "income",
		Label:            `Household income: "gross", per year`,
		Type:             "single",
		SourceColumn:     "Income",
		RespondentColumn: "Respondent ID",
	}

	content, err := GenerateQuestionsYAML(spec)
	require.NoError(t, err)

	_, defs, err := survey.ParseConfig([]byte(content))
	require.NoError(t, err)
	require.Equal(t, `Household income: "gross", per year`, defs[0].Label)
}
