package survey

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/surveylens/surveylens/internal/validation"
	"gopkg.in/yaml.v3"
)

// OptionConfig is the YAML shape of one option column.
type OptionConfig struct {
	Label      string   `mapstructure:"label"`
	Column     string   `mapstructure:"column"`
	AltColumns []string `mapstructure:"alt_columns"`
}

// QuestionConfig is the YAML shape of one question definition.
type QuestionConfig struct {
	ID                string         `mapstructure:"id"`
	Label             string         `mapstructure:"label"`
	Type              string         `mapstructure:"type"`
	Level             string         `mapstructure:"level"`
	SourceColumn      string         `mapstructure:"source_column"`
	TextSummaryColumn string         `mapstructure:"text_summary_column"`
	Options           []OptionConfig `mapstructure:"options"`
}

// Config is the top-level questions.yaml document.
type Config struct {
	RespondentColumn string           `mapstructure:"respondent_column"`
	RowLevel         bool             `mapstructure:"row_level"`
	Questions        []QuestionConfig `mapstructure:"questions"`
}

// LoadConfig reads and validates a questions.yaml file, returning the raw
// config plus fully resolved question definitions.
func LoadConfig(path string) (*Config, []*QuestionDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("survey: reading %s: %w", path, err)
	}
	cfg, defs, err := ParseConfig(data)
	if err != nil {
		return nil, nil, fmt.Errorf("survey: %s: %w", path, err)
	}
	return cfg, defs, nil
}

// ParseConfig validates raw YAML bytes against the questions schema and
// decodes them into typed definitions.
func ParseConfig(data []byte) (*Config, []*QuestionDef, error) {
	if errs := validation.ValidateQuestionsBytes(data); len(errs) > 0 {
		return nil, nil, fmt.Errorf("invalid question config:\n  %s", strings.Join(errs, "\n  "))
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parsing YAML: %w", err)
	}

	var cfg Config
	if err := mapstructure.Decode(doc, &cfg); err != nil {
		return nil, nil, fmt.Errorf("decoding question config: %w", err)
	}

	defs := make([]*QuestionDef, 0, len(cfg.Questions))
	for i, qc := range cfg.Questions {
		def, err := qc.toDef()
		if err != nil {
			return nil, nil, fmt.Errorf("question %d (%s): %w", i+1, qc.ID, err)
		}
		defs = append(defs, def)
	}
	return &cfg, defs, nil
}

func (qc QuestionConfig) toDef() (*QuestionDef, error) {
	qType := Type(strings.ToLower(strings.TrimSpace(qc.Type)))
	switch qType {
	case TypeSingle, TypeMulti, TypeRanking:
	default:
		return nil, fmt.Errorf("unknown question type %q", qc.Type)
	}

	level := LevelRespondent
	switch strings.ToLower(strings.TrimSpace(qc.Level)) {
	case "", "respondent":
	case "row":
		level = LevelRow
	default:
		return nil, fmt.Errorf("unknown level %q", qc.Level)
	}

	def := &QuestionDef{
		ID:                 qc.ID,
		Label:              qc.Label,
		Type:               qType,
		Level:              level,
		SingleSourceColumn: qc.SourceColumn,
		TextSummaryColumn:  qc.TextSummaryColumn,
	}
	if def.Label == "" {
		def.Label = qc.ID
	}

	for _, oc := range qc.Options {
		def.Options = append(def.Options, OptionColumn{
			Label:      oc.Label,
			Header:     oc.Column,
			AltHeaders: oc.AltColumns,
		})
	}

	if qType == TypeSingle && def.SingleSourceColumn == "" {
		return nil, fmt.Errorf("single question requires source_column")
	}
	if qType == TypeRanking && len(def.Options) == 0 {
		return nil, fmt.Errorf("ranking question requires options")
	}
	if qType == TypeMulti && len(def.Options) == 0 && def.TextSummaryColumn == "" {
		return nil, fmt.Errorf("multi question requires options or text_summary_column")
	}

	return def, nil
}
