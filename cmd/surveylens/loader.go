package main

import (
	"fmt"
	"strings"

	"github.com/surveylens/surveylens/internal/dataset"
	"github.com/surveylens/surveylens/internal/engine"
	"github.com/surveylens/surveylens/internal/projectconfig"
	"github.com/surveylens/surveylens/internal/survey"
)

// loadFlags are the data-source flags shared by the analysis commands.
// Empty values fall back to .surveylens.yaml and its defaults.
type loadFlags struct {
	dataPath      string
	questionsPath string
	rowLevel      bool
}

// loadEngine resolves project config, loads the dataset and question
// config, and wires the engine.
func loadEngine(flags loadFlags) (*engine.Engine, *projectconfig.ProjectConfig, error) {
	cfg, err := projectconfig.Load(".")
	if err != nil {
		return nil, nil, err
	}

	dataPath := flags.dataPath
	if dataPath == "" {
		dataPath = cfg.Paths.Data
	}
	questionsPath := flags.questionsPath
	if questionsPath == "" {
		questionsPath = cfg.Paths.Questions
	}

	qcfg, questions, err := survey.LoadConfig(questionsPath)
	if err != nil {
		return nil, nil, err
	}
	if len(questions) == 0 {
		return nil, nil, fmt.Errorf("no questions configured in %s", questionsPath)
	}

	idColumn := qcfg.RespondentColumn
	if idColumn == "" {
		idColumn = cfg.Defaults.RespondentColumn
	}
	rowLevel := flags.rowLevel || qcfg.RowLevel
	if cfg.Defaults.RowLevel != nil && *cfg.Defaults.RowLevel {
		rowLevel = true
	}

	ds, err := dataset.LoadCSV(dataPath, idColumn, rowLevel)
	if err != nil {
		return nil, nil, err
	}

	capacity := 0
	if cfg.Cache.Enabled == nil || *cfg.Cache.Enabled {
		capacity = cfg.Cache.Capacity
	}
	return engine.New(ds, questions, capacity), cfg, nil
}

// parseGroupArgs converts repeated --group Column=Value flags into group
// definitions, defaulting to the Overall group.
func parseGroupArgs(args []string) ([]survey.GroupDef, error) {
	var groups []survey.GroupDef
	for _, arg := range args {
		if arg == survey.OverallLabel {
			groups = append(groups, survey.OverallGroup())
			continue
		}
		column, value, found := strings.Cut(arg, "=")
		if !found || column == "" || value == "" {
			return nil, fmt.Errorf("invalid group %q: expected Column=Value or Overall", arg)
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
	return groups, nil
}
