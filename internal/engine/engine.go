// Package engine wires the pure computation packages to loaded data and
// wraps them with memoization. It is the single entry point the CLI and
// the HTTP server call into.
package engine

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/surveylens/surveylens/internal/adjust"
	"github.com/surveylens/surveylens/internal/cache"
	"github.com/surveylens/surveylens/internal/dataset"
	"github.com/surveylens/surveylens/internal/series"
	"github.com/surveylens/surveylens/internal/survey"
	"golang.org/x/sync/errgroup"
)

// ErrQuestionNotFound is returned when a question id does not match any
// configured question.
var ErrQuestionNotFound = errors.New("question not found")

// Engine holds a loaded dataset and question definitions plus the memo
// caches. All computation it dispatches is pure; the caches never change
// output semantics.
type Engine struct {
	Dataset   *dataset.Dataset
	Questions []*survey.QuestionDef
	Index     survey.Index

	seriesCache   *cache.Store[*series.Result]
	analysisCache *cache.Store[*adjust.FullAnalysis]
}

// New builds an Engine. cacheCapacity <= 0 disables memoization.
func New(ds *dataset.Dataset, questions []*survey.QuestionDef, cacheCapacity int) *Engine {
	e := &Engine{
		Dataset:   ds,
		Questions: questions,
		Index:     survey.NewIndex(questions),
	}
	if cacheCapacity > 0 && ds.Version != "" {
		e.seriesCache = cache.NewStore[*series.Result](cacheCapacity)
		e.analysisCache = cache.NewStore[*adjust.FullAnalysis](cacheCapacity)
	}
	return e
}

// Question looks up a question definition by id.
func (e *Engine) Question(id string) (*survey.QuestionDef, error) {
	q, ok := e.Index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrQuestionNotFound, id)
	}
	return q, nil
}

// Series computes the chart-ready distribution for one question across
// the given groups, memoized on the full input key.
func (e *Engine) Series(q *survey.QuestionDef, groups []survey.GroupDef, order series.SortOrder) *series.Result {
	if e.seriesCache == nil {
		return series.Build(e.Dataset, q, groups, e.Index, order)
	}

	key := cache.SeriesKey(e.Dataset.Version, q.ID, groups, string(order))
	if cached, hit := e.seriesCache.Get(key); hit {
		return cached
	}
	result := series.Build(e.Dataset, q, groups, e.Index, order)
	e.seriesCache.Put(key, result)
	return result
}

// AllSeries computes the series of every configured question over the
// same groups, fanning the questions out across workers. The engine
// itself stays pure; this is caller-level scheduling only.
func (e *Engine) AllSeries(groups []survey.GroupDef, order series.SortOrder) map[string]*series.Result {
	results := make(map[string]*series.Result, len(e.Questions))
	var mu sync.Mutex

	var eg errgroup.Group
	eg.SetLimit(4)
	for _, q := range e.Questions {
		eg.Go(func() error {
			r := e.Series(q, groups, order)
			mu.Lock()
			results[q.ID] = r
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait() // workers never return errors

	return results
}

// Analyze runs the full confounder analysis, memoized on the full input
// key.
func (e *Engine) Analyze(q *survey.QuestionDef, cmp adjust.Comparison, controls []string, option string) (*adjust.FullAnalysis, error) {
	if e.analysisCache == nil {
		return adjust.Analyze(e.Dataset, q, cmp, controls, e.Index, option)
	}

	key := cache.AnalysisKey(e.Dataset.Version, q.ID, cmp, controls, option)
	if cached, hit := e.analysisCache.Get(key); hit {
		return cached, nil
	}
	analysis, err := adjust.Analyze(e.Dataset, q, cmp, controls, e.Index, option)
	if err != nil {
		return nil, err
	}
	e.analysisCache.Put(key, analysis)
	return analysis, nil
}

// QuestionIDs returns the configured question ids in stable sorted order.
func (e *Engine) QuestionIDs() []string {
	ids := make([]string, 0, len(e.Questions))
	for _, q := range e.Questions {
		ids = append(ids, q.ID)
	}
	sort.Strings(ids)
	return ids
}
