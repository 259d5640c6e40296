package glyphmatch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wbrown/glyphmatch/imageutil"
)

// ConfusionMatrix counts classifications indexed [actual][predicted].
type ConfusionMatrix [NumLabels][NumLabels]int

// Add records one classification.
func (m *ConfusionMatrix) Add(actual, predicted Label) {
	m[actual][predicted]++
}

// Merge adds every cell of other into m.
func (m *ConfusionMatrix) Merge(other *ConfusionMatrix) {
	for i := range m {
		for j := range m[i] {
			m[i][j] += other[i][j]
		}
	}
}

// Total returns the sum of all cells.
func (m *ConfusionMatrix) Total() int {
	total := 0
	for i := range m {
		for j := range m[i] {
			total += m[i][j]
		}
	}
	return total
}

// Diagonal returns the number of correct classifications.
func (m *ConfusionMatrix) Diagonal() int {
	diag := 0
	for i := range m {
		diag += m[i][i]
	}
	return diag
}

// Prediction is the outcome for one query image.
type Prediction struct {
	Query    Entry
	Match    Entry
	Distance float64
}

// Correct reports whether the match shares the query's label.
func (p Prediction) Correct() bool {
	return p.Query.Label == p.Match.Label
}

// EvaluationResult is the outcome of one evaluation run.
type EvaluationResult struct {
	Matrix ConfusionMatrix

	// Score is Matrix.Diagonal() * ScoreScale / 100 in integer arithmetic.
	// With the default scale it is not a percentage and exceeds 100 for
	// corpora of more than 83 correct predictions.
	Score      int
	ScoreScale int

	// Classified counts queries that found a match; Skipped counts those
	// that had no candidate.
	Classified int
	Skipped    int

	// Predictions holds one element per classified query, in corpus order.
	Predictions []Prediction
}

// Correct returns the number of correct predictions.
func (r *EvaluationResult) Correct() int {
	return r.Matrix.Diagonal()
}

// Accuracy returns the true recognition rate as a percentage of classified
// queries, or 0 when nothing was classified.
func (r *EvaluationResult) Accuracy() float64 {
	if r.Classified == 0 {
		return 0
	}
	return 100 * float64(r.Correct()) / float64(r.Classified)
}

// Misclassified returns the predictions whose label differs from the
// query's, in corpus order.
func (r *EvaluationResult) Misclassified() []Prediction {
	var out []Prediction
	for _, p := range r.Predictions {
		if !p.Correct() {
			out = append(out, p)
		}
	}
	return out
}

// Evaluator classifies every visible corpus image against the rest of the
// corpus and tabulates the confusion matrix.
type Evaluator struct {
	matcher    *Matcher
	workers    int
	scoreScale int
	logger     *zap.Logger
}

// NewEvaluator returns an evaluator using cfg's Workers and ScoreScale.
func NewEvaluator(cfg *Config, matcher *Matcher, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := max(cfg.Workers, 1)
	scale := cfg.ScoreScale
	if scale <= 0 {
		scale = DefaultScoreScale
	}
	return &Evaluator{
		matcher:    matcher,
		workers:    workers,
		scoreScale: scale,
		logger:     logger,
	}
}

// Evaluate classifies each visible entry of corpus exactly once. Queries
// are split into contiguous shards, one per worker, each accumulating its
// own matrix; the shards are merged afterwards so the result does not
// depend on scheduling.
func (e *Evaluator) Evaluate(ctx context.Context, corpus []Entry) (*EvaluationResult, error) {
	start := time.Now()
	queries := Visible(corpus)

	workers := min(e.workers, max(len(queries), 1))
	partials := make([]ConfusionMatrix, workers)
	slots := make([]*Prediction, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for w := 0; w < workers; w++ {
		w := w // per-iteration copy (go 1.21 loop-variable semantics)
		lo := w * len(queries) / workers
		hi := (w + 1) * len(queries) / workers
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				q := queries[i]
				m, ok, err := e.matcher.FindClosest(q, corpus)
				if err != nil {
					return fmt.Errorf("classify %s: %w", q.Name, err)
				}
				if !ok {
					e.logger.Warn("No candidate for query", zap.String("query", q.Name))
					continue
				}
				partials[w].Add(q.Label, m.Entry.Label)
				slots[i] = &Prediction{Query: q, Match: m.Entry, Distance: m.Distance}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &EvaluationResult{ScoreScale: e.scoreScale}
	for w := range partials {
		res.Matrix.Merge(&partials[w])
	}
	for _, p := range slots {
		if p == nil {
			res.Skipped++
			continue
		}
		res.Classified++
		res.Predictions = append(res.Predictions, *p)
	}
	res.Score = res.Matrix.Diagonal() * e.scoreScale / 100

	fields := []zap.Field{
		zap.Int("classified", res.Classified),
		zap.Int("skipped", res.Skipped),
		zap.Int("correct", res.Correct()),
		zap.Int("score", res.Score),
		zap.Int("workers", workers),
		zap.Duration("elapsed", time.Since(start)),
	}
	if cache := e.matcher.cache; cache != nil {
		hits, misses := cache.Stats()
		fields = append(fields, zap.Int("cache_hits", hits), zap.Int("cache_misses", misses))
	}
	e.logger.Info("Evaluation complete", fields...)
	return res, nil
}

// Pipeline bundles the collaborators built from a Config.
type Pipeline struct {
	Config    *Config
	Cache     *DescriptorCache
	Matcher   *Matcher
	Evaluator *Evaluator
	logger    *zap.Logger
}

// NewPipeline validates cfg and wires loader, cache, matcher and evaluator.
func NewPipeline(cfg *Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	load, err := imageutil.LoaderByName(cfg.Loader)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{Config: cfg, logger: logger}
	if cfg.CacheDescriptors {
		p.Cache = NewDescriptorCache()
	}
	p.Matcher = NewMatcher(load, p.Cache, logger)
	p.Evaluator = NewEvaluator(cfg, p.Matcher, logger)
	return p, nil
}

// Corpus lists the configured corpus directory.
func (p *Pipeline) Corpus() ([]Entry, error) {
	return ListCorpus(p.Config.CorpusDir, ListOptions{
		SkipInvalid: p.Config.SkipInvalid,
		Logger:      p.logger,
	})
}

// Run lists the corpus and evaluates it.
func (p *Pipeline) Run(ctx context.Context) (*EvaluationResult, error) {
	corpus, err := p.Corpus()
	if err != nil {
		return nil, err
	}
	return p.Evaluator.Evaluate(ctx, corpus)
}
