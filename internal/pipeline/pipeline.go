// Package pipeline orchestrates batch validation of candidate views:
// concurrent per-view checking against a shared read-only schema graph,
// followed by sequential deduplication and report assembly.
package pipeline

import (
	"context"
	"sync"

	"github.com/serhataydn/viewgen/internal/config"
	"github.com/serhataydn/viewgen/internal/schema"
	"github.com/serhataydn/viewgen/internal/validate"
	"github.com/serhataydn/viewgen/internal/view"
	"github.com/serhataydn/viewgen/pkg/logger"
)

type Pipeline struct {
	checker    *validate.Checker
	workers    int
	log        *logger.Logger
	onProgress func(viewName string, valid bool)
}

type Option func(*Pipeline)

// WithProgress installs a callback fired after each view finishes
// validating. The callback must be safe for concurrent use.
func WithProgress(fn func(viewName string, valid bool)) Option {
	return func(p *Pipeline) {
		p.onProgress = fn
	}
}

func New(graph *schema.Graph, cfg *config.Config, log *logger.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		checker: validate.NewChecker(graph, validate.Options{
			MinSemanticScore:     cfg.Validation.MinSemanticScore,
			DisableSemanticCheck: cfg.Validation.DisableSemanticCheck,
		}),
		workers: cfg.Validation.Workers,
		log:     log,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.workers < 1 {
		p.workers = 1
	}
	return p
}

// Run validates every candidate, deduplicates the valid subset in input
// order, and assembles the batch report. Per-view validation runs on a
// bounded worker pool; a canceled context abandons the batch without
// exposing partial results.
func (p *Pipeline) Run(ctx context.Context, candidates []view.Candidate) (*Report, error) {
	p.log.Infof("Validating %d candidate views...", len(candidates))

	results := make([]*validate.Result, len(candidates))

	workers := p.workers
	if workers > len(candidates) {
		workers = len(candidates)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	go func() {
		defer close(jobs)
		for i := range candidates {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					continue
				}
				results[idx] = p.validateOne(candidates[idx])
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	removed := validate.Deduplicate(results)

	report := &Report{
		TotalGenerated:    len(candidates),
		DuplicatesRemoved: removed,
		Results:           make([]validate.Result, 0, len(results)),
	}
	for _, result := range results {
		report.Results = append(report.Results, *result)
		if !result.Valid {
			report.InvalidViews++
		} else if result.DuplicateOf == "" {
			report.ValidViews++
		}
	}
	if report.TotalGenerated > 0 {
		report.SuccessRate = float64(report.ValidViews) / float64(report.TotalGenerated)
	}

	p.log.Infof("Validation complete: %d valid, %d invalid, %d duplicates removed",
		report.ValidViews, report.InvalidViews, report.DuplicatesRemoved)

	return report, nil
}

func (p *Pipeline) validateOne(candidate view.Candidate) *validate.Result {
	var result *validate.Result
	if candidate.Err != nil {
		result = validate.NewParseFailure(candidate.Spec.Name, candidate.Err)
	} else {
		r := p.checker.Check(candidate.Spec)
		result = &r
	}

	if result.Valid {
		p.log.Debugf("view %q is valid", result.ViewName)
	} else {
		p.log.Debugf("view %q is invalid: %d errors", result.ViewName, result.ErrorCount())
	}
	if p.onProgress != nil {
		p.onProgress(result.ViewName, result.Valid)
	}

	return result
}
