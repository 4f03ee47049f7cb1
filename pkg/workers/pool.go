package workers

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"scriptscore/pkg/analysis"
)

// Analyzer is the part of analysis.Analyzer the pool needs.
type Analyzer interface {
	Analyze(ctx context.Context, locator string) (*analysis.Session, error)
}

// Outcome is the result of analyzing one locator.
type Outcome struct {
	Locator string
	Session *analysis.Session
	Err     error
}

// AnalyzeAll analyzes every locator with at most maxConcurrent documents in
// flight. Outcomes are returned in input order. A failed document does not
// stop the others; a cancelled context marks the remaining ones failed.
func AnalyzeAll(ctx context.Context, analyzer Analyzer, locators []string, maxConcurrent int) []Outcome {
	startTime := time.Now()
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	log.Printf("Starting to analyze %d documents with max concurrency %d", len(locators), maxConcurrent)

	outcomes := make([]Outcome, len(locators))
	var g errgroup.Group
	g.SetLimit(maxConcurrent)

	for i, locator := range locators {
		i, locator := i, locator
		outcomes[i].Locator = locator
		if err := ctx.Err(); err != nil {
			outcomes[i].Err = err
			continue
		}
		log.Debugf("Dispatching worker for document %d/%d: %s", i+1, len(locators), locator)

		g.Go(func() error {
			docStartTime := time.Now()
			s, err := analyzer.Analyze(ctx, locator)
			if err != nil {
				log.Printf("Error analyzing document %d (%s): %v", i+1, locator, err)
				outcomes[i].Err = err
				return nil
			}
			outcomes[i].Session = s
			log.Debugf("Worker for document %d completed in %v", i+1, time.Since(docStartTime))
			return nil
		})
	}
	_ = g.Wait()

	succeeded := 0
	for _, o := range outcomes {
		if o.Err == nil {
			succeeded++
		}
	}
	log.Printf("Analysis completed in %v, %d of %d documents succeeded",
		time.Since(startTime), succeeded, len(locators))
	return outcomes
}
