// Package analysis ties document acquisition to speaker attribution and
// inclusion scoring.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"scriptscore/pkg/document"
	"scriptscore/pkg/inclusion"
	"scriptscore/pkg/screenplay"
)

// Fetcher acquires document text by locator.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (*document.Document, error)
}

// Session is the finalized analysis of one document. It is built once per
// document and passed around explicitly; scoring never mutates it.
type Session struct {
	ID        string                     `json:"id"`
	Locator   string                     `json:"locator"`
	Title     string                     `json:"title,omitempty"`
	Pages     int                        `json:"pages"`
	CreatedAt time.Time                  `json:"created_at"`
	Tally     *screenplay.Tally          `json:"-"`
	Ranked    []screenplay.RankedSpeaker `json:"ranked"`
}

// Candidates returns the ranked speaker names offered for group selection.
func (s *Session) Candidates() []string {
	return screenplay.Names(s.Ranked)
}

// Scored is a session evaluated against a pair of groups.
type Scored struct {
	Session    *Session             `json:"session"`
	Groups     inclusion.Groups     `json:"groups"`
	Assignment inclusion.Assignment `json:"assignment"`
	Metrics    inclusion.Metrics    `json:"metrics"`
}

// Analyzer runs the attribution pipeline.
type Analyzer struct {
	fetcher    Fetcher
	normalizer *screenplay.Normalizer
	scanner    *screenplay.Scanner
	topN       int
}

// NewAnalyzer wires an Analyzer. topN bounds the ranked list; zero keeps the
// default of screenplay.MaxRanked.
func NewAnalyzer(fetcher Fetcher, normalizer *screenplay.Normalizer, topN int) *Analyzer {
	if normalizer == nil {
		normalizer = screenplay.NewNormalizer(nil)
	}
	return &Analyzer{
		fetcher:    fetcher,
		normalizer: normalizer,
		scanner:    screenplay.NewScanner(normalizer),
		topN:       topN,
	}
}

// Analyze fetches locator and builds its session.
func (a *Analyzer) Analyze(ctx context.Context, locator string) (*Session, error) {
	if a.fetcher == nil {
		return nil, fmt.Errorf("analyze %s: no document source configured", locator)
	}
	doc, err := a.fetcher.Fetch(ctx, locator)
	if err != nil {
		return nil, err
	}
	s := a.AnalyzeLines(locator, doc.Lines())
	s.Pages = doc.Pages
	return s, nil
}

// AnalyzeText builds a session from already extracted text.
func (a *Analyzer) AnalyzeText(locator, text string) *Session {
	s := a.AnalyzeLines(locator, document.Lines(text))
	s.Pages = 1
	return s
}

// AnalyzeLines scans lines and ranks the resulting tally.
func (a *Analyzer) AnalyzeLines(locator string, lines []string) *Session {
	startTime := time.Now()
	tally := a.scanner.Scan(lines)
	ranked := screenplay.RankTop(tally, a.topN)

	s := &Session{
		ID:        uuid.NewString(),
		Locator:   locator,
		CreatedAt: time.Now().UTC(),
		Tally:     tally,
		Ranked:    ranked,
	}
	log.WithFields(log.Fields{
		"session":  s.ID,
		"locator":  locator,
		"lines":    len(lines),
		"speakers": tally.Len(),
		"dialogue": tally.Total(),
		"ranked":   len(ranked),
	}).Infof("Analysis completed in %v", time.Since(startTime))
	return s
}

// Score matches the session's ranked speakers against groups and computes
// the inclusion metrics.
func (a *Analyzer) Score(s *Session, groups inclusion.Groups) Scored {
	groups = groups.WithDefaultLabels()
	assignment := inclusion.Assign(a.normalizer, s.Ranked, groups.A.Names, groups.B.Names)
	metrics := assignment.Metrics()

	log.WithFields(log.Fields{
		"session": s.ID,
		"a":       len(assignment.A),
		"b":       len(assignment.B),
	}).Infof("Scored: dialogue=%.2f%% headcount=%.2f%% inclusion=%.2f%%",
		metrics.DialogueRatio, metrics.HeadcountRatio, metrics.InclusionScore)
	return Scored{Session: s, Groups: groups, Assignment: assignment, Metrics: metrics}
}

// Compare analyzes two documents concurrently. Their scans share no state.
// The first failure cancels the other fetch.
func (a *Analyzer) Compare(ctx context.Context, first, second string) (*Session, *Session, error) {
	var sessions [2]*Session
	g, ctx := errgroup.WithContext(ctx)
	for i, locator := range []string{first, second} {
		i, locator := i, locator
		g.Go(func() error {
			s, err := a.Analyze(ctx, locator)
			if err != nil {
				return fmt.Errorf("document %d: %w", i+1, err)
			}
			sessions[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return sessions[0], sessions[1], nil
}
