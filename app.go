package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"scriptscore/pkg/analysis"
	"scriptscore/pkg/catalog"
	"scriptscore/pkg/config"
	"scriptscore/pkg/document"
	"scriptscore/pkg/inclusion"
	"scriptscore/pkg/postag"
	"scriptscore/pkg/screenplay"
)

// app holds the wiring shared by every command.
type app struct {
	cfg      *config.Config
	source   *document.Source
	analyzer *analysis.Analyzer
}

func newApp(flags *pflag.FlagSet) (*app, error) {
	cfg, err := config.Load(flags)
	if err != nil {
		return nil, err
	}
	if err := cfg.ConfigureLogging(); err != nil {
		return nil, err
	}
	cfg.LogSummary()
	return newAppWithConfig(cfg), nil
}

func newAppWithConfig(cfg *config.Config) *app {
	var classifier screenplay.TokenClassifier = screenplay.DefaultLexicon()
	if cfg.PosTaggerURL != "" {
		client := postag.NewClient(cfg.PosTaggerURL, cfg.PosTaggerTimeout)
		classifier = postag.NewClassifier(client, classifier, cfg.PosTaggerTimeout)
	}

	source := document.NewSource(cfg.FetchTimeout,
		document.WithMaxBytes(cfg.MaxDocumentBytes),
		document.WithProgress(func(done, total int) {
			log.Debugf("Extracting text from page %d/%d...", done, total)
		}),
	)

	return &app{
		cfg:      cfg,
		source:   source,
		analyzer: analysis.NewAnalyzer(source, screenplay.NewNormalizer(classifier), cfg.TopSpeakers),
	}
}

// locator returns the first argument or the configured default document.
func (a *app) locator(args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}
	if a.cfg.DocumentSource != "" {
		return a.cfg.DocumentSource, nil
	}
	return "", errors.New("no document given: pass a URL or path, or set DOCUMENT_SOURCE")
}

func (a *app) analyze(ctx context.Context, locator string) (*analysis.Session, error) {
	log.Infof("Analyzing %s", locator)
	return a.analyzer.Analyze(ctx, locator)
}

func (a *app) loadCatalog() (*catalog.Catalog, error) {
	return catalog.Load(a.cfg.CatalogPath)
}

func (a *app) loadPresets() (*inclusion.Presets, error) {
	return inclusion.LoadPresets(a.cfg.GroupsPath)
}

// groupSelection is the group choice made on the command line or in a form.
type groupSelection struct {
	A, B           []string
	LabelA, LabelB string
	Preset         string
}

// resolve turns the selection into groups. A preset supplies names and
// labels; explicit labels override the preset's.
func (sel groupSelection) resolve(loadPresets func() (*inclusion.Presets, error)) (inclusion.Groups, error) {
	var groups inclusion.Groups
	if sel.Preset != "" {
		presets, err := loadPresets()
		if err != nil {
			return groups, err
		}
		if groups, err = presets.Get(sel.Preset); err != nil {
			return groups, err
		}
	}
	groups.A.Names = append(groups.A.Names, splitNames(sel.A)...)
	groups.B.Names = append(groups.B.Names, splitNames(sel.B)...)
	if sel.LabelA != "" {
		groups.A.Label = sel.LabelA
	}
	if sel.LabelB != "" {
		groups.B.Label = sel.LabelB
	}

	if len(groups.A.Names) == 0 || len(groups.B.Names) == 0 {
		return groups, fmt.Errorf("%w: select names for both groups (a: %d, b: %d)",
			errInvalidRequest, len(groups.A.Names), len(groups.B.Names))
	}
	return groups.WithDefaultLabels(), nil
}

// splitNames accepts repeated values as well as comma-separated lists.
func splitNames(values []string) []string {
	var names []string
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}
