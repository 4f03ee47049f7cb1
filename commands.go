package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"scriptscore/pkg/analysis"
	"scriptscore/pkg/report"
	"scriptscore/pkg/workers"
)

func newRootCommand() *cobra.Command {
	var a *app

	rootCmd := &cobra.Command{
		Use:           "scriptscore",
		Short:         "Dialogue statistics and inclusion scores for screenplays",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp(cmd.Flags())
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("source", "", "Default document URL or path (DOCUMENT_SOURCE)")
	flags.String("catalog", "", "Catalog CSV with TITLE and PDF_URL columns (CATALOG_PATH)")
	flags.String("groups", "", "YAML file with group presets (GROUPS_PATH)")
	flags.String("pos-tagger", "", "Part-of-speech tagger service URL (POS_TAGGER_URL)")
	flags.Int("top", 0, "Number of ranked speakers to keep (TOP_SPEAKERS)")
	flags.Int("max-concurrent", 0, "Documents analyzed in parallel (MAX_CONCURRENT)")
	flags.String("fetch-timeout", "", "Document download timeout (FETCH_TIMEOUT)")
	flags.String("log-level", "", "Log level (LOG_LEVEL)")

	appRef := func() *app { return a }
	rootCmd.AddCommand(newAnalyzeCommand(appRef))
	rootCmd.AddCommand(newScoreCommand(appRef))
	rootCmd.AddCommand(newCompareCommand(appRef))
	rootCmd.AddCommand(newCatalogCommand(appRef))
	rootCmd.AddCommand(newBatchCommand(appRef))
	rootCmd.AddCommand(newPresetsCommand(appRef))
	rootCmd.AddCommand(newServeCommand(appRef))

	return rootCmd
}

type outputOptions struct {
	format  string
	pdfPath string
}

func (o *outputOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", "table", "Output format: table, json or markdown")
	cmd.Flags().StringVar(&o.pdfPath, "pdf", "", "Also write a PDF report with radar chart to this path")
}

func registerGroupFlags(cmd *cobra.Command, sel *groupSelection) {
	cmd.Flags().StringSliceVarP(&sel.A, "group-a", "a", nil, "Names in group A (repeatable or comma-separated)")
	cmd.Flags().StringSliceVarP(&sel.B, "group-b", "b", nil, "Names in group B (repeatable or comma-separated)")
	cmd.Flags().StringVar(&sel.LabelA, "label-a", "", "Display label for group A")
	cmd.Flags().StringVar(&sel.LabelB, "label-b", "", "Display label for group B")
	cmd.Flags().StringVarP(&sel.Preset, "preset", "p", "", "Group preset name from the groups file")
}

func newAnalyzeCommand(appRef func() *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "analyze [url-or-path]",
		Short: "List the speakers with the most dialogue",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appRef()
			locator, err := a.locator(args)
			if err != nil {
				return err
			}
			session, err := a.analyze(cmd.Context(), locator)
			if err != nil {
				return err
			}
			return printSession(cmd.OutOrStdout(), session, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")
	return cmd
}

func newScoreCommand(appRef func() *app) *cobra.Command {
	var (
		sel groupSelection
		out outputOptions
	)
	cmd := &cobra.Command{
		Use:   "score [url-or-path]",
		Short: "Compute inclusion metrics for two groups of speakers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appRef()
			groups, err := sel.resolve(a.loadPresets)
			if err != nil {
				return err
			}
			locator, err := a.locator(args)
			if err != nil {
				return err
			}
			session, err := a.analyze(cmd.Context(), locator)
			if err != nil {
				return err
			}
			scored := a.analyzer.Score(session, groups)
			return emitScores(cmd, out, "Inclusion Report", scored)
		},
	}
	registerGroupFlags(cmd, &sel)
	out.register(cmd)
	return cmd
}

func newCompareCommand(appRef func() *app) *cobra.Command {
	var (
		sel groupSelection
		out outputOptions
	)
	cmd := &cobra.Command{
		Use:   "compare <first> <second>",
		Short: "Score two scripts with the same groups",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appRef()
			groups, err := sel.resolve(a.loadPresets)
			if err != nil {
				return err
			}
			first, second, err := a.analyzer.Compare(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return emitScores(cmd, out, "Comparison Report",
				a.analyzer.Score(first, groups), a.analyzer.Score(second, groups))
		},
	}
	registerGroupFlags(cmd, &sel)
	out.register(cmd)
	return cmd
}

func newCatalogCommand(appRef func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Work with the script catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List catalog titles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := appRef().loadCatalog()
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(c.Entries))
			for i, e := range c.Entries {
				rows = append(rows, []string{strconv.Itoa(i + 1), e.Title, e.Locator})
			}
			return writeTable(cmd.OutOrStdout(), []string{"#", "Title", "PDF URL"}, rows, []columnAlignment{alignRight})
		},
	})

	var (
		sel groupSelection
		out outputOptions
	)
	analyzeCmd := &cobra.Command{
		Use:   "analyze <title>",
		Short: "Analyze a catalog title; scores it when groups are given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appRef()
			c, err := a.loadCatalog()
			if err != nil {
				return err
			}
			entry, err := c.Lookup(args[0])
			if err != nil {
				return err
			}
			session, err := a.analyze(cmd.Context(), entry.Locator)
			if err != nil {
				return err
			}
			session.Title = entry.Title

			if len(sel.A) == 0 && len(sel.B) == 0 && sel.Preset == "" {
				return printSession(cmd.OutOrStdout(), session, out.format)
			}
			groups, err := sel.resolve(a.loadPresets)
			if err != nil {
				return err
			}
			return emitScores(cmd, out, entry.Title, a.analyzer.Score(session, groups))
		},
	}
	registerGroupFlags(analyzeCmd, &sel)
	out.register(analyzeCmd)
	cmd.AddCommand(analyzeCmd)

	return cmd
}

func newBatchCommand(appRef func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "batch",
		Short: "Analyze every catalog title and summarize the speakers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appRef()
			c, err := a.loadCatalog()
			if err != nil {
				return err
			}
			outcomes := workers.AnalyzeAll(cmd.Context(), a.analyzer, c.Locators(), a.cfg.MaxConcurrent)

			rows := make([][]string, 0, len(outcomes))
			failed := 0
			for i, o := range outcomes {
				title := c.Entries[i].Title
				if o.Err != nil {
					failed++
					rows = append(rows, []string{title, "-", "-", o.Err.Error()})
					continue
				}
				top := "-"
				if len(o.Session.Ranked) > 0 {
					lead := o.Session.Ranked[0]
					top = fmt.Sprintf("%s (%d)", lead.Name, lead.Count)
				}
				rows = append(rows, []string{title, strconv.Itoa(o.Session.Tally.Len()), top, ""})
			}
			if err := writeTable(cmd.OutOrStdout(), []string{"Title", "Speakers", "Top speaker", "Error"}, rows,
				[]columnAlignment{alignLeft, alignRight}); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(outcomes))
			}
			return nil
		},
	}
}

func newPresetsCommand(appRef func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the group presets in the groups file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := appRef().loadPresets()
			if err != nil {
				return err
			}
			var rows [][]string
			for _, name := range presets.Names() {
				g, err := presets.Get(name)
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					name,
					fmt.Sprintf("%s (%d)", g.A.Label, len(g.A.Names)),
					fmt.Sprintf("%s (%d)", g.B.Label, len(g.B.Names)),
				})
			}
			return writeTable(cmd.OutOrStdout(), []string{"Preset", "Group A", "Group B"}, rows, nil)
		},
	}
}

func emitScores(cmd *cobra.Command, out outputOptions, title string, results ...analysis.Scored) error {
	if err := printScores(cmd.OutOrStdout(), title, results, out.format); err != nil {
		return err
	}
	if out.pdfPath == "" {
		return nil
	}

	f, err := os.Create(out.pdfPath)
	if err != nil {
		return fmt.Errorf("create pdf: %w", err)
	}
	if err := report.WritePDF(f, title, results...); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close pdf: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "PDF report written to %s\n", out.pdfPath)
	return nil
}
