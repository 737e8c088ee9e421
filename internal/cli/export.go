package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/layercombos/pkg/config"
	"github.com/matzehuels/layercombos/pkg/errors"
	"github.com/matzehuels/layercombos/pkg/export"
	"github.com/matzehuels/layercombos/pkg/svgdoc"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		flags configFlags
		pick  bool
	)

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Render every layer combination of a drawing",
		Long: `Render one image per combination of the layers selected by the
export-layer-combo directives in an Inkscape SVG.

Settings come from ./layercombos.toml (or --config) and are overridden by any
flag given on the command line.`,
		Example: `  layercombos export cards.svg --path out --filetype png --dpi 300
  layercombos export cards.svg --dry --lower --ascii
  layercombos export cards.svg --pick`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runExport(ctx, args[0], cfg, pick)
		},
	}

	cmd.ValidArgsFunction = completeSVG
	flags.register(cmd)
	cmd.Flags().BoolVar(&pick, "pick", false, "choose the groups to export interactively")

	return cmd
}

// runExport loads file and exports its combinations according to cfg.
func (c *CLI) runExport(ctx context.Context, file string, cfg config.Config, pick bool) error {
	logger := loggerFromContext(ctx)

	doc, err := svgdoc.Load(file)
	if err != nil {
		return err
	}
	outDir, err := cfg.OutputDir()
	if err != nil {
		return err
	}
	opts := export.FromConfig(cfg, outDir)

	if pick {
		groups, err := pickGroups(doc, opts)
		if err != nil {
			return err
		}
		if len(groups) == 0 {
			printInfo("No groups selected")
			return nil
		}
		opts.Groups = groups
	}

	runner, closeRunner, err := c.newRunner(ctx, cfg, doc)
	if err != nil {
		return err
	}
	defer closeRunner()

	prog := newProgress(logger)
	report, err := runner.Run(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Processed %d combinations", report.Combinations()))

	printReport(report, opts)
	if report.Failed() {
		return errors.New(errors.ErrCodeExternalTool, "%d of %d combinations failed", len(report.Failures), report.Combinations())
	}
	return nil
}

// pickGroups shows the interactive group picker and returns the chosen groups.
func pickGroups(doc *svgdoc.Document, opts export.Options) ([]string, error) {
	h, err := doc.Hierarchy()
	if err != nil {
		return nil, err
	}
	plan, err := export.BuildPlan(h, opts)
	if err != nil {
		return nil, err
	}
	if len(plan.Groups) == 0 {
		return nil, nil
	}

	final, err := tea.NewProgram(NewGroupPickerModel(plan)).Run()
	if err != nil {
		return nil, fmt.Errorf("group picker: %w", err)
	}
	m, ok := final.(GroupPickerModel)
	if !ok {
		return nil, nil
	}
	return m.Selected(), nil
}

// printReport prints the outcome of an export run.
func printReport(r *export.Report, opts export.Options) {
	printNewline()
	switch {
	case r.Combinations() == 0:
		printWarning("No combinations found")
		return
	case opts.Dry:
		printSuccess("Dry run of %d groups", len(r.Groups))
		for _, g := range r.Groups {
			printDetail("%s: %d", g.Name, len(g.Labels))
		}
	case r.Failed():
		printWarning("Exported %d of %d combinations", len(r.Exported), r.Combinations())
	default:
		printSuccess("Exported %d combinations", len(r.Exported))
	}

	printStats(r.Combinations(), len(r.Exported), r.CacheHits, opts.Dry)
	for _, path := range r.Exported {
		printFile(path)
	}

	for _, f := range r.Failures {
		printError("%s %s", StyleHighlight.Render(f.Group), f.Label)
		printDetail("%s", errors.UserMessage(f.Err))
	}
}
