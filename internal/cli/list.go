package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/layercombos/pkg/directive"
	"github.com/matzehuels/layercombos/pkg/export"
	"github.com/matzehuels/layercombos/pkg/layer"
	"github.com/matzehuels/layercombos/pkg/svgdoc"
)

// listCommand creates the list command, which prints the export plan
// without rendering anything.
func (c *CLI) listCommand() *cobra.Command {
	var flags configFlags

	cmd := &cobra.Command{
		Use:   "list [file]",
		Short: "List the combinations a drawing would export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			h, err := loadHierarchy(args[0])
			if err != nil {
				return err
			}
			plan, err := export.BuildPlan(h, export.FromConfig(cfg, cfg.Path))
			if err != nil {
				return err
			}
			printPlan(plan)
			return nil
		},
	}

	cmd.ValidArgsFunction = completeSVG
	flags.register(cmd)
	return cmd
}

// loadHierarchy loads file and builds its layer hierarchy. A malformed
// directive attribute also prints the expected syntax.
func loadHierarchy(file string) (*layer.Hierarchy, error) {
	doc, err := svgdoc.Load(file)
	if err != nil {
		return nil, err
	}
	h, err := doc.Hierarchy()
	if directive.IsFormatError(err) {
		printError("Malformed %s attribute", directive.Attr)
		printDetail("expected %s", directive.Format([]directive.Directive{
			{Group: "group", Selector: directive.SelectorComboChildren},
			{Group: "group", Selector: directive.SelectorVisible},
		}))
	}
	return h, err
}

// printPlan prints one table per group.
func printPlan(plan *export.Plan) {
	if len(plan.Groups) == 0 {
		printWarning("No export-layer-combo directives found")
		return
	}

	for _, g := range plan.Groups {
		fmt.Println(StyleTitle.Render(g.Name) + " " + StyleDim.Render(fmt.Sprintf("%s = %d", formatAxes(g.Axes), len(g.Items))))
		if len(g.Items) == 0 {
			printDetail("no combinations")
			printNewline()
			continue
		}
		fmt.Println(planTable(g).Render())
		printNewline()
	}
	printSuccess("%d combinations in %d groups", plan.Len(), len(plan.Groups))
}

func planTable(g export.GroupPlan) *table.Table {
	rows := make([][]string, len(g.Items))
	for i, item := range g.Items {
		rows[i] = []string{strconv.Itoa(item.Index), item.Filename, strconv.Itoa(len(item.Show)), strconv.Itoa(len(item.Hide))}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "File", "Shown", "Hidden").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 1:
				return StyleValue
			default:
				return StyleDim
			}
		})
}
