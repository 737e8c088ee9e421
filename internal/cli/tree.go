package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/layercombos/pkg/directive"
	"github.com/matzehuels/layercombos/pkg/errors"
	"github.com/matzehuels/layercombos/pkg/layer"
	"github.com/matzehuels/layercombos/pkg/render/nodelink"
)

const (
	treeFormatText = "text"
	treeFormatDOT  = "dot"
	treeFormatSVG  = "svg"
)

// treeOpts holds the command-line flags for the tree command.
type treeOpts struct {
	format   string // text, dot or svg
	output   string // output file, stdout when empty
	detailed bool   // include ids and directives in diagram labels
}

// treeCommand creates the tree command, which shows the layer hierarchy.
func (c *CLI) treeCommand() *cobra.Command {
	opts := treeOpts{format: treeFormatText}

	cmd := &cobra.Command{
		Use:   "tree [file]",
		Short: "Show the layer hierarchy and its directives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateOneOf(errors.ErrCodeInvalidInput, "format", opts.format,
				treeFormatText, treeFormatDOT, treeFormatSVG); err != nil {
				return err
			}
			h, err := loadHierarchy(args[0])
			if err != nil {
				return err
			}

			out := io.Writer(os.Stdout)
			if opts.output != "" {
				f, err := os.Create(opts.output)
				if err != nil {
					return errors.Wrap(errors.ErrCodeFilesystem, err, "create %s", opts.output)
				}
				defer f.Close()
				out = f
			}

			switch opts.format {
			case treeFormatDOT:
				_, err = io.WriteString(out, nodelink.ToDOT(h, nodelink.Options{Detailed: opts.detailed}))
			case treeFormatSVG:
				var svg []byte
				svg, err = nodelink.RenderSVG(cmd.Context(), nodelink.ToDOT(h, nodelink.Options{Detailed: opts.detailed}))
				if err == nil {
					_, err = out.Write(svg)
				}
			default:
				err = writeTree(out, h)
			}
			if err != nil {
				return err
			}
			if opts.output != "" {
				printSuccess("Wrote %s", opts.output)
			}
			return nil
		},
	}

	cmd.ValidArgsFunction = completeSVG
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text, dot, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show layer ids and directives (dot, svg)")

	return cmd
}

// writeTree writes an indented outline of h, one layer per line in document
// order, with the directives of each layer after its label.
func writeTree(w io.Writer, h *layer.Hierarchy) error {
	for _, l := range h.Layers() {
		line := strings.Repeat("  ", h.Depth(l)) + l.Label
		if l.HasDirectives() {
			line += "  " + StyleHighlight.Render(directive.Format(l.Directives))
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
