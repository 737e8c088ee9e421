package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/layercombos/internal/server"
	"github.com/matzehuels/layercombos/pkg/export"
	"github.com/matzehuels/layercombos/pkg/svgdoc"
)

const defaultAddr = "127.0.0.1:8080"

// serveCommand creates the serve command, which previews combinations over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags configFlags
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Preview combinations through an HTTP API",
		Long: `Serve the combinations of a drawing over HTTP. Images are rendered on
request with the configured renderer and stored in the render cache.

  GET /groups
  GET /groups/{group}/combos
  GET /groups/{group}/combos/{index}.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			doc, err := svgdoc.Load(args[0])
			if err != nil {
				return err
			}
			runner, closeRunner, err := c.newRunner(ctx, cfg, doc)
			if err != nil {
				return err
			}
			defer closeRunner()

			srv, err := server.New(runner, export.FromConfig(cfg, cfg.Path), c.Logger)
			if err != nil {
				return err
			}

			printSuccess("Serving %d combinations of %s", srv.Plan().Len(), args[0])
			printKeyValue("Address", StyleLink.Render("http://"+addr+"/groups"))
			printKeyValue("Renderer", cfg.Renderer)
			printKeyValue("Cache", cfg.Cache)

			err = srv.ListenAndServe(ctx, addr)
			if errors.Is(err, context.Canceled) {
				c.Logger.Info("server stopped")
				return nil
			}
			return err
		},
	}

	cmd.ValidArgsFunction = completeSVG
	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")

	return cmd
}
