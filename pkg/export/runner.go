package export

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/layercombos/pkg/cache"
	"github.com/matzehuels/layercombos/pkg/config"
	"github.com/matzehuels/layercombos/pkg/errors"
	"github.com/matzehuels/layercombos/pkg/observability"
	"github.com/matzehuels/layercombos/pkg/render"
	"github.com/matzehuels/layercombos/pkg/svgdoc"
)

const cacheKeyType = "render"

// Runner exports the combinations of one document. A Runner holds no
// per-run state; it processes combinations strictly one after another.
type Runner struct {
	Document  *svgdoc.Document
	Renderer  render.Renderer
	Converter render.Converter
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger
	TempDir   string // Directory for intermediate files, default os.TempDir()
}

// NewRunner creates a runner without caching.
func NewRunner(doc *svgdoc.Document, r render.Renderer, c render.Converter, logger *log.Logger) *Runner {
	return &Runner{
		Document:  doc,
		Renderer:  r,
		Converter: c,
		Logger:    logger,
	}
}

// Run exports every planned combination.
func (r *Runner) Run(ctx context.Context, opts Options) (*Report, error) {
	start := time.Now()
	report := &Report{RunID: uuid.NewString()}
	logit := r.logFunc(opts)

	h, err := r.Document.Hierarchy()
	if err != nil {
		return nil, err
	}
	plan, err := BuildPlan(h, opts)
	if err != nil {
		return nil, err
	}

	logit("starting export", "run", report.RunID, "groups", len(plan.Groups), "dir", opts.Path, "dry", opts.Dry)

	dirReady := false
	stop := false
	for _, g := range plan.Groups {
		observability.Export().OnGroupStart(ctx, g.Name, len(g.Items))
		logit("computed combinations", "group", g.Name, "count", len(g.Items))
		gr := GroupReport{Name: g.Name}

		for _, item := range g.Items {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			gr.Labels = append(gr.Labels, item.Label)
			logit("  "+item.Label, "group", item.Group)

			if opts.Dry {
				logit("skipping because of dry run", "label", item.Label)
			} else {
				if !dirReady {
					if err := r.ensureDir(opts.Path, logit); err != nil {
						return report, err
					}
					dirReady = true
				}

				comboStart := time.Now()
				dest, hit, err := r.exportItem(ctx, item, opts)
				observability.Export().OnComboComplete(ctx, item.Group, item.Label, time.Since(comboStart), err)
				switch {
				case err == nil:
					report.Exported = append(report.Exported, dest)
					if hit {
						report.CacheHits++
					}
				case ctx.Err() != nil:
					return report, ctx.Err()
				case errors.IsToolError(err), errors.Is(err, errors.ErrCodeInvalidPath):
					r.logger().Error("combination failed", "group", item.Group, "label", item.Label, "err", err)
					report.Failures = append(report.Failures, Failure{Group: item.Group, Label: item.Label, Err: err})
				default:
					return report, err
				}
			}

			if opts.One {
				stop = true
				break
			}
		}

		report.Groups = append(report.Groups, gr)
		if stop {
			break
		}
	}

	report.Duration = time.Since(start)
	observability.Export().OnRunComplete(ctx, report.summary())
	return report, nil
}

// exportItem renders one combination to its final path and reports whether
// the bytes came from the cache.
func (r *Runner) exportItem(ctx context.Context, item Item, opts Options) (string, bool, error) {
	if err := errors.ValidateFilename(item.Filename); err != nil {
		return "", false, err
	}
	dest := filepath.Join(opts.Path, item.Filename)

	annotated := r.Document.Annotate(item.Show, item.Hide)
	key, cached := r.cacheKey(annotated, opts)
	if cached {
		if data, ok := r.cacheGet(ctx, key); ok {
			r.logFunc(opts)("writing cached image", "path", dest)
			if err := os.WriteFile(dest, data, 0o644); err != nil {
				return "", false, errors.Wrap(errors.ErrCodeFilesystem, err, "write %s", dest)
			}
			return dest, true, nil
		}
	}

	if err := r.renderTo(ctx, annotated, dest, opts); err != nil {
		return "", false, err
	}

	if cached {
		r.cacheSet(ctx, key, dest)
	}
	return dest, false, nil
}

// renderTo writes annotated to a temporary SVG, renders it, and converts
// the raster when the target format requires it. Intermediate files are
// removed before returning.
func (r *Runner) renderTo(ctx context.Context, annotated *svgdoc.Document, dest string, opts Options) error {
	logit := r.logFunc(opts)

	svgPath, cleanupSVG := r.tempPath(".svg")
	defer cleanupSVG()
	logit("writing svg to temporary location", "path", svgPath)
	if err := annotated.WriteFile(svgPath); err != nil {
		return err
	}

	if !opts.needsConversion() {
		logit("writing png to final location", "path", dest)
		return r.Renderer.Render(ctx, svgPath, dest, opts.DPI)
	}

	pngPath, cleanupPNG := r.tempPath(".png")
	defer cleanupPNG()
	logit("writing png to temporary location", "path", pngPath)
	if err := r.Renderer.Render(ctx, svgPath, pngPath, opts.DPI); err != nil {
		return err
	}
	logit("writing jpeg to final location", "path", dest)
	return r.Converter.Convert(ctx, pngPath, dest)
}

// Preview renders a single planned combination to PNG and returns the bytes.
// The filetype in opts is ignored. Nothing is written outside the temporary
// directory.
func (r *Runner) Preview(ctx context.Context, item Item, opts Options) ([]byte, error) {
	annotated := r.Document.Annotate(item.Show, item.Hide)
	opts.Filetype = config.FiletypePNG

	key, cached := r.cacheKey(annotated, opts)
	if cached {
		if data, ok := r.cacheGet(ctx, key); ok {
			return data, nil
		}
	}

	pngPath, cleanup := r.tempPath(".png")
	defer cleanup()
	if err := r.renderTo(ctx, annotated, pngPath, opts); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(pngPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFilesystem, err, "read %s", pngPath)
	}
	if cached {
		r.cacheSet(ctx, key, pngPath)
	}
	return data, nil
}

func (r *Runner) ensureDir(dir string, logit func(msg any, kv ...any)) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	logit("creating output directory", "path", dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "create output directory %s", dir)
	}
	return nil
}

// tempPath returns a fresh path in the temp directory and a function that
// removes it.
func (r *Runner) tempPath(suffix string) (string, func()) {
	dir := r.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "layercombos-"+uuid.NewString()+suffix)
	return path, func() { _ = os.Remove(path) }
}

// cacheKey derives the cache key of an annotated document. It reports false
// when caching is disabled.
func (r *Runner) cacheKey(doc *svgdoc.Document, opts Options) (string, bool) {
	if !cache.Enabled(r.Cache) {
		return "", false
	}
	hash, err := doc.Hash()
	if err != nil {
		return "", false
	}
	keyer := r.Keyer
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	ko := cache.RenderKeyOpts{DPI: opts.DPI, Filetype: opts.Filetype, Renderer: opts.Renderer, RendererBin: opts.Inkscape}
	if opts.needsConversion() {
		ko.Converter = opts.Converter
		ko.Quality = opts.Quality
		ko.ConverterBin = opts.Magick
	}
	return keyer.RenderKey(hash, ko), true
}

func (r *Runner) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.logger().Warn("cache lookup failed", "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return data, true
}

func (r *Runner) cacheSet(ctx context.Context, key, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLRender); err != nil {
		r.logger().Warn("cache store failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

// logFunc returns the per-combination log function: Info normally, Warn when
// opts.Debug is set so the messages show at the default level.
func (r *Runner) logFunc(opts Options) func(msg any, kv ...any) {
	if opts.Debug {
		return r.logger().Warn
	}
	return r.logger().Info
}

var discard = log.New(io.Discard)

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return discard
	}
	return r.Logger
}
