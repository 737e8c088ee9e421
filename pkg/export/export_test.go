package export

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/layercombos/pkg/cache"
	"github.com/matzehuels/layercombos/pkg/errors"
	"github.com/matzehuels/layercombos/pkg/svgdoc"
)

const deckSVG = `<svg xmlns="http://www.w3.org/2000/svg"
     xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape"
     width="100" height="50" viewBox="0 0 100 50">
  <g inkscape:groupmode="layer" id="cards" inkscape:label="Cards" export-layer-combo="front,combo-children">
    <g inkscape:groupmode="layer" id="ace" inkscape:label="Ace of Spades"/>
    <g inkscape:groupmode="layer" id="king" inkscape:label="King"/>
  </g>
  <g inkscape:groupmode="layer" id="bg" inkscape:label="Background" export-layer-combo="front,visible;back,visible"/>
  <g inkscape:groupmode="layer" id="back" inkscape:label="Back" export-layer-combo="back,visible;front,hidden"/>
</svg>`

var (
	frontLabels = []string{"front-AceofSpades-Background", "front-King-Background"}
	backLabels  = []string{"back-Background-Back"}
)

type renderCall struct {
	svgPath, pngPath string
	dpi              float64
	doc              *svgdoc.Document
}

// fakeRenderer records calls and writes a small marker file. Renders whose
// output path contains failOn fail with a ToolError.
type fakeRenderer struct {
	calls  []renderCall
	failOn string
}

func (f *fakeRenderer) Render(ctx context.Context, svgPath, pngPath string, dpi float64) error {
	doc, err := svgdoc.Load(svgPath)
	if err != nil {
		return err
	}
	f.calls = append(f.calls, renderCall{svgPath: svgPath, pngPath: pngPath, dpi: dpi, doc: doc})
	if f.failOn != "" && strings.Contains(pngPath, f.failOn) {
		return &errors.ToolError{Tool: "fake", Stderr: "boom"}
	}
	return os.WriteFile(pngPath, []byte("png:"+filepath.Base(pngPath)), 0o644)
}

type convertCall struct{ src, dst string }

type fakeConverter struct {
	calls []convertCall
}

func (f *fakeConverter) Convert(ctx context.Context, src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	f.calls = append(f.calls, convertCall{src, dst})
	return os.WriteFile(dst, append([]byte("jpeg:"), data...), 0o644)
}

type fixture struct {
	runner    *Runner
	renderer  *fakeRenderer
	converter *fakeConverter
	out       string
	tmp       string
}

func newFixture(t *testing.T, svg string) *fixture {
	t.Helper()
	doc, err := svgdoc.Read(strings.NewReader(svg))
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{
		renderer:  &fakeRenderer{},
		converter: &fakeConverter{},
		out:       filepath.Join(t.TempDir(), "out", "cards"),
		tmp:       t.TempDir(),
	}
	f.runner = NewRunner(doc, f.renderer, f.converter, nil)
	f.runner.TempDir = f.tmp
	return f
}

func (f *fixture) opts(filetype string) Options {
	return Options{Path: f.out, Filetype: filetype, DPI: 90, Renderer: "fake", Converter: "fake"}
}

func (f *fixture) assertNoTempFiles(t *testing.T) {
	t.Helper()
	entries, _ := os.ReadDir(f.tmp)
	if len(entries) != 0 {
		t.Errorf("%d intermediate files left behind", len(entries))
	}
}

func reportLabels(r *Report) []string {
	var labels []string
	for _, g := range r.Groups {
		labels = append(labels, g.Labels...)
	}
	return labels
}

func TestRunPNG(t *testing.T) {
	f := newFixture(t, deckSVG)
	report, err := f.runner.Run(context.Background(), f.opts("png"))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := append(slices.Clone(frontLabels), backLabels...)
	if got := reportLabels(report); !slices.Equal(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}
	if len(f.renderer.calls) != 3 || len(f.converter.calls) != 0 {
		t.Errorf("calls: render %d, convert %d; want 3, 0", len(f.renderer.calls), len(f.converter.calls))
	}
	for i, l := range want {
		path := filepath.Join(f.out, l+".png")
		if report.Exported[i] != path {
			t.Errorf("Exported[%d] = %s, want %s", i, report.Exported[i], path)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing output %s", path)
		}
		if f.renderer.calls[i].pngPath != path || f.renderer.calls[i].dpi != 90 {
			t.Errorf("render call %d = %+v", i, f.renderer.calls[i])
		}
	}
	if report.RunID == "" || report.Failed() {
		t.Errorf("report = %+v", report)
	}
	f.assertNoTempFiles(t)
}

func TestRunJPEG(t *testing.T) {
	f := newFixture(t, deckSVG)
	report, err := f.runner.Run(context.Background(), f.opts("jpeg"))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(f.converter.calls) != 3 {
		t.Fatalf("converter calls = %d, want 3", len(f.converter.calls))
	}
	for i, c := range f.converter.calls {
		if filepath.Dir(c.src) != f.tmp || filepath.Ext(c.src) != ".png" {
			t.Errorf("convert %d src = %s, want a temp png", i, c.src)
		}
		if c.src != f.renderer.calls[i].pngPath {
			t.Errorf("convert %d src %s is not the rendered png %s", i, c.src, f.renderer.calls[i].pngPath)
		}
		if filepath.Ext(c.dst) != ".jpg" || filepath.Dir(c.dst) != f.out {
			t.Errorf("convert %d dst = %s", i, c.dst)
		}
	}
	if report.Exported[0] != filepath.Join(f.out, "front-AceofSpades-Background.jpg") {
		t.Errorf("Exported[0] = %s", report.Exported[0])
	}
	f.assertNoTempFiles(t)
}

func TestRunAnnotatesDocument(t *testing.T) {
	f := newFixture(t, deckSVG)
	if _, err := f.runner.Run(context.Background(), f.opts("png")); err != nil {
		t.Fatal(err)
	}

	style := func(call int, id string) string {
		n, ok := f.renderer.calls[call].doc.Layer(id)
		if !ok {
			t.Fatalf("layer %s missing from rendered document", id)
		}
		return n.Style()
	}

	// front-King-Background
	want := map[string]string{
		"king":  "display:inline",
		"cards": "display:inline",
		"bg":    "display:inline",
		"ace":   "display:none",
		"back":  "display:none",
	}
	for id, s := range want {
		if got := style(1, id); got != s {
			t.Errorf("front-King: %s style = %q, want %q", id, got, s)
		}
	}

	// back-Background-Back leaves the cards untouched.
	if got := style(2, "ace"); got != "" {
		t.Errorf("back: ace style = %q, want untouched", got)
	}
}

func TestRunDry(t *testing.T) {
	f := newFixture(t, deckSVG)
	opts := f.opts("jpeg")
	opts.Dry = true

	report, err := f.runner.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := report.Combinations(); got != 3 {
		t.Errorf("Combinations() = %d, want 3", got)
	}
	if len(f.renderer.calls)+len(f.converter.calls) != 0 {
		t.Error("dry run invoked the renderer or converter")
	}
	if len(report.Exported) != 0 {
		t.Errorf("Exported = %v, want none", report.Exported)
	}
	if _, err := os.Stat(f.out); !os.IsNotExist(err) {
		t.Error("dry run created the output directory")
	}
	f.assertNoTempFiles(t)
}

func TestRunOne(t *testing.T) {
	for _, dry := range []bool{false, true} {
		f := newFixture(t, deckSVG)
		opts := f.opts("png")
		opts.One = true
		opts.Dry = dry

		report, err := f.runner.Run(context.Background(), opts)
		if err != nil {
			t.Fatalf("Run(dry=%v) error: %v", dry, err)
		}
		if got := reportLabels(report); !slices.Equal(got, frontLabels[:1]) {
			t.Errorf("dry=%v: labels = %v, want only the first combination overall", dry, got)
		}
		if len(report.Groups) != 1 {
			t.Errorf("dry=%v: groups processed = %d, want 1", dry, len(report.Groups))
		}
		wantCalls := 1
		if dry {
			wantCalls = 0
		}
		if len(f.renderer.calls) != wantCalls {
			t.Errorf("dry=%v: render calls = %d, want %d", dry, len(f.renderer.calls), wantCalls)
		}
	}
}

func TestRunToolFailureContinues(t *testing.T) {
	f := newFixture(t, deckSVG)
	f.renderer.failOn = "King"

	report, err := f.runner.Run(context.Background(), f.opts("png"))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(report.Failures) != 1 || report.Failures[0].Label != "front-King-Background" {
		t.Fatalf("Failures = %+v", report.Failures)
	}
	if !errors.IsToolError(report.Failures[0].Err) {
		t.Errorf("failure error = %v, want ToolError", report.Failures[0].Err)
	}
	if len(report.Exported) != 2 {
		t.Errorf("Exported = %v, want the 2 other combinations", report.Exported)
	}
	f.assertNoTempFiles(t)
}

func TestRunJPEGRenderFailureSkipsConversion(t *testing.T) {
	f := newFixture(t, deckSVG)
	f.renderer.failOn = ".png" // every temp png render fails

	report, err := f.runner.Run(context.Background(), f.opts("jpeg"))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(report.Failures) != 3 || len(f.converter.calls) != 0 {
		t.Errorf("failures %d, convert calls %d; want 3, 0", len(report.Failures), len(f.converter.calls))
	}
	f.assertNoTempFiles(t)
}

func TestRunInvalidFilenameIsAFailure(t *testing.T) {
	svg := strings.Replace(deckSVG, "back,visible;front,hidden", "a/b,visible", 1)
	f := newFixture(t, svg)

	report, err := f.runner.Run(context.Background(), f.opts("png"))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(report.Failures) != 1 || !errors.Is(report.Failures[0].Err, errors.ErrCodeInvalidPath) {
		t.Errorf("Failures = %+v, want one INVALID_PATH", report.Failures)
	}
}

func TestRunInvalidDirectiveAborts(t *testing.T) {
	f := newFixture(t, strings.Replace(deckSVG, "front,combo-children", "front,children", 1))

	_, err := f.runner.Run(context.Background(), f.opts("png"))
	if !errors.Is(err, errors.ErrCodeInvalidDirective) {
		t.Errorf("Run() error = %v, want INVALID_DIRECTIVE", err)
	}
	if len(f.renderer.calls) != 0 {
		t.Error("renderer called despite invalid directive")
	}
}

func TestRunGroupsFilter(t *testing.T) {
	f := newFixture(t, deckSVG)
	opts := f.opts("png")
	opts.Groups = []string{"back"}

	report, err := f.runner.Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if got := reportLabels(report); !slices.Equal(got, backLabels) {
		t.Errorf("labels = %v, want %v", got, backLabels)
	}

	opts.Groups = []string{"sides"}
	if _, err := f.runner.Run(context.Background(), opts); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Run(unknown group) error = %v, want NOT_FOUND", err)
	}
}

func TestRunOutputDirError(t *testing.T) {
	f := newFixture(t, deckSVG)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	opts := f.opts("png")
	opts.Path = filepath.Join(blocker, "out")

	_, err := f.runner.Run(context.Background(), opts)
	if !errors.Is(err, errors.ErrCodeFilesystem) {
		t.Errorf("Run() error = %v, want FILESYSTEM", err)
	}
}

func TestRunCancelled(t *testing.T) {
	f := newFixture(t, deckSVG)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.runner.Run(ctx, f.opts("png")); err != context.Canceled {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if len(f.renderer.calls) != 0 {
		t.Error("renderer called after cancellation")
	}
}

func TestRunCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	f := newFixture(t, deckSVG)
	f.runner.Cache = c
	first, err := f.runner.Run(context.Background(), f.opts("jpeg"))
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHits != 0 {
		t.Errorf("first run CacheHits = %d, want 0", first.CacheHits)
	}

	g := newFixture(t, deckSVG)
	g.runner.Cache = c
	second, err := g.runner.Run(context.Background(), g.opts("jpeg"))
	if err != nil {
		t.Fatal(err)
	}
	if second.CacheHits != 3 || len(g.renderer.calls) != 0 {
		t.Errorf("second run: hits %d, render calls %d; want 3, 0", second.CacheHits, len(g.renderer.calls))
	}
	for i := range first.Exported {
		a, _ := os.ReadFile(first.Exported[i])
		b, _ := os.ReadFile(second.Exported[i])
		if string(a) != string(b) || len(a) == 0 {
			t.Errorf("cached output %s differs from rendered output", second.Exported[i])
		}
	}

	// A different dpi is a different key.
	h := newFixture(t, deckSVG)
	h.runner.Cache = c
	opts := h.opts("jpeg")
	opts.DPI = 300
	third, _ := h.runner.Run(context.Background(), opts)
	if third.CacheHits != 0 {
		t.Errorf("dpi change CacheHits = %d, want 0", third.CacheHits)
	}
}

func TestRunCacheKeyedOnExecutables(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	f := newFixture(t, deckSVG)
	f.runner.Cache = c
	opts := f.opts("jpeg")
	opts.Inkscape = "inkscape"
	opts.Magick = "magick"
	if _, err := f.runner.Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"inkscape", func(o *Options) { o.Inkscape = "/opt/inkscape-1.3/bin/inkscape" }},
		{"magick", func(o *Options) { o.Magick = "/usr/local/bin/magick" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newFixture(t, deckSVG)
			g.runner.Cache = c
			o := opts
			tt.modify(&o)
			r, err := g.runner.Run(context.Background(), o)
			if err != nil {
				t.Fatal(err)
			}
			if r.CacheHits != 0 || len(g.renderer.calls) != 3 {
				t.Errorf("hits %d, render calls %d; want 0, 3", r.CacheHits, len(g.renderer.calls))
			}
		})
	}
}

func TestPreview(t *testing.T) {
	f := newFixture(t, deckSVG)
	h, _ := f.runner.Document.Hierarchy()
	plan, err := BuildPlan(h, f.opts("jpeg"))
	if err != nil {
		t.Fatal(err)
	}

	data, err := f.runner.Preview(context.Background(), plan.Groups[0].Items[1], f.opts("jpeg"))
	if err != nil {
		t.Fatalf("Preview() error: %v", err)
	}
	if !strings.HasPrefix(string(data), "png:") {
		t.Errorf("Preview() = %q, want rendered png bytes", data)
	}
	if len(f.converter.calls) != 0 {
		t.Error("Preview should not convert")
	}
	if _, err := os.Stat(f.out); !os.IsNotExist(err) {
		t.Error("Preview wrote to the output directory")
	}
	f.assertNoTempFiles(t)
}
