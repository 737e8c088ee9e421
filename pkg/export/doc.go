// Package export drives the rendering of every layer combination of a
// document.
//
// # Overview
//
// A run walks groups in first-seen order and, within a group, combinations
// in expansion order. For each combination it builds the label, then
// (unless the run is dry) writes a visibility-annotated copy of the
// document to a temporary file, renders it, and converts the result when
// the target format needs it:
//
//	runner := export.NewRunner(doc, renderer, converter, logger)
//	report, err := runner.Run(ctx, export.Options{
//	    Path:     "/tmp/cards",
//	    Filetype: "jpeg",
//	    DPI:      90,
//	})
//	if err != nil {
//	    return err // invalid document, unknown group, output dir, cancellation
//	}
//	for _, f := range report.Failures {
//	    fmt.Println(f.Label, f.Err)
//	}
//
// # Failures
//
// A renderer or converter failure affects only its combination: it is
// logged, recorded in [Report.Failures], and the run moves on. Problems that
// would fail every combination (an invalid document, an output directory
// that cannot be created, a cancelled context) abort the run.
//
// # Planning
//
// [BuildPlan] computes labels and visibility sets without rendering. The
// list command and the preview server use it directly.
package export
