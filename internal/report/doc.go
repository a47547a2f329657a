// Package report turns a run's per-URL outcomes into its final artifacts.
//
// # Summarizing
//
//	succeeded, failed := report.Summarize(results)
//
// A URL counts as failed when its outcome is a permanent failure or a
// timeout; succeeded includes skips of already-downloaded files.
//
// # Failed-URL report
//
// When any URLs failed, the caller persists them one per line:
//
//	if len(failed) > 0 {
//	    err := report.WriteFailed(report.DefaultFailedPath, failed)
//	}
//
// The file is overwritten on every run.
package report
