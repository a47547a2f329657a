package report

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/srihari-humbarwadi/imgfetch/internal/download"
)

// DefaultFailedPath is where the failed-URL report is written when the
// caller does not choose a path.
const DefaultFailedPath = "failed_urls.txt"

// Summarize partitions a run's outcomes into a success count and the list
// of URLs that permanently failed or timed out. The failed list is sorted
// so reports are deterministic.
func Summarize(results download.RunResult) (succeeded int, failed []string) {
	for url, outcome := range results {
		if outcome.Success() {
			succeeded++
		} else {
			failed = append(failed, url)
		}
	}
	sort.Strings(failed)
	return succeeded, failed
}

// WriteFailed writes the failed URLs to path, one per line, overwriting
// any previous report.
func WriteFailed(path string, urls []string) error {
	var b strings.Builder
	for _, url := range urls {
		b.WriteString(url)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write failed-url report: %w", err)
	}
	return nil
}

// FormatDuration formats a duration as a human-readable string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
