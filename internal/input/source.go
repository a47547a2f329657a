package input

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

// FromTextFile reads one URL per line from path. Leading and trailing
// whitespace is trimmed and blank lines are skipped.
func FromTextFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url list: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url list: %w", err)
	}
	return urls, nil
}

// FromCSVFile reads URLs from the named header column of a CSV file.
func FromCSVFile(path, column string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv %s is empty", path)
	}

	col := -1
	for i, name := range records[0] {
		if strings.TrimSpace(name) == column {
			col = i
			break
		}
	}
	if col == -1 {
		return nil, fmt.Errorf("csv %s has no column %q", path, column)
	}

	var urls []string
	for _, record := range records[1:] {
		if col >= len(record) {
			continue
		}
		if url := strings.TrimSpace(record[col]); url != "" {
			urls = append(urls, url)
		}
	}
	return urls, nil
}

// Limit caps the URL list to max entries, optionally shuffling first so
// the kept subset is random. A max of zero or below leaves the list
// unchanged. The input slice is not modified.
func Limit(urls []string, max int, shuffle bool) []string {
	if max <= 0 {
		return urls
	}

	out := make([]string, len(urls))
	copy(out, urls)
	if shuffle {
		rand.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
	}
	if max < len(out) {
		out = out[:max]
	}
	return out
}
