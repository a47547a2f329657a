// Package input reads URL lists from external sources before a run.
//
// Two sources are supported:
//
//	urls, err := input.FromTextFile("urls.txt")       // one URL per line
//	urls, err := input.FromCSVFile("data.csv", "image_url")
//
// The result can be capped (with an optional shuffle so the kept subset
// is random) before handing it to the dispatcher:
//
//	urls = input.Limit(urls, 1000, true)
package input
