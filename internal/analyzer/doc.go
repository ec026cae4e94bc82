// Package analyzer turns a finished crawl result into scored findings
// across the four audit dimensions. Each analyzer is a set of rule
// checks over the crawl result; the registry runs them concurrently
// and assembles per-category reports.
package analyzer
