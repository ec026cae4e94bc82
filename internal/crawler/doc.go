// Package crawler implements a polite breadth-first site crawler.
// It fetches pages from a single host, extracts the signals the
// analyzers need, and returns an insertion-ordered crawl result.
package crawler
