// Package main provides the entry point for the siteaudit CLI.
//
// siteaudit crawls a website and scores it across four dimensions:
// SEO, performance, content quality, and security.
//
// Usage:
//
//	siteaudit scan <url>
//	siteaudit history [url]
//
// See --help for all available options.
package main

// main is the entry point for siteaudit.
func main() {
	Execute()
}
