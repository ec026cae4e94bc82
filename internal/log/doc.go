// Package log provides logging with automatic masking of credentials,
// built on top of the standard slog package.
//
// siteaudit handles two kinds of secrets that must never reach log
// output: DataForSEO API credentials and cookies or auth headers seen
// in crawled responses. The SecureHandler masks both:
//   - Attributes with credential-like keys (password, token, api_key)
//   - HTTP header attributes (Authorization, Cookie, Set-Cookie)
//   - String values that look like tokens (JWT, Bearer, Basic auth)
//
// Even in verbose mode, these values are replaced with a mask so logs
// can be shared in bug reports without leaking credentials.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Info("enrichment request",
//	    "login", "user@example.com", // masked
//	    "url", "https://api.dataforseo.com/v3",
//	)
package log
