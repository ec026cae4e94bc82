package crawler

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"

	"siteaudit/internal/model"
)

// Extract parses the page's raw HTML and fills in the extracted fields.
// The page URL is used as the base for resolving relative links. Pages
// without HTML bodies are left untouched.
func Extract(page *model.PageRecord, base string) error {
	if page.RawHTML == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.RawHTML))
	if err != nil {
		return err
	}

	page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		page.MetaDescription = strings.TrimSpace(desc)
	}

	doc.Find("h1").Each(func(_ int, s *goquery.Selection) {
		page.H1Tags = append(page.H1Tags, strings.TrimSpace(s.Text()))
	})
	doc.Find("h2").Each(func(_ int, s *goquery.Selection) {
		page.H2Tags = append(page.H2Tags, strings.TrimSpace(s.Text()))
	})
	doc.Find("h3").Each(func(_ int, s *goquery.Selection) {
		page.H3Tags = append(page.H3Tags, strings.TrimSpace(s.Text()))
	})

	extractImages(doc, page)
	extractLinks(doc, page, base)

	if canonical, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		page.CanonicalURL = strings.TrimSpace(canonical)
	}

	doc.Find(`meta[property^="og:"]`).Each(func(_ int, s *goquery.Selection) {
		prop := s.AttrOr("property", "")
		content := s.AttrOr("content", "")
		if prop != "" {
			page.OGTags[prop] = content
		}
	})

	extractJSONLD(doc, page)

	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		page.Scripts = append(page.Scripts, s.AttrOr("src", ""))
	})
	doc.Find(`link[rel="stylesheet"]`).Each(func(_ int, s *goquery.Selection) {
		if href := s.AttrOr("href", ""); href != "" {
			page.Stylesheets = append(page.Stylesheets, href)
		}
	})

	// Word count comes last: Remove mutates the document, so every other
	// field must already be extracted.
	doc.Find("script, style, nav, header, footer").Remove()
	page.WordCount = countWords(doc.Text())

	return nil
}

func extractImages(doc *goquery.Document, page *model.PageRecord) {
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		// Source-less img elements still count toward alt coverage.
		img := model.Image{
			Src: s.AttrOr("src", ""),
			Alt: s.AttrOr("alt", ""),
		}
		if s.Parent().Is("picture") {
			s.Parent().Find("source").Each(func(_ int, source *goquery.Selection) {
				typ := source.AttrOr("type", "")
				srcset := source.AttrOr("srcset", "")
				if strings.Contains(typ, "webp") || strings.Contains(srcset, ".webp") {
					img.HasWebPSource = true
				}
			})
		}
		page.Images = append(page.Images, img)
	})
}

func extractLinks(doc *goquery.Document, page *model.PageRecord, base string) {
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		lower := strings.ToLower(href)
		if strings.HasPrefix(lower, "mailto:") ||
			strings.HasPrefix(lower, "tel:") ||
			strings.HasPrefix(lower, "javascript:") ||
			strings.HasPrefix(lower, "data:") {
			return
		}

		normalized := NormalizeURL(href, page.URL)
		if normalized == "" {
			return
		}
		if IsSameSite(normalized, base) {
			page.InternalLinks = append(page.InternalLinks, normalized)
		} else {
			page.ExternalLinks = append(page.ExternalLinks, normalized)
		}
	})
}

func extractJSONLD(doc *goquery.Document, page *model.PageRecord) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		var obj map[string]any
		if err := json.Unmarshal([]byte(raw), &obj); err == nil {
			page.JSONLD = append(page.JSONLD, obj)
			return
		}

		// Some sites wrap multiple entities in a top-level array.
		var arr []map[string]any
		if err := json.Unmarshal([]byte(raw), &arr); err == nil {
			page.JSONLD = append(page.JSONLD, arr...)
		}
	})
}

// countWords counts CJK ideographs individually and runs of Latin
// letters as one word each. Digits and punctuation break runs without
// counting. The text is NFC-normalized first so decomposed sequences
// count the same as their composed forms.
func countWords(text string) int {
	count := 0
	inWord := false
	for _, r := range norm.NFC.String(text) {
		switch {
		case unicode.Is(unicode.Han, r):
			count++
			inWord = false
		case unicode.Is(unicode.Latin, r):
			if !inWord {
				count++
				inWord = true
			}
		default:
			inWord = false
		}
	}
	return count
}
