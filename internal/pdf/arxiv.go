// Package pdf handles local paper PDFs: arXiv id extraction, anchor text
// lookup, and opening in a reader.
package pdf

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// arXiv identifier in its post-2007 form (e.g. 2403.01234v2) with an
// optional "arXiv:" prefix.
var arxivPattern = regexp.MustCompile(`(?:arXiv:)?(\d{4}\.\d{4,5})(v\d+)?`)

// ExtractArxivID extracts an arXiv identifier from a PDF file. It searches
// the first few pages, where the identifier appears in the margin stamp.
func ExtractArxivID(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	maxPages := 3
	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if id := findArxivID(text); id != "" {
			return id, nil
		}
	}

	return "", nil // No identifier found (not an error)
}

// findArxivID returns the first arXiv id in the text, version suffix
// stripped.
func findArxivID(text string) string {
	m := arxivPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// FindAnchor searches the PDF for the page containing the given anchor text
// (an artifact's source position string, e.g. "Theorem 3.1"). Returns the
// 1-based page number, or 0 when not found.
func FindAnchor(filePath, anchor string) (int, error) {
	if anchor == "" {
		return 0, nil
	}

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	needle := normalizeSpace(anchor)
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.Contains(normalizeSpace(text), needle) {
			return i, nil
		}
	}
	return 0, nil
}

// normalizeSpace collapses all whitespace runs to single spaces so anchors
// survive PDF line breaking.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
