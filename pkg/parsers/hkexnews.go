package parsers

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kerbaras/ipofetch/pkg/data"
)

// HKEXNews parses prospectus index pages on www1.hkexnews.hk. Each page
// lists one anchor per chapter PDF in document order.
type HKEXNews struct{}

func NewHKEXNews() *HKEXNews {
	return &HKEXNews{}
}

func (p *HKEXNews) IsSupported(pageURL string) bool {
	return strings.Contains(strings.ToLower(pageURL), "hkexnews.hk")
}

// ExtractChapters collects every .pdf anchor, resolving relative links
// against the page URL. Chapter numbers are assigned 1-based in document
// order.
func (p *HKEXNews) ExtractChapters(pageURL, htmlContent string) ([]data.ChapterDescriptor, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL %q: %w", pageURL, err)
	}

	var chapters []data.ChapterDescriptor
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.HasSuffix(strings.ToLower(strings.TrimSpace(href)), ".pdf") {
			return
		}

		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		absolute := base.ResolveReference(ref).String()
		if seen[absolute] {
			return
		}
		seen[absolute] = true

		title := strings.TrimSpace(sel.Text())
		if title == "" {
			title = fmt.Sprintf("Chapter %d", len(chapters)+1)
		}

		chapters = append(chapters, data.ChapterDescriptor{
			ChapterNumber:        len(chapters) + 1,
			ChapterTitle:         title,
			ChapterTitleOriginal: title,
			PDFURL:               absolute,
			RelativePath:         href,
		})
	})

	return chapters, nil
}

// ExtractCompanyName takes the page title, trimming the portal boilerplate
// HKEX appends after a dash.
func (p *HKEXNews) ExtractCompanyName(htmlContent string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return ""
	}
	if idx := strings.Index(title, " - "); idx > 0 {
		title = title[:idx]
	}
	return strings.TrimSpace(title)
}

var documentIDPattern = regexp.MustCompile(`(\d{5,})`)

// ExtractDocumentID pulls the numeric identifier out of the final path
// segment of an HKEXnews URL, e.g.
// .../listedco/listconews/sehk/2024/0101/2024010100123.htm -> 2024010100123.
func (p *HKEXNews) ExtractDocumentID(pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", pageURL, err)
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if match := documentIDPattern.FindString(segments[i]); match != "" {
			return match, nil
		}
	}

	return "", fmt.Errorf("cannot extract document ID from URL: %s", pageURL)
}
