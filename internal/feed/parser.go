// Package feed downloads the job feed and splits it into items.
//
// Parsing is a tolerant literal tag search rather than XML decoding: job feeds routinely carry
// unescaped markup inside descriptions, which a strict decoder rejects.
package feed

import (
	"regexp"
	"strings"

	"github.com/octobees/job-leads/api/internal/entity"
)

var (
	itemPattern  = regexp.MustCompile(`(?is)<item(?:\s[^>]*)?>(.*?)</item>`)
	titlePattern = regexp.MustCompile(`(?is)<title(?:\s[^>]*)?>(.*?)</title>`)
	descPattern  = regexp.MustCompile(`(?is)<description(?:\s[^>]*)?>(.*?)</description>`)
	linkPattern  = regexp.MustCompile(`(?is)<link(?:\s[^>]*)?>(.*?)</link>`)
	cdataPattern = regexp.MustCompile(`(?s)^<!\[CDATA\[(.*?)\]\]>$`)
)

// ParseItems returns every <item> in raw, in document order. Tags are matched case-insensitively,
// the first occurrence of each field wins and CDATA wrappers are removed. Missing fields are empty.
func ParseItems(raw string) []entity.FeedItem {
	matches := itemPattern.FindAllStringSubmatch(raw, -1)
	items := make([]entity.FeedItem, 0, len(matches))
	for _, m := range matches {
		body := m[1]
		items = append(items, entity.FeedItem{
			Title:       field(titlePattern, body),
			Description: field(descPattern, body),
			Link:        field(linkPattern, body),
		})
	}
	return items
}

func field(pattern *regexp.Regexp, body string) string {
	m := pattern.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	value := strings.TrimSpace(m[1])
	if c := cdataPattern.FindStringSubmatch(value); c != nil {
		value = strings.TrimSpace(c[1])
	}
	return value
}
