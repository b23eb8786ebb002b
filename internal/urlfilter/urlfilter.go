// Package urlfilter canonicalizes candidate employer URLs and rejects hosts that are known
// not to belong to an employer (platforms, social networks, payment providers and so on).
package urlfilter

import (
	"regexp"
	"strings"
)

var (
	schemePrefix = regexp.MustCompile(`(?i)^https?://`)
	wwwPrefix    = regexp.MustCompile(`(?i)^www\.`)
	tldSuffix    = regexp.MustCompile(`(?i)\.[a-z]{2,}$`)
)

// Normalize lowercases the URL and strips a leading http(s):// and www. prefix.
func Normalize(raw string) string {
	out := strings.ToLower(strings.TrimSpace(raw))
	out = schemePrefix.ReplaceAllString(out, "")
	return wwwPrefix.ReplaceAllString(out, "")
}

// FormatURL repairs partial hostnames returned by the model into a canonical https URL.
// Userinfo ("careers@acme.com") and a trailing root dot are dropped from the host.
// "acmecorp" becomes "https://acmecorp.com", "http://www.Acme.io/jobs" becomes "https://acme.io/jobs".
func FormatURL(raw string) string {
	rest := strings.TrimSpace(raw)
	for schemePrefix.MatchString(rest) {
		rest = schemePrefix.ReplaceAllString(rest, "")
	}
	if rest == "" {
		return ""
	}

	host, tail := rest, ""
	if idx := strings.IndexAny(rest, "/?#"); idx >= 0 {
		host, tail = rest[:idx], rest[idx:]
	}
	if idx := strings.LastIndex(host, "@"); idx >= 0 {
		host = host[idx+1:]
	}
	host = strings.ToLower(host)
	for wwwPrefix.MatchString(host) {
		host = host[len("www."):]
	}
	if host == "" {
		return ""
	}

	name, port := host, ""
	if idx := strings.LastIndex(host, ":"); idx >= 0 {
		name, port = host[:idx], host[idx:]
	}
	name = strings.TrimRight(name, ".")
	if name == "" {
		return ""
	}
	if !tldSuffix.MatchString(name) {
		name += ".com"
	}

	return "https://" + name + port + tail
}

// CleanEmail strips the query suffix (?subject=..., ?cc=...) that mailto: hrefs often carry.
func CleanEmail(email string) string {
	if idx := strings.Index(email, "?"); idx >= 0 {
		email = email[:idx]
	}
	return strings.TrimSpace(email)
}
