package scraper

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/octobees/job-leads/api/internal/urlfilter"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)
	assetPattern = regexp.MustCompile(`(?i)\.(png|jpe?g|gif|svg|webp|ico|bmp)$`)
	idnaProfile  = idna.Lookup
)

const defaultPhoneRegion = "US"

// SanitizeEmail strips mailto query suffixes, lowercases the address and checks its syntax and domain.
// It returns the cleaned address and whether it is usable.
func SanitizeEmail(raw string) (string, bool) {
	email := strings.ToLower(urlfilter.CleanEmail(raw))
	if email == "" || !emailPattern.MatchString(email) || isAssetName(email) {
		return "", false
	}
	parts := strings.SplitN(email, "@", 2)
	if !isDomainValid(parts[1]) {
		return "", false
	}
	if ascii, err := idnaProfile.ToASCII(parts[1]); err != nil || ascii == "" {
		return "", false
	}
	return email, true
}

func isAssetName(candidate string) bool {
	return assetPattern.MatchString(candidate)
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	for _, part := range strings.Split(domain, ".") {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}

// NormalizePhone returns raw in E.164 form, or "" when it is not a valid number for region.
func NormalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = defaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, strings.ToUpper(region))
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}
