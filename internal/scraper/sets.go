package scraper

import "strings"

// ScrapedData holds the contacts found on one page or one site.
type ScrapedData struct {
	Emails      []string `json:"emails"`
	SocialLinks []string `json:"social_links"`
	Phones      []string `json:"phones"`
}

// Empty reports whether nothing was found.
func (d ScrapedData) Empty() bool {
	return len(d.Emails) == 0 && len(d.SocialLinks) == 0 && len(d.Phones) == 0
}

// orderedSet keeps the first spelling of each key in insertion order.
type orderedSet struct {
	key    func(string) string
	seen   map[string]struct{}
	values []string
}

func newOrderedSet(key func(string) string) orderedSet {
	return orderedSet{key: key, seen: make(map[string]struct{})}
}

func (s *orderedSet) add(value string) bool {
	k := s.key(value)
	if k == "" {
		return false
	}
	if _, dup := s.seen[k]; dup {
		return false
	}
	s.seen[k] = struct{}{}
	s.values = append(s.values, strings.TrimSpace(value))
	return true
}

// EmailSet deduplicates addresses ignoring case and surrounding whitespace.
type EmailSet struct{ set orderedSet }

// NewEmailSet returns an empty EmailSet seeded with values.
func NewEmailSet(values ...string) *EmailSet {
	s := &EmailSet{set: newOrderedSet(func(v string) string { return strings.ToLower(strings.TrimSpace(v)) })}
	s.AddAll(values)
	return s
}

// Add inserts email and reports whether it was new.
func (s *EmailSet) Add(email string) bool { return s.set.add(email) }

// AddAll inserts every value.
func (s *EmailSet) AddAll(values []string) {
	for _, v := range values {
		s.set.add(v)
	}
}

// Contains reports whether email is already present.
func (s *EmailSet) Contains(email string) bool {
	_, ok := s.set.seen[s.set.key(email)]
	return ok
}

// Len returns the number of distinct addresses.
func (s *EmailSet) Len() int { return len(s.set.values) }

// Values returns the addresses in insertion order.
func (s *EmailSet) Values() []string { return append([]string{}, s.set.values...) }

// LinkSet deduplicates links after trimming whitespace only.
type LinkSet struct{ set orderedSet }

// NewLinkSet returns an empty LinkSet seeded with values.
func NewLinkSet(values ...string) *LinkSet {
	s := &LinkSet{set: newOrderedSet(strings.TrimSpace)}
	s.AddAll(values)
	return s
}

// Add inserts link and reports whether it was new.
func (s *LinkSet) Add(link string) bool { return s.set.add(link) }

// AddAll inserts every value.
func (s *LinkSet) AddAll(values []string) {
	for _, v := range values {
		s.set.add(v)
	}
}

// Contains reports whether link is already present.
func (s *LinkSet) Contains(link string) bool {
	_, ok := s.set.seen[s.set.key(link)]
	return ok
}

// Len returns the number of distinct links.
func (s *LinkSet) Len() int { return len(s.set.values) }

// Values returns the links in insertion order.
func (s *LinkSet) Values() []string { return append([]string{}, s.set.values...) }
