package llm

import (
	"sort"
	"strings"
)

// ExtractJSONObject returns the first balanced top-level {...} object in text, ignoring any
// commentary around it. Braces inside JSON strings are not counted.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	for start >= 0 {
		if end, ok := matchBrace(text, start); ok {
			return text[start : end+1], true
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

func matchBrace(text string, start int) (int, bool) {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// SplitSections cuts text at the first occurrence of each marker (for example "SUBJECT:" and
// "BODY:") and returns the trimmed text that follows each marker up to the next one.
// Markers that do not occur are absent from the result.
func SplitSections(text string, markers ...string) map[string]string {
	type hit struct {
		marker string
		pos    int
	}
	var hits []hit
	for _, marker := range markers {
		if marker == "" {
			continue
		}
		if pos := strings.Index(text, marker); pos >= 0 {
			hits = append(hits, hit{marker: marker, pos: pos})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	sections := make(map[string]string, len(hits))
	for i, h := range hits {
		end := len(text)
		if i+1 < len(hits) {
			end = hits[i+1].pos
		}
		from := h.pos + len(h.marker)
		if from > end {
			from = end
		}
		sections[h.marker] = strings.TrimSpace(text[from:end])
	}
	return sections
}
