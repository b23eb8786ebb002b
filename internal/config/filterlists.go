package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FilterLists carries operator-supplied additions to the URL blocklist and the social domain list.
type FilterLists struct {
	BlockedDomains  []string `yaml:"blocked_domains"`
	SocialDomains   []string `yaml:"social_domains"`
	ReplaceDefaults bool     `yaml:"replace_defaults"`
}

// LoadFilterLists reads the YAML file at path. An empty path yields an empty list set.
func LoadFilterLists(path string) (FilterLists, error) {
	var lists FilterLists
	if strings.TrimSpace(path) == "" {
		return lists, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return lists, fmt.Errorf("read filter lists: %w", err)
	}
	if err := yaml.Unmarshal(data, &lists); err != nil {
		return lists, fmt.Errorf("parse filter lists: %w", err)
	}

	lists.BlockedDomains = compact(lists.BlockedDomains)
	lists.SocialDomains = compact(lists.SocialDomains)
	return lists, nil
}

// Merge combines defaults with the loaded lists, honouring ReplaceDefaults.
func (l FilterLists) Merge(defaults, extra []string) []string {
	if l.ReplaceDefaults && len(extra) > 0 {
		return append([]string(nil), extra...)
	}
	out := make([]string, 0, len(defaults)+len(extra))
	out = append(out, defaults...)
	return append(out, extra...)
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
