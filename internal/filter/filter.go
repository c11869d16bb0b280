package filter

import (
	"strings"

	"flipfinder/logger"
)

// Filter decides whether a listing title is on-topic for a search keyword.
// The decision is binary; there is no partial-relevance scoring.
type Filter struct {
	keyword       string
	caseSensitive bool
	groups        []RuleGroup
	log           *logger.Logger
}

// New creates a Filter for the keyword. Family selects the extra rule
// groups for the keyword's product family; an unknown family adds nothing.
func New(keyword, family string, caseSensitive bool, rules RuleSet) *Filter {
	groups := make([]RuleGroup, 0, len(rules.Base)+1)
	groups = append(groups, rules.Base...)
	groups = append(groups, rules.Family[family]...)

	return &Filter{
		keyword:       keyword,
		caseSensitive: caseSensitive,
		groups:        groups,
		log:           logger.ForComponent("filter"),
	}
}

// Relevant reports whether the title matches the keyword and trips no
// exclusion rule group.
func (f *Filter) Relevant(title string) bool {
	title = strings.TrimSpace(title)
	if title == "" || f.keyword == "" {
		return false
	}

	searchTitle, searchKeyword := title, f.keyword
	if !f.caseSensitive {
		searchTitle = strings.ToLower(title)
		searchKeyword = strings.ToLower(f.keyword)
	}

	if !strings.Contains(searchTitle, searchKeyword) {
		return false
	}

	// Exclusions match case-insensitively regardless of the keyword mode.
	lowered := strings.ToLower(title)
	for _, group := range f.groups {
		for _, pattern := range group.Patterns {
			if strings.Contains(lowered, pattern) {
				f.log.Debug().
					Str("title", title).
					Str("category", group.Category).
					Str("pattern", pattern).
					Msg("Listing excluded by rule group")
				return false
			}
		}
	}

	return true
}
