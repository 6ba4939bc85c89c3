package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// Patterns holds the include and exclude regular expressions of one CLI flag
type Patterns struct {
	Include []*regexp.Regexp
	Exclude []*regexp.Regexp
}

// ParseTokens compiles raw flag values into patterns.
// Each value may hold several comma-separated tokens; a leading "-" marks an exclude.
func ParseTokens(values []string) (Patterns, error) {
	var p Patterns
	for _, value := range values {
		for _, token := range strings.Split(value, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}

			exclude := strings.HasPrefix(token, "-")
			if exclude {
				token = strings.TrimPrefix(token, "-")
				if token == "" {
					continue
				}
			}

			re, err := regexp.Compile(token)
			if err != nil {
				return Patterns{}, fmt.Errorf("invalid pattern %q: %w", token, err)
			}

			if exclude {
				p.Exclude = append(p.Exclude, re)
			} else {
				p.Include = append(p.Include, re)
			}
		}
	}
	return p, nil
}

// Matches reports whether s passes the filter: no includes or any include matches,
// and no exclude matches. An exclude always wins over an overlapping include.
func (p Patterns) Matches(s string) bool {
	included := len(p.Include) == 0
	for _, re := range p.Include {
		if re.MatchString(s) {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, re := range p.Exclude {
		if re.MatchString(s) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no patterns were given
func (p Patterns) IsEmpty() bool {
	return len(p.Include) == 0 && len(p.Exclude) == 0
}

// String renders the patterns back in flag syntax
func (p Patterns) String() string {
	var tokens []string
	for _, re := range p.Include {
		tokens = append(tokens, re.String())
	}
	for _, re := range p.Exclude {
		tokens = append(tokens, "-"+re.String())
	}
	return strings.Join(tokens, ",")
}
