package condition

import (
	"regexp"
	"strings"
)

// operatorPattern splits an optional leading comparison operator from the rest
// of a search value, e.g. ">=10" or "<> draft".
var operatorPattern = regexp.MustCompile(`^(?:\s*(<>|!=|<=|>=|<|>|=))?(.*)$`)

var likeEscaper = strings.NewReplacer(`%`, `\%`, `_`, `\_`, `\`, `\\`)

// Match is the resolved comparison for a single search value.
type Match struct {
	// Include is false when the value contributes no condition.
	Include  bool
	Operator string
	Value    any
}

// ResolveMatch extracts the comparison operator from v and applies partial
// matching. With partialMatch the value is compared with LIKE (or NOT LIKE for
// <> and !=) and an empty value is excluded; with escape the LIKE wildcards in
// the value are escaped and it is wrapped in %...%.
func ResolveMatch(v any, partialMatch, escape bool) Match {
	op := ""
	if s, ok := v.(string); ok {
		if m := operatorPattern.FindStringSubmatch(s); m != nil {
			op = m[1]
			v = m[2]
		}
	}

	if !partialMatch {
		if op == "" {
			op = "="
		}
		return Match{Include: true, Operator: op, Value: v}
	}

	s := stringify(v)
	if s == "" {
		return Match{Include: false}
	}
	if escape {
		s = "%" + likeEscaper.Replace(s) + "%"
	}

	switch op {
	case "<>", "!=":
		op = "NOT LIKE"
	default:
		op = "LIKE"
	}
	return Match{Include: true, Operator: op, Value: s}
}
