package matrix

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/jobsdone/ci-jenkins/jobsfile"
)

// ConditionSet is an unordered set of "axis-pattern" condition tokens
// attached to a single conditional key. Condition order is insignificant
// (§4.D tie-breaks), so sets, not slices, are the unit of comparison.
type ConditionSet map[string]bool

// NewConditionSet builds a ConditionSet from condition tokens.
func NewConditionSet(tokens []string) ConditionSet {
	cs := make(ConditionSet, len(tokens))
	for _, t := range tokens {
		cs[t] = true
	}
	return cs
}

// SubsetOf reports whether every element of cs is also in other.
func (cs ConditionSet) SubsetOf(other ConditionSet) bool {
	for t := range cs {
		if !other[t] {
			return false
		}
	}
	return true
}

// Equal reports whether cs and other contain exactly the same tokens.
func (cs ConditionSet) Equal(other ConditionSet) bool {
	return cs.SubsetOf(other) && other.SubsetOf(cs)
}

// Comparable reports whether one of cs, other is a subset of the other —
// the requirement for two conflicting conditional values to coexist
// without raising AmbiguousCondition.
func (cs ConditionSet) Comparable(other ConditionSet) bool {
	return cs.SubsetOf(other) || other.SubsetOf(cs)
}

// Tokens returns the set's elements as a sorted slice, for error messages.
func (cs ConditionSet) Tokens() []string {
	out := make([]string, 0, len(cs))
	for t := range cs {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

var (
	regexCacheMu sync.Mutex
	regexCache   = map[string]*regexp.Regexp{}
)

// prefixMatch mimics Python's re.match semantics (anchored only at the
// start, not the end) used by the original implementation's condition
// matching.
func prefixMatch(pattern, value string) bool {
	regexCacheMu.Lock()
	re, ok := regexCache[pattern]
	regexCacheMu.Unlock()
	if !ok {
		compiled, err := regexp.Compile("^(?:" + pattern + ")")
		if err != nil {
			return false
		}
		re = compiled
		regexCacheMu.Lock()
		regexCache[pattern] = re
		regexCacheMu.Unlock()
	}
	return re.MatchString(value)
}

// splitCondition splits an "axis-pattern" token on its first hyphen.
func splitCondition(token string) (axis, pattern string) {
	axis, _, pattern = strings.Cut(token, "-")
	return axis, pattern
}

// matchAnyBranch is the sentinel used during the unmatchability check: any
// pattern against the synthesized "branch" axis is considered satisfied,
// since at that stage we're asking "could some branch make this match",
// not resolving a concrete branch.
const matchAnyBranch = true

// conditionSatisfied reports whether a single condition token is satisfied
// by row, given the concrete branch name. If matchAny is true, any
// condition on the "branch" axis is treated as satisfied unconditionally
// (used only by the unmatchability pre-check).
func conditionSatisfied(token string, row Row, branch string, matchAny bool) bool {
	axis, pattern := splitCondition(token)

	if axis == "branch" {
		if matchAny {
			return true
		}
		return prefixMatch(pattern, branch)
	}

	aliases, ok := row.Full[axis]
	if !ok {
		return false
	}
	for _, alias := range aliases {
		if prefixMatch(pattern, alias) {
			return true
		}
	}
	return false
}

func conditionsSatisfied(tokens []string, row Row, branch string, matchAny bool) bool {
	for _, t := range tokens {
		if !conditionSatisfied(t, row, branch, matchAny) {
			return false
		}
	}
	return true
}

// conditionalKey pairs the tokens of one conditional key's condition list
// with its raw key string, for collection during the unmatchability walk.
type conditionalKey struct {
	raw        string
	conditions []string
}

// collectConditionalKeys recursively walks v, collecting every key of the
// form "cond1:...:condN:option" found at any mapping level, through nested
// mappings and lists (§4.D: "anywhere in the tree").
func collectConditionalKeys(v jobsfile.Value, out *[]conditionalKey) {
	switch t := v.(type) {
	case *jobsfile.OrderedMap:
		for _, key := range t.Keys() {
			if conds := jobsfile.Conditions(key); conds != nil {
				*out = append(*out, conditionalKey{raw: key, conditions: conds})
			}
			val, _ := t.Get(key)
			collectConditionalKeys(val, out)
		}
	case []jobsfile.Value:
		for _, e := range t {
			collectConditionalKeys(e, out)
		}
	}
}
