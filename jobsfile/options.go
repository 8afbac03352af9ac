package jobsfile

import (
	"strings"

	"github.com/jobsdone/ci-jenkins/jobserrors"
)

// kind describes the top-level YAML shape an option's value must take.
type kind int

const (
	kindString kind = iota
	kindList
	kindMap
	kindMapOrString
)

// recognizedOptions enumerates every top-level jobs-file option and its
// expected shape, per §6's option table.
var recognizedOptions = map[string]kind{
	"matrix":                  kindMap,
	"branch_patterns":         kindList,
	"exclude":                 kindString,
	"ignore_unmatchable":      kindString,
	"additional_repositories": kindList,
	"git":                     kindMap,
	"auth_token":              kindString,
	"boosttest_patterns":      kindList,
	"junit_patterns":          kindList,
	"jsunit_patterns":         kindList,
	"build_batch_commands":    kindList,
	"build_shell_commands":    kindList,
	"build_python_commands":   kindList,
	"console_color":           kindString,
	"coverage":                kindMap,
	"cron":                    kindString,
	"scm_poll":                kindString,
	"custom_workspace":        kindString,
	"display_name":            kindString,
	"label_expression":        kindString,
	"description_regex":       kindString,
	"email_notification":      kindMapOrString,
	"notify_stash":            kindMapOrString,
	"notification":            kindMap,
	"slack":                   kindMapOrString,
	"parameters":              kindList,
	"timeout":                 kindString,
	"timeout_no_activity":     kindString,
	"timestamps":              kindString,
	"warnings":                kindMap,
	"trigger_jobs":            kindMap,
}

// OptionName strips a leading "cond1:cond2:...:" qualifier from a raw
// top-level key, returning the bare option name.
func OptionName(rawKey string) string {
	idx := strings.LastIndex(rawKey, ":")
	if idx < 0 {
		return rawKey
	}
	return rawKey[idx+1:]
}

// Conditions splits the condition qualifiers off a raw top-level key, in
// the order they appear; it returns nil for an unqualified key.
func Conditions(rawKey string) []string {
	idx := strings.LastIndex(rawKey, ":")
	if idx < 0 {
		return nil
	}
	return strings.Split(rawKey[:idx], ":")
}

func kindName(k kind) string {
	switch k {
	case kindString:
		return "string"
	case kindList:
		return "list"
	case kindMap:
		return "map"
	case kindMapOrString:
		return "map-or-string"
	default:
		return "unknown"
	}
}

func valueKindName(v Value) string {
	switch v.(type) {
	case string:
		return "string"
	case []Value:
		return "list"
	case *OrderedMap:
		return "map"
	default:
		return "unknown"
	}
}

func kindMatches(expected kind, v Value) bool {
	switch expected {
	case kindMapOrString:
		switch v.(type) {
		case string, *OrderedMap:
			return true
		}
		return false
	case kindString:
		_, ok := v.(string)
		return ok
	case kindList:
		_, ok := v.([]Value)
		return ok
	case kindMap:
		_, ok := v.(*OrderedMap)
		return ok
	}
	return false
}

// ValidateOptions walks the top-level mapping and, for every key, strips
// any leading "cond:...:" prefix and rejects unknown option names and
// mismatched top-level types.
func ValidateOptions(root *OrderedMap) error {
	for _, rawKey := range root.Keys() {
		name := OptionName(rawKey)

		expected, ok := recognizedOptions[name]
		if !ok {
			return &jobserrors.UnknownOption{Name: name}
		}

		value, _ := root.Get(rawKey)
		if !kindMatches(expected, value) {
			return &jobserrors.TypeMismatch{
				Name:     name,
				Got:      valueKindName(value),
				Expected: kindName(expected),
				Value:    value,
			}
		}
	}
	return nil
}
