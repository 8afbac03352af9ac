// Package jobsfile is the YAML front-end: it loads a ".jobs_done.yaml"
// document under a failsafe (string-only) scalar schema and validates its
// top-level option names and types before handing the tree to the matrix
// expander.
package jobsfile

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/jobsdone/ci-jenkins/jobserrors"
)

// Filename is the conventional name of a jobs file within a repository.
const Filename = ".jobs_done.yaml"

// Parse loads text under the failsafe YAML schema: every scalar becomes a
// Go string regardless of its YAML tag (no automatic bool/int/float
// conversion), matching the original implementation's use of
// yaml.loader.BaseLoader. An empty or whitespace-only document yields an
// empty, valid OrderedMap (§8 boundary behavior), not an error.
func Parse(text string) (*OrderedMap, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return NewOrderedMap(), nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(trimmed), &doc); err != nil {
		return nil, errors.Wrap(err, "jobsfile: parse YAML")
	}

	if len(doc.Content) == 0 {
		return NewOrderedMap(), nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("jobsfile: top-level document must be a mapping, got %v", root.Kind)
	}

	v := nodeToValue(root)
	m, ok := v.(*OrderedMap)
	if !ok {
		return nil, fmt.Errorf("jobsfile: top-level document must be a mapping")
	}
	return m, nil
}

func nodeToValue(n *yaml.Node) Value {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}

	switch n.Kind {
	case yaml.ScalarNode:
		// Failsafe schema: the raw scalar text is the value, regardless of
		// the tag YAML inferred (!!bool, !!int, !!float, !!null, ...).
		return n.Value
	case yaml.SequenceNode:
		out := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			out = append(out, nodeToValue(c))
		}
		return out
	case yaml.MappingNode:
		m := NewOrderedMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			val := n.Content[i+1]
			m.Set(nodeToString(key), nodeToValue(val))
		}
		return m
	default:
		return ""
	}
}

func nodeToString(n *yaml.Node) string {
	v := nodeToValue(n)
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Boolean parses the loose boolean vocabulary used throughout jobs-file
// options: TRUE/YES/1 (case-insensitive) are true, FALSE/NO/0 and the empty
// string are false, anything else is an error.
func Boolean(text string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "TRUE", "YES", "1":
		return true, nil
	case "FALSE", "NO", "0", "":
		return false, nil
	default:
		return false, &jobserrors.InvalidEnumValue{
			Option: "<boolean>",
			Value:  text,
			Valid:  []string{"TRUE", "YES", "1", "FALSE", "NO", "0"},
		}
	}
}
