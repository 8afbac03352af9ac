package matrix

import (
	"fmt"
	"strings"

	"github.com/jobsdone/ci-jenkins/jobsfile"
)

// formatDict builds the {placeholder} substitution dictionary for one row:
// branch and name from the repository, overlaid with the row's simple
// (canonical) axis values — so a matrix axis can shadow branch/name if it
// shares their name.
func formatDict(branch, name string, simple map[string]string) map[string]string {
	dict := map[string]string{"branch": branch, "name": name}
	for k, v := range simple {
		dict[k] = v
	}
	return dict
}

// formatString replaces every {placeholder} in s using dict, erroring if a
// referenced placeholder has no entry.
func formatString(s string, dict map[string]string) (string, error) {
	var b strings.Builder
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '{' {
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("matrix: unterminated {placeholder} in %q", s)
			}
			name := s[i+1 : i+1+end]
			val, ok := dict[name]
			if !ok {
				return "", fmt.Errorf("matrix: unresolved placeholder {%s} in %q", name, s)
			}
			b.WriteString(val)
			i = i + 1 + end + 1
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String(), nil
}

// templateValue deep-copies v, substituting {placeholder} sequences in
// every string leaf and mapping key.
func templateValue(v jobsfile.Value, dict map[string]string) (jobsfile.Value, error) {
	switch t := v.(type) {
	case string:
		return formatString(t, dict)
	case []jobsfile.Value:
		out := make([]jobsfile.Value, len(t))
		for i, e := range t {
			tv, err := templateValue(e, dict)
			if err != nil {
				return nil, err
			}
			out[i] = tv
		}
		return out, nil
	case *jobsfile.OrderedMap:
		out := jobsfile.NewOrderedMap()
		for _, key := range t.Keys() {
			newKey, err := formatString(key, dict)
			if err != nil {
				return nil, err
			}
			val, _ := t.Get(key)
			newVal, err := templateValue(val, dict)
			if err != nil {
				return nil, err
			}
			out.Set(newKey, newVal)
		}
		return out, nil
	default:
		return v, nil
	}
}
