// Package matrix implements the matrix+condition expander (§4.D): row
// enumeration over the jobs-file's matrix axes, conditional-key resolution
// against those rows, ambiguity/unmatchability detection, and {placeholder}
// templating, producing one descriptor.JobDescriptor per surviving row.
package matrix

import (
	"sort"
	"strings"

	"github.com/jobsdone/ci-jenkins/jobsfile"
)

// Row is one point in the cartesian product of matrix axes.
//
// Full maps axis name to the comma-split alias list (canonical value
// first); Simple maps axis name to just the canonical value. The
// invariant len(Simple) == len(Full) == number of axes holds for every Row
// this package produces.
type Row struct {
	Full   map[string][]string
	Simple map[string]string
}

// MultiValuedAxes returns, sorted, the axis names that have more than one
// declared value in axes — used for the job-name suffix. The generator does
// not add this suffix to assignedNode, which is set only by label_expression.
func MultiValuedAxes(axes map[string][]string) []string {
	var out []string
	for axis, values := range axes {
		if len(values) > 1 {
			out = append(out, axis)
		}
	}
	sort.Strings(out)
	return out
}

// EnumerateRows reads the `matrix` key (if any) off root and returns the
// cartesian product of its axes, declared in document order. If root has
// no `matrix` key, it returns a single row with no axes.
func EnumerateRows(root *jobsfile.OrderedMap) ([]Row, map[string][]string, error) {
	matrixVal, ok := root.Get("matrix")
	if !ok {
		return []Row{{Full: map[string][]string{}, Simple: map[string]string{}}}, map[string][]string{}, nil
	}

	matrixMap, ok := matrixVal.(*jobsfile.OrderedMap)
	if !ok {
		return nil, nil, errTypeMismatch("matrix", "map", matrixVal)
	}

	axisNames := matrixMap.Keys()
	axisValues := make(map[string][]string, len(axisNames)) // axis -> canonical values in order
	aliasLists := make(map[string][][]string, len(axisNames))

	for _, axis := range axisNames {
		raw, _ := matrixMap.Get(axis)
		list, ok := raw.([]jobsfile.Value)
		if !ok {
			return nil, nil, errTypeMismatch("matrix."+axis, "list", raw)
		}
		var canon []string
		var aliases [][]string
		for _, item := range list {
			s, _ := item.(string)
			parts := strings.Split(s, ",")
			aliases = append(aliases, parts)
			canon = append(canon, parts[0])
		}
		axisValues[axis] = canon
		aliasLists[axis] = aliases
	}

	rows := []Row{{Full: map[string][]string{}, Simple: map[string]string{}}}
	for _, axis := range axisNames {
		var next []Row
		for _, row := range rows {
			for i := range axisValues[axis] {
				full := cloneStringSliceMap(row.Full)
				simple := cloneStringMap(row.Simple)
				full[axis] = aliasLists[axis][i]
				simple[axis] = axisValues[axis][i]
				next = append(next, Row{Full: full, Simple: simple})
			}
		}
		rows = next
	}

	return rows, axisValues, nil
}

func cloneStringSliceMap(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
