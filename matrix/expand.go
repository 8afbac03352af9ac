package matrix

import (
	"github.com/jobsdone/ci-jenkins/descriptor"
	"github.com/jobsdone/ci-jenkins/jobserrors"
	"github.com/jobsdone/ci-jenkins/jobsfile"
	"github.com/jobsdone/ci-jenkins/repository"
)

// Expand runs the full matrix+condition expansion pipeline described in
// §4.D over root (a validated jobs-file tree) for repo, returning one
// JobDescriptor per surviving row.
func Expand(root *jobsfile.OrderedMap, repo repository.Repository) ([]*descriptor.JobDescriptor, error) {
	rows, axisValues, err := EnumerateRows(root)
	if err != nil {
		return nil, err
	}

	ignoreUnmatchable, err := readIgnoreUnmatchable(root)
	if err != nil {
		return nil, err
	}

	if !ignoreUnmatchable {
		if err := checkUnmatchable(root, rows); err != nil {
			return nil, err
		}
	}

	multiAxes := MultiValuedAxes(axisValues)

	var out []*descriptor.JobDescriptor
	for _, row := range rows {
		desc, keep, err := resolveRow(root, repo, row, multiAxes)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, desc)
		}
	}
	return out, nil
}

func readIgnoreUnmatchable(root *jobsfile.OrderedMap) (bool, error) {
	v, ok := root.Get("ignore_unmatchable")
	if !ok {
		return false, nil
	}
	s, ok := v.(string)
	if !ok {
		return false, &jobserrors.TypeMismatch{Name: "ignore_unmatchable", Got: "unknown", Expected: "string", Value: v}
	}
	return jobsfile.Boolean(s)
}

// checkUnmatchable implements §4.D's unmatchability check: every
// conditional key anywhere in the tree must be satisfiable by at least one
// row, once the branch condition is bypassed via the MATCH_ANY sentinel.
func checkUnmatchable(root *jobsfile.OrderedMap, rows []Row) error {
	var keys []conditionalKey
	collectConditionalKeys(root, &keys)

	for _, ck := range keys {
		matched := false
		for _, row := range rows {
			if conditionsSatisfied(ck.conditions, row, "", matchAnyBranch) {
				matched = true
				break
			}
		}
		if !matched {
			return &jobserrors.UnmatchableCondition{Key: ck.raw}
		}
	}
	return nil
}

// resolveRow runs steps 1-5 of §4.D's per-row resolution for a single row,
// returning (nil, false, nil) if the row is dropped by exclude or
// branch_patterns.
func resolveRow(root *jobsfile.OrderedMap, repo repository.Repository, row Row, multiAxes []string) (*descriptor.JobDescriptor, bool, error) {
	dict := formatDict(repo.Branch, repo.Name, row.Simple)

	templated, err := templateValue(root, dict)
	if err != nil {
		return nil, false, err
	}
	templatedMap, ok := templated.(*jobsfile.OrderedMap)
	if !ok {
		return nil, false, &jobserrors.TypeMismatch{Name: "<root>", Got: "unknown", Expected: "map", Value: templated}
	}

	flattened, err := flattenConditionals(templatedMap, row, repo.Branch)
	if err != nil {
		return nil, false, err
	}

	if excludeVal, ok := flattened.Get("exclude"); ok {
		s, _ := excludeVal.(string)
		excluded, err := jobsfile.Boolean(s)
		if err != nil {
			return nil, false, err
		}
		if excluded {
			return nil, false, nil
		}
	}

	if patternsVal, ok := flattened.Get("branch_patterns"); ok {
		patterns, _ := patternsVal.([]jobsfile.Value)
		matched := false
		for _, p := range patterns {
			ps, _ := p.(string)
			if prefixMatch(ps, repo.Branch) {
				matched = true
				break
			}
		}
		if !matched {
			return nil, false, nil
		}
	}

	for _, controlKey := range []string{"matrix", "branch_patterns", "exclude", "ignore_unmatchable"} {
		flattened.Delete(controlKey)
	}

	desc := descriptor.New(repo, restrictToAxes(row.Simple, multiAxes))
	if err := decodeInto(desc, flattened); err != nil {
		return nil, false, err
	}

	return desc, true, nil
}

func restrictToAxes(simple map[string]string, axes []string) map[string]string {
	out := make(map[string]string, len(axes))
	for _, a := range axes {
		out[a] = simple[a]
	}
	return out
}
