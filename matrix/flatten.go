package matrix

import (
	"fmt"
	"reflect"

	"github.com/jobsdone/ci-jenkins/jobserrors"
	"github.com/jobsdone/ci-jenkins/jobsfile"
)

type conditionWinner struct {
	cond  ConditionSet
	value jobsfile.Value
}

// flattenConditionals processes conditional keys at every level of m,
// recursively, per §4.D step 2: for each conditional key, test its
// conditions against row/branch, drop it if unsatisfied, otherwise resolve
// ambiguity and override precedence against any previously-recorded value
// for the same option name (conditional or plain).
func flattenConditionals(m *jobsfile.OrderedMap, row Row, branch string) (*jobsfile.OrderedMap, error) {
	winners := map[string]*conditionWinner{}
	var order []string

	for _, key := range m.Keys() {
		val, _ := m.Get(key)

		conds := jobsfile.Conditions(key)
		optionName := jobsfile.OptionName(key)

		if conds != nil && !conditionsSatisfied(conds, row, branch, false) {
			continue
		}

		resolvedVal, err := recurseFlatten(val, row, branch)
		if err != nil {
			return nil, err
		}

		newCond := NewConditionSet(conds) // empty set for unconditional keys

		prev, seen := winners[optionName]
		if !seen {
			winners[optionName] = &conditionWinner{cond: newCond, value: resolvedVal}
			order = append(order, optionName)
			continue
		}

		if !reflect.DeepEqual(prev.value, resolvedVal) && !prev.cond.Comparable(newCond) {
			return nil, &jobserrors.AmbiguousCondition{
				Option:      optionName,
				ValueA:      fmt.Sprint(prev.value),
				ConditionsA: prev.cond.Tokens(),
				ValueB:      fmt.Sprint(resolvedVal),
				ConditionsB: newCond.Tokens(),
			}
		}

		// Override iff the new condition set is a superset of (or equal to)
		// the previously recorded one; a strictly less specific conditional
		// never overrides a more specific one already recorded.
		if newCond.SubsetOf(prev.cond) && !prev.cond.SubsetOf(newCond) {
			continue
		}
		winners[optionName] = &conditionWinner{cond: newCond, value: resolvedVal}
	}

	out := jobsfile.NewOrderedMap()
	for _, name := range order {
		out.Set(name, winners[name].value)
	}
	return out, nil
}

func recurseFlatten(v jobsfile.Value, row Row, branch string) (jobsfile.Value, error) {
	switch t := v.(type) {
	case *jobsfile.OrderedMap:
		return flattenConditionals(t, row, branch)
	case []jobsfile.Value:
		out := make([]jobsfile.Value, len(t))
		for i, e := range t {
			rv, err := recurseFlatten(e, row, branch)
			if err != nil {
				return nil, err
			}
			out[i] = rv
		}
		return out, nil
	default:
		return v, nil
	}
}
