package matrix

import "github.com/jobsdone/ci-jenkins/jobserrors"

func errTypeMismatch(name, expected string, got interface{}) error {
	return &jobserrors.TypeMismatch{Name: name, Got: "unknown", Expected: expected, Value: got}
}
