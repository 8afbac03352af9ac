// Package jenkinsxml lowers a resolved descriptor.JobDescriptor into a
// Jenkins config.xml document. Each recognized option has exactly one
// setter function, wired into an explicit dispatch table keyed by option
// name rather than discovered via reflection — see setters.go.
package jenkinsxml

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jobsdone/ci-jenkins/descriptor"
	"github.com/jobsdone/ci-jenkins/repository"
	"github.com/jobsdone/ci-jenkins/xmltree"
)

// JenkinsJob is the final generator artifact: a job name, the repository
// it belongs to, and its serialized config.xml.
type JenkinsJob struct {
	Name       string
	Repository repository.Repository
	XML        []byte
}

// JobName computes the "name-branch[-v1-v2...]" grammar from §6: the
// repository name and branch, followed by the canonical values of every
// multi-valued matrix axis this job binds, in axis-name alphabetical
// order. Single-valued axes are already excluded from MatrixRow by the
// expander.
func JobName(repo repository.Repository, matrixRow map[string]string) string {
	name := repo.JobPrefix()
	suffix := matrixRowSuffix(matrixRow)
	if suffix != "" {
		name += "-" + suffix
	}
	return name
}

func matrixRowSuffix(matrixRow map[string]string) string {
	axes := make([]string, 0, len(matrixRow))
	for axis := range matrixRow {
		axes = append(axes, axis)
	}
	sort.Strings(axes)

	values := make([]string, 0, len(axes))
	for _, axis := range axes {
		values = append(values, matrixRow[axis])
	}
	return strings.Join(values, "-")
}

// Generate builds the full config.xml for desc and returns the assembled
// JenkinsJob.
func Generate(desc *descriptor.JobDescriptor) (*JenkinsJob, error) {
	tree := newProjectSkeleton()

	setPrimaryGit(tree, desc.Repository, desc.Git)

	if err := applySetters(tree, desc); err != nil {
		return nil, err
	}

	finalize(tree)

	name := JobName(desc.Repository, desc.MatrixRow)

	return &JenkinsJob{
		Name:       name,
		Repository: desc.Repository,
		XML:        []byte(fmt.Sprintf("<?xml version='1.1' encoding='UTF-8'?>\n%s\n", tree.Render())),
	}, nil
}

// newProjectSkeleton builds the fixed-default <project> document described
// in §4.F: log rotation keeping 7 days, canRoam false, empty builders/
// publishers/buildWrappers/triggers placeholders ready for setters to fill.
// The <scm> block is added afterwards by setPrimaryGit.
func newProjectSkeleton() *xmltree.Node {
	root := xmltree.New("project")
	root.Set("actions", "")
	root.Set("description", "")
	root.Set("keepDependencies", "false")
	root.Set("properties", "")
	root.Set("canRoam", "false")
	root.Set("disabled", "false")
	root.Set("blockBuildWhenDownstreamBuilding", "false")
	root.Set("blockBuildWhenUpstreamBuilding", "false")
	root.Set("concurrentBuild", "false")

	logRotator := root.Child("logRotator")
	logRotator.SetAttr("class", "hudson.tasks.LogRotator")
	logRotator.Set("daysToKeep", "7")
	logRotator.Set("numToKeep", "-1")
	logRotator.Set("artifactDaysToKeep", "-1")
	logRotator.Set("artifactNumToKeep", "-1")

	root.Child("builders")
	root.Child("publishers")
	root.Child("buildWrappers")
	root.Child("triggers").SetAttr("class", "vector")

	return root
}

// finalize applies cross-cutting emission rules that must run after every
// setter: moving the Mailer publisher, if present, to the end of the
// publishers list so it runs after xunit/coverage/warnings publishers.
func finalize(tree *xmltree.Node) {
	tree.Child("publishers").MoveToEnd("hudson.tasks.Mailer")
}
