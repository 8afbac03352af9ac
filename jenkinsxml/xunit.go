package jenkinsxml

import (
	"strings"

	"github.com/jobsdone/ci-jenkins/descriptor"
	"github.com/jobsdone/ci-jenkins/xmltree"
)

// xunit tool tags, one per supported test-report framework — the only
// thing that differs between boosttest/junit/jsunit patterns, per §4.F.
const (
	junitType      = "JUnitType"
	boosttestType  = "BoostTestJunitHudsonTestType"
	jsunitType     = "JSUnitPluginType"
	cleanupPlugin  = "hudson.plugins.ws_cleanup.PreBuildCleanup"
	cleanupPattern = "hudson.plugins.ws_cleanup.Pattern"
)

func setJunitPatterns(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	return setXunitType(tree, desc.JunitPatterns, junitType)
}

func setBoosttestPatterns(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	return setXunitType(tree, desc.BoosttestPatterns, boosttestType)
}

func setJsunitPatterns(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	return setXunitType(tree, desc.JsunitPatterns, jsunitType)
}

// setXunitType emits one xunit tool entry for the given report patterns,
// reusing a single shared <xunit> publisher and <thresholds>/cleanup
// scaffolding across calls for the different frameworks, matching the
// original generator's _SetXunit.
func setXunitType(tree *xmltree.Node, patterns []string, toolClass string) error {
	if len(patterns) == 0 {
		return nil
	}

	xunit := tree.Child("publishers").Child("xunit")
	xunit.SetAttr("class", "xunit")

	thresholds := xunit.Child("thresholds")
	failed := thresholds.Child("org.jenkinsci.plugins.xunit.threshold.FailedThreshold")
	failed.Set("unstableThreshold", "0")
	failed.Set("unstableNewThreshold", "0")
	xunit.Set("thresholdMode", "1")

	tool := xunit.Child("tools").Child(toolClass)
	tool.Set("pattern", strings.Join(patterns, ","))
	tool.Set("skipNoTestFiles", "true")
	tool.Set("failIfNotNew", "false")
	tool.Set("deleteOutputFiles", "true")
	tool.Set("stopProcessingIfError", "true")

	cleanup := tree.Child("buildWrappers").Child(cleanupPlugin)
	cleanupPatterns := cleanup.Child("patterns")
	for _, p := range patterns {
		pat := cleanupPatterns.Append(cleanupPattern)
		pat.Set("pattern", p)
		pat.Set("type", "INCLUDE")
	}

	return nil
}
