package jenkinsxml

import (
	"strconv"

	"github.com/jobsdone/ci-jenkins/descriptor"
	"github.com/jobsdone/ci-jenkins/xmltree"
)

// formatMetricValue scales a coverage percentage to Jenkins' internal
// fixed-point representation (percent * 100000), mirroring the original
// generator's FormatMetricValue.
func formatMetricValue(metric int) int {
	return metric * 100000
}

func setCoverage(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	cov := desc.Coverage
	if cov == nil {
		return nil
	}

	publisher := tree.Child("publishers").Append("hudson.plugins.cobertura.CoberturaPublisher")
	publisher.Set("coberturaReportFile", cov.ReportPattern)
	publisher.Set("onlyStable", "false")
	publisher.Set("failUnhealthy", "false")
	publisher.Set("failUnstable", "false")
	publisher.Set("autoUpdateHealth", "false")
	publisher.Set("autoUpdateStability", "false")
	publisher.Set("zoomCoverageChart", "false")
	publisher.Set("maxNumberOfBuilds", "0")
	publisher.Set("sourceEncoding", "ASCII")

	writeCoverageTargets(publisher.Navigate("healthyTarget/targets"), cov.Healthy)
	writeCoverageTargets(publisher.Navigate("unhealthyTarget/targets"), cov.Unhealthy)
	writeCoverageTargets(publisher.Navigate("failingTarget/targets"), cov.Failing)

	return nil
}

func writeCoverageTargets(targets *xmltree.Node, t descriptor.CoverageThreshold) {
	entry := targets.Child("entry")
	entry.Set("hudson.plugins.cobertura.targets.CoverageMetric", "METHOD")
	entry.Set("int", strconv.Itoa(formatMetricValue(t.Method)))

	lineEntry := targets.Append("entry")
	lineEntry.Set("hudson.plugins.cobertura.targets.CoverageMetric", "LINE")
	lineEntry.Set("int", strconv.Itoa(formatMetricValue(t.Line)))

	condEntry := targets.Append("entry")
	condEntry.Set("hudson.plugins.cobertura.targets.CoverageMetric", "CONDITIONAL")
	condEntry.Set("int", strconv.Itoa(formatMetricValue(t.Conditional)))
}
