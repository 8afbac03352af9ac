package jenkinsxml

import (
	"strings"

	"github.com/jobsdone/ci-jenkins/descriptor"
	"github.com/jobsdone/ci-jenkins/xmltree"
)

// triggerConditionResults maps the trigger_jobs `condition` enum to the
// ParameterizedTrigger plugin's build-result threshold fields.
var triggerConditionResults = map[string]struct{ name, ordinal, color string }{
	"SUCCESS":  {"SUCCESS", "0", "BLUE"},
	"UNSTABLE": {"UNSTABLE", "1", "YELLOW"},
	"FAILED":   {"FAILURE", "2", "RED"},
	"ALWAYS":   {"SUCCESS", "0", "BLUE"},
}

func setTriggerJobs(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	t := desc.TriggerJobs
	if t == nil {
		return nil
	}

	publisher := tree.Child("publishers").Append("hudson.plugins.parameterizedtrigger.BuildTrigger")
	config := publisher.Child("configs").Child("hudson.plugins.parameterizedtrigger.BuildTriggerConfig")
	config.Set("projects", strings.Join(t.Names, ", "))

	configsNode := config.Child("configs")
	if t.Parameters != "" {
		params := configsNode.Append("hudson.plugins.parameterizedtrigger.PredefinedBuildParameters")
		params.Set("properties", t.Parameters)
	}

	result := triggerConditionResults[t.Condition]
	if result.name == "" {
		result = triggerConditionResults["SUCCESS"]
	}
	threshold := config.Child("condition")
	threshold.SetText(t.Condition)

	buildResult := config.Child("threshold")
	buildResult.Set("name", result.name)
	buildResult.Set("ordinal", result.ordinal)
	buildResult.Set("color", result.color)
	buildResult.Set("completeBuild", "true")

	return nil
}
