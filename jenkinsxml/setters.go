package jenkinsxml

import (
	"github.com/jobsdone/ci-jenkins/descriptor"
	"github.com/jobsdone/ci-jenkins/xmltree"
)

// setterEntry pairs an option name with the function that emits it. This
// explicit table is the dispatch mechanism design note 9 calls for: one
// entry per recognized option, no reflective name-mangling.
type setterEntry struct {
	name  string
	apply func(tree *xmltree.Node, desc *descriptor.JobDescriptor) error
}

var setterTable = []setterEntry{
	{"additional_repositories", setAdditionalRepositoriesEntry},
	{"auth_token", setAuthToken},
	{"boosttest_patterns", setBoosttestPatterns},
	{"junit_patterns", setJunitPatterns},
	{"jsunit_patterns", setJsunitPatterns},
	{"build_batch_commands", setBuildBatchCommands},
	{"build_shell_commands", setBuildShellCommands},
	{"build_python_commands", setBuildPythonCommands},
	{"console_color", setConsoleColor},
	{"coverage", setCoverage},
	{"cron", setCron},
	{"scm_poll", setScmPoll},
	{"custom_workspace", setCustomWorkspace},
	{"display_name", setDisplayName},
	{"label_expression", setLabelExpression},
	{"description_regex", setDescriptionRegex},
	{"email_notification", setEmailNotification},
	{"notify_stash", setNotifyStash},
	{"notification", setNotification},
	{"slack", setSlack},
	{"parameters", setParameters},
	{"timeout", setTimeout},
	{"timeout_no_activity", setTimeoutNoActivity},
	{"timestamps", setTimestamps},
	{"warnings", setWarnings},
	{"trigger_jobs", setTriggerJobs},
}

func applySetters(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	for _, entry := range setterTable {
		if err := entry.apply(tree, desc); err != nil {
			return err
		}
	}
	return nil
}

func setAdditionalRepositoriesEntry(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	setAdditionalRepositories(tree, desc.Repository, desc.Git, desc.AdditionalRepositories)
	return nil
}

func setAuthToken(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	if desc.AuthToken == "" {
		return nil
	}
	tree.Set("authToken", desc.AuthToken)
	return nil
}

func setConsoleColor(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	if desc.ConsoleColor == "" {
		return nil
	}
	wrapper := tree.Child("buildWrappers").Append("hudson.plugins.ansicolor.AnsiColorBuildWrapper")
	wrapper.Set("colorMapName", desc.ConsoleColor)
	return nil
}

func setCron(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	if desc.Cron == "" {
		return nil
	}
	tree.Child("triggers").Append("hudson.triggers.TimerTrigger").Set("spec", desc.Cron)
	return nil
}

func setScmPoll(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	if desc.ScmPoll == "" {
		return nil
	}
	tree.Child("triggers").Append("hudson.triggers.SCMTrigger").Set("spec", desc.ScmPoll)
	return nil
}

func setCustomWorkspace(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	if desc.CustomWorkspace == "" {
		return nil
	}
	tree.Set("customWorkspace", desc.CustomWorkspace)
	return nil
}

func setDisplayName(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	if desc.DisplayName == "" {
		return nil
	}
	tree.Set("displayName", desc.DisplayName)
	return nil
}

func setLabelExpression(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	if desc.LabelExpression == "" {
		return nil
	}
	tree.Set("assignedNode", desc.LabelExpression)
	tree.Set("canRoam", "false")
	return nil
}

func setDescriptionRegex(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	if desc.DescriptionRegex == "" {
		return nil
	}
	setter := tree.Child("publishers").Child("hudson.plugins.descriptionsetter.DescriptionSetterPublisher")
	setter.Set("regexp", desc.DescriptionRegex)
	setter.Set("regexpForFailed", desc.DescriptionRegex)
	setter.Set("setForMatrix", "false")
	return nil
}

func setTimeout(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	if desc.Timeout == "" {
		return nil
	}
	w := tree.Child("buildWrappers").Append("hudson.plugins.build__timeout.BuildTimeoutWrapper")
	w.Set("timeoutMinutes", desc.Timeout)
	w.Set("failBuild", "true")
	return nil
}

func setTimeoutNoActivity(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	if desc.TimeoutNoActivity == "" {
		return nil
	}
	w := tree.Child("buildWrappers").Append("hudson.plugins.build__timeout.BuildTimeoutWrapper")
	w.SetPathAttr("strategy@class", "hudson.plugins.build_timeout.impl.NoActivityTimeOutStrategy")
	w.Set("strategy/timeoutSecondsString", desc.TimeoutNoActivity)
	w.Set("failBuild", "true")
	return nil
}

func setTimestamps(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	if !desc.Timestamps {
		return nil
	}
	tree.Child("buildWrappers").Append("hudson.plugins.timestamper.TimestamperBuildWrapper")
	return nil
}
