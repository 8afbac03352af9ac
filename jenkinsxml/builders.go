package jenkinsxml

import (
	"strings"

	"github.com/jobsdone/ci-jenkins/descriptor"
	"github.com/jobsdone/ci-jenkins/xmltree"
)

// setBuildBatchCommands emits one hudson.tasks.BatchFile builder per
// command, normalizing bare LF to CRLF — Windows batch files require it,
// and this is the one build-command type the generator normalizes.
func setBuildBatchCommands(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	for _, cmd := range desc.BuildBatchCommands {
		tree.Child("builders").Append("hudson.tasks.BatchFile").Set("command", toCRLF(cmd))
	}
	return nil
}

func setBuildShellCommands(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	for _, cmd := range desc.BuildShellCommands {
		tree.Child("builders").Append("hudson.tasks.Shell").Set("command", cmd)
	}
	return nil
}

func setBuildPythonCommands(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	for _, cmd := range desc.BuildPythonCommands {
		b := tree.Child("builders").Append("hudson.plugins.python.Python")
		b.Set("command", cmd)
		b.Set("nounbuffer", "false")
	}
	return nil
}

func toCRLF(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}
