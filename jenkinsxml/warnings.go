package jenkinsxml

import (
	"github.com/jobsdone/ci-jenkins/descriptor"
	"github.com/jobsdone/ci-jenkins/xmltree"
)

func setWarnings(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	w := desc.Warnings
	if w == nil {
		return nil
	}

	publisher := tree.Child("publishers").Append("hudson.plugins.warnings.WarningsPublisher")
	consoleParsers := publisher.Child("consoleParsers")
	for _, p := range w.Console {
		consoleParsers.Append("hudson.plugins.warnings.ConsoleParser").Set("parserName", p.Parser)
	}

	fileParsers := publisher.Child("parserConfigurations")
	for _, p := range w.File {
		fc := fileParsers.Append("hudson.plugins.warnings.ParserConfiguration")
		fc.Set("parserName", p.Parser)
		fc.Set("pattern", p.FilePattern)
	}

	return nil
}
