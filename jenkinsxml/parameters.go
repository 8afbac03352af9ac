package jenkinsxml

import (
	"github.com/jobsdone/ci-jenkins/descriptor"
	"github.com/jobsdone/ci-jenkins/xmltree"
)

func setParameters(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	if len(desc.Parameters) == 0 {
		return nil
	}

	property := tree.Navigate("properties/hudson.model.ParametersDefinitionProperty")
	defs := property.Child("parameterDefinitions")

	for _, p := range desc.Parameters {
		switch p.Kind {
		case "choice":
			def := defs.Append("hudson.model.ChoiceParameterDefinition")
			def.Set("name", p.Name)
			def.Set("description", p.Description)
			choices := def.Child("choices")
			choices.SetAttr("class", "java.util.Arrays$ArrayList")
			a := choices.Child("a")
			a.SetAttr("class", "java.util.Arrays$ArrayList")
			for _, c := range p.Choices {
				a.Append("string").SetText(c)
			}
		default:
			def := defs.Append("hudson.model.StringParameterDefinition")
			def.Set("name", p.Name)
			def.Set("defaultValue", p.Default)
			def.Set("description", p.Description)
		}
	}

	return nil
}
