package jenkinsxml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobsdone/ci-jenkins/descriptor"
	"github.com/jobsdone/ci-jenkins/repository"
)

func mustRepo(t *testing.T, url, branch string) repository.Repository {
	t.Helper()
	r, err := repository.New(url, branch)
	require.NoError(t, err)
	return r
}

func TestGenerateEmitsXMLHeader(t *testing.T) {
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")
	desc := descriptor.New(repo, nil)

	job, err := Generate(desc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(job.XML), "<?xml version='1.1' encoding='UTF-8'?>\n"))
	assert.Equal(t, "space-milky_way", job.Name)
}

func TestGenerateCanRoamDefaultsFalse(t *testing.T) {
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")
	desc := descriptor.New(repo, nil)

	job, err := Generate(desc)
	require.NoError(t, err)
	assert.Contains(t, string(job.XML), "<canRoam>false</canRoam>")
}

func TestGenerateJobNameIncludesSortedMatrixSuffix(t *testing.T) {
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")
	name := JobName(repo, map[string]string{"slave": "s1", "platform": "linux"})
	assert.Equal(t, "space-milky_way-linux-s1", name)
}

func TestGenerateMailerPublisherRunsLast(t *testing.T) {
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")
	desc := descriptor.New(repo, nil)
	desc.JunitPatterns = []string{"*.xml"}
	desc.EmailNotification = &descriptor.EmailNotification{Recipients: "a@b.com", NotifyEveryBuild: true}

	job, err := Generate(desc)
	require.NoError(t, err)

	xml := string(job.XML)
	xunitIdx := strings.Index(xml, "<xunit")
	mailerIdx := strings.Index(xml, "<hudson.tasks.Mailer>")
	require.NotEqual(t, -1, xunitIdx)
	require.NotEqual(t, -1, mailerIdx)
	assert.Less(t, xunitIdx, mailerIdx)
}

func TestGenerateAdditionalRepositoriesProducesMultiSCM(t *testing.T) {
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")
	desc := descriptor.New(repo, nil)
	desc.AdditionalRepositories = []descriptor.GitOptions{
		{URL: "https://example.com/moon.git", Branch: "milky_way"},
	}

	job, err := Generate(desc)
	require.NoError(t, err)

	xml := string(job.XML)
	assert.Contains(t, xml, `class="org.jenkinsci.plugins.multiplescms.MultiSCM"`)
	assert.Contains(t, xml, "<scms>")
	assert.Contains(t, xml, "https://example.com/moon.git")
	assert.Contains(t, xml, "https://example.com/space.git")
}

func TestGenerateConsoleColorWrapper(t *testing.T) {
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")
	desc := descriptor.New(repo, nil)
	desc.ConsoleColor = "xterm"

	job, err := Generate(desc)
	require.NoError(t, err)
	assert.Contains(t, string(job.XML), "hudson.plugins.ansicolor.AnsiColorBuildWrapper")
}

func TestGenerateCoverageScalesThresholds(t *testing.T) {
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")
	desc := descriptor.New(repo, nil)
	desc.Coverage = &descriptor.Coverage{
		ReportPattern: "coverage.xml",
		Healthy:       descriptor.CoverageThreshold{Method: 80, Line: 70, Conditional: 60},
	}

	job, err := Generate(desc)
	require.NoError(t, err)
	assert.Contains(t, string(job.XML), "<int>8000000</int>")
	assert.Contains(t, string(job.XML), "<int>7000000</int>")
	assert.Contains(t, string(job.XML), "<int>6000000</int>")
}

func TestGenerateWarningsConsoleAndFileParsers(t *testing.T) {
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")
	desc := descriptor.New(repo, nil)
	desc.Warnings = &descriptor.Warnings{
		Console: []descriptor.WarningParser{{Parser: "GNU Make + GCC"}},
		File:    []descriptor.WarningParser{{Parser: "MSBuild", FilePattern: "build.log"}},
	}

	job, err := Generate(desc)
	require.NoError(t, err)
	xml := string(job.XML)
	assert.Contains(t, xml, "hudson.plugins.warnings.ConsoleParser")
	assert.Contains(t, xml, "hudson.plugins.warnings.ParserConfiguration")
	assert.Contains(t, xml, "build.log")
}

func TestGenerateParametersChoiceAndString(t *testing.T) {
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")
	desc := descriptor.New(repo, nil)
	desc.Parameters = []descriptor.Parameter{
		{Kind: "choice", Name: "target", Choices: []string{"debug", "release"}},
		{Kind: "string", Name: "version", Default: "1.0"},
	}

	job, err := Generate(desc)
	require.NoError(t, err)
	xml := string(job.XML)
	assert.Contains(t, xml, "hudson.model.ChoiceParameterDefinition")
	assert.Contains(t, xml, "hudson.model.StringParameterDefinition")
	assert.Contains(t, xml, "<string>debug</string>")
}

func TestGenerateTriggerJobsJoinsProjectNames(t *testing.T) {
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")
	desc := descriptor.New(repo, nil)
	desc.TriggerJobs = &descriptor.TriggerJobs{Names: []string{"downstream-a", "downstream-b"}, Condition: "SUCCESS"}

	job, err := Generate(desc)
	require.NoError(t, err)
	xml := string(job.XML)
	assert.Contains(t, xml, "hudson.plugins.parameterizedtrigger.BuildTrigger")
	assert.Contains(t, xml, "<projects>downstream-a, downstream-b</projects>")
}

func TestGenerateDescriptionRegexProducesDescriptionSetter(t *testing.T) {
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")
	desc := descriptor.New(repo, nil)
	desc.DescriptionRegex = "^Result: (.*)$"

	job, err := Generate(desc)
	require.NoError(t, err)
	xml := string(job.XML)
	assert.Contains(t, xml, "hudson.plugins.descriptionsetter.DescriptionSetterPublisher")
	assert.Contains(t, xml, "<regexp>^Result: (.*)$</regexp>")
	assert.Contains(t, xml, "<regexpForFailed>^Result: (.*)$</regexpForFailed>")
	assert.Contains(t, xml, "<setForMatrix>false</setForMatrix>")
}

func TestGenerateXunitFixedSchema(t *testing.T) {
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")
	desc := descriptor.New(repo, nil)
	desc.JunitPatterns = []string{"build/*.xml"}

	job, err := Generate(desc)
	require.NoError(t, err)
	xml := string(job.XML)
	assert.Contains(t, xml, "<tools>")
	assert.Contains(t, xml, "<JUnitType>")
	assert.NotContains(t, xml, "org.jenkinsci.plugins.xunit.types.JUnitType")
	assert.Contains(t, xml, "<skipNoTestFiles>true</skipNoTestFiles>")
	assert.Contains(t, xml, "<failIfNotNew>false</failIfNotNew>")
	assert.Contains(t, xml, "<unstableThreshold>0</unstableThreshold>")
	assert.Contains(t, xml, "<unstableNewThreshold>0</unstableNewThreshold>")
	assert.NotContains(t, xml, "failureThreshold")
}

func TestGenerateNoOptionsYieldsMinimalSkeleton(t *testing.T) {
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")
	desc := descriptor.New(repo, nil)

	job, err := Generate(desc)
	require.NoError(t, err)
	xml := string(job.XML)
	assert.Contains(t, xml, `<scm class="hudson.plugins.git.GitSCM">`)
	assert.Contains(t, xml, "<builders/>")
}
