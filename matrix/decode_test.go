package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobsdone/ci-jenkins/jobserrors"
	"github.com/jobsdone/ci-jenkins/jobsfile"
)

func TestDecodeCoverageDefaultsAndOverrides(t *testing.T) {
	text := `
coverage:
  report_pattern: "coverage.xml"
  healthy: {method: 90, line: 85}
`
	root, err := jobsfile.Parse(text)
	require.NoError(t, err)
	require.NoError(t, jobsfile.ValidateOptions(root))
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")
	descs, err := Expand(root, repo)
	require.NoError(t, err)
	require.Len(t, descs, 1)

	cov := descs[0].Coverage
	require.NotNil(t, cov)
	assert.Equal(t, "coverage.xml", cov.ReportPattern)
	assert.Equal(t, 90, cov.Healthy.Method)
	assert.Equal(t, 85, cov.Healthy.Line)
	assert.Equal(t, 0, cov.Healthy.Conditional)
	assert.Equal(t, 80, cov.Unhealthy.Method)
}

func TestDecodeCoverageMissingReportPatternFails(t *testing.T) {
	text := "coverage: {healthy: {method: 90}}\n"
	root, err := jobsfile.Parse(text)
	require.NoError(t, err)
	require.NoError(t, jobsfile.ValidateOptions(root))
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")

	_, err = Expand(root, repo)
	require.Error(t, err)
	var missing *jobserrors.MissingRequired
	assert.ErrorAs(t, err, &missing)
}

func TestDecodeSlackAcceptsBareString(t *testing.T) {
	text := `slack: "#ci-alerts"` + "\n"
	root, err := jobsfile.Parse(text)
	require.NoError(t, err)
	require.NoError(t, jobsfile.ValidateOptions(root))
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")

	descs, err := Expand(root, repo)
	require.NoError(t, err)
	require.Len(t, descs, 1)
	require.NotNil(t, descs[0].Slack)
	assert.Equal(t, "#ci-alerts", descs[0].Slack.Room)
}

func TestDecodeSlackDefaultsRoomGeneral(t *testing.T) {
	text := "slack: {team: acme}\n"
	root, err := jobsfile.Parse(text)
	require.NoError(t, err)
	require.NoError(t, jobsfile.ValidateOptions(root))
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")

	descs, err := Expand(root, repo)
	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Equal(t, "general", descs[0].Slack.Room)
	assert.Equal(t, "acme", descs[0].Slack.Team)
}

func TestDecodeNotificationRequiresURL(t *testing.T) {
	text := "notification: {protocol: HTTP}\n"
	root, err := jobsfile.Parse(text)
	require.NoError(t, err)
	require.NoError(t, jobsfile.ValidateOptions(root))
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")

	_, err = Expand(root, repo)
	require.Error(t, err)
	var missing *jobserrors.MissingRequired
	assert.ErrorAs(t, err, &missing)
}

func TestDecodeWarningsRequiresConsoleOrFile(t *testing.T) {
	text := "warnings: {}\n"
	root, err := jobsfile.Parse(text)
	require.NoError(t, err)
	require.NoError(t, jobsfile.ValidateOptions(root))
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")

	_, err = Expand(root, repo)
	require.Error(t, err)
}

func TestDecodeTriggerJobsConditionEnumCaseInsensitive(t *testing.T) {
	text := "trigger_jobs: {names: [downstream], condition: unstable}\n"
	root, err := jobsfile.Parse(text)
	require.NoError(t, err)
	require.NoError(t, jobsfile.ValidateOptions(root))
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")

	descs, err := Expand(root, repo)
	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Equal(t, "UNSTABLE", descs[0].TriggerJobs.Condition)
}

func TestDecodeTriggerJobsInvalidConditionFails(t *testing.T) {
	text := "trigger_jobs: {names: [downstream], condition: bogus}\n"
	root, err := jobsfile.Parse(text)
	require.NoError(t, err)
	require.NoError(t, jobsfile.ValidateOptions(root))
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")

	_, err = Expand(root, repo)
	require.Error(t, err)
	var invalid *jobserrors.InvalidEnumValue
	assert.ErrorAs(t, err, &invalid)
}

func TestDecodeTriggerJobsParametersJoinedWithSpace(t *testing.T) {
	text := "trigger_jobs: {names: [downstream], parameters: [\"A=1\", \"B=2\"]}\n"
	root, err := jobsfile.Parse(text)
	require.NoError(t, err)
	require.NoError(t, jobsfile.ValidateOptions(root))
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")

	descs, err := Expand(root, repo)
	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Equal(t, "A=1 B=2", descs[0].TriggerJobs.Parameters)
}

func TestDecodeParametersChoiceVsString(t *testing.T) {
	text := `
parameters:
  - name: target
    choices: [debug, release]
  - name: version
    default: "1.0"
`
	root, err := jobsfile.Parse(text)
	require.NoError(t, err)
	require.NoError(t, jobsfile.ValidateOptions(root))
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")

	descs, err := Expand(root, repo)
	require.NoError(t, err)
	require.Len(t, descs, 1)
	require.Len(t, descs[0].Parameters, 2)
	assert.Equal(t, "choice", descs[0].Parameters[0].Kind)
	assert.Equal(t, []string{"debug", "release"}, descs[0].Parameters[0].Choices)
	assert.Equal(t, "string", descs[0].Parameters[1].Kind)
	assert.Equal(t, "1.0", descs[0].Parameters[1].Default)
}

func TestDecodeUnknownSubOptionRejected(t *testing.T) {
	text := "coverage: {report_pattern: x.xml, bogus_field: 1}\n"
	root, err := jobsfile.Parse(text)
	require.NoError(t, err)
	require.NoError(t, jobsfile.ValidateOptions(root))
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")

	_, err = Expand(root, repo)
	require.Error(t, err)
	var unknown *jobserrors.UnknownSubOption
	assert.ErrorAs(t, err, &unknown)
}

func TestDecodeBuildCommandsFlattenNested(t *testing.T) {
	text := `
build_shell_commands:
  - "echo a"
  - ["echo b", "echo c"]
`
	root, err := jobsfile.Parse(text)
	require.NoError(t, err)
	require.NoError(t, jobsfile.ValidateOptions(root))
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")

	descs, err := Expand(root, repo)
	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Equal(t, []string{"echo a", "echo b", "echo c"}, descs[0].BuildShellCommands)
}

func TestDecodeConsoleColorInvalidEnumFails(t *testing.T) {
	text := "console_color: rainbow\n"
	root, err := jobsfile.Parse(text)
	require.NoError(t, err)
	require.NoError(t, jobsfile.ValidateOptions(root))
	repo := mustRepo(t, "https://example.com/space.git", "milky_way")

	_, err = Expand(root, repo)
	require.Error(t, err)
	var invalid *jobserrors.InvalidEnumValue
	assert.ErrorAs(t, err, &invalid)
}
