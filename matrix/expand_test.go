package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobsdone/ci-jenkins/jobsfile"
	"github.com/jobsdone/ci-jenkins/repository"
)

func mustRepo(t *testing.T, url, branch string) repository.Repository {
	t.Helper()
	r, err := repository.New(url, branch)
	require.NoError(t, err)
	return r
}

// TestExpandSimpleMatrixWithTemplating covers scenario S1.
func TestExpandSimpleMatrixWithTemplating(t *testing.T) {
	text := "junit_patterns: [\"{planet}-{branch}.xml\"]\nmatrix: {planet: [earth, mars]}\n"
	root, err := jobsfile.Parse(text)
	require.NoError(t, err)
	require.NoError(t, jobsfile.ValidateOptions(root))

	repo := mustRepo(t, "https://example.com/space.git", "milky_way")

	descs, err := Expand(root, repo)
	require.NoError(t, err)
	require.Len(t, descs, 2)

	found := false
	for _, d := range descs {
		if d.MatrixRow["planet"] == "earth" {
			found = true
			assert.Equal(t, []string{"earth-milky_way.xml"}, d.JunitPatterns)
		}
	}
	assert.True(t, found)
}

// TestExpandConditionalOverride covers scenario S2.
func TestExpandConditionalOverride(t *testing.T) {
	text := `display_name: "Generic"
platform-linux:display_name: "Linux"
platform-linux:slave-s2:display_name: "Linux-S2"
matrix: {platform: [linux, windows], slave: [s1, s2]}
`
	root, err := jobsfile.Parse(text)
	require.NoError(t, err)
	require.NoError(t, jobsfile.ValidateOptions(root))

	repo := mustRepo(t, "https://example.com/space.git", "milky_way")
	descs, err := Expand(root, repo)
	require.NoError(t, err)
	require.Len(t, descs, 4)

	byRow := map[string]string{}
	for _, d := range descs {
		key := d.MatrixRow["platform"] + "/" + d.MatrixRow["slave"]
		byRow[key] = d.DisplayName
	}

	assert.Equal(t, "Linux", byRow["linux/s1"])
	assert.Equal(t, "Linux-S2", byRow["linux/s2"])
	assert.Equal(t, "Generic", byRow["windows/s1"])
	assert.Equal(t, "Generic", byRow["windows/s2"])
}

// TestExpandAmbiguityRejection covers scenario S3.
func TestExpandAmbiguityRejection(t *testing.T) {
	text := `platform-linux:display_name: "A"
slave-s2:display_name: "B"
matrix: {platform: [linux, windows], slave: [s1, s2]}
`
	root, err := jobsfile.Parse(text)
	require.NoError(t, err)
	require.NoError(t, jobsfile.ValidateOptions(root))

	repo := mustRepo(t, "https://example.com/space.git", "milky_way")
	_, err = Expand(root, repo)
	require.Error(t, err)
}

// TestExpandBranchFilter covers scenario S4.
func TestExpandBranchFilter(t *testing.T) {
	text := "branch_patterns: [\"feature-.*\"]\n"
	root, err := jobsfile.Parse(text)
	require.NoError(t, err)
	require.NoError(t, jobsfile.ValidateOptions(root))

	repo := mustRepo(t, "https://example.com/space.git", "milky_way")
	descs, err := Expand(root, repo)
	require.NoError(t, err)
	assert.Len(t, descs, 0)
}

func TestExpandEmptyYAMLYieldsNoJobs(t *testing.T) {
	root, err := jobsfile.Parse("   ")
	require.NoError(t, err)

	repo := mustRepo(t, "https://example.com/space.git", "milky_way")
	descs, err := Expand(root, repo)
	require.NoError(t, err)
	assert.Len(t, descs, 0)
}

func TestExpandExcludeTopLevel(t *testing.T) {
	root, err := jobsfile.Parse("exclude: \"yes\"\n")
	require.NoError(t, err)

	repo := mustRepo(t, "https://example.com/space.git", "milky_way")
	descs, err := Expand(root, repo)
	require.NoError(t, err)
	assert.Len(t, descs, 0)
}

func TestExpandSingleAxisSingleValueHasNoSuffix(t *testing.T) {
	root, err := jobsfile.Parse("matrix: {platform: [linux]}\n")
	require.NoError(t, err)

	repo := mustRepo(t, "https://example.com/space.git", "milky_way")
	descs, err := Expand(root, repo)
	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Len(t, descs[0].MatrixRow, 0)
}

func TestExpandUnmatchableConditionFails(t *testing.T) {
	root, err := jobsfile.Parse("platform-freebsd:display_name: X\nmatrix: {platform: [linux, windows]}\n")
	require.NoError(t, err)

	repo := mustRepo(t, "https://example.com/space.git", "milky_way")
	_, err = Expand(root, repo)
	assert.Error(t, err)
}

func TestExpandIgnoreUnmatchableSuppressesOnly(t *testing.T) {
	root, err := jobsfile.Parse("ignore_unmatchable: \"true\"\nplatform-freebsd:display_name: X\nmatrix: {platform: [linux, windows]}\n")
	require.NoError(t, err)

	repo := mustRepo(t, "https://example.com/space.git", "milky_way")
	descs, err := Expand(root, repo)
	require.NoError(t, err)
	assert.Len(t, descs, 2)
}
