package jobsfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmptyYieldsEmptyMap(t *testing.T) {
	m, err := Parse("   \n\t  ")
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
}

func TestParseScalarsStayStrings(t *testing.T) {
	m, err := Parse("exclude: yes\ntimestamps: 1\n")
	require.NoError(t, err)

	v, ok := m.Get("exclude")
	require.True(t, ok)
	assert.Equal(t, "yes", v)

	v, ok = m.Get("timestamps")
	require.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestParsePreservesDocumentOrder(t *testing.T) {
	m, err := Parse("display_name: Generic\nplatform-linux:display_name: Linux\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"display_name", "platform-linux:display_name"}, m.Keys())
}

func TestParseNestedMap(t *testing.T) {
	m, err := Parse("git:\n  url: https://example.com/space.git\n  branch: master\n")
	require.NoError(t, err)

	v, ok := m.Get("git")
	require.True(t, ok)
	git, ok := v.(*OrderedMap)
	require.True(t, ok)

	url, _ := git.Get("url")
	assert.Equal(t, "https://example.com/space.git", url)
}

func TestValidateOptionsUnknown(t *testing.T) {
	m, _ := Parse("bogus_option: value\n")
	err := ValidateOptions(m)
	assert.Error(t, err)
}

func TestValidateOptionsStripsConditionPrefix(t *testing.T) {
	m, _ := Parse("platform-linux:display_name: Linux\n")
	err := ValidateOptions(m)
	assert.NoError(t, err)
}

func TestValidateOptionsTypeMismatch(t *testing.T) {
	m, _ := Parse("git: not-a-map\n")
	err := ValidateOptions(m)
	assert.Error(t, err)
}

func TestValidateOptionsEmailNotificationAcceptsMapOrString(t *testing.T) {
	m, _ := Parse("email_notification: dev@example.com\n")
	assert.NoError(t, ValidateOptions(m))

	m2, _ := Parse("email_notification:\n  recipients: dev@example.com\n")
	assert.NoError(t, ValidateOptions(m2))
}

func TestBoolean(t *testing.T) {
	for _, in := range []string{"TRUE", "yes", "1"} {
		v, err := Boolean(in)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, in := range []string{"FALSE", "no", "0", ""} {
		v, err := Boolean(in)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := Boolean("maybe")
	assert.Error(t, err)
}
