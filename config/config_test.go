package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmptyIsDefault(t *testing.T) {
	c, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Equal(t, "reproducibility", c.DestName)
	assert.Equal(t, []string{".py"}, c.Extensions)
	assert.False(t, c.IncludeBuilds)
}

func TestParseOverrides(t *testing.T) {
	c, err := Parse([]byte(`
extensions: [".py", ".R"]
includeBuilds: true
hostURL: https://git.example.com/lab
commandTimeout: 90s
`))
	require.NoError(t, err)
	assert.Equal(t, []string{".py", ".R"}, c.Extensions)
	assert.True(t, c.IncludeBuilds)
	assert.Equal(t, "https://git.example.com/lab", c.HostURL)
	assert.Equal(t, 90*time.Second, c.CommandTimeout)
	assert.Equal(t, DefaultDestName, c.DestName)
	assert.Equal(t, DefaultGitBinary, c.GitBinary)
}

func TestParseRejects(t *testing.T) {
	for name, text := range map[string]string{
		"unknown key":     "colour: blue\n",
		"nested dest":     "destName: a/b\n",
		"dotdot dest":     "destName: ..\n",
		"no extensions":   "extensions: []\n",
		"empty extension": "extensions: [\"\"]\n",
		"negative":        "commandTimeout: -1s\n",
		"not yaml":        "extensions: [\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(text))
			assert.Error(t, err)
		})
	}
}

func TestGetConfigText(t *testing.T) {
	dir, err := ioutil.TempDir("", "config-test-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "snap.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte("includeBuilds: true\n"), 0644))

	text, err := GetConfigText(path)
	require.NoError(t, err)
	assert.Equal(t, "includeBuilds: true\n", string(text))

	text, err = GetConfigText("includeBuilds: true")
	require.NoError(t, err)
	assert.Equal(t, "includeBuilds: true", string(text))

	_, err = GetConfigText(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)
}
