package root

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestCreatePutCatRoundTrip(t *testing.T) {
	viper.Reset()
	workspace := t.TempDir()

	out, err := runCmd(t, "create", "cargo", "--workspace", workspace, "--capacity", "4096")
	require.NoError(t, err)

	containerPath := firstLine(out)
	require.FileExists(t, containerPath)

	sourcePath := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(sourcePath, []byte("hello cargo"), 0644))

	_, err = runCmd(t, "put", containerPath, "notes.txt", sourcePath)
	require.NoError(t, err)

	out, err = runCmd(t, "cat", containerPath, "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello cargo", out)
}

func TestLsAndRmAndExists(t *testing.T) {
	viper.Reset()
	workspace := t.TempDir()

	out, err := runCmd(t, "create", "cargo", "--workspace", workspace, "--capacity", "4096")
	require.NoError(t, err)
	containerPath := firstLine(out)

	sourcePath := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(sourcePath, []byte("x"), 0644))
	_, err = runCmd(t, "put", containerPath, "a.txt", sourcePath)
	require.NoError(t, err)

	out, err = runCmd(t, "ls", containerPath)
	require.NoError(t, err)
	assert.Contains(t, out, "a.txt")

	out, err = runCmd(t, "exists", containerPath, "a.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "true")

	_, err = runCmd(t, "rm", containerPath, "a.txt")
	require.NoError(t, err)

	out, err = runCmd(t, "exists", containerPath, "a.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "false")
}

func TestDuDefragFormat(t *testing.T) {
	viper.Reset()
	workspace := t.TempDir()

	out, err := runCmd(t, "create", "cargo", "--workspace", workspace, "--capacity", "4096")
	require.NoError(t, err)
	containerPath := firstLine(out)

	_, err = runCmd(t, "du", containerPath)
	require.NoError(t, err)

	_, err = runCmd(t, "defrag", containerPath)
	require.NoError(t, err)

	_, err = runCmd(t, "format", containerPath)
	require.NoError(t, err)
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
