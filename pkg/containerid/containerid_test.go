package containerid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateName(t *testing.T) {
	name := GenerateName(3, "cargo", 1700000000000000000)
	assert.Equal(t, "cargo_00003_1700000000000000000.cargo", name)
}

func TestGenerateNameWithEmptyPrefix(t *testing.T) {
	name := GenerateName(1, "", 123)
	assert.Contains(t, name, "INVALID_PREFIX")
}

func TestParseContainerIDRoundTrip(t *testing.T) {
	name := GenerateName(42, "cargo", 987654321)
	id, err := ParseContainerID(filepath.Join("/workspace", name), "cargo")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
}

func TestParseContainerIDRejectsWrongPrefix(t *testing.T) {
	name := GenerateName(1, "other", 1)
	_, err := ParseContainerID(name, "cargo")
	assert.Error(t, err)
}

func TestNextIDStartsAtOneForEmptyWorkspace(t *testing.T) {
	dir := t.TempDir()
	id, err := NextID(dir, "cargo")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
}

func TestNextIDIncrementsPastHighestExisting(t *testing.T) {
	dir := t.TempDir()

	for _, id := range []uint64{1, 2, 5} {
		name := GenerateName(id, "cargo", int64(id))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	next, err := NextID(dir, "cargo")
	require.NoError(t, err)
	assert.Equal(t, uint64(6), next)
}
