package refdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePassesThroughLocalPaths(t *testing.T) {
	local, temp, err := Resolve("/data/refs/16s.fasta")
	require.NoError(t, err)
	assert.Equal(t, "/data/refs/16s.fasta", local)
	assert.Empty(t, temp)
}
