package nbc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telatin/go-unoise/seqrecord"
)

func TestIndexWriteToReadFromRoundTrip(t *testing.T) {
	seqs := []seqrecord.Record{
		{ID: "r1", Seq: refSeq},
		{ID: "r2", Seq: "TTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTT"},
	}
	tax := [][]string{
		{"d:Bacteria", "p:Firmicutes"},
		{"d:Bacteria", "p:Proteobacteria"},
	}
	idx := Build(seqs, tax)

	var buf bytes.Buffer
	_, err := idx.WriteTo(&buf)
	require.NoError(t, err)

	got, err := ReadFrom(&buf)
	require.NoError(t, err)

	require.Len(t, got.nodes, len(idx.nodes))
	for i := range idx.nodes {
		assert.Equal(t, idx.nodes[i].name, got.nodes[i].name)
		assert.Equal(t, idx.nodes[i].parent, got.nodes[i].parent)
		assert.Equal(t, idx.nodes[i].seqCount, got.nodes[i].seqCount)
		assert.Equal(t, idx.nodes[i].wordCounts, got.nodes[i].wordCounts)
	}
}
