package sintax

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
		{"d:Bacteria", "g:Alpha"},
		{"d:Bacteria", "g:Beta"},
	}
	idx := Build(seqs, tax)

	var buf bytes.Buffer
	_, err := idx.WriteTo(&buf)
	require.NoError(t, err)

	got, err := ReadFrom(&buf)
	require.NoError(t, err)

	assert.Equal(t, idx.numSeqs, got.numSeqs)
	assert.Equal(t, idx.seqToUniqTaxID, got.seqToUniqTaxID)
	assert.Equal(t, idx.uniqTax, got.uniqTax)
	assert.Equal(t, idx.starts, got.starts)
	assert.Equal(t, idx.lens, got.lens)
	assert.Equal(t, idx.postingData, got.postingData)
}
