package sintax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telatin/go-unoise/kmer"
	"github.com/telatin/go-unoise/seqrecord"
)

func TestBuildDedupesIdenticalTaxonomies(t *testing.T) {
	seqs := []seqrecord.Record{
		{ID: "r1", Seq: "ACGTACGTACGTACGTACGT"},
		{ID: "r2", Seq: "TTTTACGTACGTACGTACGT"},
		{ID: "r3", Seq: "GGGGACGTACGTACGTACGT"},
	}
	tax := [][]string{
		{"d:Bacteria", "g:Alpha"},
		{"d:Bacteria", "g:Alpha"},
		{"d:Bacteria", "g:Beta"},
	}
	idx := Build(seqs, tax)
	require.Equal(t, 3, idx.numSeqs)
	assert.Len(t, idx.uniqTax, 2, "identical taxonomies should collapse to one row")
	assert.Equal(t, idx.seqToUniqTaxID[0], idx.seqToUniqTaxID[1])
	assert.NotEqual(t, idx.seqToUniqTaxID[0], idx.seqToUniqTaxID[2])
}

func TestBuildTruncatesToShorterSlice(t *testing.T) {
	seqs := []seqrecord.Record{
		{ID: "r1", Seq: "ACGTACGTACGTACGTACGT"},
		{ID: "r2", Seq: "TTTTACGTACGTACGTACGT"},
	}
	tax := [][]string{{"d:Bacteria"}}
	idx := Build(seqs, tax)
	assert.Equal(t, 1, idx.numSeqs)
}

func TestBuildSkipsEmptyTaxonomy(t *testing.T) {
	seqs := []seqrecord.Record{
		{ID: "r1", Seq: "ACGTACGTACGTACGTACGT"},
		{ID: "r2", Seq: "TTTTACGTACGTACGTACGT"},
	}
	tax := [][]string{
		{},
		{"d:Bacteria"},
	}
	idx := Build(seqs, tax)
	assert.Equal(t, 1, idx.numSeqs)
}

func TestPostingListsFindKnownWord(t *testing.T) {
	seqs := []seqrecord.Record{{ID: "r1", Seq: "ACGTACGTACGTACGTACGT"}}
	tax := [][]string{{"d:Bacteria"}}
	idx := Build(seqs, tax)

	ex := kmer.NewExtractor()
	words := ex.Unique(seqs[0].Seq)
	require.NotEmpty(t, words)
	hits := idx.posting(words[0])
	assert.Contains(t, hits, int32(0))
}
