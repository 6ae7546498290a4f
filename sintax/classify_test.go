package sintax

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telatin/go-unoise/kmer"
	"github.com/telatin/go-unoise/seqrecord"
)

const refSeq = "ACGTAGCTAGGCTACCGTAGCATCGATCGTAGCTAGCATGCTAGCATCGGATCGTACGTAGCTGATCGA"

func TestClassifyExactSelfHit(t *testing.T) {
	seqs := []seqrecord.Record{{ID: "r1", Seq: refSeq}}
	tax := [][]string{{"d:Bacteria", "p:Firmicutes", "g:Testus"}}
	idx := Build(seqs, tax)
	ws := NewWorkspace(idx, DefaultBootIters, DefaultBootSubset)

	hit := Classify(ws, refSeq)
	require.Equal(t, byte('+'), hit.Strand)
	assert.Equal(t, []string{"d:Bacteria", "p:Firmicutes", "g:Testus"}, hit.Ranks)
	for _, c := range hit.Confidences {
		assert.GreaterOrEqual(t, c, 0.99)
	}
}

func TestClassifyReverseComplementStrand(t *testing.T) {
	seqs := []seqrecord.Record{{ID: "r1", Seq: refSeq}}
	tax := [][]string{{"d:Bacteria", "p:Firmicutes", "g:Testus"}}
	idx := Build(seqs, tax)
	ws := NewWorkspace(idx, DefaultBootIters, DefaultBootSubset)

	fwd := Classify(ws, refSeq)
	rc := Classify(ws, kmer.ReverseComplement(refSeq))

	require.Equal(t, byte('-'), rc.Strand)
	assert.Equal(t, fwd.Ranks, rc.Ranks)
}

func TestClassifyShortQueryReturnsEmpty(t *testing.T) {
	seqs := []seqrecord.Record{{ID: "r1", Seq: refSeq}}
	tax := [][]string{{"d:Bacteria"}}
	idx := Build(seqs, tax)
	ws := NewWorkspace(idx, DefaultBootIters, DefaultBootSubset)

	hit := Classify(ws, "ACGTA")
	assert.Empty(t, hit.Ranks)
	assert.Equal(t, byte(0), hit.Strand)
}

func TestClassifyFragmentedByAmbiguousBasesReturnsEmpty(t *testing.T) {
	seqs := []seqrecord.Record{{ID: "r1", Seq: refSeq}}
	tax := [][]string{{"d:Bacteria"}}
	idx := Build(seqs, tax)
	ws := NewWorkspace(idx, DefaultBootIters, DefaultBootSubset)

	query := strings.Repeat("ACGTACG"+"N", 6) // every run is 7 bases, never reaches Width=8
	hit := Classify(ws, query)
	assert.Empty(t, hit.Ranks)
}

func TestBestTaxVoteBreaksTiesLexicographically(t *testing.T) {
	seqs := []seqrecord.Record{
		{ID: "r1", Seq: refSeq},
		{ID: "r2", Seq: refSeq},
	}
	tax := [][]string{
		{"d:Bacteria", "g:Zeta"},
		{"d:Bacteria", "g:Alpha"},
	}
	idx := Build(seqs, tax)
	require.Len(t, idx.uniqTax, 2)

	taxVotes := []int{3, 3} // tie between "d:Bacteria;g:Zeta" and "d:Bacteria;g:Alpha"
	utid, votes := bestTaxVote(idx, taxVotes)
	assert.Equal(t, 3, votes)
	assert.Equal(t, "g:Alpha", idx.uniqTax[utid].ranks[len(idx.uniqTax[utid].ranks)-1])
}

func TestClassifyCollapsesDuplicateTaxonomies(t *testing.T) {
	r1 := refSeq
	r2 := "TTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTT"
	r3 := "GGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGG"

	seqs := []seqrecord.Record{
		{ID: "r1", Seq: r1},
		{ID: "r2", Seq: r2},
		{ID: "r3", Seq: r3},
	}
	tax := [][]string{
		{"d:Bacteria", "g:Alpha"},
		{"d:Bacteria", "g:Alpha"},
		{"d:Bacteria", "g:Beta"},
	}
	idx := Build(seqs, tax)
	require.Len(t, idx.uniqTax, 2)
	ws := NewWorkspace(idx, DefaultBootIters, DefaultBootSubset)

	hit := Classify(ws, r1)
	require.NotEmpty(t, hit.Ranks)
	assert.Equal(t, "g:Alpha", hit.Ranks[len(hit.Ranks)-1])
}
