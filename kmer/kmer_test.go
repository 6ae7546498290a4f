package kmer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	for _, ch := range []byte{'A', 'a', 'C', 'c', 'G', 'g', 'T', 't', 'U', 'u'} {
		_, ok := Encode(ch)
		assert.True(t, ok, "expected %q to be a valid base", ch)
	}
	for _, ch := range []byte{'N', 'n', '-', ' ', 'R', 'Y'} {
		_, ok := Encode(ch)
		assert.False(t, ok, "expected %q to be ambiguous", ch)
	}
}

func TestReverseComplementInvolution(t *testing.T) {
	for _, seq := range []string{"ACGT", "AAAACCCCGGGGTTTT", "acgtACGT", "A"} {
		rc := ReverseComplement(seq)
		assert.Equal(t, seq, ReverseComplement(rc))
	}
}

func TestReverseComplementFlipsCase(t *testing.T) {
	assert.Equal(t, "acgt", ReverseComplement("ACGT"))
	assert.Equal(t, "ACGT", ReverseComplement("acgt"))
}

func TestUniqueResetsOnAmbiguous(t *testing.T) {
	e := NewExtractor()
	// "N" every 7 bases means no 8-mer ever accumulates.
	words := e.Unique("ACGTACGNACGTACG")
	assert.Empty(t, words)
}

func TestUniqueEmitsOncePerSequence(t *testing.T) {
	e := NewExtractor()
	words := e.Unique("AAAAAAAAAAAAAAAA") // 16 As -> 9 positions, all same word
	require.Len(t, words, 1)
}

func TestUniqueRCMatchesExplicitRC(t *testing.T) {
	e1 := NewExtractor()
	e2 := NewExtractor()
	seq := "ACGTTGCAACGTTGCACCGGT"
	direct := e1.Unique(ReverseComplement(seq))
	viaRC := e2.UniqueRC(seq)
	assert.ElementsMatch(t, direct, viaRC)
}

func TestExtractorMarkWraparound(t *testing.T) {
	e := NewExtractor()
	e.mark = ^uint32(0) - 1
	for i := 0; i < 5; i++ {
		words := e.Unique("ACGTACGTACGT")
		assert.NotEmpty(t, words)
	}
}
