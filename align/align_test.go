package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countDiffs(path string) int {
	n := 0
	for _, c := range path {
		if c != 'M' {
			n++
		}
	}
	return n
}

func applyPath(query, target, path string) (q, t string) {
	qi, ti := 0, 0
	var qb, tb []byte
	for _, c := range path {
		switch c {
		case 'M':
			qb = append(qb, query[qi])
			tb = append(tb, target[ti])
			qi++
			ti++
		case 'D':
			qb = append(qb, query[qi])
			tb = append(tb, '-')
			qi++
		case 'I':
			qb = append(qb, '-')
			tb = append(tb, target[ti])
			ti++
		}
	}
	return string(qb), string(tb)
}

func TestAlignIdenticalSequences(t *testing.T) {
	a := NewAligner()
	score, path := a.Align("ACGTACGTACGT", "ACGTACGTACGT")
	assert.Equal(t, 0, score)
	assert.Equal(t, "MMMMMMMMMMMM", path)
}

func TestAlignSingleMismatch(t *testing.T) {
	a := NewAligner()
	score, path := a.Align("ACGTACGT", "ACGAACGT")
	assert.Equal(t, 1, score)
	require.Len(t, path, 8)
	assert.Equal(t, 1, countDiffs(path))
}

func TestAlignInsertionDeletion(t *testing.T) {
	a := NewAligner()
	query := "ACGTACGT"
	target := "ACGTTACGT" // one extra base inserted relative to query
	score, path := a.Align(query, target)
	assert.Equal(t, 1, score)
	q, tg := applyPath(query, target, path)
	assert.Equal(t, len(q), len(tg))
}

func TestAlignOverBandReturnsOverflow(t *testing.T) {
	a := NewAlignerWithBand(2)
	score, path := a.Align("AAAA", "AAAAAAAA")
	assert.Equal(t, Overflow, score)
	assert.Empty(t, path)
}

func TestAlignReusesScratchAcrossGrowingInputs(t *testing.T) {
	a := NewAligner()
	short := "ACGT"
	long := ""
	for i := 0; i < 200; i++ {
		long += "ACGT"
	}
	_, _ = a.Align(short, short)
	score, path := a.Align(long, long)
	assert.Equal(t, 0, score)
	assert.Len(t, path, len(long))
}

func TestAlignTieBreakPrefersDiagonal(t *testing.T) {
	a := NewAligner()
	_, path := a.Align("AC", "AC")
	assert.Equal(t, "MM", path)
}
