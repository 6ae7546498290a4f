package phix

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeqLenIsExact(t *testing.T) {
	assert.Equal(t, 5386, SeqLen())
}

func TestGenomeSnippetScoresHigh(t *testing.T) {
	ws := NewWorkspace()
	snippet := genomeSeq[1000:1140]
	assert.GreaterOrEqual(t, ws.Score(snippet), 0.7)
	assert.True(t, ws.IsPhix(snippet, 0, 0))
}

func TestUnrelatedSequenceScoresLow(t *testing.T) {
	ws := NewWorkspace()
	snippet := strings.Repeat("AT", 70) // near-zero distinct 8-mers, none expected in the table
	assert.Less(t, ws.Score(snippet), 0.3)
	assert.False(t, ws.IsPhix(snippet, 0, 0))
}

func TestShortStringsAreNeverPhix(t *testing.T) {
	ws := NewWorkspace()
	assert.False(t, ws.IsPhix("ACGTACG", 0.01, 1))
}
