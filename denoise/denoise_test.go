package denoise

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telatin/go-unoise/seqrecord"
)

func oneEdit(seq string, pos int, base byte) string {
	b := []byte(seq)
	b[pos] = base
	return string(b)
}

func TestDenoiseAbsorptionScenario(t *testing.T) {
	seq1 := strings.Repeat("ACGT", 10) // 40 bases
	seq2 := strings.Repeat("TGCA", 10) // 40 bases, far from seq1

	records := []seqrecord.Record{
		{ID: "a", Seq: seq1, Size: 80},
		{ID: "b", Seq: oneEdit(seq1, 5, 'T'), Size: 10},
		{ID: "c", Seq: seq2, Size: 9},
		{ID: "d", Seq: oneEdit(seq2, 5, 'A'), Size: 7},
	}

	centroids := Denoise(records, 2.0, 8)
	require.Len(t, centroids, 2)
	assert.Equal(t, "a", centroids[0].Seq.ID)
	assert.Equal(t, 90, centroids[0].TotalSize)
	assert.Equal(t, "c", centroids[1].Seq.ID)
	assert.Equal(t, 9, centroids[1].TotalSize)
}

func TestDenoiseEmptyInput(t *testing.T) {
	centroids := Denoise(nil, 2.0, 8)
	assert.Empty(t, centroids)
}

func TestDenoiseAllBelowMinsize(t *testing.T) {
	records := []seqrecord.Record{
		{ID: "a", Seq: "ACGTACGTACGT", Size: 3},
		{ID: "b", Seq: "ACGTACGTACGA", Size: 2},
	}
	centroids := Denoise(records, 2.0, 8)
	assert.Empty(t, centroids)
}

func TestDenoiseSortedByTotalSizeDescending(t *testing.T) {
	records := []seqrecord.Record{
		{ID: "x", Seq: strings.Repeat("AAAA", 10), Size: 20},
		{ID: "y", Seq: strings.Repeat("CCCC", 10), Size: 50},
		{ID: "z", Seq: strings.Repeat("GGGG", 10), Size: 30},
	}
	centroids := Denoise(records, 2.0, 10)
	require.Len(t, centroids, 3)
	assert.True(t, centroids[0].TotalSize >= centroids[1].TotalSize)
	assert.True(t, centroids[1].TotalSize >= centroids[2].TotalSize)
}
