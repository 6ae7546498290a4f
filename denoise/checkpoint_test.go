package denoise

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telatin/go-unoise/seqrecord"
)

func TestSaveLoadCentroidsRoundTrip(t *testing.T) {
	centroids := []seqrecord.Centroid{
		{Seq: seqrecord.Record{ID: "Zotu1", Seq: "ACGTACGT", Size: 100}, TotalSize: 120},
		{Seq: seqrecord.Record{ID: "Zotu2", Seq: "TTTTACGT", Size: 30}, TotalSize: 30},
	}

	var buf bytes.Buffer
	require.NoError(t, SaveCentroids(&buf, centroids))

	got, err := LoadCentroids(&buf)
	require.NoError(t, err)
	assert.Equal(t, centroids, got)
}
