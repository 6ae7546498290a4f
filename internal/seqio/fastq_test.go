package seqio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoReads = `@read1
ACGTACGTACGT
+
IIIIIIIIIIII
@read2
TTTTGGGGCCCC
+
EEEEEEEEEEEE
`

func TestFastqScannerReadsAllFields(t *testing.T) {
	sc := NewFastqScanner(strings.NewReader(twoReads))
	var rec FastqRecord
	require.True(t, sc.Scan(&rec))
	assert.Equal(t, FastqRecord{ID: "read1", Seq: "ACGTACGTACGT", Sep: "+", Qual: "IIIIIIIIIIII"}, rec)

	require.True(t, sc.Scan(&rec))
	assert.Equal(t, "read2", rec.ID)
	assert.Equal(t, "TTTTGGGGCCCC", rec.Seq)
	assert.Equal(t, "EEEEEEEEEEEE", rec.Qual)

	require.False(t, sc.Scan(&rec))
	assert.NoError(t, sc.Err())
}

func TestFastqScannerRejectsMalformedHeader(t *testing.T) {
	sc := NewFastqScanner(strings.NewReader("not-a-header\nACGT\n+\nIIII\n"))
	var rec FastqRecord
	assert.False(t, sc.Scan(&rec))
	assert.Equal(t, ErrMalformedRecord, sc.Err())
}

func TestFastqScannerRejectsTruncatedRecord(t *testing.T) {
	sc := NewFastqScanner(strings.NewReader("@read1\nACGT\n"))
	var rec FastqRecord
	assert.False(t, sc.Scan(&rec))
	assert.Equal(t, ErrTruncatedRecord, sc.Err())
}

func TestPairedFastqScannerMatchesReads(t *testing.T) {
	r1 := "@read1\nAAAA\n+\nIIII\n"
	r2 := "@read1\nTTTT\n+\nIIII\n"
	pair := NewPairedFastqScanner(strings.NewReader(r1), strings.NewReader(r2))
	var rec1, rec2 FastqRecord
	require.True(t, pair.Scan(&rec1, &rec2))
	assert.Equal(t, "AAAA", rec1.Seq)
	assert.Equal(t, "TTTT", rec2.Seq)
	require.False(t, pair.Scan(&rec1, &rec2))
	assert.NoError(t, pair.Err())
}

func TestPairedFastqScannerDetectsDiscordance(t *testing.T) {
	r1 := "@read1\nAAAA\n+\nIIII\n@read2\nCCCC\n+\nIIII\n"
	r2 := "@read1\nTTTT\n+\nIIII\n"
	pair := NewPairedFastqScanner(strings.NewReader(r1), strings.NewReader(r2))
	var rec1, rec2 FastqRecord
	require.True(t, pair.Scan(&rec1, &rec2))
	require.False(t, pair.Scan(&rec1, &rec2))
	assert.Equal(t, ErrDiscordantPair, pair.Err())
}

func TestFastqReaderDiscardsQuality(t *testing.T) {
	r := NewFastqReader(strings.NewReader(twoReads))
	require.True(t, r.Scan())
	id, seq := r.Record()
	assert.Equal(t, "read1", id)
	assert.Equal(t, "ACGTACGTACGT", seq)
}
