// Package denoise implements the UNOISE3 greedy abundance-ordered
// clustering algorithm (spec.md §4.D): PCR/sequencing errors are
// collapsed into their higher-abundance centroid using a banded edit
// distance oracle with a skew-derived threshold.
package denoise

import (
	"math"
	"sort"

	"github.com/grailbio/base/log"
	"github.com/telatin/go-unoise/align"
	"github.com/telatin/go-unoise/seqrecord"
)

// DefaultAlpha is UNOISE3's default skew-to-distance slope.
const DefaultAlpha = 2.0

// Denoise greedily clusters records into ZOTU centroids. Records are
// processed in descending-size order; a record is absorbed into the
// most similar existing centroid whose abundance is at least 2x its own
// (the UNOISE3 skew precondition), within an edit-distance bound derived
// from the abundance skew. Records smaller than minsize are dropped
// without seeding a centroid of their own. The returned slice is sorted
// by TotalSize descending.
func Denoise(records []seqrecord.Record, alpha float64, minsize int) []seqrecord.Centroid {
	if alpha <= 0 {
		alpha = DefaultAlpha
	}
	sorted := make([]seqrecord.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Size > sorted[j].Size
	})

	var centroids []seqrecord.Centroid
	for _, query := range sorted {
		if query.Size < minsize {
			break
		}

		best := -1
		bestDiff := math.MaxInt32
		for i := range centroids {
			c := &centroids[i]
			if c.Seq.Size < 2*query.Size {
				break
			}
			skew := float64(c.Seq.Size) / float64(query.Size)
			maxDiff := int(math.Floor((math.Log2(skew) - 1) / alpha))
			if maxDiff < 0 {
				continue
			}
			if abs(len(query.Seq)-len(c.Seq.Seq)) > maxDiff {
				continue
			}
			diff := align.EditDistance(query.Seq, c.Seq.Seq, maxDiff)
			if diff <= maxDiff && diff < bestDiff {
				best, bestDiff = i, diff
			}
			if bestDiff <= 1 {
				break
			}
		}

		if best >= 0 {
			centroids[best].TotalSize += query.Size
		} else {
			centroids = append(centroids, seqrecord.Centroid{Seq: query, TotalSize: query.Size})
		}
	}

	sort.SliceStable(centroids, func(i, j int) bool {
		return centroids[i].TotalSize > centroids[j].TotalSize
	})
	log.Printf("denoise: %d input records -> %d centroids", len(records), len(centroids))
	return centroids
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
