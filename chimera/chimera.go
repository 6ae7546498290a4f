// Package chimera implements the UCHIME2 positional-crossover chimera
// detector (spec.md §4.E): each candidate ZOTU is banded-aligned against
// higher-abundance candidates, and a left/right diff-scan flags PCR
// chimeras whose 5' half matches one parent and whose 3' half matches a
// different parent.
package chimera

import (
	"math"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/telatin/go-unoise/align"
	"github.com/telatin/go-unoise/seqrecord"
)

// DefaultMinAbSkew is UCHIME2's default parent/child abundance ratio
// cutoff.
const DefaultMinAbSkew = 16.0

// chunkSize is the number of queries dispatched per parallel round-trip.
const chunkSize = 32

// Detect flags which of the (abundance-descending) centroids are PCR
// chimeras of higher-abundance centroids.
//
// threads == 1 runs sequentially using the evolving chimera-flag array
// (parents already marked chimeric are skipped as candidate parents),
// closest to USEARCH's de-novo behavior. threads == 0 or > 1 runs in
// parallel with queries evaluated independently of each other's flags,
// so that chunked dispatch is deterministic regardless of thread count.
func Detect(centroids []seqrecord.Centroid, minAbSkew float64, threads int) []bool {
	return DetectMasked(centroids, minAbSkew, threads, nil)
}

// DetectMasked is Detect with an optional Mask excluding primer-trimmed
// query coordinate ranges from the diff scan.
func DetectMasked(centroids []seqrecord.Centroid, minAbSkew float64, threads int, mask *Mask) []bool {
	return DetectCached(centroids, minAbSkew, threads, mask, nil)
}

// DetectCached is DetectMasked with an optional AlignCache, letting a
// driver that sweeps several minAbSkew thresholds over the same ZOTU set
// skip re-aligning pairs it has already scanned.
func DetectCached(centroids []seqrecord.Centroid, minAbSkew float64, threads int, mask *Mask, cache *AlignCache) []bool {
	if minAbSkew <= 0 {
		minAbSkew = DefaultMinAbSkew
	}
	flags := make([]bool, len(centroids))
	if len(centroids) == 0 {
		return flags
	}

	if threads == 1 {
		aligner := align.NewAligner()
		for i := range centroids {
			flags[i] = evaluate(i, centroids, flags, minAbSkew, aligner, mask, cache, true)
		}
		log.Printf("chimera: sequential scan flagged %d/%d centroids", countTrue(flags), len(centroids))
		return flags
	}

	n := len(centroids)
	numChunks := (n + chunkSize - 1) / chunkSize
	runFn := func(chunkIdx int) error {
		aligner := align.NewAligner()
		start := chunkIdx * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		for i := start; i < end; i++ {
			flags[i] = evaluate(i, centroids, flags, minAbSkew, aligner, mask, cache, false)
		}
		return nil
	}

	var err error
	if threads > 1 {
		err = traverse.Limit(threads).Each(numChunks, runFn)
	} else {
		err = traverse.Each(numChunks, runFn)
	}
	if err != nil {
		log.Error.Printf("chimera: parallel scan error: %v", err)
	}
	log.Printf("chimera: parallel scan flagged %d/%d centroids", countTrue(flags), len(centroids))
	return flags
}

func countTrue(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

type scanState struct {
	posBestL0, posBestL1 int
	bestL0, bestL1       int
	posBestR0, posBestR1 int
	bestR0, bestR1       int
	bestParentDiffs      int
	exactMatch           bool
	sawParent            bool
}

func evaluate(i int, centroids []seqrecord.Centroid, flags []bool, minAbSkew float64, aligner *align.Aligner, mask *Mask, cache *AlignCache, sequential bool) bool {
	query := centroids[i].Seq.Seq
	lenQ := len(query)
	threshold := int(math.Ceil(float64(centroids[i].TotalSize) * minAbSkew))

	st := scanState{
		bestL0: -1, bestL1: -1,
		bestR0: -1, bestR1: -1,
		posBestR0: lenQ + 1, posBestR1: lenQ + 1,
		bestParentDiffs: math.MaxInt32,
	}

	for j := 0; j < i; j++ {
		if centroids[j].TotalSize < threshold {
			break
		}
		if sequential && flags[j] {
			continue
		}
		target := centroids[j].Seq.Seq

		var diffCount, pos0L, pos1L, pos0R, pos1R int
		if cached, ok := cache.lookup(query, target); ok {
			if cached.overflow {
				continue
			}
			diffCount, pos0L, pos1L = cached.diffCount, cached.pos0L, cached.pos1L
			pos0R, pos1R = cached.pos0R, cached.pos1R
		} else {
			score, path := aligner.Align(query, target)
			if score == align.Overflow {
				cache.store(query, target, pairDiff{overflow: true})
				continue
			}
			diffCount, pos0L, pos1L = leftDiffs(path, query, target, mask)
			_, pos0R, pos1R = rightDiffs(path, query, target, mask)
			cache.store(query, target, pairDiff{diffCount: diffCount, pos0L: pos0L, pos1L: pos1L, pos0R: pos0R, pos1R: pos1R})
		}

		if diffCount == 0 {
			st.exactMatch = true
			break
		}
		st.sawParent = true
		if diffCount < st.bestParentDiffs {
			st.bestParentDiffs = diffCount
		}
		if pos0L > st.posBestL0 {
			st.posBestL0, st.bestL0 = pos0L, j
		}
		if pos1L > st.posBestL1 {
			st.posBestL1, st.bestL1 = pos1L, j
		}
		if pos0R < st.posBestR0 {
			st.posBestR0, st.bestR0 = pos0R, j
		}
		if pos1R < st.posBestR1 {
			st.posBestR1, st.bestR1 = pos1R, j
		}
	}

	if st.exactMatch || !st.sawParent {
		return false
	}

	cond1 := st.posBestL0 > 2 && st.posBestR0 != lenQ+1 && st.posBestL0+1 >= st.posBestR0 && st.bestL0 != st.bestR0
	cond2 := st.bestParentDiffs > 4 && st.posBestL1 > 2 && st.posBestR0 != lenQ+1 && st.posBestL1+1 >= st.posBestR0 && st.bestL1 != st.bestR0
	cond3 := st.posBestL0 > 2 && st.posBestR1 != lenQ+1 && st.posBestL0+1 >= st.posBestR1 && st.bestL0 != st.bestR1
	return cond1 || cond2 || cond3
}

// leftDiffs walks path left to right, returning the total diff count and
// the query positions of the first and second diffs (0 if absent).
// 'M' is a diff iff it's a mismatch; 'D' and 'I' are always diffs
// (spec.md's deliberately-simpler rule: 'I' counts even in flanking
// regions, see Open Question in spec.md §9).
func leftDiffs(path, query, target string, mask *Mask) (diffCount, pos0, pos1 int) {
	qi, ti := 0, 0
	for k := 0; k < len(path); k++ {
		var isDiff bool
		switch path[k] {
		case 'M':
			isDiff = query[qi] != target[ti]
			qi++
			ti++
		case 'D':
			isDiff = true
			qi++
		case 'I':
			isDiff = true
			ti++
		}
		if isDiff && !mask.contains(qi-1) {
			diffCount++
			switch diffCount {
			case 1:
				pos0 = qi
			case 2:
				pos1 = qi
			}
		}
	}
	return diffCount, pos0, pos1
}

// rightDiffs walks path right to left, mirroring leftDiffs.
func rightDiffs(path, query, target string, mask *Mask) (diffCount, pos0, pos1 int) {
	qi, ti := len(query), len(target)
	for k := len(path) - 1; k >= 0; k-- {
		var isDiff bool
		switch path[k] {
		case 'M':
			qi--
			ti--
			isDiff = query[qi] != target[ti]
		case 'D':
			qi--
			isDiff = true
		case 'I':
			ti--
			isDiff = true
		}
		if isDiff && !mask.contains(qi) {
			diffCount++
			switch diffCount {
			case 1:
				pos0 = qi + 1
			case 2:
				pos1 = qi + 1
			}
		}
	}
	return diffCount, pos0, pos1
}
