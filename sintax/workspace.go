package sintax

import "github.com/telatin/go-unoise/kmer"

// DefaultBootIters is the number of bootstrap resampling rounds per
// query strand (spec.md §4.F step 2).
const DefaultBootIters = 100

// DefaultBootSubset is the number of unique 8-mer words drawn with
// replacement per bootstrap iteration. spec.md §4.F does not pin a
// numeric default; 32 matches USEARCH's typical word-subsample size for
// short amplicon queries.
const DefaultBootSubset = 32

// minQueryWords is the fewest unique 8-mer words a query needs before a
// strand can be classified at all (spec.md §4.F edge case: too-short or
// too-ambiguous queries return an empty Hit).
const minQueryWords = 8

// Workspace holds per-goroutine scratch reused across Classify calls
// against the same Index, using a lazy-clear "touched" list (in the same
// spirit as kmer.Extractor's mark-stamped seen array) rather than zeroing
// full-sized vote vectors every call.
type Workspace struct {
	idx *Index
	ex  *kmer.Extractor

	u       []int32 // per-reference-sequence vote accumulator, len idx.numSeqs
	touched []int32 // indices into u touched this iteration, for lazy reset

	taxVotes []int // per-uniqTax vote accumulator, len len(idx.uniqTax)

	bootIters  int
	bootSubset int

	lcgSeed uint32
	mwcSeed uint32
}

// NewWorkspace allocates scratch sized for idx. bootIters/bootSubset of
// 0 fall back to the package defaults.
func NewWorkspace(idx *Index, bootIters, bootSubset int) *Workspace {
	if bootIters <= 0 {
		bootIters = DefaultBootIters
	}
	if bootSubset <= 0 {
		bootSubset = DefaultBootSubset
	}
	return &Workspace{
		idx:        idx,
		ex:         kmer.NewExtractor(),
		u:          make([]int32, idx.numSeqs),
		taxVotes:   make([]int, len(idx.uniqTax)),
		bootIters:  bootIters,
		bootSubset: bootSubset,
		lcgSeed:    1,
		mwcSeed:    1,
	}
}

func (ws *Workspace) resetVotes() {
	for _, t := range ws.touched {
		ws.u[t] = 0
	}
	ws.touched = ws.touched[:0]
}

func (ws *Workspace) vote(seqIdx int32) {
	if ws.u[seqIdx] == 0 {
		ws.touched = append(ws.touched, seqIdx)
	}
	ws.u[seqIdx]++
}
