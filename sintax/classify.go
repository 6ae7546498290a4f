package sintax

import (
	"fmt"
	"strings"

	"github.com/telatin/go-unoise/kmer"
)

// Hit is the classification result for one query: the winning taxonomy's
// rank path, a per-rank confidence in [0,1], and which strand matched.
type Hit struct {
	Ranks       []string
	Confidences []float64
	Strand      byte // '+' or '-'; 0 if the query couldn't be classified
}

// Classify runs SINTAX bootstrap classification of query against ws's
// Index, trying both strands and keeping whichever reached the higher
// per-reference vote count in any bootstrap iteration (forward wins
// ties).
func Classify(ws *Workspace, query string) Hit {
	fwdWords := ws.ex.Unique(query)
	rcWords := ws.ex.UniqueRC(query)

	fwdTax, fwdVotes := ws.classifyStrand(fwdWords)
	rcTax, rcVotes := ws.classifyStrand(rcWords)

	if fwdTax < 0 && rcTax < 0 {
		return Hit{}
	}
	if rcTax >= 0 && rcVotes > fwdVotes {
		return ws.buildHit(rcTax, '-')
	}
	if fwdTax >= 0 {
		return ws.buildHit(fwdTax, '+')
	}
	return ws.buildHit(rcTax, '-')
}

// classifyStrand runs the bootstrap loop for one strand's word set,
// returning the winning uniqTax id (or -1 if unclassifiable) and the
// highest per-reference vote count seen in any iteration (0 if no
// sampled word hit the index).
func (ws *Workspace) classifyStrand(words []kmer.Word) (int32, int) {
	if len(words) < minQueryWords {
		return -1, 0
	}

	lg := newLCG(ws.lcgSeed)
	mw := newMWC(ws.mwcSeed)
	for i := range ws.taxVotes {
		ws.taxVotes[i] = 0
	}

	subset := ws.bootSubset
	if subset > len(words) {
		subset = len(words)
	}

	ties := make([]int32, 0, 8)
	bestSeen := 0
	for iter := 0; iter < ws.bootIters; iter++ {
		ws.resetVotes()
		for s := 0; s < subset; s++ {
			w := words[lg.next()%uint32(len(words))]
			for _, ref := range ws.idx.posting(w) {
				ws.vote(ref)
			}
		}
		for _, t := range ws.touched {
			if int(ws.u[t]) > bestSeen {
				bestSeen = int(ws.u[t])
			}
		}

		winner, ok := ws.pickWinner(mw, &ties)
		if !ok {
			continue
		}
		ws.taxVotes[ws.idx.seqToUniqTaxID[winner]]++
	}

	tax, _ := bestTaxVote(ws.idx, ws.taxVotes)
	if tax < 0 {
		return -1, 0
	}
	return tax, bestSeen
}

// bestTaxVote picks the uniqTax id with the highest vote count in
// taxVotes, breaking ties by the lexicographically smallest full
// taxonomy string (spec.md §4.F step 3: "ties broken by lexicographic
// order of the full taxonomy string").
func bestTaxVote(idx *Index, taxVotes []int) (int32, int) {
	bestTax, bestVotes := int32(-1), -1
	for id, v := range taxVotes {
		switch {
		case v > bestVotes:
			bestTax, bestVotes = int32(id), v
		case v == bestVotes && v > 0 && taxString(idx.uniqTax[id].ranks) < taxString(idx.uniqTax[bestTax].ranks):
			bestTax = int32(id)
		}
	}
	if bestVotes <= 0 {
		return -1, 0
	}
	return bestTax, bestVotes
}

// taxString renders a rank path as the single string lexicographic
// tie-breaking compares against.
func taxString(ranks []string) string {
	return strings.Join(ranks, ";")
}

// pickWinner finds the reference sequence(s) with the highest vote count
// this iteration, breaking ties with mw. If nothing was touched this
// iteration (every sampled word missed the index entirely) it falls back
// to a uniform-random reference, per spec.md's "no posting hits" case.
func (ws *Workspace) pickWinner(mw *mwc, ties *[]int32) (int32, bool) {
	if len(ws.touched) == 0 {
		if ws.idx.numSeqs == 0 {
			return 0, false
		}
		return int32(mw.next() % uint32(ws.idx.numSeqs)), true
	}

	var maxVotes int32
	for _, t := range ws.touched {
		if ws.u[t] > maxVotes {
			maxVotes = ws.u[t]
		}
	}
	*ties = (*ties)[:0]
	for _, t := range ws.touched {
		if ws.u[t] == maxVotes {
			*ties = append(*ties, t)
		}
	}
	if len(*ties) == 1 {
		return (*ties)[0], true
	}
	k := int(mw.next() % uint32(len(*ties)))
	return quickselect(*ties, k), true
}

// buildHit expands winning uniqTax id utid into a Hit, computing each
// rank's confidence as the bootstrap-fraction of votes whose winning
// taxonomy shares that rank's name at that depth, then folding the
// per-depth fractions into a cumulative, non-increasing product so that
// a child rank's confidence never exceeds its parent's.
func (ws *Workspace) buildHit(utid int32, strand byte) Hit {
	tax := ws.idx.uniqTax[utid]
	depth := len(tax.ranks)
	confidences := make([]float64, depth)

	total := 0
	for _, v := range ws.taxVotes {
		total += v
	}
	if total == 0 {
		return Hit{}
	}

	cumulative := 1.0
	for d := 0; d < depth; d++ {
		want := tax.rankIDs[d]
		votesAtDepth := 0
		for id, v := range ws.taxVotes {
			if v == 0 {
				continue
			}
			other := ws.idx.uniqTax[id]
			if d < len(other.rankIDs) && other.rankIDs[d] == want {
				votesAtDepth += v
			}
		}
		frac := float64(votesAtDepth) / float64(total)
		cumulative *= frac
		confidences[d] = cumulative
	}

	ranks := make([]string, depth)
	copy(ranks, tax.ranks)
	return Hit{Ranks: ranks, Confidences: confidences, Strand: strand}
}

// String renders a Hit the way sintax reports taxonomy lines:
// "d:Bacteria(1.00),p:Firmicutes(0.97),...".
func (h Hit) String() string {
	if len(h.Ranks) == 0 {
		return ""
	}
	parts := make([]string, len(h.Ranks))
	for i, r := range h.Ranks {
		parts[i] = fmt.Sprintf("%s(%.2f)", r, h.Confidences[i])
	}
	return strings.Join(parts, ",")
}
