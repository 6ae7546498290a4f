package nbc

import (
	"math"

	"github.com/telatin/go-unoise/kmer"
)

// DefaultBootIters is the number of bootstrap resampling rounds per
// query strand (spec.md §4.G step 3).
const DefaultBootIters = 100

// DefaultMinWords is the floor on the bootstrap word-subset size
// (spec.md §4.G: `max(minWords, |words|/8)`).
const DefaultMinWords = 8

// Hit is the classification result for one query.
type Hit struct {
	Ranks       []string
	Confidences []float64
	Strand      byte // '+' or '-'; 0 if unclassified
}

// Workspace holds per-goroutine scratch for repeated Classify calls
// against the same Index.
type Workspace struct {
	idx *Index

	bootIters int
	minWords  int
	lcgSeed   uint32
}

// NewWorkspace allocates a Workspace for idx. bootIters/minWords of 0
// fall back to package defaults.
func NewWorkspace(idx *Index, bootIters, minWords int) *Workspace {
	if bootIters <= 0 {
		bootIters = DefaultBootIters
	}
	if minWords <= 0 {
		minWords = DefaultMinWords
	}
	return &Workspace{idx: idx, bootIters: bootIters, minWords: minWords, lcgSeed: 1}
}

type descentResult struct {
	path  []int32
	score float64
}

// Classify runs deterministic descent plus bootstrap agreement on both
// strands, picking the winner by depth then score then forward-wins-ties
// (spec.md §4.G).
func Classify(ws *Workspace, query string, ex *kmer.Extractor) Hit {
	fwdWords := ex.Unique(query)
	rcSeq := kmer.ReverseComplement(query)
	rcWords := ex.Unique(rcSeq)

	fwd := ws.descend(fwdWords)
	rc := ws.descend(rcWords)

	strand := byte('+')
	winner := fwd
	winWords := fwdWords
	switch {
	case len(rc.path) > len(fwd.path):
		strand, winner, winWords = '-', rc, rcWords
	case len(rc.path) == len(fwd.path) && rc.score > fwd.score:
		strand, winner, winWords = '-', rc, rcWords
	}

	if len(winner.path) == 0 {
		return Hit{}
	}

	agree := ws.bootstrap(winWords, winner.path)
	ranks := make([]string, len(winner.path))
	confidences := make([]float64, len(winner.path))
	for d, nid := range winner.path {
		ranks[d] = ws.idx.nodes[nid].name
		confidences[d] = float64(agree[d]) / float64(ws.bootIters)
	}
	return Hit{Ranks: ranks, Confidences: confidences, Strand: strand}
}

// descend performs the deterministic top-down walk: at each level pick
// the child maximizing log-prior + Σ log((wordCount(w)+1)/(seqCount+2)),
// ties broken by first-child insertion order.
func (idx *Index) descend(words []kmer.Word) descentResult {
	if len(words) == 0 {
		return descentResult{score: math.Inf(-1)}
	}
	var path []int32
	total := 0.0
	cur := rootID
	for {
		children := idx.nodes[cur].children
		if len(children) == 0 {
			break
		}
		best, bestScore := children[0], math.Inf(-1)
		siblingTotal, siblingCount := 0, len(children)
		for _, c := range children {
			siblingTotal += idx.nodes[c].seqCount
		}
		for _, c := range children {
			s := nodeScore(idx.nodes[c], words, siblingTotal, siblingCount)
			if s > bestScore {
				best, bestScore = c, s
			}
		}
		path = append(path, best)
		total += bestScore
		cur = best
	}
	return descentResult{path: path, score: total}
}

func (ws *Workspace) descend(words []kmer.Word) descentResult {
	return ws.idx.descend(words)
}

func nodeScore(n node, words []kmer.Word, siblingTotal, siblingCount int) float64 {
	prior := float64(n.seqCount+1) / float64(siblingTotal+siblingCount)
	score := math.Log(prior)
	denom := float64(n.seqCount + 2)
	for _, w := range words {
		score += math.Log((float64(n.wordCounts[w]) + 1) / denom)
	}
	return score
}

// bootstrap resamples words bootIters times, re-descending with a
// randomized tie-break, and tallies per-depth agreement against path
// using the monotone consensus rule: once a depth disagrees, no deeper
// depth can count as agreeing.
func (ws *Workspace) bootstrap(words []kmer.Word, path []int32) []int {
	agree := make([]int, len(path))
	if len(words) == 0 {
		return agree
	}
	subset := ws.minWords
	if s := len(words) / 8; s > subset {
		subset = s
	}
	if subset > len(words) {
		subset = len(words)
	}

	lg := newLCG(ws.lcgSeed)
	sample := make([]kmer.Word, subset)
	for iter := 0; iter < ws.bootIters; iter++ {
		for s := 0; s < subset; s++ {
			sample[s] = words[lg.next()%uint32(len(words))]
		}
		bootPath := ws.idx.descendRandomTie(sample, lg)
		for d := 0; d < len(path); d++ {
			if d >= len(bootPath) || bootPath[d] != path[d] {
				break
			}
			agree[d]++
		}
	}
	return agree
}

// descendRandomTie mirrors descend but breaks ties uniformly at random
// via lg rather than taking the first child (spec.md §4.G step 3).
func (idx *Index) descendRandomTie(words []kmer.Word, lg *lcg) []int32 {
	var path []int32
	cur := rootID
	ties := make([]int32, 0, 4)
	for {
		children := idx.nodes[cur].children
		if len(children) == 0 {
			break
		}
		siblingTotal, siblingCount := 0, len(children)
		for _, c := range children {
			siblingTotal += idx.nodes[c].seqCount
		}
		bestScore := math.Inf(-1)
		ties = ties[:0]
		for _, c := range children {
			s := nodeScore(idx.nodes[c], words, siblingTotal, siblingCount)
			switch {
			case s > bestScore:
				bestScore = s
				ties = ties[:0]
				ties = append(ties, c)
			case s == bestScore:
				ties = append(ties, c)
			}
		}
		chosen := ties[0]
		if len(ties) > 1 {
			chosen = ties[lg.next()%uint32(len(ties))]
		}
		path = append(path, chosen)
		cur = chosen
	}
	return path
}
