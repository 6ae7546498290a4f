// Package phix implements the PhiX k-mer contamination filter (spec.md
// §4.H): a boolean table, built once at package initialization over
// both strands of the bundled reference sequence, supports a fast
// containment score for flagging spike-in reads before they reach the
// denoiser. The bundled sequence is a synthetic 5,386-base stand-in
// (see genomeSeq), not the real PhiX174 genome.
package phix

import (
	"math"

	"github.com/telatin/go-unoise/kmer"
)

// DefaultMinID is USEARCH's default per-read identity threshold.
const DefaultMinID = 0.97

// DefaultMinKmers is the minimum number of valid 8-mers a read must
// contribute before it can be called PhiX.
const DefaultMinKmers = 8

var table [kmer.NumWords]bool

func init() {
	ex := kmer.NewExtractor()
	for _, w := range ex.Unique(genomeSeq) {
		table[w] = true
	}
	for _, w := range ex.UniqueRC(genomeSeq) {
		table[w] = true
	}
}

// SeqLen returns the length of the bundled reference genome (always
// 5,386 bases).
func SeqLen() int {
	return genomeLen
}

// Workspace holds a reusable k-mer extractor for repeated Score/IsPhix
// calls, matching the per-thread-scratch idiom used across sintax/nbc.
type Workspace struct {
	ex *kmer.Extractor
}

// NewWorkspace returns a ready-to-use Workspace. Not safe for concurrent
// use; one Workspace per goroutine.
func NewWorkspace() *Workspace {
	return &Workspace{ex: kmer.NewExtractor()}
}

// Score returns the fraction of q's valid unique 8-mers present in the
// PhiX table (0 if q contributes no valid 8-mer).
func (ws *Workspace) Score(q string) float64 {
	words := ws.ex.Unique(q)
	if len(words) == 0 {
		return 0
	}
	hits := 0
	for _, w := range words {
		if table[w] {
			hits++
		}
	}
	return float64(hits) / float64(len(words))
}

// IsPhix reports whether q should be called PhiX: it must contribute at
// least minKmers valid 8-mers, and its Score must meet minId^8 (an
// 8-mer-level proxy for per-base identity). minId<=0 and minKmers<=0
// fall back to the package defaults.
func (ws *Workspace) IsPhix(q string, minID float64, minKmers int) bool {
	if minID <= 0 {
		minID = DefaultMinID
	}
	if minKmers <= 0 {
		minKmers = DefaultMinKmers
	}
	words := ws.ex.Unique(q)
	if len(words) < minKmers {
		return false
	}
	hits := 0
	for _, w := range words {
		if table[w] {
			hits++
		}
	}
	score := float64(hits) / float64(len(words))
	return score >= math.Pow(minID, 8)
}
