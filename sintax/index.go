// Package sintax implements the SINTAX non-Bayesian classifier (spec.md
// §4.F): an 8-mer posting-list index over a reference database plus
// bootstrap resampling for fast per-rank taxonomy confidences.
package sintax

import (
	"strings"

	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/log"

	"github.com/telatin/go-unoise/kmer"
	"github.com/telatin/go-unoise/seqrecord"
)

// uniqueTax is one row of the deduplicated taxonomy table: an ordered
// rank path plus its interned rank-name ids (one per depth), used for
// the rank-id equality test in confidence scoring.
type uniqueTax struct {
	ranks   []string
	rankIDs []int32
}

// Index is an immutable, build-once SINTAX reference index. It is safe
// for concurrent read access by multiple Workspaces.
type Index struct {
	numSeqs        int
	seqToUniqTaxID []int32
	uniqTax        []uniqueTax

	starts      []int32 // len kmer.NumWords
	lens        []int32 // len kmer.NumWords
	postingData []int32

	rankNameID map[string]int32
}

// Build constructs a SINTAX index from parallel seqs/taxStrings slices.
// If the slices differ in length, the longer is truncated (spec.md §7:
// index inconsistency never aborts). References with an empty rank list
// are skipped entirely (they cannot contribute a usable vote).
func Build(seqs []seqrecord.Record, taxStrings [][]string) *Index {
	n := len(seqs)
	if len(taxStrings) < n {
		n = len(taxStrings)
	}

	idx := &Index{rankNameID: map[string]int32{}}
	ex := kmer.NewExtractor()
	uniqTaxByHash := map[uint64][]int32{}

	type entry struct {
		words     []kmer.Word
		uniqTaxID int32
	}
	entries := make([]entry, 0, n)

	for i := 0; i < n; i++ {
		ranks := taxStrings[i]
		if len(ranks) == 0 {
			continue
		}
		words := ex.Unique(seqs[i].Seq)
		utid := idx.internTax(ranks, uniqTaxByHash)
		entries = append(entries, entry{words: words, uniqTaxID: utid})
	}

	var counts [kmer.NumWords]int32
	for _, e := range entries {
		for _, w := range e.words {
			counts[w]++
		}
	}

	idx.starts = make([]int32, kmer.NumWords)
	idx.lens = make([]int32, kmer.NumWords)
	var total int32
	for w := 0; w < kmer.NumWords; w++ {
		idx.starts[w] = total
		idx.lens[w] = counts[w]
		total += counts[w]
	}

	idx.postingData = make([]int32, total)
	fillPos := make([]int32, kmer.NumWords)
	copy(fillPos, idx.starts)

	idx.numSeqs = len(entries)
	idx.seqToUniqTaxID = make([]int32, len(entries))
	for i, e := range entries {
		idx.seqToUniqTaxID[i] = e.uniqTaxID
		for _, w := range e.words {
			p := fillPos[w]
			idx.postingData[p] = int32(i)
			fillPos[w]++
		}
	}

	log.Printf("sintax: built index over %d/%d references, %d unique taxonomies", len(entries), len(seqs), len(idx.uniqTax))
	return idx
}

// internTax deduplicates a taxonomy rank path, using a farmhash of the
// joined rank path as a fast pre-check before falling back to full
// slice comparison on hash collision (the same hash-then-verify shape
// fusion/kmer_index.go uses for its kmer->shard bucket lookups).
func (idx *Index) internTax(ranks []string, byHash map[uint64][]int32) int32 {
	h := hashRanks(ranks)
	for _, cand := range byHash[h] {
		if equalRanks(idx.uniqTax[cand].ranks, ranks) {
			return cand
		}
	}
	rankIDs := make([]int32, len(ranks))
	for d, r := range ranks {
		rankIDs[d] = idx.internRankName(r)
	}
	utid := int32(len(idx.uniqTax))
	idx.uniqTax = append(idx.uniqTax, uniqueTax{ranks: ranks, rankIDs: rankIDs})
	byHash[h] = append(byHash[h], utid)
	return utid
}

func hashRanks(ranks []string) uint64 {
	return farm.Hash64WithSeed([]byte(strings.Join(ranks, "\x1f")), 0)
}

func equalRanks(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (idx *Index) internRankName(name string) int32 {
	if id, ok := idx.rankNameID[name]; ok {
		return id
	}
	id := int32(len(idx.rankNameID))
	idx.rankNameID[name] = id
	return id
}

func (idx *Index) posting(w kmer.Word) []int32 {
	s := idx.starts[w]
	l := idx.lens[w]
	return idx.postingData[s : s+l]
}
