// Package nbc implements the NBC (Naive Bayesian Classifier) over a
// taxonomy tree (spec.md §4.G): per-rank word-count statistics support a
// deterministic log-likelihood descent, and a bootstrap resampling pass
// over the same descent yields per-rank agreement confidences.
package nbc

import (
	"github.com/grailbio/base/log"

	"github.com/telatin/go-unoise/kmer"
	"github.com/telatin/go-unoise/seqrecord"
)

// node is one rank in the taxonomy tree. Sequences sharing a rank path
// share every node along it; wordCounts accumulates the unique-word
// occurrence counts of every reference sequence passing through.
type node struct {
	name       string
	parent     int32
	depth      int
	children   []int32
	childIndex map[string]int32
	seqCount   int
	wordCounts map[kmer.Word]int32
}

// Index is an immutable, build-once NBC taxonomy tree. Safe for
// concurrent read access by multiple Workspaces.
type Index struct {
	nodes []node // nodes[0] is the implicit root
}

const rootID = int32(0)

// Build constructs an Index from parallel seqs/taxStrings slices,
// truncating to the shorter (spec.md §7) and skipping references with
// an empty rank list.
func Build(seqs []seqrecord.Record, taxStrings [][]string) *Index {
	n := len(seqs)
	if len(taxStrings) < n {
		n = len(taxStrings)
	}

	idx := &Index{nodes: []node{{name: "", parent: -1, depth: 0, childIndex: map[string]int32{}, wordCounts: map[kmer.Word]int32{}}}}
	ex := kmer.NewExtractor()

	kept := 0
	for i := 0; i < n; i++ {
		ranks := taxStrings[i]
		if len(ranks) == 0 {
			continue
		}
		words := ex.Unique(seqs[i].Seq)
		idx.insert(ranks, words)
		kept++
	}

	log.Printf("nbc: built taxonomy tree over %d/%d references, %d nodes", kept, len(seqs), len(idx.nodes))
	return idx
}

// insert walks (or creates) the node path for ranks, adding words'
// unique-word counts and incrementing seqCount at every node visited.
func (idx *Index) insert(ranks []string, words []kmer.Word) {
	cur := rootID
	idx.nodes[cur].seqCount++
	for _, r := range ranks {
		child, ok := idx.nodes[cur].childIndex[r]
		if !ok {
			child = int32(len(idx.nodes))
			idx.nodes[cur].childIndex[r] = child
			idx.nodes[cur].children = append(idx.nodes[cur].children, child)
			idx.nodes = append(idx.nodes, node{
				name:       r,
				parent:     cur,
				depth:      idx.nodes[cur].depth + 1,
				childIndex: map[string]int32{},
				wordCounts: map[kmer.Word]int32{},
			})
		}
		cur = child
		idx.nodes[cur].seqCount++
		for _, w := range words {
			idx.nodes[cur].wordCounts[w]++
		}
	}
}
