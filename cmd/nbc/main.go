// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

/*
nbc classifies query reads against a prebuilt NBC taxonomy-tree index
(see cmd/nbc-build), emitting one TSV line per query.
*/

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"

	"github.com/telatin/go-unoise/internal/seqio"
	"github.com/telatin/go-unoise/kmer"
	"github.com/telatin/go-unoise/nbc"
)

var (
	dbPath    = flag.String("db", "", "Path to an nbc-build index (required)")
	cutoff    = flag.Float64("c", 0.8, "Minimum cumulative agreement for a rank to be reported as 'passed'")
	bootIters = flag.Int("boot-iters", nbc.DefaultBootIters, "Bootstrap resampling rounds per strand")
	minWords  = flag.Int("min-words", nbc.DefaultMinWords, "Floor on the bootstrap word-subset size")
	out       = flag.String("o", "", "Output TSV path; defaults to stdout")
)

func usage() {
	fmt.Printf("Usage: %s -db index.bin [OPTIONS] queries.fasta\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 || *dbPath == "" {
		log.Fatalf("expected -db and exactly one query FASTA path")
	}

	f, err := os.Open(*dbPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	idx, err := nbc.ReadFrom(f)
	f.Close()
	if err != nil {
		log.Fatalf("%v", err)
	}

	queries, err := seqio.ReadQueries(flag.Arg(0))
	if err != nil {
		log.Fatalf("%v", err)
	}

	w := os.Stdout
	if *out != "" {
		of, err := os.Create(*out)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer of.Close()
		w = of
	}
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	ws := nbc.NewWorkspace(idx, *bootIters, *minWords)
	ex := kmer.NewExtractor()
	for _, q := range queries {
		hit := nbc.Classify(ws, q.Seq, ex)
		if len(hit.Ranks) == 0 {
			fmt.Fprintf(bw, "%s\t*\t+\t*\n", q.ID)
			continue
		}
		passed := passedRanks(hit.Ranks, hit.Confidences, *cutoff)
		fmt.Fprintf(bw, "%s\t%s\t%c\t%s\n", q.ID, renderHit(hit), hit.Strand, passed)
	}
	log.Printf("nbc: classified %d queries", len(queries))
}

func renderHit(hit nbc.Hit) string {
	parts := make([]string, len(hit.Ranks))
	for i, r := range hit.Ranks {
		parts[i] = fmt.Sprintf("%s(%.2f)", r, hit.Confidences[i])
	}
	return strings.Join(parts, ",")
}

func passedRanks(ranks []string, confidences []float64, cutoff float64) string {
	n := 0
	for n < len(ranks) && confidences[n] >= cutoff {
		n++
	}
	if n == 0 {
		return "*"
	}
	return strings.Join(ranks[:n], ",")
}
