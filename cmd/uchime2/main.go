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
uchime2 flags PCR chimeras in an abundance-sorted ZOTU FASTA file using
the UCHIME2 positional-crossover test.
*/

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"

	"github.com/telatin/go-unoise/chimera"
	"github.com/telatin/go-unoise/internal/seqio"
	"github.com/telatin/go-unoise/seqrecord"
)

var (
	minSkew   = flag.Float64("min-skew", chimera.DefaultMinAbSkew, "Parent/child abundance skew threshold")
	threads   = flag.Int("threads", 1, "1=sequential, 0=auto, N=fixed worker count")
	out       = flag.String("o", "", "Output FASTA path (non-chimeras only); defaults to stdout")
	summary   = flag.String("summary", "", "Optional TSV path: id\\tsize\\tstatus (ok|chimera)")
	maskArg   = flag.String("mask", "", "Comma-separated start:end 0-based query ranges (e.g. primer sites) to exclude from the diff scan")
	skewSweep = flag.String("skew-sweep", "", "Comma-separated list of additional -min-skew thresholds to evaluate, reusing alignments via an AlignCache; the strictest (largest) threshold decides the kept FASTA/summary status")
)

// parseSweep turns "-skew-sweep 4,8,16" into a threshold list that
// always includes minSkew itself, sorted ascending so the final
// (strictest) entry decides what DetectCached's caller keeps.
func parseSweep(minSkew float64, s string) []float64 {
	thresholds := []float64{minSkew}
	if s != "" {
		for _, part := range strings.Split(s, ",") {
			v, err := strconv.ParseFloat(part, 64)
			if err != nil {
				log.Fatalf("uchime2: invalid -skew-sweep value %q: %v", part, err)
			}
			thresholds = append(thresholds, v)
		}
	}
	sort.Float64s(thresholds)
	return thresholds
}

// parseMask turns "-mask 0:20,380:400" into the ranges chimera.NewMask
// expects. Returns nil if s is empty.
func parseMask(s string) *chimera.Mask {
	if s == "" {
		return nil
	}
	var ranges [][2]int
	for _, part := range strings.Split(s, ",") {
		bounds := strings.SplitN(part, ":", 2)
		if len(bounds) != 2 {
			log.Fatalf("uchime2: invalid -mask range %q", part)
		}
		start, err := strconv.Atoi(bounds[0])
		if err != nil {
			log.Fatalf("uchime2: invalid -mask range %q: %v", part, err)
		}
		end, err := strconv.Atoi(bounds[1])
		if err != nil {
			log.Fatalf("uchime2: invalid -mask range %q: %v", part, err)
		}
		ranges = append(ranges, [2]int{start, end})
	}
	return chimera.NewMask(ranges)
}

func usage() {
	fmt.Printf("Usage: %s [OPTIONS] zotus.fasta\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 {
		log.Fatalf("expected exactly one input FASTA path")
	}

	recs, err := seqio.ReadFasta(flag.Arg(0))
	if err != nil {
		log.Fatalf("%v", err)
	}

	centroids := make([]seqrecord.Centroid, len(recs))
	for i, r := range recs {
		centroids[i] = seqrecord.Centroid{Seq: r, TotalSize: r.Size}
	}
	sort.SliceStable(centroids, func(i, j int) bool {
		return centroids[i].TotalSize > centroids[j].TotalSize
	})

	mask := parseMask(*maskArg)
	thresholds := parseSweep(*minSkew, *skewSweep)

	cache := chimera.NewAlignCache()
	var flags []bool
	for _, thresh := range thresholds {
		flags = chimera.DetectCached(centroids, thresh, *threads, mask, cache)
	}
	if len(thresholds) > 1 {
		log.Printf("uchime2: swept %d thresholds (%v), reporting the strictest", len(thresholds), thresholds)
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer f.Close()
		w = f
	}
	var tab *os.File
	if *summary != "" {
		tab, err = os.Create(*summary)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer tab.Close()
		fmt.Fprintf(tab, "id\tsize\tstatus\n")
	}

	nChimeric := 0
	for i, c := range centroids {
		status := "ok"
		if flags[i] {
			nChimeric++
			status = "chimera"
		} else {
			fmt.Fprintf(w, ">%s\n%s\n", c.Seq.ID, c.Seq.Seq)
		}
		if tab != nil {
			fmt.Fprintf(tab, "%s\t%d\t%s\n", c.Seq.ID, c.TotalSize, status)
		}
	}
	log.Printf("uchime2: flagged %d/%d ZOTUs as chimeric", nChimeric, len(centroids))
}
