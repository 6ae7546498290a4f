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
remove-phix filters spike-in reads out of single-end or paired-end
FASTQ files using the phix package's k-mer table, which is built from
a synthetic 5,386-base stand-in rather than the real PhiX174 genome.
*/

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"

	"github.com/telatin/go-unoise/internal/seqio"
	"github.com/telatin/go-unoise/phix"
)

var (
	in1        = flag.String("1", "", "Input R1 FASTQ (or single-end input with -i)")
	in2        = flag.String("2", "", "Input R2 FASTQ (paired-end only)")
	inSingle   = flag.String("i", "", "Input single-end FASTQ")
	out1       = flag.String("o", "", "Output R1/single-end FASTQ")
	out2       = flag.String("O", "", "Output R2 FASTQ (paired-end only)")
	minID      = flag.Float64("min-id", phix.DefaultMinID, "Minimum 8-mer-level identity to call a read PhiX")
	minKmers   = flag.Int("min-kmers", phix.DefaultMinKmers, "Minimum valid 8-mers a read must contribute")
	pairedMode = flag.String("paired-mode", "strict", "'strict' drops the pair if either read is PhiX; 'lenient' drops only if both are")
	report     = flag.String("t", "", "Optional TSV report path: reads_in, reads_removed, pct_removed")
)

func usage() {
	fmt.Printf("Usage: %s (-i in.fastq -o out.fastq) | (-1 r1.fastq -2 r2.fastq -o out_1.fastq -O out_2.fastq)\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	var total, removed int
	if *inSingle != "" {
		total, removed = runSingle(*inSingle, *out1)
	} else {
		if *in1 == "" || *in2 == "" || *out1 == "" || *out2 == "" {
			log.Fatalf("expected either -i/-o or -1/-2/-o/-O")
		}
		total, removed = runPaired(*in1, *in2, *out1, *out2, *pairedMode)
	}

	pct := 0.0
	if total > 0 {
		pct = 100 * float64(removed) / float64(total)
	}
	fmt.Printf("reads_in=%d reads_removed=%d pct=%.2f%%\n", total, removed, pct)
	if *report != "" {
		if err := writeReport(*report, total, removed, pct); err != nil {
			log.Fatalf("%v", err)
		}
	}
}

func writeReport(path string, total, removed int, pct float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "reads_in\treads_removed\tpct_removed\n%d\t%d\t%.2f\n", total, removed, pct)
	return err
}

func runSingle(inPath, outPath string) (total, removed int) {
	r, err := seqio.Open(inPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer r.Close()
	sc := seqio.NewFastqScanner(r)

	of, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer of.Close()
	bw := bufio.NewWriter(of)
	defer bw.Flush()

	ws := phix.NewWorkspace()
	var rd seqio.FastqRecord
	for sc.Scan(&rd) {
		total++
		if ws.IsPhix(rd.Seq, *minID, *minKmers) {
			removed++
			continue
		}
		fmt.Fprintf(bw, "@%s\n%s\n%s\n%s\n", rd.ID, rd.Seq, rd.Sep, rd.Qual)
	}
	if err := sc.Err(); err != nil {
		log.Fatalf("%v", err)
	}
	return total, removed
}

func runPaired(in1, in2, out1, out2, mode string) (totalPairs, removedPairs int) {
	r1, err := seqio.Open(in1)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer r1.Close()
	r2, err := seqio.Open(in2)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer r2.Close()
	pair := seqio.NewPairedFastqScanner(r1, r2)

	of1, err := os.Create(out1)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer of1.Close()
	of2, err := os.Create(out2)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer of2.Close()
	bw1, bw2 := bufio.NewWriter(of1), bufio.NewWriter(of2)
	defer bw1.Flush()
	defer bw2.Flush()

	ws := phix.NewWorkspace()
	var rd1, rd2 seqio.FastqRecord
	for pair.Scan(&rd1, &rd2) {
		totalPairs++
		isPhix1 := ws.IsPhix(rd1.Seq, *minID, *minKmers)
		isPhix2 := ws.IsPhix(rd2.Seq, *minID, *minKmers)
		var drop bool
		if mode == "lenient" {
			drop = isPhix1 && isPhix2
		} else {
			drop = isPhix1 || isPhix2
		}
		if drop {
			removedPairs++
			continue
		}
		fmt.Fprintf(bw1, "@%s\n%s\n%s\n%s\n", rd1.ID, rd1.Seq, rd1.Sep, rd1.Qual)
		fmt.Fprintf(bw2, "@%s\n%s\n%s\n%s\n", rd2.ID, rd2.Seq, rd2.Sep, rd2.Qual)
	}
	if err := pair.Err(); err != nil {
		log.Fatalf("%v", err)
	}
	return totalPairs, removedPairs
}
