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
unoise3 clusters a dereplicated, abundance-sorted FASTA file into
zero-radius OTUs (ZOTUs) using greedy abundance-ordered denoising.
*/

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"

	"github.com/telatin/go-unoise/chimera"
	"github.com/telatin/go-unoise/denoise"
	"github.com/telatin/go-unoise/internal/seqio"
	"github.com/telatin/go-unoise/seqrecord"
)

var (
	alpha           = flag.Float64("a", denoise.DefaultAlpha, "Skew/expected-error parameter")
	minsize         = flag.Int("m", 8, "Minimum cluster abundance to keep as a ZOTU")
	out             = flag.String("o", "", "Output FASTA path; defaults to stdout")
	zotus           = flag.Bool("zotus", true, "Label output ids 'Zotu1', 'Zotu2', ... by descending abundance")
	minSkew         = flag.Float64("min-skew", chimera.DefaultMinAbSkew, "Parent/child abundance skew threshold for de novo chimera removal")
	threads         = flag.Int("threads", 1, "1=sequential, 0=auto, N=fixed worker count, for chimera removal")
	keepChim        = flag.Bool("keep-chimeras", false, "Skip de novo chimera filtering and emit every centroid as a ZOTU")
	saveCentroids   = flag.String("save-centroids", "", "Optional path to write a snappy-compressed centroid checkpoint after denoising")
	resumeCentroids = flag.String("resume-centroids", "", "Resume from a checkpoint written by -save-centroids instead of denoising input.fasta")
)

func usage() {
	fmt.Printf("Usage: %s [OPTIONS] input.fasta\n", os.Args[0])
	fmt.Println("input.fasta may be omitted when -resume-centroids is given.")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	var centroids []seqrecord.Centroid
	nRecs := 0
	if *resumeCentroids != "" {
		f, err := os.Open(*resumeCentroids)
		if err != nil {
			log.Fatalf("%v", err)
		}
		centroids, err = denoise.LoadCentroids(f)
		f.Close()
		if err != nil {
			log.Fatalf("%v", err)
		}
		log.Printf("unoise3: resumed %d centroids from %s", len(centroids), *resumeCentroids)
	} else {
		if flag.NArg() != 1 {
			log.Fatalf("expected exactly one input FASTA path")
		}
		recs, err := seqio.ReadFasta(flag.Arg(0))
		if err != nil {
			log.Fatalf("%v", err)
		}
		nRecs = len(recs)
		centroids = denoise.Denoise(recs, *alpha, *minsize)

		if *saveCentroids != "" {
			cf, err := os.Create(*saveCentroids)
			if err != nil {
				log.Fatalf("%v", err)
			}
			err = denoise.SaveCentroids(cf, centroids)
			cf.Close()
			if err != nil {
				log.Fatalf("%v", err)
			}
		}
	}

	nChimeric := 0
	if !*keepChim {
		flags := chimera.Detect(centroids, *minSkew, *threads)
		kept := centroids[:0]
		for i, c := range centroids {
			if flags[i] {
				nChimeric++
				continue
			}
			kept = append(kept, c)
		}
		centroids = kept
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
	for i, c := range centroids {
		id := c.Seq.ID
		if *zotus {
			id = fmt.Sprintf("Zotu%d", i+1)
		}
		id = seqrecord.FormatSize(id, c.TotalSize)
		fmt.Fprintf(w, ">%s\n%s\n", id, c.Seq.Seq)
	}
	if *resumeCentroids != "" {
		log.Printf("unoise3: wrote %d non-chimeric ZOTUs (%d chimeras removed) from resumed centroids",
			len(centroids), nChimeric)
	} else {
		log.Printf("unoise3: wrote %d non-chimeric ZOTUs (%d chimeras removed) from %d input records",
			len(centroids), nChimeric, nRecs)
	}
}
