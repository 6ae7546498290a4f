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
nbc-build compiles a `;tax=...;`-annotated reference FASTA into a
serialized NBC taxonomy-tree index for repeated reuse by cmd/nbc.
*/

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"

	"github.com/telatin/go-unoise/internal/refdb"
	"github.com/telatin/go-unoise/internal/seqio"
	"github.com/telatin/go-unoise/nbc"
)

var out = flag.String("o", "", "Output index path (required)")

func usage() {
	fmt.Printf("Usage: %s -o index.bin reference.fasta\n", os.Args[0])
	fmt.Println("reference.fasta may be a local path or an s3:// URI.")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 || *out == "" {
		log.Fatalf("expected -o and exactly one reference FASTA path")
	}

	dbPath, tempFile, err := refdb.Resolve(flag.Arg(0))
	if err != nil {
		log.Fatalf("%v", err)
	}
	if tempFile != "" {
		defer os.Remove(tempFile)
	}

	seqs, tax, err := seqio.ReadTax(dbPath)
	if err != nil {
		log.Fatalf("%v", err)
	}

	idx := nbc.Build(seqs, tax)

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer f.Close()
	n, err := idx.WriteTo(f)
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("nbc-build: wrote %s (%d compressed bytes)", *out, n)
}
