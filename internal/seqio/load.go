package seqio

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/telatin/go-unoise/seqrecord"
)

// ReadFasta loads every record from a (possibly gzipped) FASTA file at
// path into memory, parsing `;size=N;` from each id via seqrecord.
func ReadFasta(path string) ([]seqrecord.Record, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := NewFastaReader(f)
	var out []seqrecord.Record
	for r.Scan() {
		id, seq := r.Record()
		out = append(out, seqrecord.Record{ID: id, Seq: seq, Size: seqrecord.ParseSize(id)})
	}
	if err := r.Err(); err != nil {
		return nil, errors.Wrapf(err, "seqio: reading %s", path)
	}
	return out, nil
}

// ReadQueries loads classifier query records from path, picking a
// RecordReader by file extension (.fastq/.fq[.gz] vs everything else,
// treated as FASTA): SINTAX/NBC only ever consume sequence, so FASTQ
// quality is read and discarded.
func ReadQueries(path string) ([]seqrecord.Record, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	trimmed := strings.TrimSuffix(path, ".gz")
	var r RecordReader
	if strings.HasSuffix(trimmed, ".fastq") || strings.HasSuffix(trimmed, ".fq") {
		r = NewFastqReader(f)
	} else {
		r = NewFastaReader(f)
	}

	var out []seqrecord.Record
	for r.Scan() {
		id, seq := r.Record()
		out = append(out, seqrecord.Record{ID: id, Seq: seq})
	}
	if err := r.Err(); err != nil {
		return nil, errors.Wrapf(err, "seqio: reading %s", path)
	}
	return out, nil
}

// ReadTax loads the same records as ReadFasta plus their parsed
// `;tax=...;` rank lists, for building SINTAX/NBC reference indices.
func ReadTax(path string) ([]seqrecord.Record, [][]string, error) {
	recs, err := ReadFasta(path)
	if err != nil {
		return nil, nil, err
	}
	tax := make([][]string, len(recs))
	for i, r := range recs {
		tax[i] = seqrecord.ParseTax(r.ID)
	}
	return recs, tax, nil
}
