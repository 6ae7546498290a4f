package sintax

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/telatin/go-unoise/kmer"
)

// WriteTo serializes idx as a zstd-compressed stream (spec.md §9: build
// artifacts should be cheap to ship/reload between runs of the same
// reference database). The format is a flat sequence of length-prefixed
// fields; see ReadFrom for the exact layout.
func (idx *Index) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw, err := zstd.NewWriter(cw)
	if err != nil {
		return 0, errors.Wrap(err, "sintax: zstd writer")
	}
	defer zw.Close()

	bw := bufio.NewWriter(zw)

	writeUvarint(bw, uint64(idx.numSeqs))
	writeUvarint(bw, uint64(len(idx.seqToUniqTaxID)))
	for _, v := range idx.seqToUniqTaxID {
		writeUvarint(bw, uint64(v))
	}

	writeUvarint(bw, uint64(len(idx.uniqTax)))
	for _, ut := range idx.uniqTax {
		writeUvarint(bw, uint64(len(ut.ranks)))
		for i, r := range ut.ranks {
			writeString(bw, r)
			writeUvarint(bw, uint64(ut.rankIDs[i]))
		}
	}

	for w := 0; w < len(idx.starts); w++ {
		writeUvarint(bw, uint64(idx.starts[w]))
		writeUvarint(bw, uint64(idx.lens[w]))
	}
	writeUvarint(bw, uint64(len(idx.postingData)))
	for _, v := range idx.postingData {
		writeUvarint(bw, uint64(v))
	}

	writeUvarint(bw, uint64(len(idx.rankNameID)))
	for name, id := range idx.rankNameID {
		writeString(bw, name)
		writeUvarint(bw, uint64(id))
	}

	if err := bw.Flush(); err != nil {
		return cw.n, errors.Wrap(err, "sintax: flush")
	}
	if err := zw.Close(); err != nil {
		return cw.n, errors.Wrap(err, "sintax: zstd close")
	}
	return cw.n, nil
}

// ReadFrom deserializes an Index previously written by WriteTo.
func ReadFrom(r io.Reader) (*Index, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "sintax: zstd reader")
	}
	defer zr.Close()
	br := bufio.NewReader(zr)

	idx := &Index{rankNameID: map[string]int32{}}
	idx.numSeqs = int(readUvarint(br))

	n := int(readUvarint(br))
	idx.seqToUniqTaxID = make([]int32, n)
	for i := range idx.seqToUniqTaxID {
		idx.seqToUniqTaxID[i] = int32(readUvarint(br))
	}

	nTax := int(readUvarint(br))
	idx.uniqTax = make([]uniqueTax, nTax)
	for i := range idx.uniqTax {
		depth := int(readUvarint(br))
		ranks := make([]string, depth)
		rankIDs := make([]int32, depth)
		for d := 0; d < depth; d++ {
			ranks[d] = readString(br)
			rankIDs[d] = int32(readUvarint(br))
		}
		idx.uniqTax[i] = uniqueTax{ranks: ranks, rankIDs: rankIDs}
	}

	idx.starts = make([]int32, kmer.NumWords)
	idx.lens = make([]int32, kmer.NumWords)
	for w := range idx.starts {
		idx.starts[w] = int32(readUvarint(br))
		idx.lens[w] = int32(readUvarint(br))
	}
	nPost := int(readUvarint(br))
	idx.postingData = make([]int32, nPost)
	for i := range idx.postingData {
		idx.postingData[i] = int32(readUvarint(br))
	}

	nNames := int(readUvarint(br))
	idx.rankNameID = make(map[string]int32, nNames)
	for i := 0; i < nNames; i++ {
		name := readString(br)
		id := int32(readUvarint(br))
		idx.rankNameID[name] = id
	}

	return idx, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func writeUvarint(w *bufio.Writer, v uint64) {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	w.Write(buf[:n])
}

func readUvarint(r *bufio.Reader) uint64 {
	v, _ := binary.ReadUvarint(r)
	return v
}

func writeString(w *bufio.Writer, s string) {
	writeUvarint(w, uint64(len(s)))
	w.WriteString(s)
}

func readString(r *bufio.Reader) string {
	n := int(readUvarint(r))
	buf := make([]byte, n)
	io.ReadFull(r, buf)
	return string(buf)
}
