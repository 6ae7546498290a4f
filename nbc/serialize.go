package nbc

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/telatin/go-unoise/kmer"
)

// WriteTo serializes idx as a zstd-compressed stream, mirroring
// sintax.Index's on-disk format so both indices can be rebuilt offline
// once and reloaded by every classify driver invocation.
func (idx *Index) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw, err := zstd.NewWriter(cw)
	if err != nil {
		return 0, errors.Wrap(err, "nbc: zstd writer")
	}
	defer zw.Close()

	bw := bufio.NewWriter(zw)

	writeUvarint(bw, uint64(len(idx.nodes)))
	for _, n := range idx.nodes {
		writeString(bw, n.name)
		writeUvarint(bw, uint64(n.parent+1)) // root's parent is -1; shift by one
		writeUvarint(bw, uint64(n.depth))
		writeUvarint(bw, uint64(n.seqCount))

		writeUvarint(bw, uint64(len(n.children)))
		for _, c := range n.children {
			writeUvarint(bw, uint64(c))
		}

		writeUvarint(bw, uint64(len(n.wordCounts)))
		for w, c := range n.wordCounts {
			writeUvarint(bw, uint64(w))
			writeUvarint(bw, uint64(c))
		}
	}

	if err := bw.Flush(); err != nil {
		return cw.n, errors.Wrap(err, "nbc: flush")
	}
	if err := zw.Close(); err != nil {
		return cw.n, errors.Wrap(err, "nbc: zstd close")
	}
	return cw.n, nil
}

// ReadFrom deserializes an Index previously written by WriteTo.
func ReadFrom(r io.Reader) (*Index, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "nbc: zstd reader")
	}
	defer zr.Close()
	br := bufio.NewReader(zr)

	nNodes := int(readUvarint(br))
	idx := &Index{nodes: make([]node, nNodes)}
	for i := range idx.nodes {
		name := readString(br)
		parent := int32(readUvarint(br)) - 1
		depth := int(readUvarint(br))
		seqCount := int(readUvarint(br))

		nChildren := int(readUvarint(br))
		children := make([]int32, nChildren)
		for c := range children {
			children[c] = int32(readUvarint(br))
		}

		nWords := int(readUvarint(br))
		wordCounts := make(map[kmer.Word]int32, nWords)
		for w := 0; w < nWords; w++ {
			word := kmer.Word(readUvarint(br))
			count := int32(readUvarint(br))
			wordCounts[word] = count
		}

		idx.nodes[i] = node{
			name: name, parent: parent, depth: depth, seqCount: seqCount,
			children: children, wordCounts: wordCounts,
		}
	}

	for i := range idx.nodes {
		idx.nodes[i].childIndex = make(map[string]int32, len(idx.nodes[i].children))
		for _, c := range idx.nodes[i].children {
			idx.nodes[i].childIndex[idx.nodes[c].name] = c
		}
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
