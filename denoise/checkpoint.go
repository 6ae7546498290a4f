package denoise

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/golang/snappy"
	"github.com/pkg/errors"

	"github.com/telatin/go-unoise/seqrecord"
)

// SaveCentroids writes an intermediate snappy-compressed centroid dump
// (the driver's optional `--save-centroids` checkpoint), letting a long
// UNOISE run resume downstream UCHIME/SINTAX steps without redenoising.
func SaveCentroids(w io.Writer, centroids []seqrecord.Centroid) error {
	sw := snappy.NewBufferedWriter(w)
	defer sw.Close()
	bw := bufio.NewWriter(sw)

	writeUvarint(bw, uint64(len(centroids)))
	for _, c := range centroids {
		writeString(bw, c.Seq.ID)
		writeString(bw, c.Seq.Seq)
		writeUvarint(bw, uint64(c.Seq.Size))
		writeUvarint(bw, uint64(c.TotalSize))
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "denoise: flush checkpoint")
	}
	return sw.Close()
}

// LoadCentroids reads a checkpoint previously written by SaveCentroids.
func LoadCentroids(r io.Reader) ([]seqrecord.Centroid, error) {
	sr := snappy.NewReader(r)
	br := bufio.NewReader(sr)

	n := int(readUvarint(br))
	out := make([]seqrecord.Centroid, n)
	for i := range out {
		id := readString(br)
		seq := readString(br)
		size := int(readUvarint(br))
		total := int(readUvarint(br))
		out[i] = seqrecord.Centroid{Seq: seqrecord.Record{ID: id, Seq: seq, Size: size}, TotalSize: total}
	}
	return out, nil
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
