// Package seqio provides the minimal streaming FASTA/FASTQ record
// reader the cmd/ drivers need to turn a file on disk into the
// (name, sequence) pairs the library's Non-goals name as an external
// collaborator's responsibility. Its readers follow a bufio.Scanner
// idiom and are transparent to gzip-compressed input.
package seqio

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// RecordReader yields (name, sequence) pairs until exhausted.
type RecordReader interface {
	// Scan advances to the next record, returning false at EOF or error.
	Scan() bool
	// Record returns the current record's id/sequence. Only valid after
	// a Scan call that returned true.
	Record() (id, seq string)
	// Err returns the first error encountered, if any.
	Err() error
}

// Open opens path for reading, transparently unwrapping gzip when the
// filename ends in ".gz". The caller must Close the returned closer.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "seqio: open %s", path)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "seqio: gzip %s", path)
	}
	return &gzipReadCloser{gz: gz, f: f}, nil
}

type gzipReadCloser struct {
	gz *gzip.Reader
	f  *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }
func (g *gzipReadCloser) Close() error {
	gzErr := g.gz.Close()
	fErr := g.f.Close()
	if gzErr != nil {
		return gzErr
	}
	return fErr
}

// FastaReader reads `>id [comment]\nsequence` records, folding
// multi-line sequences into one string per record (spec.md §6).
type FastaReader struct {
	b       *bufio.Scanner
	err     error
	started bool
	pendID  string
	id      string
	seq     strings.Builder
	done    bool
}

// NewFastaReader constructs a FastaReader over r.
func NewFastaReader(r io.Reader) *FastaReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 64*1024*1024)
	return &FastaReader{b: sc}
}

func (f *FastaReader) Scan() bool {
	if f.err != nil || f.done {
		return false
	}
	for {
		if !f.b.Scan() {
			if err := f.b.Err(); err != nil {
				f.err = err
				return false
			}
			f.done = true
			if f.pendID == "" {
				return false
			}
			f.id = f.pendID
			f.pendID = ""
			return true
		}
		line := f.b.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			name := strings.SplitN(line[1:], " ", 2)[0]
			if !f.started {
				f.started = true
				f.pendID = name
				continue
			}
			f.id = f.pendID
			f.pendID = name
			return true
		}
		f.seq.WriteString(strings.TrimSpace(line))
	}
}

func (f *FastaReader) Record() (string, string) {
	seq := f.seq.String()
	f.seq.Reset()
	return f.id, seq
}

func (f *FastaReader) Err() error { return f.err }

