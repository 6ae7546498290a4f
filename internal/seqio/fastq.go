package seqio

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// ErrTruncatedRecord is returned when a FASTQ record ends before its
// quality line is read.
var ErrTruncatedRecord = errors.New("seqio: truncated fastq record")

// ErrMalformedRecord is returned when a FASTQ header or separator line
// does not start with its expected marker byte ('@' or '+').
var ErrMalformedRecord = errors.New("seqio: malformed fastq record")

// ErrDiscordantPair is returned when two FASTQ streams scanned in
// lockstep fall out of sync (one exhausts before the other).
var ErrDiscordantPair = errors.New("seqio: discordant fastq pair")

// FastqRecord is one four-line FASTQ entry. Sep is the '+'-prefixed
// third line, carried through unmodified so a driver that only
// filters reads (rather than re-deriving them) can echo it verbatim.
type FastqRecord struct {
	ID, Seq, Sep, Qual string
}

// FastqScanner reads FastqRecord entries one at a time from a raw
// FASTQ stream. Scanners are not threadsafe.
type FastqScanner struct {
	b   *bufio.Scanner
	err error
	eof bool
}

// NewFastqScanner constructs a FastqScanner over r.
func NewFastqScanner(r io.Reader) *FastqScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 64*1024*1024)
	return &FastqScanner{b: sc}
}

// Scan reads the next record into rec, reporting whether it
// succeeded. Once Scan returns false it never returns true again;
// call Err to distinguish a clean EOF from a read/format error.
func (s *FastqScanner) Scan(rec *FastqRecord) bool {
	if s.err != nil || s.eof {
		return false
	}

	header, ok := s.nextLine()
	if !ok {
		s.eof = true
		return false
	}
	if len(header) == 0 || header[0] != '@' {
		s.err = ErrMalformedRecord
		return false
	}
	rec.ID = strings.TrimPrefix(header, "@")

	seq, ok := s.nextLine()
	if !ok {
		s.err = ErrTruncatedRecord
		return false
	}
	rec.Seq = seq

	sep, ok := s.nextLine()
	if !ok {
		s.err = ErrTruncatedRecord
		return false
	}
	if len(sep) == 0 || sep[0] != '+' {
		s.err = ErrMalformedRecord
		return false
	}
	rec.Sep = sep

	qual, ok := s.nextLine()
	if !ok {
		s.err = ErrTruncatedRecord
		return false
	}
	rec.Qual = qual
	return true
}

func (s *FastqScanner) nextLine() (string, bool) {
	if !s.b.Scan() {
		if err := s.b.Err(); err != nil {
			s.err = err
		}
		return "", false
	}
	return s.b.Text(), true
}

// Err returns the first error encountered, if any. It is nil after a
// clean EOF.
func (s *FastqScanner) Err() error { return s.err }

// PairedFastqScanner advances two FastqScanners together, so a
// paired-end filter sees matching R1/R2 reads on every Scan call.
type PairedFastqScanner struct {
	r1, r2 *FastqScanner
	err    error
}

// NewPairedFastqScanner constructs a PairedFastqScanner over r1, r2.
func NewPairedFastqScanner(r1, r2 io.Reader) *PairedFastqScanner {
	return &PairedFastqScanner{r1: NewFastqScanner(r1), r2: NewFastqScanner(r2)}
}

// Scan reads the next record pair into rec1, rec2.
func (p *PairedFastqScanner) Scan(rec1, rec2 *FastqRecord) bool {
	ok1 := p.r1.Scan(rec1)
	ok2 := p.r2.Scan(rec2)
	if ok1 != ok2 {
		p.err = ErrDiscordantPair
	}
	return ok1 && ok2
}

// Err returns the first error encountered on either stream.
func (p *PairedFastqScanner) Err() error {
	if err := p.r1.Err(); err != nil {
		return err
	}
	if err := p.r2.Err(); err != nil {
		return err
	}
	return p.err
}

// FastqReader adapts FastqScanner to the RecordReader interface,
// discarding the separator line and quality scores: the classifiers
// and denoiser only ever consume sequence.
type FastqReader struct {
	sc  *FastqScanner
	rec FastqRecord
}

// NewFastqReader constructs a FastqReader over r.
func NewFastqReader(r io.Reader) *FastqReader {
	return &FastqReader{sc: NewFastqScanner(r)}
}

func (f *FastqReader) Scan() bool                { return f.sc.Scan(&f.rec) }
func (f *FastqReader) Record() (string, string)  { return f.rec.ID, f.rec.Seq }
func (f *FastqReader) Err() error                { return f.sc.Err() }
