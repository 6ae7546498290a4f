// Package seqrecord defines the sequence-record data model shared by
// the denoise, chimera, sintax, and nbc packages, and the label
// utilities (spec.md §4.I) that parse/format the `;size=N;` and
// `;tax=...;` annotations USEARCH/VSEARCH-family tools attach to FASTA
// headers. Name parsing follows the "stop at the first delimiter"
// convention used for FASTA header names in encoding/fasta.Fasta.
package seqrecord

import (
	"strconv"
	"strings"
)

// Record is a single dereplicated sequence with an optional abundance
// annotation.
type Record struct {
	ID   string
	Seq  string
	Size int
}

// Centroid is a UNOISE cluster representative; TotalSize accumulates the
// abundance of every Record merged into it.
type Centroid struct {
	Seq       Record
	TotalSize int
}

// ParseSize extracts the abundance from a `;size=N;` token in id. An
// absent or non-numeric token yields 0 (spec.md §7: unparseable
// annotations are silently treated as 0, never an error).
func ParseSize(id string) int {
	v, ok := findToken(id, "size=")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// FormatSize appends a `;size=N;` token to id, replacing any existing
// size token. This supplements spec.md's read-only annotation parsing
// so drivers can re-emit USEARCH/VSEARCH-style labelled FASTA.
func FormatSize(id string, size int) string {
	base := stripToken(id, "size=")
	return base + ";size=" + strconv.Itoa(size) + ";"
}

// ParseTax extracts the ordered rank list from a `;tax=d:Bacteria,p:...;`
// token. Returns nil if absent. Unknown annotations elsewhere in id are
// ignored.
func ParseTax(id string) []string {
	v, ok := findToken(id, "tax=")
	if !ok || v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	ranks := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			ranks = append(ranks, p)
		}
	}
	return ranks
}

// FormatTax appends a `;tax=...;` token built from ranks, replacing any
// existing tax token.
func FormatTax(id string, ranks []string) string {
	base := stripToken(id, "tax=")
	return base + ";tax=" + strings.Join(ranks, ",") + ";"
}

// findToken finds the first `;key<value>;` (or `<key<value>;` at the
// very start of id) token and returns its value.
func findToken(id, key string) (string, bool) {
	idx := strings.Index(id, key)
	for idx != -1 {
		if idx == 0 || id[idx-1] == ';' {
			rest := id[idx+len(key):]
			end := strings.IndexByte(rest, ';')
			if end == -1 {
				return rest, true
			}
			return rest[:end], true
		}
		next := strings.Index(id[idx+1:], key)
		if next == -1 {
			return "", false
		}
		idx = idx + 1 + next
	}
	return "", false
}

// stripToken removes an existing `;key...;` token (if present) from id.
func stripToken(id, key string) string {
	idx := strings.Index(id, key)
	for idx != -1 {
		if idx == 0 || id[idx-1] == ';' {
			start := idx
			if start > 0 {
				start--
			}
			rest := id[idx+len(key):]
			end := strings.IndexByte(rest, ';')
			if end == -1 {
				return id[:start]
			}
			return id[:start] + id[idx+len(key)+end:]
		}
		next := strings.Index(id[idx+1:], key)
		if next == -1 {
			return id
		}
		idx = idx + 1 + next
	}
	return id
}
