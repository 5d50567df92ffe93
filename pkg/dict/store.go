/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: store.go
Description: Dictionary store for the RESP fuzzing harness. Loads the shared
AFL++ dictionary artifact (one literal token per line, optionally in quoted
"..." form) into immutable category buckets. Tokens are tagged by lightweight
heuristics: catalog command names, numeric-looking literals, key-looking
literals, and everything else as opaque values. A missing or empty artifact
degrades generation to synthesis-only without error.
*/

package dict

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/kleascm/resp-fuzzer/pkg/catalog"
	"github.com/kleascm/resp-fuzzer/pkg/decision"
)

// Category groups dictionary tokens by what they can stand in for.
type Category int

const (
	CategoryCommand Category = iota
	CategoryKey
	CategoryNumeric
	CategoryValue
)

// Store is the immutable literal token pool, bucketed by category.
type Store struct {
	buckets map[Category][][]byte
	size    int
}

// Load reads the dictionary artifact at path. A missing file yields an
// empty store and no error; a present but unreadable file is an error.
func Load(path string, cat *catalog.Catalog) (*Store, error) {
	if path == "" {
		return NewStore(nil, cat), nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewStore(nil, cat), nil
		}
		return nil, errors.Wrapf(err, "open dictionary %s", path)
	}
	defer f.Close()

	var tokens []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens = append(tokens, unquote(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read dictionary %s", path)
	}
	return NewStore(tokens, cat), nil
}

// NewStore buckets the given tokens by category.
func NewStore(tokens []string, cat *catalog.Catalog) *Store {
	s := &Store{buckets: make(map[Category][][]byte)}
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		c := categorize(tok, cat)
		s.buckets[c] = append(s.buckets[c], []byte(tok))
		s.size++
	}
	return s
}

// Sample returns one token of the given category, consuming exactly one
// decision for the index choice. An empty bucket returns ok=false without
// consuming anything. The returned slice is a fresh copy.
func (s *Store) Sample(c Category, stream *decision.Stream) ([]byte, bool) {
	bucket := s.buckets[c]
	if len(bucket) == 0 {
		return nil, false
	}
	tok := bucket[stream.IntN(0, len(bucket)-1)]
	out := make([]byte, len(tok))
	copy(out, tok)
	return out, true
}

// Size returns the total number of loaded tokens.
func (s *Store) Size() int {
	return s.size
}

// Empty reports whether the store holds no tokens at all.
func (s *Store) Empty() bool {
	return s.size == 0
}

// CategorySize returns the bucket size for one category.
func (s *Store) CategorySize(c Category) int {
	return len(s.buckets[c])
}

// categorize applies the tagging heuristics in priority order.
func categorize(tok string, cat *catalog.Catalog) Category {
	if cat != nil && cat.Has(strings.ToUpper(tok)) {
		return CategoryCommand
	}
	if looksNumeric(tok) {
		return CategoryNumeric
	}
	if looksKey(tok) {
		return CategoryKey
	}
	return CategoryValue
}

func looksNumeric(tok string) bool {
	if tok == "" {
		return false
	}
	i := 0
	if tok[0] == '-' || tok[0] == '+' {
		i = 1
		if len(tok) == 1 {
			return false
		}
	}
	dot := false
	for ; i < len(tok); i++ {
		switch {
		case tok[i] >= '0' && tok[i] <= '9':
		case tok[i] == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return true
}

func looksKey(tok string) bool {
	i := strings.IndexByte(tok, ':')
	if i <= 0 {
		return false
	}
	return !strings.ContainsAny(tok, " \t\r\n")
}

// unquote strips the AFL dictionary "..." wrapper and its escapes.
func unquote(line string) string {
	if len(line) < 2 || line[0] != '"' || line[len(line)-1] != '"' {
		return line
	}
	body := line[1 : len(line)-1]
	if !strings.ContainsRune(body, '\\') {
		return body
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
			switch body[i] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '0':
				b.WriteByte(0)
			default:
				b.WriteByte(body[i])
			}
			continue
		}
		b.WriteByte(body[i])
	}
	return b.String()
}
