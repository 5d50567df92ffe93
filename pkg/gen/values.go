/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: values.go
Description: Value generator for the RESP fuzzing harness. Produces one
argument value per call from a requested shape and the decision stream,
mixing dictionary literals and synthesized data under the configured mix
ratio. Every length decision is taken modulo a fixed cap, so no shape can
produce an unbounded result, and every output is a freshly allocated byte
slice derived only from stream decisions.
*/

package gen

import (
	"bytes"
	"strconv"

	"github.com/kleascm/resp-fuzzer/pkg/catalog"
	"github.com/kleascm/resp-fuzzer/pkg/decision"
	"github.com/kleascm/resp-fuzzer/pkg/dict"
	"github.com/kleascm/resp-fuzzer/pkg/interfaces"
)

// Length and recursion caps. Caps keep single commands from dominating an
// iteration's throughput budget.
const (
	maxPlainLen   = 64
	maxBinaryLen  = 64
	maxSuffixLen  = 10
	maxJSONDepth  = 5
	maxJSONWidth  = 3
	maxVectorElem = 10
)

const (
	printableAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	lowerAlphabet     = "abcdefghijklmnopqrstuvwxyz0123456789"
	patternAlphabet   = "abcdefghijklmnopqrstuvwxyz0123456789*?[]"
)

// escapeAlphabet is the fixed set of parser-hostile fragments injected by
// the escape-string variant: quotes, backslashes, line breaks, NUL, and the
// RESP type marker bytes.
var escapeAlphabet = []string{
	"\\", "\"", "'", "\n", "\r", "\t", "\x00", "\a", "\b", "\f", "\v",
	"\r\n", "*", "$", ":", "+", "-",
}

// boundaryInts get elevated selection probability for numeric slots.
var boundaryInts = []string{
	"0", "-1", "1",
	"9223372036854775807", "-9223372036854775808",
	"2147483647", "-2147483648",
	"4294967296", "65536",
	"99999999999999999999999999",
}

// boundaryFloats includes the textual forms most parsers mishandle.
var boundaryFloats = []string{
	"0", "-0.0", "inf", "-inf", "nan",
	"1e308", "-1e308", "3.4028235e38", "1e-308",
}

// Generator produces argument values. Stateless beyond its read-only inputs;
// all variation comes from the decision stream passed per call.
type Generator struct {
	cfg  *interfaces.HarnessConfig
	cat  *catalog.Catalog
	dict *dict.Store
}

// NewGenerator creates a value generator over the immutable config,
// catalog, and dictionary store.
func NewGenerator(cfg *interfaces.HarnessConfig, cat *catalog.Catalog, store *dict.Store) *Generator {
	return &Generator{cfg: cfg, cat: cat, dict: store}
}

// Value produces one argument for the given slot.
// Flag slots always come from the slot's token list: a mutated keyword would
// make the command malformed rather than interesting.
func (g *Generator) Value(slot interfaces.Slot, s *decision.Stream) []byte {
	if slot.Shape == interfaces.ShapeFlag {
		if len(slot.Tokens) == 0 {
			return []byte{}
		}
		return []byte(slot.Tokens[s.IntN(0, len(slot.Tokens)-1)])
	}
	if s.BoolRatio(g.cfg.DictMixRatio) {
		if tok, ok := g.dict.Sample(categoryFor(slot.Shape), s); ok {
			return tok
		}
	}
	return g.synthesize(slot.Shape, s)
}

// categoryFor maps a slot shape to its compatible dictionary bucket.
func categoryFor(shape interfaces.Shape) dict.Category {
	switch shape {
	case interfaces.ShapeKey, interfaces.ShapePattern:
		return dict.CategoryKey
	case interfaces.ShapeNumeric, interfaces.ShapeFloat, interfaces.ShapeScore:
		return dict.CategoryNumeric
	default:
		return dict.CategoryValue
	}
}

// synthesize is the single dispatch point over value shapes.
func (g *Generator) synthesize(shape interfaces.Shape, s *decision.Stream) []byte {
	switch shape {
	case interfaces.ShapeKey:
		return g.prefixed("key:", lowerAlphabet, s)
	case interfaces.ShapePattern:
		return g.prefixed("*:", patternAlphabet, s)
	case interfaces.ShapeValue:
		return g.opaque(s)
	case interfaces.ShapeNumeric:
		return g.numeric(s)
	case interfaces.ShapeFloat:
		return g.float(s)
	case interfaces.ShapeScore:
		return g.score(s)
	case interfaces.ShapeStreamID:
		return g.streamID(s)
	case interfaces.ShapeJSON:
		var buf bytes.Buffer
		g.jsonValue(&buf, s, 0)
		return buf.Bytes()
	case interfaces.ShapeVector:
		return g.vector(s)
	}
	return g.plain(s, maxPlainLen)
}

// opaque picks one of the hostile value variants for untyped arguments.
func (g *Generator) opaque(s *decision.Stream) []byte {
	switch s.IntN(0, 2) {
	case 0:
		return g.plain(s, maxPlainLen)
	case 1:
		return g.escaped(s)
	default:
		return g.binary(s)
	}
}

// plain builds a printable sequence of length 0..max.
func (g *Generator) plain(s *decision.Stream, max int) []byte {
	n := s.IntN(0, max)
	out := make([]byte, n)
	for i := range out {
		out[i] = printableAlphabet[s.IntN(0, len(printableAlphabet)-1)]
	}
	return out
}

// escaped injects one decision-selected escape or control fragment ahead of
// a short printable tail, probing quote/CRLF/NUL handling in the parser.
func (g *Generator) escaped(s *decision.Stream) []byte {
	frag := escapeAlphabet[s.IntN(0, len(escapeAlphabet)-1)]
	tail := g.plain(s, maxSuffixLen)
	out := make([]byte, 0, len(frag)+len(tail))
	out = append(out, frag...)
	out = append(out, tail...)
	return out
}

// binary builds an arbitrary byte run including NUL and high-bit bytes.
// A length decision of zero yields an empty argument, which the encoder
// must still carry as a valid zero-length element.
func (g *Generator) binary(s *decision.Stream) []byte {
	n := s.IntN(0, maxBinaryLen)
	return s.Bytes(n)
}

func (g *Generator) numeric(s *decision.Stream) []byte {
	if s.Bool(2, 5) {
		return []byte(boundaryInts[s.IntN(0, len(boundaryInts)-1)])
	}
	n := s.IntN(0, 2000000) - 1000000
	return []byte(strconv.Itoa(n))
}

func (g *Generator) float(s *decision.Stream) []byte {
	if s.Bool(2, 5) {
		return []byte(boundaryFloats[s.IntN(0, len(boundaryFloats)-1)])
	}
	whole := s.IntN(0, 2000000) - 1000000
	frac := s.IntN(0, 999999)
	return []byte(strconv.Itoa(whole) + "." + pad6(frac))
}

func (g *Generator) score(s *decision.Stream) []byte {
	if s.Bool(1, 5) {
		return []byte(boundaryFloats[s.IntN(0, len(boundaryFloats)-1)])
	}
	whole := s.IntN(0, 2000) - 1000
	frac := s.IntN(0, 99)
	return []byte(strconv.Itoa(whole) + "." + pad2(frac))
}

// streamID produces "ms-seq" entry IDs with occasional special forms.
func (g *Generator) streamID(s *decision.Stream) []byte {
	switch s.IntN(0, 3) {
	case 0:
		return []byte("*")
	case 1:
		return []byte("0-0")
	default:
		ms := s.IntN(0, 1000)
		seq := s.IntN(0, 1000)
		return []byte(strconv.Itoa(ms) + "-" + strconv.Itoa(seq))
	}
}

// prefixed builds "prefix:xxxx" identifiers over the given alphabet.
func (g *Generator) prefixed(prefix, alphabet string, s *decision.Stream) []byte {
	n := s.IntN(1, maxSuffixLen)
	out := make([]byte, 0, len(prefix)+n)
	out = append(out, prefix...)
	for i := 0; i < n; i++ {
		out = append(out, alphabet[s.IntN(0, len(alphabet)-1)])
	}
	return out
}

// jsonValue writes one JSON value. Construction is textual and ordered, so
// identical decisions always serialize identically; depth is hard-capped to
// stress nested parsing without unbounded recursion.
func (g *Generator) jsonValue(buf *bytes.Buffer, s *decision.Stream, depth int) {
	kind := s.IntN(0, 5)
	if depth >= maxJSONDepth && kind >= 4 {
		kind = s.IntN(0, 3)
	}
	switch kind {
	case 0:
		buf.WriteString("null")
	case 1:
		if s.Bool(1, 2) {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case 2:
		buf.Write(g.numeric(s))
	case 3:
		buf.WriteByte('"')
		buf.Write(g.plain(s, maxSuffixLen))
		buf.WriteByte('"')
	case 4:
		buf.WriteByte('[')
		n := s.IntN(0, maxJSONWidth)
		for i := 0; i < n; i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			g.jsonValue(buf, s, depth+1)
		}
		buf.WriteByte(']')
	default:
		buf.WriteByte('{')
		n := s.IntN(0, maxJSONWidth)
		for i := 0; i < n; i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('"')
			buf.Write(g.prefixed("k", lowerAlphabet, s))
			buf.WriteString("\":")
			g.jsonValue(buf, s, depth+1)
		}
		buf.WriteByte('}')
	}
}

// vector builds the store's vector literal syntax "[f,f,...]".
func (g *Generator) vector(s *decision.Stream) []byte {
	n := s.IntN(2, maxVectorElem)
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		sign := ""
		if s.Bool(1, 2) {
			sign = "-"
		}
		buf.WriteString(sign + "0." + pad6(s.IntN(0, 999999)))
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

func pad6(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 6 {
		s = "0" + s
	}
	return s
}

func pad2(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 2 {
		s = "0" + s
	}
	return s
}
