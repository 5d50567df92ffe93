/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: writer.go
Description: AFL++ dictionary writer for the RESP fuzzing harness. Emits the
shared dictionary artifact consumed both by this harness's dictionary store
and by the fuzzing engine's own mutation strategy: non-excluded command
names, boundary numerics, protocol special characters, escape sequences, and
deterministic samples of every synthesized value shape.
*/

package dict

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/kleascm/resp-fuzzer/pkg/catalog"
)

// specialChars mirrors the character classes the value generator injects.
const specialChars = "!@#$%^&*()-_=+[]{}|;:'\",.<>/?\\"

var escapeTokens = []string{"\\", "\n", "\r", "\t", "\x00", "\r\n", "*", "$", ":", "+", "-"}

var boundaryTokens = []string{
	"0", "-1", "1",
	"9223372036854775807", "-9223372036854775808",
	"2147483647", "-2147483648", "4294967296", "65536",
	"inf", "-inf", "nan", "1e308",
}

var sampleTokens = []string{
	"key:fuzz", "field:fuzz", "member:fuzz", "channel:fuzz", "*:pattern?[ab]",
	"{\"k\":\"v\"}", "{\"a\":[1,2,{\"b\":null}]}", "[0.5,-0.5,1.0]",
	"$", "$[0]", "$.field", "$..field",
	"return {KEYS[1],ARGV[1]}", "1-1", "0-0",
}

// Write emits the dictionary file at path for the given catalog, leaving
// out the excluded command names.
func Write(path string, cat *catalog.Catalog, exclude map[string]struct{}) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create dictionary %s", path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	seen := make(map[string]struct{})
	emit := func(tok string) {
		if _, dup := seen[tok]; dup {
			return
		}
		seen[tok] = struct{}{}
		writeToken(w, tok)
	}
	for _, name := range cat.NamesExcluding(exclude) {
		// Multi-word names are wire-level token sequences; the engine
		// mutates single tokens, so emit each word once.
		for _, word := range strings.Fields(name) {
			emit(word)
		}
	}
	for _, tok := range boundaryTokens {
		emit(tok)
	}
	for _, ch := range specialChars {
		emit(string(ch))
	}
	for _, tok := range escapeTokens {
		emit(tok)
	}
	for _, tok := range sampleTokens {
		emit(tok)
	}
	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "write dictionary %s", path)
	}
	return nil
}

// writeToken writes one quoted, escaped dictionary line.
func writeToken(w *bufio.Writer, tok string) {
	w.WriteByte('"')
	for i := 0; i < len(tok); i++ {
		switch tok[i] {
		case '\\':
			w.WriteString(`\\`)
		case '"':
			w.WriteString(`\"`)
		case '\n':
			w.WriteString(`\n`)
		case '\r':
			w.WriteString(`\r`)
		case '\t':
			w.WriteString(`\t`)
		case 0:
			w.WriteString(`\0`)
		default:
			w.WriteByte(tok[i])
		}
	}
	w.WriteByte('"')
	w.WriteByte('\n')
}
