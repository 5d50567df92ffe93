/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: encoder.go
Description: RESP request encoder for the RESP fuzzing harness. Serializes a
generated command into the standard length-prefixed array-of-bulk-strings
request form. Length prefixing is the whole trick: arbitrary argument bytes,
including NUL, CR/LF and RESP marker bytes, ride the wire untouched, which
is what lets intentionally hostile generated content reach the target's
parser intact.
*/

package resp

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/kleascm/resp-fuzzer/pkg/interfaces"
)

const (
	arrayMark = '*'
	bulkMark  = '$'
)

var crlf = []byte("\r\n")

// EncodeCommand appends the wire form of one command to buf.
// Multi-word catalog names ("XGROUP CREATE") become one element per word;
// every argument, including a zero-length one, is a valid bulk string.
func EncodeCommand(buf *bytes.Buffer, cmd interfaces.Command) {
	words := strings.Fields(cmd.Name)
	writeHeader(buf, arrayMark, len(words)+len(cmd.Args))
	for _, word := range words {
		writeBulkString(buf, word)
	}
	for _, arg := range cmd.Args {
		writeBulk(buf, arg)
	}
}

// Encode returns the wire form of one command as a fresh slice.
func Encode(cmd interfaces.Command) []byte {
	var buf bytes.Buffer
	EncodeCommand(&buf, cmd)
	return buf.Bytes()
}

func writeHeader(buf *bytes.Buffer, mark byte, n int) {
	buf.WriteByte(mark)
	buf.WriteString(strconv.Itoa(n))
	buf.Write(crlf)
}

func writeBulk(buf *bytes.Buffer, b []byte) {
	writeHeader(buf, bulkMark, len(b))
	buf.Write(b)
	buf.Write(crlf)
}

func writeBulkString(buf *bytes.Buffer, s string) {
	writeHeader(buf, bulkMark, len(s))
	buf.WriteString(s)
	buf.Write(crlf)
}
