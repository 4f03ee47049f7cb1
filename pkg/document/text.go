package document

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// DecodeText converts raw text bytes to NFC-normalized UTF-8. Input that is
// not valid UTF-8 is read as Windows-1252, the usual encoding of older
// script dumps. Composed characters count once in dialogue length, so a
// decomposed "é" is one character, not two.
func DecodeText(data []byte) string {
	data = trimBOM(data)
	if !utf8.Valid(data) {
		if decoded, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil {
			data = decoded
		}
	}
	return norm.NFC.String(string(data))
}

// Lines splits text on line feeds after folding CRLF and lone CR endings.
func Lines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

func trimBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
