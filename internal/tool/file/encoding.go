package file

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// textEncoding is the on-disk encoding of a text file.
type textEncoding int

const (
	encodingUTF8 textEncoding = iota
	encodingUTF8BOM
	encodingUTF16LE
	encodingUTF16BE
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func (e textEncoding) String() string {
	switch e {
	case encodingUTF8BOM:
		return "utf-8-bom"
	case encodingUTF16LE:
		return "utf-16le"
	case encodingUTF16BE:
		return "utf-16be"
	default:
		return "utf-8"
	}
}

func detectEncoding(data []byte) textEncoding {
	switch {
	case bytes.HasPrefix(data, utf8BOM):
		return encodingUTF8BOM
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE:
		return encodingUTF16LE
	case len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF:
		return encodingUTF16BE
	default:
		return encodingUTF8
	}
}

// decodeText returns the file text without any byte order mark.
func decodeText(data []byte) (string, textEncoding, error) {
	enc := detectEncoding(data)
	switch enc {
	case encodingUTF8BOM:
		return string(data[len(utf8BOM):]), enc, nil
	case encodingUTF16LE:
		out, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
		return string(out), enc, err
	case encodingUTF16BE:
		out, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
		return string(out), enc, err
	default:
		return string(data), enc, nil
	}
}

// encodeText renders text in enc, restoring the byte order mark.
func encodeText(text string, enc textEncoding) ([]byte, error) {
	switch enc {
	case encodingUTF8BOM:
		return append(append([]byte{}, utf8BOM...), text...), nil
	case encodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(text))
	case encodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(text))
	default:
		return []byte(text), nil
	}
}

// document is decoded file text normalized to LF, plus what is needed to
// write it back unchanged in form.
type document struct {
	text     string
	encoding textEncoding
	crlf     bool
}

func parseDocument(data []byte) (document, error) {
	text, enc, err := decodeText(data)
	if err != nil {
		return document{}, err
	}
	crlf := strings.Contains(text, "\r\n")
	return document{text: normalizeNewlines(text), encoding: enc, crlf: crlf}, nil
}

func (d document) render(text string) ([]byte, error) {
	if d.crlf {
		text = strings.ReplaceAll(text, "\n", "\r\n")
	}
	return encodeText(text, d.encoding)
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// splitLines splits LF text into lines. A trailing newline does not create
// an extra empty line.
func splitLines(text string) []string {
	if text == "" {
		return []string{}
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

func joinLines(lines []string, trailingNewline bool) string {
	out := strings.Join(lines, "\n")
	if trailingNewline && len(lines) > 0 {
		out += "\n"
	}
	return out
}
