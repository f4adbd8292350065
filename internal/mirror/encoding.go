package mirror

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding is a character encoding a file mirror can read and write.
type Encoding string

const (
	// EncodingUTF8 is UTF-8 without a byte order mark.
	EncodingUTF8 Encoding = "utf-8"

	// EncodingUTF8BOM is UTF-8 with a byte order mark.
	EncodingUTF8BOM Encoding = "utf-8-bom"

	// EncodingUTF16LE is UTF-16 little endian with a byte order mark.
	EncodingUTF16LE Encoding = "utf-16le"

	// EncodingUTF16BE is UTF-16 big endian with a byte order mark.
	EncodingUTF16BE Encoding = "utf-16be"

	// EncodingLatin1 is ISO-8859-1, used for bytes that are not UTF-8.
	EncodingLatin1 Encoding = "iso-8859-1"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding returns the encoding of content. Byte order marks are
// checked first; content that is not valid UTF-8 is taken as Latin-1,
// which accepts every byte sequence.
func DetectEncoding(content []byte) Encoding {
	switch {
	case bytes.HasPrefix(content, bomUTF8):
		return EncodingUTF8BOM
	case bytes.HasPrefix(content, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(content, bomUTF16BE):
		return EncodingUTF16BE
	case utf8.Valid(content):
		return EncodingUTF8
	default:
		return EncodingLatin1
	}
}

// codec returns the x/text encoding for enc. UTF-8 needs none.
func (enc Encoding) codec() encoding.Encoding {
	switch enc {
	case EncodingUTF8BOM:
		return unicode.UTF8BOM
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case EncodingLatin1:
		return charmap.ISO8859_1
	default:
		return nil
	}
}

// Decode converts content to text, detecting its encoding.
func Decode(content []byte) (string, Encoding, error) {
	enc := DetectEncoding(content)
	if enc == EncodingUTF8 || enc == EncodingLatin1 {
		if IsBinary(content) {
			return "", enc, ErrBinary
		}
	}
	c := enc.codec()
	if c == nil {
		return string(content), enc, nil
	}
	out, err := c.NewDecoder().Bytes(content)
	if err != nil {
		return "", enc, fmt.Errorf("decoding %s: %w", enc, err)
	}
	return string(out), enc, nil
}

// Encode converts text to bytes in enc. Byte order marks are written for
// the encodings that carry one.
func Encode(text string, enc Encoding) ([]byte, error) {
	c := enc.codec()
	if c == nil {
		return []byte(text), nil
	}
	out, err := c.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", enc, err)
	}
	return out, nil
}

// IsBinary reports whether content looks like binary data: it contains
// a NUL byte or more than 10% control characters in its first 8KB.
func IsBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}

	sample := content[:min(len(content), 8192)]
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}

	nonText := 0
	for _, b := range sample {
		if b < 32 && b != '\t' && b != '\n' && b != '\r' && b != '\f' {
			nonText++
		}
	}
	return float64(nonText)/float64(len(sample)) > 0.1
}
