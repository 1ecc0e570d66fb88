package common

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

var codePages = map[int]encoding.Encoding{
	437:   charmap.CodePage437,
	850:   charmap.CodePage850,
	866:   charmap.CodePage866,
	932:   japanese.ShiftJIS,
	936:   simplifiedchinese.GBK,
	949:   korean.EUCKR,
	950:   traditionalchinese.Big5,
	1200:  unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	1201:  unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	1250:  charmap.Windows1250,
	1251:  charmap.Windows1251,
	1252:  charmap.Windows1252,
	1253:  charmap.Windows1253,
	1254:  charmap.Windows1254,
	1255:  charmap.Windows1255,
	1256:  charmap.Windows1256,
	1257:  charmap.Windows1257,
	1258:  charmap.Windows1258,
	12000: utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
	12001: utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
	20932: japanese.EUCJP,
	28591: charmap.ISO8859_1,
	28592: charmap.ISO8859_2,
	28595: charmap.ISO8859_5,
	28597: charmap.ISO8859_7,
	28605: charmap.ISO8859_15,
	54936: simplifiedchinese.GB18030,
	65001: unicode.UTF8,
}

// EncodingForCodePage resolves a Windows code page number as given to /codepage:.
func EncodingForCodePage(codePage int) (encoding.Encoding, error) {
	if enc, ok := codePages[codePage]; ok {
		return enc, nil
	}
	enc, err := ianaindex.IANA.Encoding(fmt.Sprintf("windows-%d", codePage))
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported code page %d", codePage)
	}
	return enc, nil
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

func hasBOM(data []byte) bool {
	return bytes.HasPrefix(data, bomUTF8) || bytes.HasPrefix(data, bomUTF16LE) || bytes.HasPrefix(data, bomUTF16BE)
}

// DecodeText converts file contents to a string.
// A byte order mark always wins. Without one, enc is used if given;
// otherwise the contents are taken as UTF-8, falling back to Windows-1252 if they aren't valid UTF-8.
func DecodeText(data []byte, enc encoding.Encoding) (string, error) {
	var fallback transform.Transformer
	switch {
	case enc != nil:
		fallback = enc.NewDecoder()
	case hasBOM(data):
		fallback = unicode.UTF8.NewDecoder()
	case utf8.Valid(data):
		return string(data), nil
	default:
		fallback = charmap.Windows1252.NewDecoder()
	}

	decoded, _, err := transform.Bytes(unicode.BOMOverride(fallback), data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
