package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// DefaultLegacyEncoding decodes delimited text that is not valid UTF-8 when the format
// names no charset.
const DefaultLegacyEncoding = "windows-1255"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var charsets = map[string]encoding.Encoding{
	"windows-1255": charmap.Windows1255,
	"cp1255":       charmap.Windows1255,
	"iso-8859-8":   charmap.ISO8859_8,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"windows-1251": charmap.Windows1251,
}

// LookupEncoding returns the charset registered under name. "" and "utf-8" yield nil.
func LookupEncoding(name string) (encoding.Encoding, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" || n == "utf-8" || n == "utf8" {
		return nil, nil
	}
	enc, ok := charsets[n]
	if !ok {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

func readDelimited(data []byte, opts Options) (Sheet, error) {
	text, err := decodeText(data, opts.Encoding)
	if err != nil {
		return Sheet{}, err
	}

	r := csv.NewReader(bytes.NewReader(text))
	r.Comma = opts.Delimiter
	if r.Comma == 0 {
		r.Comma = ','
	}
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows []Row
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Sheet{}, fmt.Errorf("error parsing delimited text: %w", err)
		}
		row := make(Row, len(record))
		blank := true
		for i, v := range record {
			row[i] = v
			if strings.TrimSpace(v) != "" {
				blank = false
			}
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return Sheet{Rows: rows}, nil
}

func decodeText(data []byte, charset string) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	enc, err := LookupEncoding(charset)
	if err != nil {
		return nil, err
	}
	// legacy code pages are practically never valid UTF-8
	if utf8.Valid(data) {
		return data, nil
	}
	if enc == nil {
		enc, _ = LookupEncoding(DefaultLegacyEncoding)
	}

	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s text: %w", charset, err)
	}
	return out, nil
}
