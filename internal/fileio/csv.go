package fileio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readCSV reads CSV with headerRow (1-based), auto-detecting encoding and converting to UTF-8.
// Кассовые выгрузки бывают в UTF-8, Windows-1252/ISO-8859-1 (французские) и Windows-1251.
// Разделитель — запятая или точка с запятой (французский Excel).
func readCSV(r io.Reader, headerRow int) ([]map[string]string, error) {
	br := bufio.NewReader(r)

	peek, _ := br.Peek(4096)
	if bytes.HasPrefix(peek, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
		peek = peek[len(utf8BOM):]
	}

	var dec io.Reader = br
	if d := detectDecoder(peek); d != nil {
		dec = transform.NewReader(br, d.NewDecoder())
	}

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.Comma = sniffComma(peek)

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return tableToMaps(rows, headerRow), nil
}

// detectDecoder — nil для UTF-8/ASCII. Не-UTF-8 без уверенного ответа
// детектора читаем как Windows-1252.
func detectDecoder(peek []byte) encoding.Encoding {
	if len(peek) == 0 || validUTF8Prefix(peek) {
		return nil
	}
	det, err := chardet.NewTextDetector().DetectBest(peek)
	if err != nil || det == nil {
		return charmap.Windows1252
	}
	switch strings.ToLower(det.Charset) {
	case "windows-1251", "cp1251":
		return charmap.Windows1251
	case "iso-8859-15":
		return charmap.ISO8859_15
	}
	return charmap.Windows1252
}

// validUTF8Prefix — буфер Peek мог оборвать последнюю руну.
func validUTF8Prefix(b []byte) bool {
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			return len(b) < utf8.UTFMax && !utf8.FullRune(b)
		}
		b = b[size:]
	}
	return true
}

// sniffComma смотрит на первую строку: ';' побеждает, если его больше.
func sniffComma(peek []byte) rune {
	line := peek
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}
