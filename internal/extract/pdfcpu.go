// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/pdiddy/pdf2md-legal/pkg/types"
)

// PDFCPUExtractor reads page content streams with pdfcpu and reconstructs
// text from the text-showing operators. It handles simple fonts only; pages
// using composite fonts come out empty or garbled.
type PDFCPUExtractor struct {
	logger logrus.FieldLogger
}

// Extract validates the PDF at path and extracts each page in order.
func (e *PDFCPUExtractor) Extract(ctx context.Context, path string) (types.RawDocument, error) {
	doc := types.RawDocument{Source: path}

	f, err := os.Open(path)
	if err != nil {
		return doc, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	pctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return doc, fmt.Errorf("pdfcpu read %s: %w", path, err)
	}
	if pctx.PageCount == 0 {
		return doc, fmt.Errorf("%s: %w", path, ErrEmptyDocument)
	}

	log := e.logger.WithFields(logrus.Fields{"backend": types.BackendPDFCPU, "source": path})
	for n := 1; n <= pctx.PageCount; n++ {
		if err := checkContext(ctx, n); err != nil {
			return doc, err
		}

		r, err := pdfcpu.ExtractPageContent(pctx, n)
		if err != nil {
			return doc, fmt.Errorf("reading content of page %d: %w", n, err)
		}
		var data []byte
		if r != nil {
			if data, err = io.ReadAll(r); err != nil {
				return doc, fmt.Errorf("reading content of page %d: %w", n, err)
			}
		}
		text := textFromContentStream(data)
		if text == "" {
			log.WithField("page", n).Warn("page produced no text")
		}
		doc.Pages = append(doc.Pages, types.Page{Number: n, Text: withTrailingNewline(text)})

		if n%progressEvery == 0 || n == pctx.PageCount {
			log.WithFields(logrus.Fields{"page": n, "total": pctx.PageCount}).Debug("extracted pages")
		}
	}
	return doc, nil
}

// textFromContentStream walks a content stream and renders Tj, TJ, ' and "
// operands. T*, ' and " and vertical Td/TD moves start a new line; a
// horizontal Td/TD move inserts a space.
func textFromContentStream(data []byte) string {
	var (
		sb       strings.Builder
		strs     []string
		operands []string
	)
	newline := func() {
		if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteByte('\n')
		}
	}
	space := func() {
		s := sb.String()
		if s != "" && !strings.HasSuffix(s, "\n") && !strings.HasSuffix(s, " ") {
			sb.WriteByte(' ')
		}
	}

	sc := contentScanner{data: data}
	for {
		tok, kind := sc.next()
		if kind == tokEOF {
			break
		}
		switch kind {
		case tokString:
			strs = append(strs, tok)
			continue
		case tokNumber:
			operands = append(operands, tok)
			continue
		case tokOther:
			continue
		}

		switch tok {
		case "Tj", "TJ":
			for _, s := range strs {
				sb.WriteString(s)
			}
		case "'", "\"":
			newline()
			for _, s := range strs {
				sb.WriteString(s)
			}
		case "T*":
			newline()
		case "Td", "TD":
			if len(operands) >= 2 && !isZero(operands[len(operands)-1]) {
				newline()
			} else {
				space()
			}
		case "ET":
			newline()
		}
		strs = strs[:0]
		operands = operands[:0]
	}
	return strings.TrimRight(sb.String(), " \n")
}

func isZero(num string) bool {
	f, err := strconv.ParseFloat(num, 64)
	return err == nil && f == 0
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokString
	tokNumber
	tokOperator
	tokOther
)

// contentScanner tokenizes a PDF content stream. Literal strings honour
// escapes and balanced parentheses; hex strings are decoded; names,
// dictionaries and array brackets are reported as tokOther.
type contentScanner struct {
	data []byte
	pos  int
}

func (s *contentScanner) next() (string, tokenKind) {
	for s.pos < len(s.data) && isPDFSpace(s.data[s.pos]) {
		s.pos++
	}
	if s.pos >= len(s.data) {
		return "", tokEOF
	}

	c := s.data[s.pos]
	switch {
	case c == '%':
		for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
			s.pos++
		}
		return "", tokOther
	case c == '(':
		s.pos++
		return decodePDFText(s.literal()), tokString
	case c == '<' && s.pos+1 < len(s.data) && s.data[s.pos+1] == '<':
		s.pos += 2
		return "", tokOther
	case c == '>' && s.pos+1 < len(s.data) && s.data[s.pos+1] == '>':
		s.pos += 2
		return "", tokOther
	case c == '<':
		s.pos++
		return decodePDFText(s.hex()), tokString
	case c == '[' || c == ']' || c == '{' || c == '}':
		s.pos++
		return "", tokOther
	case c == '/':
		s.pos++
		s.word()
		return "", tokOther
	}

	w := s.word()
	if w == "" {
		// Stray delimiter such as ')' or '>'.
		s.pos++
		return "", tokOther
	}
	if _, err := strconv.ParseFloat(w, 64); err == nil {
		return w, tokNumber
	}
	return w, tokOperator
}

func (s *contentScanner) word() string {
	start := s.pos
	for s.pos < len(s.data) && !isPDFSpace(s.data[s.pos]) && !isPDFDelimiter(s.data[s.pos]) {
		s.pos++
	}
	return string(s.data[start:s.pos])
}

// literal reads a literal string body after the opening parenthesis.
func (s *contentScanner) literal() []byte {
	var out []byte
	depth := 1
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		switch c {
		case '\\':
			if s.pos >= len(s.data) {
				return out
			}
			e := s.data[s.pos]
			s.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				if s.pos < len(s.data) && s.data[s.pos] == '\n' {
					s.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for i := 0; i < 2 && s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '7'; i++ {
						val = val*8 + int(s.data[s.pos]-'0')
						s.pos++
					}
					out = append(out, byte(val))
				} else {
					out = append(out, e)
				}
			}
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return out
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return out
}

// hex reads a hex string body after the opening angle bracket.
func (s *contentScanner) hex() []byte {
	var digits []byte
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		if c := s.data[s.pos]; isHexDigit(c) {
			digits = append(digits, c)
		}
		s.pos++
	}
	s.pos++ // closing '>'
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	for i := range out {
		v, _ := strconv.ParseUint(string(digits[2*i:2*i+2]), 16, 8)
		out[i] = byte(v)
	}
	return out
}

// decodePDFText converts string bytes to UTF-8. A UTF-16BE byte order mark
// selects UTF-16; valid UTF-8 is kept; anything else is read as Windows-1252,
// which agrees with PDFDocEncoding for the Latin letters French text uses.
func decodePDFText(b []byte) string {
	if bytes.HasPrefix(b, []byte{0xFE, 0xFF}) {
		out, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(b)
		if err == nil {
			return string(out)
		}
	}
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(bytes.ToValidUTF8(b, nil))
	}
	return string(out)
}

func isPDFSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isPDFDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
