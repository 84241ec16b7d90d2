// Package extractor converts a PDF byte stream into a single plain-text blob,
// page-concatenated in page order.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrEmptyInput is returned for a zero-length input stream. An empty
	// upload is surfaced explicitly, never as an empty text blob.
	ErrEmptyInput = errors.New("empty input document")

	// ErrUnreadableDocument is returned when the bytes do not parse as a PDF.
	ErrUnreadableDocument = errors.New("unreadable document")
)

// PDFExtractor extracts text with github.com/ledongthuc/pdf. Extraction is
// pure and deterministic for a given byte sequence; the zero value is ready
// to use.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText reads the whole stream and returns the concatenation of every
// page's text in page order. No whitespace normalization is applied across
// page boundaries. The source reader is consumed; callers that need the bytes
// again must seek back themselves.
func (e *PDFExtractor) ExtractText(r io.Reader) (text string, err error) {
	// the pdf library panics on some malformed documents
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrUnreadableDocument, rec)
		}
	}()

	buf := new(bytes.Buffer)
	size, err := buf.ReadFrom(r)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	if size == 0 {
		return "", ErrEmptyInput
	}

	reader, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), size)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}

	var sb bytes.Buffer
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrUnreadableDocument, pageNum, err)
		}
		for _, row := range rows {
			for i, word := range row.Content {
				if i > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(word.S)
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}
