// Package extract normalizes uploaded study documents into plain text.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedFormat is returned for file extensions the extractor does
// not recognize, before any bytes are read.
var ErrUnsupportedFormat = errors.New("unsupported file type: upload a .txt, .pdf, .docx, or .pptx/.ppsx file")

// CorruptError wraps a decode or parse failure of a recognized format.
// The caller keeps running and may retry with a different file.
type CorruptError struct {
	Cause error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("could not process the file, it might be corrupted or in an unsupported format: %v", e.Cause)
}

func (e *CorruptError) Unwrap() error { return e.Cause }

// File is an uploaded document. The format is taken from the name's
// extension; the bytes are never interpreted before the extension check.
type File struct {
	Name string
	Data []byte
}

// Extract converts a supported document into normalized plain text.
// The result is trimmed; an empty result is valid output, not an error.
// Extraction is a pure function of its input.
func Extract(f File) (string, error) {
	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".txt":
		text, err = extractPlainText(f.Data)
	case ".pdf":
		text, err = extractPDF(f.Data)
	case ".docx":
		text, err = extractDOCX(f.Data)
	case ".pptx", ".ppsx":
		text, err = extractPPTX(f.Data)
	default:
		return "", ErrUnsupportedFormat
	}
	if err != nil {
		return "", &CorruptError{Cause: err}
	}
	return strings.TrimSpace(text), nil
}

func extractPlainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("not valid UTF-8 text")
	}
	return string(data), nil
}
