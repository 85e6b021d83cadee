// Package pdftext extracts plain text from PDF documents page by page.
package pdftext

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractFile returns the text of the PDF at path, one trailing newline per
// page that produced text.
func ExtractFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	return Extract(f, info.Size())
}

// ExtractBytes is Extract over an in-memory document.
func ExtractBytes(data []byte) (string, error) {
	return Extract(bytes.NewReader(data), int64(len(data)))
}

// Extract reads a PDF from r. The underlying parser panics on some
// malformed files; that is reported as an error.
func Extract(r io.ReaderAt, size int64) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		if pageText != "" {
			b.WriteString(pageText)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}
