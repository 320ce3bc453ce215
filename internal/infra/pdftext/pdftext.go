// Package pdftext pulls the plain text layer out of PDF files.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	ErrNotPDF = errors.New("file is not a PDF")
	ErrNoText = errors.New("PDF has no extractable text")
)

func IsPDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF-"))
}

var spaceRun = regexp.MustCompile(`[ \t]+`)

// Extract returns the text of every page. Scanned PDFs without a text layer
// yield ErrNoText.
func Extract(data []byte) (text string, err error) {
	if !IsPDF(data) {
		return "", ErrNotPDF
	}

	// the parser panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	text = strings.TrimSpace(spaceRun.ReplaceAllString(string(raw), " "))
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}
