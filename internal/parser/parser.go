// Package parser extracts plain text lines from uploaded documents
// when the OCR service is disabled or the format is not OCR-eligible.
// Extractors produce geometry-free lines; downstream table detection
// then relies on column-gap inference alone.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/procdocs/sopstruct/internal/block"
)

// Extractor converts raw document bytes into ordered text lines.
type Extractor interface {
	Extract(r io.Reader, filename string) ([]block.TextLine, error)
}

// SupportedExtensions lists file extensions with a local extractor.
var SupportedExtensions = map[string]bool{
	".txt":  true,
	".html": true,
	".htm":  true,
	".pdf":  true,
	".docx": true,
}

// ForFile returns the appropriate extractor for a filename.
func ForFile(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".pdf":
		return &PDFExtractor{}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// splitLines appends each non-blank line of text to out, tagged with
// the given page.
func splitLines(out []block.TextLine, text string, page int) []block.TextLine {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, block.TextLine{Page: page, Text: strings.TrimRight(line, " \t\r")})
	}
	return out
}
