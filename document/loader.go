// Package document provides text extraction and chunking for uploaded
// documents.
//
// Information Hiding:
// - PDF parsing library and per-page error recovery
// - File-type detection by extension
// - Sentence segmentation and overlap mechanics inside the chunker

package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Page is the extracted text of one document page. Plain-text documents
// are treated as a single page.
type Page struct {
	Number int
	Text   string
}

// Document is the extracted text of one uploaded file.
type Document struct {
	Name  string
	Path  string
	Pages []Page
}

// CharCount returns the total extracted character count.
func (d *Document) CharCount() int {
	total := 0
	for _, p := range d.Pages {
		total += len(p.Text)
	}
	return total
}

// Load extracts text from the file at path. PDF files are extracted page
// by page; .txt, .md, and unknown extensions are read as plain text.
func Load(path string) (*Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return loadPDF(path)
	default:
		return loadPlainText(path)
	}
}

// loadPDF extracts text from every readable page. Pages that fail to
// decode are skipped rather than failing the whole document.
func loadPDF(path string) (*Document, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer file.Close()

	doc := &Document{
		Name: filepath.Base(path),
		Path: path,
	}

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		doc.Pages = append(doc.Pages, Page{Number: pageNum, Text: text})
	}

	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("no extractable text in %s", path)
	}
	return doc, nil
}

func loadPlainText(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, fmt.Errorf("no extractable text in %s", path)
	}

	return &Document{
		Name:  filepath.Base(path),
		Path:  path,
		Pages: []Page{{Number: 1, Text: text}},
	}, nil
}
