package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"docgrounder-be/pkg/apperr"

	"github.com/ledongthuc/pdf"
)

// Extensions the loader accepts. Anything else is rejected at upload time.
var supportedExtensions = map[string]bool{
	".pdf": true,
	".txt": true,
	".md":  true,
}

// IsSupportedFilename reports whether the file extension is one the loader
// can extract text from.
func IsSupportedFilename(name string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Extract loads a stored document and returns its plain text in original
// order. Unreadable content yields a CorruptInput error.
func Extract(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(path)
	case ".txt", ".md":
		return extractPlain(path)
	default:
		return "", apperr.New(apperr.KindInvalidFormat, fmt.Sprintf("unsupported document type %q", filepath.Ext(path)))
	}
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", apperr.Wrap(apperr.KindCorruptInput, "unreadable pdf", err)
	}
	defer f.Close()

	var sb strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", apperr.Wrap(apperr.KindCorruptInput, fmt.Sprintf("unreadable pdf page %d", i), err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", apperr.New(apperr.KindCorruptInput, "no text found in document")
	}
	return out, nil
}

func extractPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", apperr.Wrap(apperr.KindCorruptInput, "unreadable file", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "", apperr.New(apperr.KindCorruptInput, "no text found in document")
	}
	if !utf8.Valid(data) {
		return "", apperr.New(apperr.KindCorruptInput, "file is not valid utf-8 text")
	}
	return string(data), nil
}
