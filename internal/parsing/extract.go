package parsing

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// DefaultPDFToText is the poppler binary used to read PDF uploads
const DefaultPDFToText = "pdftotext"

// TextExtractor turns a document into plain text
type TextExtractor interface {
	ExtractText(ctx context.Context, content []byte) (string, error)
}

// PDFToText extracts text by piping the document through pdftotext
type PDFToText struct {
	// Binary is the executable to run. Empty means DefaultPDFToText.
	Binary string
}

// ExtractText implements TextExtractor
func (p PDFToText) ExtractText(ctx context.Context, content []byte) (string, error) {
	if len(content) == 0 {
		return "", &ExtractError{Message: "empty document"}
	}
	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		return "", &ExtractError{Message: "not a PDF document"}
	}

	bin := p.Binary
	if bin == "" {
		bin = DefaultPDFToText
	}

	// "-" for both paths reads stdin and writes stdout
	cmd := exec.CommandContext(ctx, bin, "-layout", "-enc", "UTF-8", "-", "-")
	cmd.Stdin = bytes.NewReader(content)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", &ExtractError{Message: bin + " is not installed", Cause: err}
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "pdftotext failed"
		}
		return "", &ExtractError{Message: msg, Cause: err}
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return "", &ExtractError{Message: "document contains no extractable text"}
	}
	return text, nil
}
