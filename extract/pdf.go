package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/nehalmr/evalkit/imaging"
	"github.com/nehalmr/evalkit/observability"
)

// minEmbeddedTextLen is the smallest embedded text layer considered usable.
// Shorter layers are treated as scanner noise and the page is rendered for
// recognition instead.
const minEmbeddedTextLen = 50

// renderDPI renders recognition-bound pages at twice the PDF's nominal
// resolution so strokes survive binarization.
const renderDPI = 144

// ExtractPDF splits the document into pages. Pages with a usable embedded
// text layer contribute that text directly; the rest are rendered and run
// through the full recognition pipeline. Page outputs are concatenated in
// page order, separated by blank lines.
func (e *Extractor) ExtractPDF(ctx context.Context, path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", imaging.ErrDecode, err)
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		text, err := e.extractPage(ctx, doc, i)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	e.logger.Debug("pdf extracted",
		observability.String("path", path),
		observability.Int(observability.MetricPageCount, doc.NumPage()),
	)
	return strings.Join(pages, "\n\n"), nil
}

func (e *Extractor) extractPage(ctx context.Context, doc *fitz.Document, page int) (string, error) {
	embedded, err := doc.Text(page)
	if err == nil {
		if trimmed := strings.TrimSpace(embedded); len(trimmed) > minEmbeddedTextLen {
			return trimmed, nil
		}
	}

	img, err := doc.ImageDPI(page, renderDPI)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	src, err := imaging.FromImage(img)
	if err != nil {
		return "", err
	}
	defer src.Close()
	return e.ExtractImage(ctx, src)
}

// ExtractFile dispatches on the file extension: PDFs go through the page
// splitter, anything else is treated as a single scan image.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return e.ExtractPDF(ctx, path)
	}
	return e.ExtractImageFile(ctx, path)
}
