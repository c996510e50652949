package service

import (
	"bytes"
	"fmt"
	"strings"

	"paynote/internal/models"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

const maxBriefChars = 8000

// BriefReader pulls the text out of an uploaded PDF brief (a quote, an order
// form) so it can be used as an invoice description.
type BriefReader struct {
	logger *zap.Logger
}

func NewBriefReader(logger *zap.Logger) *BriefReader {
	return &BriefReader{logger: logger}
}

func (r *BriefReader) ExtractText(data []byte) (string, error) {
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return "", fmt.Errorf("%w: brief must be a PDF document", models.ErrValidation)
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("%w: open pdf: %v", models.ErrValidation, err)
	}
	defer doc.Close()

	var b strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			r.logger.Warn("Failed to extract text from page",
				zap.Int("page", i+1),
				zap.Error(err),
			)
			continue
		}
		if pageText != "" {
			b.WriteString(pageText)
			b.WriteString("\n")
		}
	}

	text := strings.TrimSpace(sanitizeUTF8(b.String()))
	if text == "" {
		return "", fmt.Errorf("%w: no text found in PDF", models.ErrValidation)
	}

	r.logger.Info("Brief text extracted",
		zap.Int("pages", doc.NumPage()),
		zap.Int("text_length", len(text)),
	)

	if runes := []rune(text); len(runes) > maxBriefChars {
		text = string(runes[:maxBriefChars])
	}

	return text, nil
}
