package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	ink "github.com/ChanGohi195/kanji-master-3rd-grade/internal/imaging"
)

// DefaultLanguage is the Tesseract language used when none is given.
const DefaultLanguage = "jpn"

const (
	// scanSize is the edge length the ink grid is upscaled to.
	scanSize = 256
	// margin is the white border added around the upscaled grid.
	margin = 32
)

// ErrBlankImage is returned when there is no ink to read.
var ErrBlankImage = errors.New("ocr: image has no ink")

// Symbol is one character Tesseract found, with its own confidence.
type Symbol struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Reading is Tesseract's interpretation of a drawing.
type Reading struct {
	// Text is the recognized text with surrounding whitespace removed.
	// It may hold more than one character when Tesseract splits a stroke group.
	Text string `json:"text"`

	// Confidence is the mean symbol confidence (0.0 to 1.0), or 0 when
	// Tesseract reports no symbols.
	Confidence float64 `json:"confidence"`

	// Symbols lists every symbol-level result.
	Symbols []Symbol `json:"symbols"`
}

// ReadCharacter runs Tesseract over an ink image in single-character mode.
//
// language is a Tesseract language code; an empty string means
// DefaultLanguage. whitelist, when non-empty, restricts the characters
// Tesseract may answer with.
func ReadCharacter(img *ink.InkImage, language, whitelist string) (*Reading, error) {
	if err := img.Validate(); err != nil {
		return nil, fmt.Errorf("invalid image: %w", err)
	}
	if ink.Coverage(img, ink.DefaultInkThreshold) == 0 {
		return nil, ErrBlankImage
	}
	if language == "" {
		language = DefaultLanguage
	}

	data, err := encodeForScan(img)
	if err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_CHAR); err != nil {
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if whitelist != "" {
		if err := client.SetWhitelist(whitelist); err != nil {
			return nil, fmt.Errorf("failed to set whitelist: %w", err)
		}
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	reading := &Reading{
		Text:    strings.TrimSpace(text),
		Symbols: []Symbol{},
	}

	// Return just text if boxes fail
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_SYMBOL)
	if err != nil {
		return reading, nil
	}

	var total float64
	for _, box := range boxes {
		word := strings.TrimSpace(box.Word)
		if word == "" {
			continue
		}
		conf := box.Confidence / 100.0
		reading.Symbols = append(reading.Symbols, Symbol{Text: word, Confidence: conf})
		total += conf
	}
	if len(reading.Symbols) > 0 {
		reading.Confidence = total / float64(len(reading.Symbols))
	}
	return reading, nil
}

// prepareForScan renders the ink as black on white, upscaled to scanSize and
// framed by a white margin.
func prepareForScan(img *ink.InkImage) *image.NRGBA {
	scaled := imaging.Resize(ink.ToGray(img), scanSize, scanSize, imaging.Linear)
	canvas := imaging.New(scanSize+2*margin, scanSize+2*margin, color.White)
	return imaging.PasteCenter(canvas, scaled)
}

func encodeForScan(img *ink.InkImage) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, prepareForScan(img)); err != nil {
		return nil, fmt.Errorf("failed to encode scan image: %w", err)
	}
	return buf.Bytes(), nil
}
