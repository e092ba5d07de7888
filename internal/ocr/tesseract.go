// Package ocr extracts text from images with the tesseract command line
// tool.
package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var ErrNoText = errors.New("no text found in image")

type Scanner interface {
	Scan(ctx context.Context, imagePath string) (string, error)
}

type Tesseract struct {
	binary   string
	language string
}

func NewTesseract(binary string) *Tesseract {
	if binary == "" {
		binary = "tesseract"
	}
	return &Tesseract{binary: binary, language: "eng"}
}

// Scan runs `tesseract <image> stdout -l eng` and returns the trimmed text.
func (t *Tesseract) Scan(ctx context.Context, imagePath string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.binary, imagePath, "stdout", "-l", t.language)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}
