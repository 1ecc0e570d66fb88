package workspace

import (
	"context"
	"os"

	"golang.org/x/text/encoding"

	"compreplay/internal/common"
)

// TextLoader provides the contents of one document.
type TextLoader interface {
	LoadText(ctx context.Context) (string, error)
}

// FileTextLoader reads a document from disk.
// Encoding is the one given by /codepage:, nil means detection (see common.DecodeText).
type FileTextLoader struct {
	Path     string
	Encoding encoding.Encoding
}

func (loader FileTextLoader) LoadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(loader.Path)
	if err != nil {
		return "", err
	}
	return common.DecodeText(data, loader.Encoding)
}

// StringTextLoader serves contents that are already in memory.
type StringTextLoader string

func (text StringTextLoader) LoadText(context.Context) (string, error) {
	return string(text), nil
}
