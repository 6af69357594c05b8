package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chatwrapped-go/internal/types"
	"github.com/tidwall/gjson"
)

// Format is the input kind, resolved once from the file name and leading bytes.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatZIP
	FormatGzip
	FormatTar
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatZIP:
		return "zip"
	case FormatGzip:
		return "gzip"
	case FormatTar:
		return "tar"
	default:
		return "unknown"
	}
}

// IsArchive reports whether the format is a compressed or bundled export.
func (f Format) IsArchive() bool {
	return f == FormatZIP || f == FormatGzip || f == FormatTar
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectFormat sniffs magic bytes first and falls back to the extension.
func DetectFormat(name string, data []byte) Format {
	switch {
	case bytes.HasPrefix(data, []byte("PK\x03\x04")), bytes.HasPrefix(data, []byte("PK\x05\x06")):
		return FormatZIP
	case bytes.HasPrefix(data, []byte{0x1f, 0x8b}):
		return FormatGzip
	case len(data) > 262 && string(data[257:262]) == "ustar":
		return FormatTar
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zip":
		return FormatZIP
	case ".gz", ".tgz":
		return FormatGzip
	case ".tar":
		return FormatTar
	}
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(data, utf8BOM), " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatUnknown
}

// Parse validates the upload and returns its JSON document.
func Parse(name string, data []byte) (gjson.Result, error) {
	format := DetectFormat(name, data)
	if format.IsArchive() {
		return gjson.Result{}, &UnsupportedFormatError{Name: name, Format: format}
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return gjson.Result{}, &ParseError{Name: name, Err: errors.New("empty input")}
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, &ParseError{Name: name, Err: errors.New("not valid JSON")}
	}
	return gjson.ParseBytes(data), nil
}

// Decode parses an export and normalizes it into conversation records.
func Decode(name string, data []byte) ([]types.ConversationRecord, error) {
	doc, err := Parse(name, data)
	if err != nil {
		return nil, err
	}
	return ExtractConversations(doc), nil
}

// Load reads an export file from disk.
func Load(path string) ([]types.ConversationRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Decode(filepath.Base(path), data)
}
