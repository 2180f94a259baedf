package load

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// ErrIndexNotFound is returned when an index document does not exist.
var ErrIndexNotFound = errors.New("load: index file not found")

// Format is an index document encoding.
type Format string

// Supported formats.
const (
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// FormatOf returns the format implied by the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".msgpack", ".mpk", ".idx":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("load: unknown index format for %q", path)
	}
}

// Decode reads a document in the given format.
func Decode(r io.Reader, format Format) (*Document, error) {
	doc := &Document{}
	var err error
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(doc)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(doc)
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(doc)
	default:
		return nil, fmt.Errorf("load: unsupported format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("load: decode %s index: %w", format, err)
	}
	return doc, nil
}

// Encode writes a document in the given format.
func Encode(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(doc)
	default:
		return fmt.Errorf("load: unsupported format %q", format)
	}
}

// ReadFile reads an index document, choosing the decoder by extension.
func ReadFile(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, path)
		}
		return nil, fmt.Errorf("load: read index %s: %w", path, err)
	}
	doc, err := Decode(bytes.NewReader(buf), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Open reads every index document and returns their composite view.
func Open(paths ...string) (Index, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no index configured", ErrIndexNotFound)
	}
	indexes := make([]Index, 0, len(paths))
	for _, p := range paths {
		doc, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		idx, err := NewIndex(doc.Classes...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		indexes = append(indexes, idx)
	}
	return NewComposite(indexes...), nil
}
