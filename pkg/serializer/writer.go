/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package serializer renders command output in JSON, YAML or table form and
// routes it to stdout, a file, or a Kubernetes ConfigMap.
package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

const (
	// FormatJSON renders indented JSON.
	FormatJSON Format = "json"
	// FormatYAML renders YAML.
	FormatYAML Format = "yaml"
	// FormatTable renders a flattened FIELD/VALUE table.
	FormatTable Format = "table"
)

// SupportedFormats returns the valid format names.
func SupportedFormats() []string {
	return []string{string(FormatJSON), string(FormatYAML), string(FormatTable)}
}

// IsUnknown reports whether f is not one of the supported formats.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	}
	return true
}

// Writer serializes a value to some destination.
type Writer interface {
	Serialize(ctx context.Context, data any) error
}

// Closer is implemented by writers holding resources that need releasing.
type Closer interface {
	Close() error
}

// StreamWriter writes serialized output to an io.Writer. Unknown formats fall
// back to JSON.
type StreamWriter struct {
	format Format
	out    io.Writer
	file   *os.File
}

// NewWriter returns a StreamWriter targeting out.
func NewWriter(format Format, out io.Writer) *StreamWriter {
	if out == nil {
		out = os.Stdout
	}
	return &StreamWriter{format: format, out: out}
}

// NewStdoutWriter returns a StreamWriter targeting stdout.
func NewStdoutWriter(format Format) *StreamWriter {
	return NewWriter(format, os.Stdout)
}

// NewFileWriterOrStdout returns a writer for the given destination: an empty
// path or "-" selects stdout, a cm://namespace/name URI selects a Kubernetes
// ConfigMap, anything else is created as a file.
func NewFileWriterOrStdout(format Format, path string) (Writer, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == StdoutURI {
		return NewStdoutWriter(format), nil
	}
	if strings.HasPrefix(path, ConfigMapURIScheme) {
		namespace, name, err := parseConfigMapURI(path)
		if err != nil {
			return nil, err
		}
		return NewConfigMapWriter(format, namespace, name), nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	return &StreamWriter{format: format, out: file, file: file}, nil
}

// Serialize writes data to the writer's destination in the configured format.
func (w *StreamWriter) Serialize(ctx context.Context, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded, err := Encode(w.format, data)
	if err != nil {
		return err
	}
	if _, err := w.out.Write(encoded); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Close releases the underlying file, if any. Safe to call repeatedly.
func (w *StreamWriter) Close() error {
	if w.file == nil || w.file == os.Stdout {
		return nil
	}
	file := w.file
	w.file = nil
	return file.Close()
}

// Encode renders data in the given format. Unknown formats encode as JSON.
func Encode(format Format, data any) ([]byte, error) {
	switch format {
	case FormatYAML:
		out, err := yaml.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize to yaml: %w", err)
		}
		return out, nil
	case FormatTable:
		return encodeTable(data)
	default:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to serialize to json: %w", err)
		}
		return append(out, '\n'), nil
	}
}

var headerCaser = cases.Upper(language.Und)

func encodeTable(data any) ([]byte, error) {
	rows, err := flatten(data)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", headerCaser.String("field"), headerCaser.String("value"))
	if len(rows) == 0 {
		fmt.Fprintln(tw, "<empty>\t")
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row.key, row.value)
	}
	if err := tw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to render table: %w", err)
	}
	return []byte(buf.String()), nil
}

type tableRow struct {
	key   string
	value string
}

// flatten reduces arbitrarily nested data to dotted key/value rows, going
// through JSON so that structs, maps and slices are treated uniformly.
func flatten(data any) ([]tableRow, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to flatten data: %w", err)
	}
	var generic any
	if err := json.Unmarshal(encoded, &generic); err != nil {
		return nil, fmt.Errorf("failed to flatten data: %w", err)
	}

	var rows []tableRow
	walk("", generic, &rows)
	return rows, nil
}

func walk(prefix string, value any, rows *[]tableRow) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child := k
			if prefix != "" {
				child = prefix + "." + k
			}
			walk(child, v[k], rows)
		}
	case []any:
		for i, item := range v {
			walk(fmt.Sprintf("%s[%d]", prefix, i), item, rows)
		}
	case nil:
		if prefix != "" {
			*rows = append(*rows, tableRow{key: prefix, value: ""})
		}
	default:
		*rows = append(*rows, tableRow{key: prefix, value: fmt.Sprintf("%v", v)})
	}
}
