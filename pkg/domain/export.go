package domain

import (
	"fmt"
	"strings"
)

// Format selects the serializer used for an export.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Extension returns the file extension without the leading dot.
func (f Format) Extension() string {
	return string(f)
}

// ParseFormat accepts "csv", "xlsx" and their dotted or upper-case variants.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Defaults for ExportTarget.
const (
	DefaultDirectory = "data"
	DefaultPrefix    = "test_data"
)

// ExportTarget is where and how a table is written.
// It resolves to {Directory}/{Prefix}_{index}.{ext} at export time.
type ExportTarget struct {
	Directory string `json:"directory" yaml:"directory" mapstructure:"directory"`
	Prefix    string `json:"prefix" yaml:"prefix" mapstructure:"prefix"`
	Format    Format `json:"format" yaml:"format" mapstructure:"format"`
}

// DefaultExportTarget writes CSV files named test_data_N.csv under ./data.
func DefaultExportTarget() ExportTarget {
	return ExportTarget{
		Directory: DefaultDirectory,
		Prefix:    DefaultPrefix,
		Format:    FormatCSV,
	}
}

// FileName returns the candidate file name for index.
func (t ExportTarget) FileName(index int) string {
	return fmt.Sprintf("%s_%d.%s", t.Prefix, index, t.Format.Extension())
}

// Validate rejects empty prefixes, prefixes that would escape Directory and
// formats that cannot be a file extension. Whether a serializer exists for the
// format is up to the exporter's registry.
func (t ExportTarget) Validate() error {
	if strings.TrimSpace(t.Prefix) == "" {
		return &ValidationError{Field: "prefix", Reason: "must not be empty", Err: ErrInvalidTarget}
	}
	if strings.ContainsAny(t.Prefix, `/\`) || t.Prefix == "." || t.Prefix == ".." {
		return &ValidationError{Field: "prefix", Reason: "must be a plain file name", Value: t.Prefix, Err: ErrInvalidTarget}
	}
	ext := t.Format.Extension()
	if ext == "" || strings.ContainsAny(ext, `./\`) {
		return &ValidationError{Field: "format", Reason: "must be a plain file extension", Value: ext, Err: ErrUnknownFormat}
	}
	return nil
}
