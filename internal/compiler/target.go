package compiler

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lhaig/jswitch/internal/codegen"
)

// getFileExtension returns the file extension for the given dump format
func getFileExtension(format codegen.Format) string {
	switch format {
	case codegen.FormatJSON:
		return ".json"
	case codegen.FormatYAML:
		return ".yaml"
	default:
		return ".txt"
	}
}

// OutputPath names the dump written for baseName in format. A baseName that
// already carries the format's extension is used as is.
func OutputPath(baseName string, format codegen.Format) string {
	ext := getFileExtension(format)
	if strings.EqualFold(filepath.Ext(baseName), ext) {
		return baseName
	}
	return baseName + ext
}

// EmitDump compiles paths and writes the dump to the output path derived
// from baseName. Nothing is written when compilation reports errors. The
// written path is returned.
func EmitDump(paths []string, baseName string, format codegen.Format, opts ...Option) (string, *Result, error) {
	var buf bytes.Buffer
	res, err := DumpProject(&buf, paths, format, opts...)
	if err != nil {
		return "", res, err
	}
	if res.Diagnostics.HasErrors() {
		return "", res, fmt.Errorf("compilation errors:\n%s", res.Diagnostics.Format(""))
	}

	outPath := OutputPath(baseName, format)
	if dir := filepath.Dir(outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", res, fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
		return "", res, fmt.Errorf("failed to write output file: %w", err)
	}
	return outPath, res, nil
}
