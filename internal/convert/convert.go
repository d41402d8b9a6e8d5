// Package convert ties the pipeline together: ZWOM source in, rendered ZWO
// document out.
package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sco1/zwom/internal/ingest/zwom"
	"github.com/sco1/zwom/internal/interp"
	"github.com/sco1/zwom/internal/zwo"
)

// Convert runs the full pipeline in memory: parse, validate, render.
// Failures come back as *zwom.SyntaxError or *interp.ValidationError.
func Convert(src string) ([]byte, error) {
	raw, err := zwom.Parse(src)
	if err != nil {
		return nil, err
	}

	blocks, ftp, err := interp.Validate(raw)
	if err != nil {
		return nil, err
	}

	doc, err := zwo.Render(blocks, ftp)
	if err != nil {
		return nil, err
	}
	return doc.Bytes(), nil
}

// ConvertFile converts the ZWOM file at in and writes the document to out.
// The output is staged in a temp file and renamed into place so a failed
// conversion never leaves a partial file behind.
func ConvertFile(in, out string) error {
	src, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("reading %s: %w", in, err)
	}

	doc, err := Convert(string(src))
	if err != nil {
		return fmt.Errorf("converting %s: %w", in, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(out), filepath.Base(out)+".tmp*")
	if err != nil {
		return fmt.Errorf("staging output: %w", err)
	}
	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing output: %w", err)
	}
	if err := os.Rename(tmp.Name(), out); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// OutputPath derives the default output path for a ZWOM input file by
// swapping its extension for .zwo.
func OutputPath(in string) string {
	return strings.TrimSuffix(in, filepath.Ext(in)) + ".zwo"
}
