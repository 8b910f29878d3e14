// Package render turns the expanded documents into the JSON bytes the tools
// print: 4-space indentation, no HTML escaping, trailing newline.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/gamecenter-tools/matchrules/internal/errors"
)

const indent = "    "

// JSON encodes v as 4-space-indented JSON with a trailing newline. The
// encoder leaves <, > and & unescaped so property values round-trip the way
// a plain JSON dump writes them.
func JSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return nil, errors.NewOutputError("failed to encode output JSON", err)
	}
	return buf.Bytes(), nil
}

// Indent re-indents an already encoded JSON fragment without decoding it, so
// the original key and element order survives untouched.
func Indent(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", indent); err != nil {
		return nil, errors.NewOutputError("failed to re-indent JSON", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Compact renders v as single-line JSON for debug logging.
func Compact(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		logrus.WithError(err).Error("failed to marshal value for logging")
		return ""
	}
	return string(data)
}

// Write sends data to the file at path, or to stdout when path is empty.
func Write(path string, data []byte) error {
	if path == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return errors.NewOutputError("failed to write to stdout", err)
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to write output file '%s'", path), err)
	}
	return nil
}
