package sheet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Encode renders a document as 2-space indented JSON with a trailing
// newline. Markup in translations is kept unescaped.
func Encode(doc map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("sheet: encoding: %w", err)
	}
	return buf.Bytes(), nil
}

// Write stores each document as {dir}/{lang}/{namespace}.json and returns
// the written paths in language order.
func Write(dir, namespace string, res *Result) ([]string, error) {
	paths := make([]string, 0, len(res.Languages))
	for _, lang := range res.Languages {
		data, err := Encode(res.Docs[lang])
		if err != nil {
			return paths, err
		}

		langDir := filepath.Join(dir, lang)
		if err := os.MkdirAll(langDir, 0o755); err != nil {
			return paths, fmt.Errorf("sheet: creating %s: %w", langDir, err)
		}
		path := filepath.Join(langDir, namespace+".json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("sheet: writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
