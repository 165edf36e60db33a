package gen

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"
)

// writeFile renders f, formats it with goimports and writes it under the
// target directory. When formatting fails the unformatted source is kept
// next to the output with an ".error" suffix for debugging.
func (g *JenniferGenerator) writeFile(f *jen.File, name string) error {
	// 1. Render
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return NewGenerationError("render", name, "render file", err)
	}

	// 2. Format using goimports (groups imports and drops unused ones)
	path := filepath.Join(g.cfg.Target, name)
	formatted, err := imports.Process(path, buf.Bytes(), nil)
	if err != nil {
		debugPath := path + ".error"
		_ = os.WriteFile(debugPath, buf.Bytes(), 0o644)
		return NewGenerationError("format", name, "unformatted source written to "+debugPath, err)
	}

	// 3. Write
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return NewGenerationError("write", name, "create directory", err)
	}
	if err := os.WriteFile(path, formatted, 0o644); err != nil {
		return NewGenerationError("write", name, "write file", err)
	}
	g.cfg.Log().Debug("file written", "file", name, "bytes", len(formatted))
	return nil
}
