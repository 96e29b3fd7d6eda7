// gen-diagrams renders every workflow under examples/ into docs/assets/ as
// Mermaid (.mmd), ASCII (.txt) and PNG.
// Run: go run ./cmd/gen-diagrams
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/squadhub/squadgraph/internal/diagram"
)

func main() {
	home, _ := os.UserHomeDir()
	binDir := filepath.Join(home, ".squadgraph", "bin")

	if err := generate(context.Background(), "examples", filepath.Join("docs", "assets"), binDir, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "gen-diagrams: %v\n", err)
		os.Exit(1)
	}
}

// generate renders each *.yaml in srcDir into outDir. A workflow that fails
// to compile stops the run; a PNG that fails to render is reported and skipped.
func generate(ctx context.Context, srcDir, outDir, binDir string, w io.Writer) error {
	paths, err := filepath.Glob(filepath.Join(srcDir, "*.yaml"))
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no workflows found in %s", srcDir)
	}
	sort.Strings(paths)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	compiler := diagram.NewCompiler()
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		res, err := compiler.Compile(string(data))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		base := filepath.Join(outDir, name)

		if err := os.WriteFile(base+".mmd", []byte(res.Mermaid+"\n"), 0o644); err != nil {
			return err
		}
		ascii := diagram.RenderASCIIAuto(ctx, res.Model, binDir)
		if err := os.WriteFile(base+".txt", []byte(ascii), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(w, "=== %s (%s, %d nodes) ===\n%s\n", name, res.Dialect, len(res.Model.Nodes), ascii)

		png, err := diagram.RenderImage(ctx, res.Model, diagram.ImagePNG)
		if err != nil {
			fmt.Fprintf(w, "image error for %s: %v\n", name, err)
			continue
		}
		if err := os.WriteFile(base+".png", png, 0o644); err != nil {
			return err
		}
	}
	return nil
}
