package diagram

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// mermaidASCIIBin is the executable name of the mermaid-ascii tool.
const mermaidASCIIBin = "mermaid-ascii"

// RenderASCIIAuto renders through the mermaid-ascii binary in binDir when it
// exists and succeeds, and falls back to RenderASCII otherwise.
func RenderASCIIAuto(ctx context.Context, model *DiagramModel, binDir string) string {
	if binDir != "" {
		binPath := filepath.Join(binDir, mermaidASCIIBin)
		if _, err := os.Stat(binPath); err == nil {
			if out, err := RenderASCIIViaCLI(ctx, model, binPath); err == nil {
				return out
			}
		}
	}
	return RenderASCII(model)
}

// RenderASCIIViaCLI pipes RenderMermaidForCLI output through the binary at binPath.
func RenderASCIIViaCLI(ctx context.Context, model *DiagramModel, binPath string) (string, error) {
	cmd := exec.CommandContext(ctx, binPath)
	cmd.Stdin = strings.NewReader(RenderMermaidForCLI(model))
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("mermaid-ascii: %w: %s", err, stderr.String())
	}
	return stdout.String(), nil
}

// RenderMermaidForCLI emits the subset of Mermaid that mermaid-ascii
// understands: bare edges between readable ids, no node declarations, no
// classDefs. Each node is named label@agent with spaces turned into dashes.
// Nodes that take part in no edge are listed on their own.
func RenderMermaidForCLI(model *DiagramModel) string {
	var b strings.Builder
	b.WriteString("graph TD\n")

	display := make(map[string]string, len(model.Nodes))
	for _, n := range model.Nodes {
		display[n.ID] = cliNodeID(n)
	}
	resolve := func(id string) string {
		if d, ok := display[id]; ok {
			return d
		}
		return id
	}

	linked := make(map[string]bool, len(model.Nodes))
	for _, e := range model.Edges {
		label := ""
		if e.Label != "" {
			label = "|" + cliText(e.Label) + "|"
		}
		fmt.Fprintf(&b, "    %s -->%s %s\n", resolve(e.From), label, resolve(e.To))
		linked[e.From] = true
		linked[e.To] = true
	}
	for _, n := range model.Nodes {
		if !linked[n.ID] {
			fmt.Fprintf(&b, "    %s\n", display[n.ID])
			linked[n.ID] = true
		}
	}
	return b.String()
}

func cliNodeID(n *Node) string {
	label := n.Label
	if label == "" {
		label = n.ID
	}
	return strings.ReplaceAll(cliText(label), " ", "-") + "@" + n.Agent
}

// cliText strips characters mermaid-ascii treats as syntax.
func cliText(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', '{', '}', '(', ')', '<', '>', '|', '"', '\n':
			return -1
		}
		return r
	}, s)
}
