package main

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/squadhub/squadgraph/internal/diagram"
	"github.com/squadhub/squadgraph/internal/logging"
)

// newRenderCmd creates the 'render' subcommand.
func newRenderCmd(a *app) *cobra.Command {
	var (
		format string
		output string
		theme  string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "render <file|->",
		Short: "Render a workflow file as a Mermaid, ASCII, PNG or SVG diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = a.cfg.Format
			}
			if !cmd.Flags().Changed("theme") {
				theme = a.cfg.Theme
			}
			if !cmd.Flags().Changed("strict") {
				strict = a.cfg.Strict
			}
			if !slices.Contains(formats, format) {
				return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(formats, ", "))
			}

			path := args[0]
			ctx := logging.WithSource(cmd.Context(), path)
			log := logging.LogWith(ctx, a.logger)

			text, err := readInput(cmd, path)
			if err != nil {
				return err
			}

			th, err := diagram.LookupTheme(theme)
			if err != nil {
				return err
			}
			compiler := diagram.NewCompiler(
				diagram.WithLogger(log),
				diagram.WithTheme(th),
				diagram.WithStrictReferences(strict),
			)
			res, err := compiler.Compile(text)
			if err != nil {
				return err
			}

			var out []byte
			switch format {
			case formatASCII:
				out = []byte(diagram.RenderASCIIAuto(ctx, res.Model, a.cfg.ASCIIBinDir))
			case formatPNG:
				out, err = diagram.RenderImage(ctx, res.Model, diagram.ImagePNG)
			case formatSVG:
				out, err = diagram.RenderImage(ctx, res.Model, diagram.ImageSVG)
			default:
				out = []byte(res.Mermaid + "\n")
			}
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return err
			}
			log.Info("diagram written",
				slog.String("output", output),
				slog.String("format", format),
				slog.String("dialect", string(res.Dialect)),
				slog.Int("nodes", len(res.Model.Nodes)),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatMermaid, "output format: "+strings.Join(formats, ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().StringVar(&theme, "theme", "", "Mermaid theme: "+strings.Join(diagram.ThemeNames(), ", "))
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on references to unknown nodes")
	return cmd
}
