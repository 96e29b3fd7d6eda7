package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/squadhub/squadgraph/internal/logging"
)

// Output formats accepted by render and the format config key.
const (
	formatMermaid = "mermaid"
	formatASCII   = "ascii"
	formatPNG     = "png"
	formatSVG     = "svg"
)

var formats = []string{formatMermaid, formatASCII, formatPNG, formatSVG}

// app is the state shared by every subcommand once flags and config are resolved.
type app struct {
	cfg    Config
	logger *slog.Logger
}

// newRootCmd creates the root 'squadgraph' command with persistent flags and subcommands.
func newRootCmd() *cobra.Command {
	a := &app{}
	var logLevel string

	root := &cobra.Command{
		Use:           "squadgraph",
		Short:         "Render multi-agent workflow YAML as Mermaid flowcharts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.cfg = loadConfig()
			if cmd.Flags().Changed("log-level") {
				a.cfg.LogLevel = logLevel
			}
			level, err := logging.ParseLevel(a.cfg.LogLevel)
			if err != nil {
				return err
			}
			a.logger = logging.New(cmd.ErrOrStderr(), level)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newRenderCmd(a),
		newLintCmd(a),
		newMCPCmd(a),
		newInstallASCIICmd(a),
		newVersionCmd(),
	)
	return root
}

// readInput returns the contents of path, or of stdin when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}
