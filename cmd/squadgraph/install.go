package main

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
)

const (
	mermaidASCIIVersion = "1.1.0"
	mermaidASCIIBin     = "mermaid-ascii"
	mermaidASCIIBaseURL = "https://github.com/AlexanderGrooff/mermaid-ascii/releases/download"
)

// SHA-256 checksums for mermaid-ascii v1.1.0 release assets.
var mermaidASCIIChecksums = map[string]string{
	"mermaid-ascii_Darwin_arm64.tar.gz":  "068d2ff869d4921655cab471500fffd8c3ed28155b100518ed3cf3835d53d3d0",
	"mermaid-ascii_Darwin_x86_64.tar.gz": "0cd4c9c01a03284fe866f39a1ce1aaee1e6a2fbd91deedc4ec254cb87622eec8",
	"mermaid-ascii_Linux_arm64.tar.gz":   "3b7d0a95141bfbca838e445ea802ffb7fba8873b3c4af498482c84f83526f2db",
	"mermaid-ascii_Linux_x86_64.tar.gz":  "838ea93d561b3bc83aa15531c6ed7d2d261a8edc521d5484f7e91fe831cc4c65",
}

// httpGetter is satisfied by *http.Client.
type httpGetter interface {
	Get(url string) (*http.Response, error)
}

// asciiInstaller downloads and verifies the mermaid-ascii release archive.
type asciiInstaller struct {
	client    httpGetter
	baseURL   string
	checksums map[string]string
	logger    *slog.Logger
}

// newInstallASCIICmd creates the 'install-ascii' subcommand. Without the
// binary, ASCII output falls back to the built-in renderer.
func newInstallASCIICmd(a *app) *cobra.Command {
	var (
		dir   string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "install-ascii",
		Short: "Download the mermaid-ascii renderer used for ASCII output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("dir") {
				dir = a.cfg.ASCIIBinDir
			}
			assetName, err := mermaidASCIIAssetName(runtime.GOOS, runtime.GOARCH)
			if err != nil {
				return err
			}

			in := asciiInstaller{
				client:    &http.Client{Timeout: 60 * time.Second},
				baseURL:   mermaidASCIIBaseURL + "/" + mermaidASCIIVersion,
				checksums: mermaidASCIIChecksums,
				logger:    a.logger,
			}
			dest, err := in.install(dir, assetName, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mermaid-ascii installed at %s\n", dest)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "install directory (default: ascii_bin_dir)")
	cmd.Flags().BoolVar(&force, "force", false, "reinstall even if the binary exists")
	return cmd
}

// install fetches assetName into binDir and returns the binary path.
// An asset without a known checksum is refused.
func (in asciiInstaller) install(binDir, assetName string, force bool) (string, error) {
	destPath := filepath.Join(binDir, mermaidASCIIBin)

	if _, err := os.Stat(destPath); err == nil && !force {
		in.logger.Info("mermaid-ascii already installed", slog.String("path", destPath))
		return destPath, nil
	}

	expected, ok := in.checksums[assetName]
	if !ok {
		return "", fmt.Errorf("no known checksum for %s", assetName)
	}

	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", binDir, err)
	}

	url := in.baseURL + "/" + assetName
	in.logger.Info("downloading mermaid-ascii", slog.String("url", url))

	tmpPath, actual, err := in.download(url, binDir)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", assetName, err)
	}
	defer os.Remove(tmpPath)

	if actual != expected {
		return "", fmt.Errorf("checksum mismatch for %s (expected %s, got %s)", assetName, expected, actual)
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := extractTarGz(f, binDir, mermaidASCIIBin); err != nil {
		_ = os.Remove(destPath)
		return "", fmt.Errorf("extract %s: %w", assetName, err)
	}
	if err := os.Chmod(destPath, 0o755); err != nil {
		return "", err
	}
	return destPath, nil
}

// download streams url into a temp file in dir and returns its path with the
// SHA-256 hex digest of the bytes written. Caller must remove the file.
func (in asciiInstaller) download(url, dir string) (string, string, error) {
	resp, err := in.client.Get(url)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("download returned %d", resp.StatusCode)
	}

	f, err := os.CreateTemp(dir, "download-*")
	if err != nil {
		return "", "", err
	}
	path := f.Name()

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(f, h), resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		return "", "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", "", err
	}
	return path, hex.EncodeToString(h.Sum(nil)), nil
}

// mermaidASCIIAssetName returns the GitHub release asset name for a platform.
func mermaidASCIIAssetName(goos, goarch string) (string, error) {
	var osName string
	switch goos {
	case "darwin":
		osName = "Darwin"
	case "linux":
		osName = "Linux"
	default:
		return "", fmt.Errorf("mermaid-ascii: unsupported OS %q", goos)
	}

	var archName string
	switch goarch {
	case "amd64":
		archName = "x86_64"
	case "arm64":
		archName = "arm64"
	case "386":
		archName = "i386"
	default:
		return "", fmt.Errorf("mermaid-ascii: unsupported architecture %q", goarch)
	}

	return fmt.Sprintf("mermaid-ascii_%s_%s.tar.gz", osName, archName), nil
}

// extractTarGz extracts a specific file from a tar.gz archive into destDir.
func extractTarGz(r io.Reader, destDir, targetName string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("gzip: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return fmt.Errorf("file %q not found in archive", targetName)
		}
		if err != nil {
			return fmt.Errorf("tar: %w", err)
		}

		// Archives may carry a directory prefix.
		if filepath.Base(hdr.Name) != targetName || hdr.Typeflag != tar.TypeReg {
			continue
		}

		destPath := filepath.Join(destDir, targetName)
		f, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
		if err != nil {
			return fmt.Errorf("create %s: %w", destPath, err)
		}
		if _, err := io.Copy(f, tr); err != nil { //nolint:gosec // bounded by tar header size
			f.Close()
			return fmt.Errorf("write %s: %w", destPath, err)
		}
		return f.Close()
	}
}
