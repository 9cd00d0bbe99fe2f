package docset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultSourcePath is where Dash installs the Apple API Reference docset.
const DefaultSourcePath = "~/Library/Application Support/Dash/DocSets/Apple_API_Reference/Apple_API_Reference.docset"

// HelperDumper produces a fresh docset bundle by running the dump helper
// shipped inside the installed Apple API Reference docset.
type HelperDumper struct {
	Source    string // installed source docset
	OutputDir string
	Platforms []Platform
	Logger    *slog.Logger

	// Helper overrides the helper binary found inside Source.
	Helper string
}

// Check verifies that the source docset and its dump helper exist. It
// touches nothing on disk and is safe to call before the output directory
// is created.
func (d *HelperDumper) Check() error {
	src := d.source()
	if _, err := os.Stat(src.Root); err != nil {
		return &PreconditionError{
			Msg: fmt.Sprintf("unable to find %s at %q; check that the 'Apple API Reference' docset is installed", SourceBundleName, src.Root),
			Err: err,
		}
	}
	if _, err := os.Stat(d.helperPath()); err != nil {
		return &PreconditionError{
			Msg: fmt.Sprintf("%s does not contain %q; re-install the Apple API Reference from the Dash downloads pane", SourceBundleName, HelperName),
			Err: err,
		}
	}
	return nil
}

func (d *HelperDumper) source() Bundle {
	return Bundle{Root: ExpandHome(d.Source)}
}

func (d *HelperDumper) helperPath() string {
	if d.Helper != "" {
		return d.Helper
	}
	return d.source().HelperPath()
}

// Dump checks preconditions, runs the helper and renames its output to the
// platform-specific bundle name. The returned bundle contains an index.
func (d *HelperDumper) Dump(ctx context.Context) (Bundle, error) {
	if err := d.Check(); err != nil {
		return Bundle{}, err
	}
	helper := d.helperPath()

	out, err := PrepareOutputDir(d.OutputDir)
	if err != nil {
		return Bundle{}, err
	}

	for _, stale := range []string{SourceBundleName, IncompleteBundleName} {
		path := filepath.Join(out, stale)
		if _, err := os.Stat(path); err == nil {
			d.logger().Info("removing stale docset", "path", path)
			if err := os.RemoveAll(path); err != nil {
				return Bundle{}, fmt.Errorf("remove stale docset: %w", err)
			}
		}
	}

	d.logger().Info("dumping docset", "helper", helper, "output", out)
	if err := d.runHelper(ctx, helper, out); err != nil {
		return Bundle{}, err
	}

	dumped := filepath.Join(out, SourceBundleName)
	if _, err := os.Stat(dumped); err != nil {
		return Bundle{}, &PreconditionError{Msg: fmt.Sprintf("dump helper did not produce %q", dumped), Err: err}
	}

	final := Bundle{Root: filepath.Join(out, BundleName(d.Platforms))}
	if err := os.RemoveAll(final.Root); err != nil {
		return Bundle{}, fmt.Errorf("remove previous docset: %w", err)
	}
	if err := os.Rename(dumped, final.Root); err != nil {
		return Bundle{}, fmt.Errorf("rename docset: %w", err)
	}

	if _, err := os.Stat(final.IndexPath()); err != nil {
		return Bundle{}, &PreconditionError{
			Msg: fmt.Sprintf("unable to find docset database, expected at %q", final.IndexPath()),
			Err: err,
		}
	}
	return final, nil
}

func (d *HelperDumper) runHelper(ctx context.Context, helper, out string) error {
	cmd := exec.CommandContext(ctx, helper, "--dump", "--output", out)
	cmd.WaitDelay = 5 * time.Second

	// Combined output, forwarded line by line while the helper runs.
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	var runErr error
	var g errgroup.Group
	g.Go(func() error {
		runErr = cmd.Run()
		return pw.Close()
	})
	g.Go(func() error {
		return d.pumpOutput(pr)
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("read dump output: %w", err)
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return &DumpError{ExitCode: exitErr.ExitCode(), Err: runErr}
		}
		return &DumpError{ExitCode: -1, Err: runErr}
	}
	return nil
}

func (d *HelperDumper) pumpOutput(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		d.logger().Info("dump helper", "output", sc.Text())
	}
	err := sc.Err()
	// Keep draining so the helper never blocks on a full pipe.
	_, _ = io.Copy(io.Discard, r)
	return err
}

func (d *HelperDumper) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// PrepareOutputDir resolves dir to an absolute path and creates it. An
// existing non-directory at that path is a precondition failure.
func PrepareOutputDir(dir string) (string, error) {
	out, err := filepath.Abs(ExpandHome(dir))
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	if info, err := os.Stat(out); err == nil && !info.IsDir() {
		return "", preconditionf("output path %q exists and is not a directory", out)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return out, nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
