package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-pdfsummary/internal/format"
	"github.com/alnah/go-pdfsummary/internal/summarize"
)

// warnExtensionMismatch writes a warning to w if path has an extension that
// does not match the rendered format.
func warnExtensionMismatch(w io.Writer, path string, kind format.Kind) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" || ext == kind.Extension() || (kind == format.MarkdownKind && ext == ".markdown") {
		return
	}
	_, _ = fmt.Fprintf(w, "Warning: output is %s regardless of %s extension\n", kindLabel(kind), ext)
}

func kindLabel(k format.Kind) string {
	if k == format.HTMLKind {
		return "HTML"
	}
	return "Markdown"
}

// defaultProgressCallback returns a progress callback that writes status
// messages to w.
func defaultProgressCallback(w io.Writer) func(phase string, current, total int) {
	return func(phase string, current, total int) {
		switch phase {
		case summarize.PhaseMap:
			_, _ = fmt.Fprintf(w, "  Summarizing part %d/%d...\n", current, total)
		case summarize.PhaseReduce:
			_, _ = fmt.Fprintln(w, "  Merging parts...")
		default:
			_, _ = fmt.Fprintln(w, "  Summarizing document...")
		}
	}
}

// checkOutputAvailable fails early when path exists and overwriting is not
// allowed, so no summarization work is spent on a run that cannot be saved.
func checkOutputAvailable(path string, force bool) error {
	if force {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s (use --force to overwrite): %w", path, ErrOutputExists)
	}
	return nil
}

// writeFileAtomic writes content to path atomically.
// It fails if the file already exists (O_EXCL), preventing accidental overwrites.
// On write failure, the partial file is removed.
func writeFileAtomic(path, content string) error {
	// #nosec G302 G304 -- user-specified output file with standard permissions
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("output file already exists: %s: %w", path, ErrOutputExists)
		}
		return fmt.Errorf("cannot create output file: %w", err)
	}

	if err := writeAll(f, content); err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

// writeAll writes content to f and closes it. A failed close is a failed
// write: buffered data may not have reached the disk.
func writeAll(f io.WriteCloser, content string) error {
	if _, err := io.WriteString(f, content); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// replaceFile writes content to a temporary file next to path and renames it
// over path, so readers never observe a half-written summary.
func replaceFile(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	name := tmp.Name()

	if err := writeAll(tmp, content); err != nil {
		_ = os.Remove(name)
		return err
	}
	if err := os.Chmod(name, 0o644); err != nil { // #nosec G302 -- regular output file
		_ = os.Remove(name)
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("cannot replace output file: %w", err)
	}
	return nil
}

// writeOutput writes content to path, replacing an existing file only when
// force is set.
func writeOutput(path, content string, force bool) error {
	if force {
		return replaceFile(path, content)
	}
	return writeFileAtomic(path, content)
}
