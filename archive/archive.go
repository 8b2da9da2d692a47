// Package archive relocates processed input files into a dated archive tree.
package archive

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const collisionStampLayout = "2006-01-02_15-04-05"

// Mover relocates consumed input files under root/<YYYY-MM-DD>/. It never
// overwrites: a name collision gets a timestamp suffix before the extension.
type Mover struct {
	root string
	now  func() time.Time
}

// NewMover returns a mover archiving into root.
func NewMover(root string) *Mover {
	return &Mover{root: root, now: time.Now}
}

// Archive moves every file in srcDir into the dated subfolder for date.
// A failure to move one file is logged and does not stop the rest.
// Returns how many files moved and how many failed.
func (m *Mover) Archive(srcDir string, date time.Time) (moved, failed int) {
	destDir := filepath.Join(m.root, date.Format("2006-01-02"))
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		slog.Error("create archive folder", slog.String("dir", destDir), slog.Any("error", err))
		return 0, 0
	}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		slog.Error("read source folder", slog.String("dir", srcDir), slog.Any("error", err))
		return 0, 0
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		src := filepath.Join(srcDir, entry.Name())
		dest := filepath.Join(destDir, entry.Name())

		if _, err := os.Stat(dest); err == nil {
			dest = filepath.Join(destDir, stampName(entry.Name(), m.now()))
		}

		if err := move(src, dest); err != nil {
			failed++
			slog.Error("failed to move file to archive",
				slog.String("file", entry.Name()),
				slog.Any("error", err),
			)
			continue
		}
		moved++
	}

	return moved, failed
}

// stampName appends a timestamp before the extension: order1.txt becomes
// order1_2025-03-14_10-30-00.txt.
func stampName(name string, now time.Time) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s_%s%s", stem, now.Format(collisionStampLayout), ext)
}

// move renames, falling back to copy-and-remove when src and dest are on
// different filesystems.
func move(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	if err := copyFile(src, dest); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy contents: %w", err)
	}
	return out.Close()
}
