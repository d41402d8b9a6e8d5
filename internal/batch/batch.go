// Package batch converts every ZWOM file under a directory, tracking
// completed work in a local state database so re-runs skip unchanged inputs.
package batch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sco1/zwom/internal/convert"
)

// Stats tracks batch conversion progress.
type Stats struct {
	FilesTotal     int
	FilesConverted int
	FilesSkipped   int
	FilesErrored   int
}

// Converter walks a directory for .zwom files and renders each one next to
// its source.
type Converter struct {
	state  *StateDB
	root   string
	force  bool
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Converter rooted at dir. A nil state disables skip
// tracking; force converts even state-tracked files; dryRun converts without
// writing.
func New(state *StateDB, dir string, force, dryRun bool, log *slog.Logger) *Converter {
	return &Converter{
		state:  state,
		root:   dir,
		force:  force,
		dryRun: dryRun,
		log:    log,
	}
}

// Run converts every .zwom file under the root. Per-file failures are
// counted and logged but never abort the batch; the error return is reserved
// for the directory walk itself.
func (c *Converter) Run() (*Stats, error) {
	err := filepath.WalkDir(c.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".zwom" {
			return nil
		}
		c.processFile(path)
		return nil
	})
	if err != nil {
		return &c.stats, fmt.Errorf("walking %s: %w", c.root, err)
	}

	c.log.Info("batch finished",
		"total", c.stats.FilesTotal,
		"converted", c.stats.FilesConverted,
		"skipped", c.stats.FilesSkipped,
		"errored", c.stats.FilesErrored,
	)
	return &c.stats, nil
}

// processFile converts one source file, consulting and updating the state
// database around the conversion.
func (c *Converter) processFile(path string) {
	c.stats.FilesTotal++

	relPath, _ := filepath.Rel(c.root, path)
	info, err := os.Stat(path)
	if err != nil {
		c.log.Warn("stat failed", "file", path, "error", err)
		c.stats.FilesErrored++
		return
	}

	hash, err := HashFile(path)
	if err != nil {
		c.log.Warn("hash failed", "file", path, "error", err)
		c.stats.FilesErrored++
		return
	}

	if c.state != nil && !c.force {
		converted, err := c.state.IsConverted(relPath, info.Size(), hash)
		if err != nil {
			c.log.Warn("state check failed", "file", path, "error", err)
			c.stats.FilesErrored++
			return
		}
		if converted {
			c.stats.FilesSkipped++
			return
		}
	}

	out := convert.OutputPath(path)
	if c.dryRun {
		src, err := os.ReadFile(path)
		if err == nil {
			_, err = convert.Convert(string(src))
		}
		if err != nil {
			c.log.Warn("conversion failed", "file", path, "error", err)
			c.stats.FilesErrored++
			return
		}
		c.log.Info("dry-run: would write", "file", out)
	} else {
		if err := convert.ConvertFile(path, out); err != nil {
			c.log.Warn("conversion failed", "file", path, "error", err)
			c.stats.FilesErrored++
			return
		}
	}

	if c.state != nil && !c.dryRun {
		if err := c.state.MarkConverted(relPath, info.Size(), hash); err != nil {
			c.log.Warn("failed to mark converted", "file", relPath, "error", err)
		}
	}
	c.stats.FilesConverted++
}
