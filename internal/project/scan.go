package project

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/basinlabs/basin/internal/config"
)

var reMacroDef = regexp.MustCompile(`(?s)\{%-?\s*macro\s+([a-zA-Z0-9_]+)\s*\(`)

// sourceFile is the subset of a dbt schema yml the scanner cares about.
type sourceFile struct {
	Sources []struct {
		Name   string `yaml:"name"`
		Tables []struct {
			Name string `yaml:"name"`
		} `yaml:"tables"`
	} `yaml:"sources"`
}

// Load scans the project's configured paths and assembles one manifest.
// The four scans run concurrently into local maps; a missing directory is
// skipped, an unreadable file is logged and skipped. Only a scan that fails
// outright aborts the load.
func Load(cfg *config.Project, logger *slog.Logger) (*Manifest, error) {
	m := &Manifest{
		Root: cfg.Root,
		Name: cfg.Name,
	}

	var g errgroup.Group
	g.Go(func() error {
		var err error
		m.Models, err = scanByExt(cfg, cfg.ModelPaths, ".sql")
		return err
	})
	g.Go(func() error {
		var err error
		m.Seeds, err = scanByExt(cfg, cfg.SeedPaths, ".csv")
		return err
	})
	g.Go(func() error {
		var err error
		m.Macros, err = scanMacros(cfg, logger)
		return err
	})
	g.Go(func() error {
		var err error
		m.Sources, err = scanSources(cfg, logger)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("project loaded",
		"root", cfg.Root,
		"models", len(m.Models),
		"seeds", len(m.Seeds),
		"sources", len(m.Sources),
		"macros", len(m.Macros))
	return m, nil
}

// scanByExt maps file stem to path for every file with the extension under
// the given project paths.
func scanByExt(cfg *config.Project, paths []string, ext string) (map[string]string, error) {
	out := make(map[string]string)
	for _, p := range paths {
		err := walkFiles(cfg.Resolve(p), func(path string) error {
			if filepath.Ext(path) == ext {
				stem := strings.TrimSuffix(filepath.Base(path), ext)
				out[stem] = path
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// scanMacros collects macro definitions from *.sql and *.jinja files under
// the macro paths, recording the file and zero-based definition line.
func scanMacros(cfg *config.Project, logger *slog.Logger) (map[string]MacroDef, error) {
	out := make(map[string]MacroDef)
	for _, p := range cfg.MacroPaths {
		err := walkFiles(cfg.Resolve(p), func(path string) error {
			ext := filepath.Ext(path)
			if ext != ".sql" && ext != ".jinja" {
				return nil
			}
			content, err := os.ReadFile(path)
			if err != nil {
				logger.Warn("skipping unreadable macro file", "path", path, "error", err)
				return nil
			}
			for _, m := range reMacroDef.FindAllSubmatchIndex(content, -1) {
				name := string(content[m[2]:m[3]])
				out[name] = MacroDef{
					Path: path,
					Line: strings.Count(string(content[:m[2]]), "\n"),
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// scanSources collects declared sources from yml files under the model
// paths, keyed "source.table". Files that are not valid yaml or carry no
// sources block are skipped.
func scanSources(cfg *config.Project, logger *slog.Logger) (map[string]string, error) {
	out := make(map[string]string)
	for _, p := range cfg.ModelPaths {
		err := walkFiles(cfg.Resolve(p), func(path string) error {
			ext := filepath.Ext(path)
			if ext != ".yml" && ext != ".yaml" {
				return nil
			}
			content, err := os.ReadFile(path)
			if err != nil {
				logger.Warn("skipping unreadable schema file", "path", path, "error", err)
				return nil
			}
			var sf sourceFile
			if err := yaml.Unmarshal(content, &sf); err != nil {
				logger.Warn("skipping invalid schema file", "path", path, "error", err)
				return nil
			}
			for _, src := range sf.Sources {
				for _, tbl := range src.Tables {
					out[src.Name+"."+tbl.Name] = path
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// walkFiles calls fn for every regular file under dir, skipping hidden
// directories. A missing dir is not an error.
func walkFiles(dir string, fn func(path string) error) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		return fn(path)
	})
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
