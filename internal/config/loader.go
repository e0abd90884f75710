package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// maxUpwardSearchLevels limits how far up the directory tree to search for
// a project file.
const maxUpwardSearchLevels = 10

// projectFileNames in priority order.
var projectFileNames = []string{"dbt_project.yml", "dbt_project.yaml"}

// findProjectFile returns the path of the project file in dir, or "".
func findProjectFile(dir string) string {
	for _, name := range projectFileNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// FindProjectRoot searches upward from startDir for a directory containing
// a project file. Returns "" when none is found.
func FindProjectRoot(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if findProjectFile(dir) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// LoadFromDir loads the project configuration rooted at dir. Defaults apply
// when the directory has no project file.
func LoadFromDir(dir string) (*Project, error) {
	return Load(dir, nil)
}

// Load loads configuration for the project rooted at dir.
// Precedence (highest to lowest): flags > env vars > project file > defaults.
// An empty dir falls back to an upward search from the working directory.
func Load(dir string, flags *pflag.FlagSet) (*Project, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		if root := FindProjectRoot(cwd); root != "" {
			dir = root
		} else {
			dir = cwd
		}
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving project root %s: %w", dir, err)
	}

	k := koanf.New(".")

	// 1. Defaults.
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"name":        "",
		"model-paths": []string{DefaultModelsDir},
		"seed-paths":  []string{DefaultSeedsDir},
		"macro-paths": []string{DefaultMacrosDir},
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// 2. Project file, when present.
	if cfgFile := findProjectFile(abs); cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading project file %s: %w", cfgFile, err)
		}
	}

	// 3. Environment variables: BASIN_MODEL_PATHS -> model-paths.
	if err := k.Load(env.Provider("BASIN_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "BASIN_")), "_", "-")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	// 4. Flags that were explicitly set.
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return f.Name, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var p Project
	if err := k.Unmarshal("", &p); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	p.Root = abs
	return &p, nil
}

// Resolve joins a configured path with the project root unless it is
// already absolute.
func (p *Project) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Root, path)
}
