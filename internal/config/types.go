// Package config loads basin project configuration from dbt_project.yml,
// environment variables, and CLI flags.
package config

// Default project layout, matching dbt's conventions.
const (
	DefaultModelsDir = "models"
	DefaultSeedsDir  = "seeds"
	DefaultMacrosDir = "macros"
)

// Project holds the resolved project configuration. Path lists are relative
// to Root unless absolute.
type Project struct {
	Name       string   `koanf:"name"`
	ModelPaths []string `koanf:"model-paths"`
	SeedPaths  []string `koanf:"seed-paths"`
	MacroPaths []string `koanf:"macro-paths"`

	// Root is the directory containing the project file. Not read from
	// configuration sources.
	Root string `koanf:"-"`
}

// Dirs returns every configured source directory resolved against Root,
// deduplicated, in model/seed/macro order.
func (p *Project) Dirs() []string {
	var dirs []string
	seen := make(map[string]bool)
	for _, rel := range [][]string{p.ModelPaths, p.SeedPaths, p.MacroPaths} {
		for _, d := range rel {
			abs := p.Resolve(d)
			if !seen[abs] {
				seen[abs] = true
				dirs = append(dirs, abs)
			}
		}
	}
	return dirs
}
