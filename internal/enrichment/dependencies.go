package enrichment

import (
	"bufio"
	"bytes"
	"fmt"
	"maps"
	"path"
	"regexp"
	"slices"
	"strings"
	"time"

	"github-skill-scout/internal/domain"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
)

// ManifestFiles are the dependency manifests the enricher looks for, in preference order.
var ManifestFiles = []string{"go.mod", "package.json", "Cargo.toml", "requirements.txt"}

// stalePseudoVersion is how old a Go pseudo-version may get before it counts as outdated.
const stalePseudoVersion = 2 * 365 * 24 * time.Hour

// Dependency is one declared requirement. Indirect marks indirect or development-only entries.
type Dependency struct {
	Name     string
	Version  string
	Indirect bool
}

// Manifest is a parsed dependency manifest.
type Manifest struct {
	Path         string
	Ecosystem    string
	Dependencies []Dependency
}

// Direct returns the dependencies that are neither indirect nor development-only.
func (m *Manifest) Direct() []Dependency {
	out := make([]Dependency, 0, len(m.Dependencies))
	for _, d := range m.Dependencies {
		if !d.Indirect {
			out = append(out, d)
		}
	}
	return out
}

// ParseManifest parses a manifest by file name.
func ParseManifest(filename string, data []byte) (*Manifest, error) {
	switch path.Base(filename) {
	case "go.mod":
		return parseGoMod(filename, data)
	case "package.json":
		return parsePackageJSON(filename, data)
	case "Cargo.toml":
		return parseCargoToml(filename, data)
	case "requirements.txt":
		return parseRequirements(filename, data), nil
	default:
		return nil, fmt.Errorf("unsupported manifest %q", filename)
	}
}

func parseGoMod(filename string, data []byte) (*Manifest, error) {
	f, err := modfile.ParseLax(filename, data, nil)
	if err != nil {
		return nil, fmt.Errorf("parse go.mod: %w", err)
	}
	m := &Manifest{Path: filename, Ecosystem: "go"}
	for _, r := range f.Require {
		m.Dependencies = append(m.Dependencies, Dependency{
			Name:     r.Mod.Path,
			Version:  r.Mod.Version,
			Indirect: r.Indirect,
		})
	}
	return m, nil
}

type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func parsePackageJSON(filename string, data []byte) (*Manifest, error) {
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parse package.json: %w", err)
	}
	m := &Manifest{Path: filename, Ecosystem: "npm"}
	for _, name := range slices.Sorted(maps.Keys(pkg.Dependencies)) {
		m.Dependencies = append(m.Dependencies, Dependency{Name: name, Version: pkg.Dependencies[name]})
	}
	for _, name := range slices.Sorted(maps.Keys(pkg.DevDependencies)) {
		m.Dependencies = append(m.Dependencies, Dependency{Name: name, Version: pkg.DevDependencies[name], Indirect: true})
	}
	return m, nil
}

type cargoToml struct {
	Dependencies    map[string]any `toml:"dependencies"`
	DevDependencies map[string]any `toml:"dev-dependencies"`
}

func parseCargoToml(filename string, data []byte) (*Manifest, error) {
	var cargo cargoToml
	if err := toml.Unmarshal(data, &cargo); err != nil {
		return nil, fmt.Errorf("parse Cargo.toml: %w", err)
	}
	m := &Manifest{Path: filename, Ecosystem: "cargo"}
	for _, name := range slices.Sorted(maps.Keys(cargo.Dependencies)) {
		m.Dependencies = append(m.Dependencies, Dependency{Name: name, Version: cargoVersion(cargo.Dependencies[name])})
	}
	for _, name := range slices.Sorted(maps.Keys(cargo.DevDependencies)) {
		m.Dependencies = append(m.Dependencies, Dependency{Name: name, Version: cargoVersion(cargo.DevDependencies[name]), Indirect: true})
	}
	return m, nil
}

// cargoVersion handles both `dep = "1.2"` and `dep = { version = "1.2", features = [...] }`.
func cargoVersion(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val["version"].(string); ok {
			return s
		}
	}
	return ""
}

var requirementLine = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._\-]*(?:\[[^\]]*\])?)\s*(.*)$`)

func parseRequirements(filename string, data []byte) *Manifest {
	m := &Manifest{Path: filename, Ecosystem: "pip"}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line, _, _ := strings.Cut(sc.Text(), "#")
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "-") {
			continue
		}
		line, _, _ = strings.Cut(line, ";")
		match := requirementLine.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil {
			continue
		}
		m.Dependencies = append(m.Dependencies, Dependency{Name: match[1], Version: strings.TrimSpace(match[2])})
	}
	return m
}

// AnalyzeDependencies rates a manifest. manifestUpdated is the last commit touching the manifest;
// zero means unknown. It returns nil without a manifest.
func AnalyzeDependencies(m *Manifest, license string, manifestUpdated, now time.Time) *domain.DependencyAnalysis {
	if m == nil {
		return nil
	}

	direct := m.Direct()
	pinned, outdated := 0, 0
	for _, d := range m.Dependencies {
		if isPinned(m.Ecosystem, d.Version) {
			pinned++
		}
		if isOutdated(m.Ecosystem, d.Version, now) {
			outdated++
		}
	}

	security, outdatedRatio := 1.0, 0.0
	if n := len(m.Dependencies); n > 0 {
		security = float64(pinned) / float64(n)
		outdatedRatio = float64(outdated) / float64(n)
	}

	return &domain.DependencyAnalysis{
		Health:               dependencyCountHealth(len(direct)),
		Security:             security,
		UpdateFrequency:      updateFrequency(manifestUpdated, now),
		OutdatedRatio:        outdatedRatio,
		LicenseCompatibility: LicenseCompatibility(license),
	}
}

func dependencyCountHealth(n int) float64 {
	switch {
	case n <= 20:
		return 1.0
	case n <= 50:
		return 0.8
	case n <= 100:
		return 0.6
	case n <= 200:
		return 0.4
	default:
		return 0.3
	}
}

func updateFrequency(updated, now time.Time) float64 {
	if updated.IsZero() {
		return 0
	}
	days := now.Sub(updated).Hours() / 24
	switch {
	case days <= 30:
		return 1.0
	case days <= 90:
		return 0.8
	case days <= 180:
		return 0.6
	case days <= 365:
		return 0.4
	default:
		return 0.2
	}
}

// isPinned reports whether a version constraint selects exactly one release.
func isPinned(ecosystem, version string) bool {
	v := strings.TrimSpace(version)
	switch ecosystem {
	case "go":
		return semver.IsValid(v) && semver.Build(v) != "+incompatible"
	case "pip":
		return strings.HasPrefix(v, "==") && !strings.Contains(v, "*")
	case "cargo":
		return strings.HasPrefix(v, "=")
	default:
		if v == "" || v == "latest" || v == "*" {
			return false
		}
		if strings.ContainsAny(v, "^~><*|xX ") {
			return false
		}
		return true
	}
}

// isOutdated flags requirements that are known stale or leave the version entirely open.
func isOutdated(ecosystem, version string, now time.Time) bool {
	v := strings.TrimSpace(version)
	if ecosystem == "go" {
		if semver.Build(v) == "+incompatible" {
			return true
		}
		if module.IsPseudoVersion(v) {
			t, err := module.PseudoVersionTime(v)
			return err == nil && now.Sub(t) > stalePseudoVersion
		}
		return false
	}
	return v == "" || v == "*" || v == "latest"
}

// LicenseCompatibility rates how freely a license can be combined with other code.
// license is an SPDX identifier.
func LicenseCompatibility(license string) float64 {
	l := strings.ToUpper(strings.TrimSpace(license))
	switch {
	case l == "" || l == "OTHER" || l == "NOASSERTION":
		return 0.2
	case strings.HasPrefix(l, "LGPL"), strings.HasPrefix(l, "MPL"), strings.HasPrefix(l, "EPL"):
		return 0.7
	case strings.HasPrefix(l, "AGPL"), strings.HasPrefix(l, "GPL"):
		return 0.4
	case strings.HasPrefix(l, "MIT"), strings.HasPrefix(l, "APACHE"), strings.HasPrefix(l, "BSD"),
		l == "ISC", l == "UNLICENSE", l == "ZLIB", l == "BSL-1.0", l == "CC0-1.0", l == "0BSD":
		return 1.0
	default:
		return 0.5
	}
}
