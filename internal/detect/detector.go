package detect

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"trun/internal/domain"
)

// Detector infers a project type from manifest markers. Detection is
// deterministic: the same filesystem state always yields the same
// result. No network, no time-based behavior.
type Detector struct {
	log zerolog.Logger
}

// NewDetector creates a new Detector
func NewDetector(log zerolog.Logger) *Detector {
	return &Detector{log: log}
}

// marker maps a substring found in a manifest to a framework type
type marker struct {
	needle string
	result domain.ProjectType
}

// manifestRule checks one manifest kind. Markers are tried in order;
// fallback applies when the manifest exists but no marker matches.
type manifestRule struct {
	files    []string
	markers  []marker
	fallback domain.ProjectType
}

// rules are inspected in fixed priority order: node manifest first,
// then python, then php.
var rules = []manifestRule{
	{
		files: []string{"package.json"},
		markers: []marker{
			{"@angular/core", domain.TypeAngular},
			{"\"react\"", domain.TypeReact},
			{"\"vue\"", domain.TypeVue},
		},
		fallback: domain.TypeNode,
	},
	{
		files: []string{"requirements.txt", "pyproject.toml"},
		markers: []marker{
			{"fastapi", domain.TypeFastAPI},
			{"django", domain.TypeDjango},
		},
		fallback: domain.TypePython,
	},
	{
		files: []string{"composer.json"},
		markers: []marker{
			{"laravel/framework", domain.TypeLaravel},
			{"wordpress", domain.TypeWordPress},
		},
		fallback: domain.TypePHP,
	},
}

// Detect returns the project type for the given root. A declared type
// other than auto short-circuits and is returned unchanged.
func (d *Detector) Detect(root string, declared domain.ProjectType) (domain.ProjectType, error) {
	if declared != domain.TypeAuto {
		return declared, nil
	}

	for _, rule := range rules {
		for _, name := range rule.files {
			path := filepath.Join(root, name)
			content, err := os.ReadFile(path)
			if err != nil {
				continue
			}

			lower := strings.ToLower(string(content))
			for _, m := range rule.markers {
				if strings.Contains(lower, m.needle) {
					d.log.Debug().Str("manifest", name).Str("marker", m.needle).
						Str("type", string(m.result)).Msg("manifest marker matched")
					return m.result, nil
				}
			}
			d.log.Debug().Str("manifest", name).Str("type", string(rule.fallback)).
				Msg("manifest found without framework marker")
			return rule.fallback, nil
		}
	}

	return domain.TypeUnknown, &domain.DetectionError{Root: root}
}
