package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BillChill/billchill-backend/types"
	"gopkg.in/yaml.v3"
)

// builtinProviders are the payers whose charge policies ship with the server.
var builtinProviders = []types.Provider{
	{Name: "United", File: "United Healthcare Charge Policy.pdf"},
	{Name: "Providence", File: "Providence HealthCare Charge.pdf"},
	{Name: "Molina", File: "Molina HealthCare Charge.pdf"},
	{Name: "CMS", File: "CMS Charge.pdf"},
}

// ProviderRegistry maps provider names to policy PDFs, preserving order.
type ProviderRegistry struct {
	providers []types.Provider
	paths     map[string]string
}

type providersFile struct {
	Providers []types.Provider `yaml:"providers"`
}

// LoadProviderRegistry returns the built-in providers, or the list in
// providersPath when it is set. Relative policy files resolve against
// policyDir.
func LoadProviderRegistry(policyDir, providersPath string) (*ProviderRegistry, error) {
	providers := builtinProviders
	if providersPath != "" {
		data, err := os.ReadFile(providersPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read providers file: %w", err)
		}
		var parsed providersFile
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse providers file: %w", err)
		}
		if len(parsed.Providers) == 0 {
			return nil, fmt.Errorf("providers file %s lists no providers", providersPath)
		}
		providers = parsed.Providers
	}
	return NewProviderRegistry(policyDir, providers)
}

func NewProviderRegistry(policyDir string, providers []types.Provider) (*ProviderRegistry, error) {
	r := &ProviderRegistry{
		providers: make([]types.Provider, 0, len(providers)),
		paths:     make(map[string]string, len(providers)),
	}
	for _, p := range providers {
		name := strings.TrimSpace(p.Name)
		if name == "" || strings.TrimSpace(p.File) == "" {
			return nil, fmt.Errorf("provider entries need both a name and a file")
		}
		if _, dup := r.paths[name]; dup {
			return nil, fmt.Errorf("duplicate provider %q", name)
		}

		path := p.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(policyDir, path)
		}
		r.paths[name] = path
		r.providers = append(r.providers, types.Provider{Name: name, File: path})
	}
	return r, nil
}

// Names lists providers in configuration order.
func (r *ProviderRegistry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for _, p := range r.providers {
		names = append(names, p.Name)
	}
	return names
}

// RulesPath returns the policy PDF for a provider name (exact match).
func (r *ProviderRegistry) RulesPath(name string) (string, bool) {
	path, ok := r.paths[name]
	return path, ok
}
