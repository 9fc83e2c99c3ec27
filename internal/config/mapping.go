package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RepositoryMapping is the static table of known internal repository ids to
// "owner/repo" names, used as the second resolution layer when the
// authoritative lookup fails. It is loaded from a file so deployments can
// replace it without a rebuild.
type RepositoryMapping map[string]string

// LoadRepositoryMapping reads a YAML file of the form
//
//	206cdeed-ccde-4df1-a203-092a2522662f: tr/ultratax-api-services
//
// An empty path yields an empty mapping.
func LoadRepositoryMapping(path string) (RepositoryMapping, error) {
	if path == "" {
		return RepositoryMapping{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read repository mapping %s: %w", path, err)
	}

	mapping := RepositoryMapping{}
	if err := yaml.Unmarshal(raw, &mapping); err != nil {
		return nil, fmt.Errorf("failed to parse repository mapping %s: %w", path, err)
	}
	return mapping, nil
}

// Lookup finds the mapped "owner/repo" for an internal id: exact match first,
// then prefix match, because the ids observed in relation URLs are sometimes
// truncated.
func (m RepositoryMapping) Lookup(repositoryID string) (string, bool) {
	if repo, ok := m[repositoryID]; ok {
		return repo, true
	}
	for fullID, repo := range m {
		if strings.HasPrefix(fullID, repositoryID) {
			return repo, true
		}
	}
	return "", false
}
