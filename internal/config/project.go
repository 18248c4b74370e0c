package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// nonProjectFiles don't count as evidence of existing code.
var nonProjectFiles = []string{
	".git", ".gitignore", ".taskmanager", ".DS_Store", ".env", "node_modules",
	"README.md", "LICENSE", "package.json", "package-lock.json", "yarn.lock",
}

// GuessProjectType returns "existing" when dir holds files beyond the usual
// scaffolding, and "new" otherwise.
func GuessProjectType(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", dir, err)
	}
	for _, e := range entries {
		if !slices.Contains(nonProjectFiles, e.Name()) {
			return "existing", nil
		}
	}
	return "new", nil
}

// technologyMarkers maps marker files to the technologies they imply.
var technologyMarkers = []struct {
	glob         string
	technologies []string
}{
	{"package.json", []string{"javascript", "nodejs"}},
	{"tsconfig.json", []string{"typescript"}},
	{"go.mod", []string{"go"}},
	{"Gemfile", []string{"ruby"}},
	{"requirements.txt", []string{"python"}},
	{"pyproject.toml", []string{"python"}},
	{"pom.xml", []string{"java"}},
	{"build.gradle", []string{"java"}},
	{"Cargo.toml", []string{"rust"}},
	{"*.csproj", []string{"csharp", "dotnet"}},
}

// DetectTechnologies guesses the project's technologies from marker files
// in dir. The result is deduplicated and in marker order.
func DetectTechnologies(dir string) []string {
	var found []string
	for _, m := range technologyMarkers {
		matches, err := filepath.Glob(filepath.Join(dir, m.glob))
		if err != nil || len(matches) == 0 {
			continue
		}
		for _, tech := range m.technologies {
			if !slices.Contains(found, tech) {
				found = append(found, tech)
			}
		}
	}
	return found
}
