// pkg/packmeta/manifest.go

// Package packmeta defines the manifest format for content packs. The
// manifest names the pack's files and advertised counts so tooling can
// verify a pack without decoding it.
package packmeta

import (
	"encoding/json"
	"fmt"
	"os"
)

// Manifest describes one content pack.
type Manifest struct {
	SchemaVersion int    `json:"schemaVersion"`
	Name          string `json:"name"`
	Version       string `json:"version,omitempty"`
	GeneratedAt   string `json:"generatedAt,omitempty"`
	Files         Files  `json:"files"`
	Counts        Counts `json:"counts,omitempty"`
}

// Files maps pack roles to file names relative to the manifest.
type Files struct {
	Traits     string `json:"traits"`
	Candidates string `json:"candidates"`
	Posts      string `json:"posts"`
	Quests     string `json:"quests,omitempty"`
}

// Counts are advertised entry counts; zero means unadvertised.
type Counts struct {
	Traits     int `json:"traits,omitempty"`
	Candidates int `json:"candidates,omitempty"`
	Posts      int `json:"posts,omitempty"`
	Quests     int `json:"quests,omitempty"`
}

// Load reads and decodes a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the structural invariants a loader relies on.
func (m *Manifest) Validate() error {
	if m.SchemaVersion < 1 {
		return fmt.Errorf("manifest: schemaVersion must be at least 1")
	}
	if m.Name == "" {
		return fmt.Errorf("manifest: name is required")
	}
	if m.Files.Traits == "" || m.Files.Candidates == "" || m.Files.Posts == "" {
		return fmt.Errorf("manifest: files.traits, files.candidates, and files.posts are required")
	}
	return nil
}

// Save writes the manifest as indented JSON.
func (m *Manifest) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
