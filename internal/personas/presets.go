// ABOUTME: Local persona preset catalog loaded from TOML.
// ABOUTME: Supplies persona ids for deliberations and identity details for display.

// Package personas loads the local persona preset catalog. Presets mirror
// the backend's stock council seats and let the TUI offer persona selection
// without a round-trip; the backend remains authoritative for what a
// persona id means.
package personas

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/2389/council-client/internal/council"
)

// Preset is one locally configured persona seat.
type Preset struct {
	ID           string `toml:"id"`
	Name         string `toml:"name"`
	Role         string `toml:"role"`
	Icon         string `toml:"icon"`
	Model        string `toml:"model"`
	SystemPrompt string `toml:"system_prompt"`
}

// Identity converts the preset into a persona identity record.
func (p Preset) Identity() council.Persona {
	return council.Persona{
		ID:           p.ID,
		Name:         p.Name,
		Role:         p.Role,
		Icon:         p.Icon,
		Model:        p.Model,
		SystemPrompt: p.SystemPrompt,
	}
}

// Catalog is an ordered persona preset collection.
type Catalog struct {
	Presets []Preset `toml:"persona"`
}

// Load reads a catalog from the given TOML path, expanding ${VAR}
// environment references. A missing file yields the built-in defaults.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading presets file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	var cat Catalog
	if _, err := toml.Decode(expanded, &cat); err != nil {
		return nil, fmt.Errorf("parsing presets: %w", err)
	}

	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("validating presets: %w", err)
	}

	return &cat, nil
}

// expandEnvVars replaces ${VAR} with environment variable values.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(varName)
	})
}

// Validate checks that presets have ids and models and that ids are unique.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Presets))
	for i, p := range c.Presets {
		if p.ID == "" {
			return fmt.Errorf("persona %d: id is required", i)
		}
		if p.Model == "" {
			return fmt.Errorf("persona %q: model is required", p.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("persona %q: duplicate id", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// IDs returns the preset ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.Presets))
	for i, p := range c.Presets {
		ids[i] = p.ID
	}
	return ids
}

// Get returns the preset with the given id.
func (c *Catalog) Get(id string) (Preset, bool) {
	for _, p := range c.Presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// Default returns the built-in catalog matching the backend's stock council.
func Default() *Catalog {
	return &Catalog{Presets: []Preset{
		{
			ID:           "skeptic",
			Name:         "The Skeptic",
			Role:         "Critical Analyst",
			Icon:         "🧐",
			Model:        "anthropic/claude-sonnet-4.5",
			SystemPrompt: "You are The Skeptic. Your role is to critically analyze every claim. Look for logical fallacies, missing evidence, and potential downsides. Do not just agree; challenge the premise and ask tough questions.",
		},
		{
			ID:           "visionary",
			Name:         "The Visionary",
			Role:         "Future Thinker",
			Icon:         "🚀",
			Model:        "openai/gpt-5.1",
			SystemPrompt: "You are The Visionary. Your role is to look at the big picture and future possibilities. Focus on innovation, potential impact, and creative solutions. Be optimistic and inspiring.",
		},
		{
			ID:           "pragmatist",
			Name:         "The Pragmatist",
			Role:         "Practical Implementer",
			Icon:         "🛠️",
			Model:        "google/gemini-3-pro-preview",
			SystemPrompt: "You are The Pragmatist. Your role is to focus on what is actually doable. Prioritize practical steps, feasibility, and real-world constraints. Avoid pie-in-the-sky ideas if they aren't actionable.",
		},
		{
			ID:           "historian",
			Name:         "The Historian",
			Role:         "Context Provider",
			Icon:         "📚",
			Model:        "anthropic/claude-sonnet-4.5",
			SystemPrompt: "You are The Historian. Your role is to provide context and historical precedents. Analyze the current situation by comparing it to past events and trends. What can we learn from history?",
		},
		{
			ID:           "devil_advocate",
			Name:         "Devil's Advocate",
			Role:         "Contrarian",
			Icon:         "😈",
			Model:        "x-ai/grok-4",
			SystemPrompt: "You are the Devil's Advocate. Your role is to argue the opposite of the common consensus. Even if you agree, find a way to represent the opposing view to ensure a robust debate.",
		},
	}}
}
