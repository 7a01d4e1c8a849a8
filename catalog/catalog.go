// Package catalog holds the fixed model tables for the generator views.
// The tables are declared in an embedded YAML document and immutable at
// runtime; the backend decides what each model id actually runs.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var modelsYAML []byte

// Model is one entry in a generator's model table.
type Model struct {
	// ID is the identifier sent to the backend or inference provider.
	ID string `yaml:"id"`

	// Name is the display name shown to the user.
	Name string `yaml:"name"`

	// SupportsNegativePrompt marks models that accept a negative prompt.
	SupportsNegativePrompt bool `yaml:"supports_negative_prompt"`

	// NSFW marks adult-rated models that require explicit confirmation
	// before generating.
	NSFW bool `yaml:"nsfw"`

	// Speed is a rough relative speed hint: "fast" or "slow".
	Speed string `yaml:"speed"`

	// Description is the longer blurb shown for premium models.
	Description string `yaml:"description"`
}

// Catalog holds the model tables for the free and premium generators.
type Catalog struct {
	Free    []Model `yaml:"free"`
	Premium []Model `yaml:"premium"`
}

// Load parses the embedded model tables.
func Load() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(modelsYAML, &c); err != nil {
		return nil, fmt.Errorf("catalog: failed to parse embedded model tables: %w", err)
	}
	if len(c.Free) == 0 || len(c.Premium) == 0 {
		return nil, fmt.Errorf("catalog: embedded model tables are incomplete")
	}
	return &c, nil
}

// FindFree looks up a free-generator model by id.
func (c *Catalog) FindFree(id string) (Model, bool) {
	return find(c.Free, id)
}

// FindPremium looks up a premium-generator model by id.
func (c *Catalog) FindPremium(id string) (Model, bool) {
	return find(c.Premium, id)
}

// DefaultFree returns the default free-generator model (the first entry).
func (c *Catalog) DefaultFree() Model {
	return c.Free[0]
}

// DefaultPremium returns the default premium-generator model.
func (c *Catalog) DefaultPremium() Model {
	return c.Premium[0]
}

func find(models []Model, id string) (Model, bool) {
	for _, m := range models {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}
