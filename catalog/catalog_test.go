package catalog

import (
	"testing"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(c.Free) == 0 {
		t.Fatal("free catalog is empty")
	}
	if len(c.Premium) == 0 {
		t.Fatal("premium catalog is empty")
	}
}

func TestCatalog_Defaults(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	free := c.DefaultFree()
	if free.ID != "black-forest-labs/FLUX.1-schnell" {
		t.Errorf("DefaultFree().ID = %q", free.ID)
	}
	if free.NSFW {
		t.Error("default free model must not be NSFW")
	}

	premium := c.DefaultPremium()
	if premium.ID != "flux/schnell" {
		t.Errorf("DefaultPremium().ID = %q", premium.ID)
	}
}

func TestCatalog_Find(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	m, ok := c.FindPremium("stable-diffusion-v35-medium")
	if !ok {
		t.Fatal("FindPremium(stable-diffusion-v35-medium) not found")
	}
	if !m.SupportsNegativePrompt {
		t.Error("SD 3.5 should support negative prompts")
	}

	if _, ok := c.FindFree("no-such-model"); ok {
		t.Error("FindFree(no-such-model) should not be found")
	}
}

func TestCatalog_NSFWFlagged(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	var nsfwCount int
	for _, m := range c.Free {
		if m.NSFW {
			nsfwCount++
		}
	}
	if nsfwCount == 0 {
		t.Error("free catalog should carry at least one NSFW-flagged model requiring confirmation")
	}

	for _, m := range c.Premium {
		if m.Description == "" {
			t.Errorf("premium model %s missing description", m.ID)
		}
	}
}
