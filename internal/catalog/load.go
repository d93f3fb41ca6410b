package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// overrides is the on-disk shape of a catalog file. Rows replace stock rows
// with the same id and are appended otherwise.
type overrides struct {
	Buildings    []Building         `yaml:"buildings"`
	GuestTypes   []GuestType        `yaml:"guest_types"`
	UpgradeCosts []LevelCost        `yaml:"upgrade_costs"`
	Themes       []Theme            `yaml:"themes"`
	Profiles     map[string]Profile `yaml:"profiles"`
}

// Load returns the stock catalog with the YAML file at path layered on top.
// An empty path returns Default().
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var o overrides
	if err := yaml.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	c.Buildings = merge(c.Buildings, o.Buildings, func(b Building) string { return b.ID })
	c.GuestTypes = merge(c.GuestTypes, o.GuestTypes, func(g GuestType) string { return g.ID })
	c.Themes = merge(c.Themes, o.Themes, func(t Theme) string { return t.ID })
	if len(o.UpgradeCosts) > 0 {
		c.UpgradeCosts = o.UpgradeCosts
	}
	for id, p := range o.Profiles {
		c.Profiles[id] = p
	}

	c.index()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func merge[T any](base, extra []T, id func(T) string) []T {
	for _, row := range extra {
		replaced := false
		for i := range base {
			if id(base[i]) == id(row) {
				base[i] = row
				replaced = true
				break
			}
		}
		if !replaced {
			base = append(base, row)
		}
	}
	return base
}
