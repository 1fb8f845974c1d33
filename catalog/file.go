package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type fileBrand struct {
	Title  string   `yaml:"title"`
	Image  string   `yaml:"image"`
	Groups []string `yaml:"groups"`
}

type catalogFile struct {
	Brands  []fileBrand         `yaml:"brands"`
	Counts  map[string]int      `yaml:"counts"`
	Entries map[string][]string `yaml:"entries"`
}

// Load reads a YAML catalog file:
//
//	brands:
//	  - title: Kingdom Climbing
//	    image: Kingdom Climbing Logo
//	    groups: [Avalanches]
//	counts:
//	  Avalanches: 24
//	entries:
//	  Jugs: [Jug A, Jug B]
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{
		Counts:  doc.Counts,
		Entries: doc.Entries,
	}
	if c.Counts == nil {
		c.Counts = map[string]int{}
	}
	if c.Entries == nil {
		c.Entries = map[string][]string{}
	}
	for _, b := range doc.Brands {
		if b.Title == "" {
			return nil, errors.New("catalog brand without a title")
		}
		c.Brands = append(c.Brands, NewBrand(b.Title, b.Image, b.Groups...))
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return c, nil
}

// Marshal encodes the catalog back to the YAML file layout.
func (c *Catalog) Marshal() ([]byte, error) {
	doc := catalogFile{
		Counts:  c.Counts,
		Entries: c.Entries,
	}
	for _, b := range c.Brands {
		doc.Brands = append(doc.Brands, fileBrand{Title: b.Title, Image: b.Image, Groups: b.Groups})
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return data, nil
}
