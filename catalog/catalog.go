// Package catalog holds the brands, hold groups and hold entries offered for placement
package catalog

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
)

// namespace seeds the name-based ids so a hold keeps its id across restarts.
var namespace = uuid.MustParse("5b0c8c5e-4f7e-4a51-9d35-0e6b8c1f2a47")

// Hold is a single catalog entry. Image is the asset name used to find the bundled file.
type Hold struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Group string    `json:"group"`
	Image string    `json:"image"`
}

type Brand struct {
	ID     uuid.UUID `json:"id"`
	Image  string    `json:"image"`
	Title  string    `json:"title"`
	Groups []string  `json:"groups"`
}

// NewBrand builds a brand whose id is derived from its title.
func NewBrand(title, image string, groups ...string) Brand {
	return Brand{
		ID:     uuid.NewSHA1(namespace, []byte(title)),
		Image:  image,
		Title:  title,
		Groups: groups,
	}
}

// Source lists the hold names registered for a group, in registration order.
type Source interface {
	GroupHoldNames(group string) ([]string, error)
}

type Catalog struct {
	Brands  []Brand
	Counts  map[string]int
	Entries map[string][]string

	source Source
}

// WithSource returns a copy of the catalog that falls back to src for groups
// without a predetermined count or explicit entries.
func (c *Catalog) WithSource(src Source) *Catalog {
	cp := *c
	cp.source = src
	return &cp
}

// Brand finds a brand by id or, failing that, by case-insensitive title.
func (c *Catalog) Brand(key string) (Brand, bool) {
	if id, err := uuid.Parse(key); err == nil {
		for _, b := range c.Brands {
			if b.ID == id {
				return b, true
			}
		}
	}
	for _, b := range c.Brands {
		if strings.EqualFold(b.Title, key) {
			return b, true
		}
	}
	return Brand{}, false
}

// GroupNames returns every distinct group referenced by a brand, in first-seen order.
func (c *Catalog) GroupNames() []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	var groups []string
	for _, b := range c.Brands {
		for _, g := range b.Groups {
			if seen.Add(g) {
				groups = append(groups, g)
			}
		}
	}
	return groups
}

// Resolve produces the ordered hold entries of one of the brand's groups. A
// group with no known holds yields an empty slice.
func (c *Catalog) Resolve(brand Brand, group string) ([]Hold, error) {
	names, err := c.groupNames(group)
	if err != nil {
		return nil, err
	}

	holds := make([]Hold, 0, len(names))
	for _, name := range names {
		holds = append(holds, Hold{
			ID:    uuid.NewSHA1(namespace, []byte(brand.Title+"/"+group+"/"+name)),
			Name:  name,
			Group: group,
			Image: name,
		})
	}
	return holds, nil
}

func (c *Catalog) groupNames(group string) ([]string, error) {
	if n, ok := c.Counts[group]; ok {
		names := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			names = append(names, group+" "+strconv.Itoa(i))
		}
		return names, nil
	}

	if entries, ok := c.Entries[group]; ok {
		return slices.Clone(entries), nil
	}

	if c.source == nil {
		return nil, nil
	}
	names, err := c.source.GroupHoldNames(group)
	if err != nil {
		return nil, fmt.Errorf("failed to list registered holds for group %s: %w", group, err)
	}
	return names, nil
}

// Holds is the union of the brand's groups. It is recomputed on every call.
func (c *Catalog) Holds(brand Brand) ([]Hold, error) {
	var holds []Hold
	for _, group := range brand.Groups {
		groupHolds, err := c.Resolve(brand, group)
		if err != nil {
			return nil, err
		}
		holds = append(holds, groupHolds...)
	}
	return holds, nil
}

// Hold looks a hold up by display name across the brand's groups.
func (c *Catalog) Hold(brand Brand, name string) (Hold, bool, error) {
	for _, group := range brand.Groups {
		holds, err := c.Resolve(brand, group)
		if err != nil {
			return Hold{}, false, err
		}
		for _, h := range holds {
			if h.Name == name {
				return h, true, nil
			}
		}
	}
	return Hold{}, false, nil
}

// HoldByID searches every brand for a hold id.
func (c *Catalog) HoldByID(id uuid.UUID) (Hold, bool, error) {
	for _, b := range c.Brands {
		holds, err := c.Holds(b)
		if err != nil {
			return Hold{}, false, err
		}
		for _, h := range holds {
			if h.ID == id {
				return h, true, nil
			}
		}
	}
	return Hold{}, false, nil
}

// Validate checks that counts are positive and explicit entries are unique within a group.
func (c *Catalog) Validate() error {
	for group, n := range c.Counts {
		if n <= 0 {
			return fmt.Errorf("group %q has non-positive count %d", group, n)
		}
	}
	for group, entries := range c.Entries {
		seen := mapset.NewThreadUnsafeSet[string]()
		for _, name := range entries {
			if name == "" {
				return fmt.Errorf("group %q has an empty entry name", group)
			}
			if !seen.Add(name) {
				return fmt.Errorf("group %q lists %q more than once", group, name)
			}
		}
	}
	titles := mapset.NewThreadUnsafeSet[string]()
	for _, b := range c.Brands {
		if !titles.Add(b.Title) {
			return fmt.Errorf("brand %q is listed more than once", b.Title)
		}
	}
	return nil
}
