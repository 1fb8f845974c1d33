package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/aouyang1/climbcraft/util"
)

// Asset is a hold image found on disk.
type Asset struct {
	Group   string
	Name    string
	Path    string
	ModTime time.Time
}

// ImageDir indexes bundled hold images. Images in <Path>/<group>/ belong to
// that group. Loose images directly under Path are assigned to every known
// group whose name they contain.
type ImageDir struct {
	Path string
}

// Find returns the file for a hold, preferring the group directory. Group
// and name must each be a single path element inside the directory.
func (d ImageDir) Find(group, name string) (string, bool) {
	if !ValidPathName(name) || (group != "" && !ValidPathName(group)) {
		return "", false
	}
	candidates := []string{filepath.Join(d.Path, group), d.Path}
	for _, dir := range candidates {
		for _, ext := range util.SupportedExt.ToSlice() {
			p := filepath.Join(dir, name+ext)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p, true
			}
		}
	}
	return "", false
}

// ValidPathName reports whether s names a file directly inside a directory:
// local, and free of separators.
func ValidPathName(s string) bool {
	return filepath.IsLocal(s) && !strings.ContainsAny(s, `/\`)
}

// Scan lists every hold image, grouped and sorted by name so the result does
// not depend on directory enumeration order.
func (d ImageDir) Scan(groups []string) ([]Asset, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to read directory, %s, %w", d.Path, err)
	}

	var assets []Asset
	var loose []Asset
	for _, entry := range entries {
		if entry.IsDir() {
			groupAssets, err := d.scanGroup(entry.Name())
			if err != nil {
				return nil, err
			}
			assets = append(assets, groupAssets...)
			continue
		}
		if !util.IsSupportedImage(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		loose = append(loose, Asset{
			Name:    util.AssetName(entry.Name()),
			Path:    filepath.Join(d.Path, entry.Name()),
			ModTime: info.ModTime(),
		})
	}

	names := make([]string, len(loose))
	byName := make(map[string]Asset, len(loose))
	for i, a := range loose {
		names[i] = a.Name
		byName[a.Name] = a
	}
	for _, group := range groups {
		for _, name := range MatchImages(group, names) {
			a := byName[name]
			a.Group = group
			assets = append(assets, a)
		}
	}

	return assets, nil
}

func (d ImageDir) scanGroup(group string) ([]Asset, error) {
	dir := filepath.Join(d.Path, group)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read directory, %s, %w", dir, err)
	}

	var assets []Asset
	for _, entry := range entries {
		if entry.IsDir() || !util.IsSupportedImage(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		assets = append(assets, Asset{
			Group:   group,
			Name:    util.AssetName(entry.Name()),
			Path:    filepath.Join(dir, entry.Name()),
			ModTime: info.ModTime(),
		})
	}
	slices.SortFunc(assets, func(a, b Asset) int { return strings.Compare(a.Name, b.Name) })
	return assets, nil
}

// MatchImages selects the image names containing group as a substring, sorted.
func MatchImages(group string, names []string) []string {
	var matched []string
	for _, name := range names {
		if strings.Contains(name, group) {
			matched = append(matched, name)
		}
	}
	slices.Sort(matched)
	return matched
}
