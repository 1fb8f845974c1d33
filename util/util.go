// Package util is a set of utility variables or methods
package util

import (
	"path/filepath"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

var SupportedExt = mapset.NewSet(
	".jpeg", ".jpg", ".JPEG", ".JPG",
	".png", ".PNG",
)

// IsSupportedImage reports whether name carries one of the supported image extensions.
func IsSupportedImage(name string) bool {
	return SupportedExt.Contains(filepath.Ext(name))
}

// AssetName strips the directory and image extension from a file name.
func AssetName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
