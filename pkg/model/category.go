// Package model provides the data structures shared across the installation
// pipeline: resource categories, manifest files, dependencies and the
// normalized manifest itself.
package model

import (
	"github.com/glacier-launcher/glacier/pkg/errors"
)

// ResourceCategory identifies the kind of resource being installed. Each
// category maps to exactly one subdirectory of a profile root.
type ResourceCategory string

// Supported resource categories.
const (
	CategoryMod          ResourceCategory = "mod"
	CategoryDatapack     ResourceCategory = "datapack"
	CategoryShader       ResourceCategory = "shader"
	CategoryResourcepack ResourceCategory = "resourcepack"
)

// AllCategories lists every supported resource category in a stable order.
var AllCategories = []ResourceCategory{
	CategoryMod,
	CategoryDatapack,
	CategoryShader,
	CategoryResourcepack,
}

// categoryDirs is the canonical category -> profile subdirectory mapping.
var categoryDirs = map[ResourceCategory]string{
	CategoryMod:          "mods",
	CategoryDatapack:     "datapacks",
	CategoryShader:       "shaderpacks",
	CategoryResourcepack: "resourcepacks",
}

// ParseResourceCategory converts a string into a ResourceCategory. Unknown
// strings are a hard rejection, never a silent default.
func ParseResourceCategory(s string) (ResourceCategory, error) {
	c := ResourceCategory(s)
	if _, ok := categoryDirs[c]; !ok {
		return "", errors.Wrapf(errors.ErrUnknownResourceCategory, "%q", s)
	}
	return c, nil
}

// Dir returns the profile subdirectory for the category. The mapping is pure
// and total for valid categories.
func (c ResourceCategory) Dir() string {
	return categoryDirs[c]
}

// Valid reports whether the category is one of the supported values.
func (c ResourceCategory) Valid() bool {
	_, ok := categoryDirs[c]
	return ok
}
