package model

import (
	"github.com/hashicorp/go-version"
)

// EnvSupport describes whether a manifest file applies to the client
// environment.
type EnvSupport string

// Supported environment applicability values.
const (
	EnvRequired    EnvSupport = "required"
	EnvOptional    EnvSupport = "optional"
	EnvUnsupported EnvSupport = "unsupported"
)

// Loader identifies a mod loader.
type Loader string

// Known mod loaders.
const (
	LoaderForge    Loader = "forge"
	LoaderFabric   Loader = "fabric"
	LoaderQuilt    Loader = "quilt"
	LoaderNeoForge Loader = "neoforge"
	LoaderNone     Loader = ""
)

// DependencyType classifies a manifest dependency.
type DependencyType string

// Supported dependency types. Only required dependencies participate in
// automatic installation; the rest are informational.
const (
	DependencyRequired     DependencyType = "required"
	DependencyOptional     DependencyType = "optional"
	DependencyIncompatible DependencyType = "incompatible"
	DependencyEmbedded     DependencyType = "embedded"
)

// ManifestFile is one file entry of a normalized manifest.
type ManifestFile struct {
	// Path is the install location relative to the profile root.
	Path string
	// Hashes maps hash algorithm names to hex digests. At least one known
	// algorithm is guaranteed after normalization.
	Hashes map[string]string
	// Downloads is the ordered list of source URLs; earlier entries win.
	Downloads []string
	// Size is the declared file size in bytes.
	Size int64
	// ClientEnv is the client-side applicability. Files with EnvUnsupported
	// never survive normalization.
	ClientEnv EnvSupport
}

// hashPreference is the stable order used to pick a verification hash when a
// file declares several. Strongest first, sha1 as the universal fallback.
var hashPreference = []string{"sha512", "sha256", "sha1"}

// PreferredHash returns the strongest known hash declared for the file.
func (f *ManifestFile) PreferredHash() (algo, hexDigest string, ok bool) {
	for _, a := range hashPreference {
		if h, exists := f.Hashes[a]; exists {
			return a, h, true
		}
	}
	return "", "", false
}

// Dependency is one typed dependency entry of a manifest.
type Dependency struct {
	ProjectID string
	VersionID string
	Type      DependencyType
}

// Name returns a human-readable identifier for progress and log output.
func (d Dependency) Name() string {
	if d.ProjectID != "" {
		return d.ProjectID
	}
	return d.VersionID
}

// Manifest is the normalized in-memory model of an installation manifest.
// It is only ever produced fully populated; a parse failure yields no model.
type Manifest struct {
	Name          string
	PackVersion   string
	GameVersion   string
	Loader        Loader
	LoaderVersion string
	Files         []ManifestFile
	Dependencies  []Dependency
}

// ParsedGameVersion returns the target platform version parsed with
// hashicorp/go-version, or nil if it does not parse.
func (m *Manifest) ParsedGameVersion() *version.Version {
	v, err := version.NewVersion(m.GameVersion)
	if err != nil {
		return nil
	}
	return v
}

// RequiredDependencies returns the dependencies that participate in automatic
// installation.
func (m *Manifest) RequiredDependencies() []Dependency {
	var out []Dependency
	for _, d := range m.Dependencies {
		if d.Type == DependencyRequired {
			out = append(out, d)
		}
	}
	return out
}
