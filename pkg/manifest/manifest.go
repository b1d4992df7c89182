// Package manifest parses installation manifests into the normalized model
// consumed by the installation pipeline.
//
// The wire format is a JSON document with a loader-dependency map keyed by
// known loader names, a files array and a typed dependencies array. Unknown
// fields are ignored. A parse failure never yields a partially-populated
// model.
package manifest

import (
	"encoding/json"

	"github.com/hashicorp/go-version"

	"github.com/glacier-launcher/glacier/pkg/errors"
	"github.com/glacier-launcher/glacier/pkg/hashing"
	"github.com/glacier-launcher/glacier/pkg/model"
)

// SupportedFormatVersion is the only manifest format version this parser
// accepts.
const SupportedFormatVersion = 1

// IndexFileName is the manifest's file name inside a modpack archive.
const IndexFileName = "index.json"

// rawManifest mirrors the manifest wire format.
type rawManifest struct {
	FormatVersion int               `json:"formatVersion"`
	Name          string            `json:"name"`
	VersionID     string            `json:"versionId"`
	Dependencies  map[string]string `json:"dependencies"`
	Files         []rawFile         `json:"files"`
	ProjectDeps   []rawDependency   `json:"projectDependencies"`
}

type rawFile struct {
	Path      string            `json:"path"`
	Hashes    map[string]string `json:"hashes"`
	Env       *rawEnv           `json:"env"`
	Downloads []string          `json:"downloads"`
	FileSize  int64             `json:"fileSize"`
}

type rawEnv struct {
	Client string `json:"client"`
	Server string `json:"server"`
}

type rawDependency struct {
	ProjectID      string `json:"projectId"`
	VersionID      string `json:"versionId"`
	DependencyType string `json:"dependencyType"`
}

// gameVersionKey is the loader-dependency map key holding the target platform
// version.
const gameVersionKey = "minecraft"

// loaderKeys is the fixed priority list used to determine the loader. The
// stable order makes the result deterministic even when a manifest
// erroneously declares more than one loader key.
var loaderKeys = []struct {
	key    string
	loader model.Loader
}{
	{"forge", model.LoaderForge},
	{"fabric-loader", model.LoaderFabric},
	{"quilt-loader", model.LoaderQuilt},
	{"neoforge", model.LoaderNeoForge},
}

// Parse normalizes raw manifest bytes into a model.Manifest. Files whose
// client applicability is unsupported are filtered out before returning, so
// downstream components never see them.
func Parse(data []byte) (*model.Manifest, error) {
	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrManifestMalformed, err.Error())
	}

	if raw.FormatVersion == 0 {
		return nil, errors.Wrap(errors.ErrManifestMissingField, "formatVersion")
	}
	if raw.FormatVersion != SupportedFormatVersion {
		return nil, errors.Wrapf(errors.ErrManifestMalformed, "unsupported format version %d", raw.FormatVersion)
	}

	gameVersion := raw.Dependencies[gameVersionKey]
	if gameVersion == "" {
		return nil, errors.Wrap(errors.ErrManifestMissingField, "dependencies."+gameVersionKey)
	}
	if _, err := version.NewVersion(gameVersion); err != nil {
		return nil, errors.Wrapf(errors.ErrManifestMalformed, "invalid %s version %q", gameVersionKey, gameVersion)
	}

	loader, loaderVersion := detectLoader(raw.Dependencies)

	files := make([]model.ManifestFile, 0, len(raw.Files))
	for i, rf := range raw.Files {
		f, include, err := normalizeFile(i, rf)
		if err != nil {
			return nil, err
		}
		if include {
			files = append(files, f)
		}
	}

	deps := make([]model.Dependency, 0, len(raw.ProjectDeps))
	for i, rd := range raw.ProjectDeps {
		d, err := normalizeDependency(i, rd)
		if err != nil {
			return nil, err
		}
		deps = append(deps, d)
	}

	return &model.Manifest{
		Name:          raw.Name,
		PackVersion:   raw.VersionID,
		GameVersion:   gameVersion,
		Loader:        loader,
		LoaderVersion: loaderVersion,
		Files:         files,
		Dependencies:  deps,
	}, nil
}

// detectLoader scans the loader-dependency map in priority order and returns
// the first match.
func detectLoader(deps map[string]string) (model.Loader, string) {
	for _, lk := range loaderKeys {
		if v, ok := deps[lk.key]; ok && v != "" {
			return lk.loader, v
		}
	}
	return model.LoaderNone, ""
}

func normalizeFile(index int, rf rawFile) (model.ManifestFile, bool, error) {
	if rf.Path == "" {
		return model.ManifestFile{}, false, errors.Wrapf(errors.ErrManifestMissingField, "files[%d].path", index)
	}
	if len(rf.Downloads) == 0 {
		return model.ManifestFile{}, false, errors.Wrapf(errors.ErrManifestMissingField, "files[%d].downloads", index)
	}
	if !hasKnownHash(rf.Hashes) {
		return model.ManifestFile{}, false, errors.Wrapf(errors.ErrManifestMissingField, "files[%d].hashes", index)
	}

	env := model.EnvRequired
	if rf.Env != nil && rf.Env.Client != "" {
		switch model.EnvSupport(rf.Env.Client) {
		case model.EnvRequired, model.EnvOptional:
			env = model.EnvSupport(rf.Env.Client)
		case model.EnvUnsupported:
			// Excluded from installation entirely.
			return model.ManifestFile{}, false, nil
		default:
			return model.ManifestFile{}, false,
				errors.Wrapf(errors.ErrManifestMalformed, "files[%d].env.client %q", index, rf.Env.Client)
		}
	}

	return model.ManifestFile{
		Path:      rf.Path,
		Hashes:    rf.Hashes,
		Downloads: rf.Downloads,
		Size:      rf.FileSize,
		ClientEnv: env,
	}, true, nil
}

func hasKnownHash(hashes map[string]string) bool {
	for algo, hexDigest := range hashes {
		if hexDigest != "" && hashing.Supported(algo) {
			return true
		}
	}
	return false
}

func normalizeDependency(index int, rd rawDependency) (model.Dependency, error) {
	if rd.ProjectID == "" && rd.VersionID == "" {
		return model.Dependency{},
			errors.Wrapf(errors.ErrManifestMissingField, "projectDependencies[%d] project or version identifier", index)
	}
	t := model.DependencyType(rd.DependencyType)
	switch t {
	case model.DependencyRequired, model.DependencyOptional, model.DependencyIncompatible, model.DependencyEmbedded:
	default:
		return model.Dependency{},
			errors.Wrapf(errors.ErrManifestMalformed, "projectDependencies[%d].dependencyType %q", index, rd.DependencyType)
	}
	return model.Dependency{ProjectID: rd.ProjectID, VersionID: rd.VersionID, Type: t}, nil
}
