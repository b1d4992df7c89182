package layout

import (
	"errors"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/glacier-launcher/glacier/pkg/errors"
	"github.com/glacier-launcher/glacier/pkg/model"
)

func testResolver(root string) *Resolver {
	return NewResolver(root, []MirrorRule{{
		Hosts:  []string{"github.com", "raw.githubusercontent.com"},
		Prefix: "https://mirror.example.net/",
	}})
}

func TestResolvePath(t *testing.T) {
	r := testResolver("/data/profiles")

	tests := []struct {
		category model.ResourceCategory
		want     string
	}{
		{model.CategoryMod, filepath.Join("/data/profiles", "fabric-1.21", "mods", "sodium.jar")},
		{model.CategoryDatapack, filepath.Join("/data/profiles", "fabric-1.21", "datapacks", "sodium.jar")},
		{model.CategoryShader, filepath.Join("/data/profiles", "fabric-1.21", "shaderpacks", "sodium.jar")},
		{model.CategoryResourcepack, filepath.Join("/data/profiles", "fabric-1.21", "resourcepacks", "sodium.jar")},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			got, err := r.ResolvePath(tt.category, "fabric-1.21", "sodium.jar")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePath_Rejections(t *testing.T) {
	r := testResolver("/data/profiles")

	_, err := r.ResolvePath(model.ResourceCategory("plugin"), "p", "x.jar")
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrUnknownResourceCategory))

	_, err = r.ResolvePath(model.CategoryMod, "p", "../escape.jar")
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidPath))

	_, err = r.ResolvePath(model.CategoryMod, "p", "")
	require.Error(t, err)
}

func TestRelativePath(t *testing.T) {
	r := testResolver("/data/profiles")

	got, err := r.RelativePath("pack", "mods/sodium.jar")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data/profiles", "pack", "mods", "sodium.jar"), got)

	for _, bad := range []string{"../outside.jar", "/abs/path.jar", "a/../../b", "."} {
		_, err := r.RelativePath("pack", bad)
		require.Error(t, err, "path %q", bad)
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidPath))
	}
}

func TestRewrite(t *testing.T) {
	r := testResolver("/data/profiles")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "allow-listed host is rewritten",
			input: "https://raw.githubusercontent.com/owner/repo/main/mod.jar",
			want:  "https://mirror.example.net/https://raw.githubusercontent.com/owner/repo/main/mod.jar",
		},
		{
			name:  "second allow-listed host is rewritten",
			input: "https://github.com/owner/repo/releases/download/v1/mod.jar",
			want:  "https://mirror.example.net/https://github.com/owner/repo/releases/download/v1/mod.jar",
		},
		{
			name:  "other hosts pass through",
			input: "https://cdn.modrinth.com/data/AANobbMI/versions/mod.jar",
			want:  "https://cdn.modrinth.com/data/AANobbMI/versions/mod.jar",
		},
		{
			name:  "host in query parameter is not a match",
			input: "https://cdn.example.com/file.jar?source=raw.githubusercontent.com",
			want:  "https://cdn.example.com/file.jar?source=raw.githubusercontent.com",
		},
		{
			name:  "host match is case-insensitive",
			input: "https://GitHub.com/owner/repo/mod.jar",
			want:  "https://mirror.example.net/https://GitHub.com/owner/repo/mod.jar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Rewrite(u).String())
		})
	}
}

func TestRewrite_NoRules(t *testing.T) {
	r := NewResolver("/data/profiles", nil)
	u, _ := url.Parse("https://raw.githubusercontent.com/a/b/mod.jar")
	assert.Equal(t, u, r.Rewrite(u))
	assert.Nil(t, r.Rewrite(nil))
}
