package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/glacier-launcher/glacier/pkg/errors"
)

func TestParseResourceCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    ResourceCategory
		wantDir string
	}{
		{"mod", CategoryMod, "mods"},
		{"datapack", CategoryDatapack, "datapacks"},
		{"shader", CategoryShader, "shaderpacks"},
		{"resourcepack", CategoryResourcepack, "resourcepacks"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseResourceCategory(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantDir, got.Dir())
			assert.True(t, got.Valid())
		})
	}
}

func TestParseResourceCategory_Unknown(t *testing.T) {
	for _, input := range []string{"", "mods", "plugin", "MOD"} {
		_, err := ParseResourceCategory(input)
		require.Error(t, err, "input %q", input)
		assert.True(t, errors.Is(err, pkgerrors.ErrUnknownResourceCategory))
	}
}
