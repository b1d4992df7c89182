package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	base := ErrHashMismatch
	wrapped := Wrap(base, "verifying mods/sodium.jar")
	require.Error(t, wrapped)
	assert.True(t, errors.Is(wrapped, ErrHashMismatch))
	assert.Contains(t, wrapped.Error(), "verifying mods/sodium.jar")

	assert.NoError(t, Wrap(nil, "ignored"))
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrHTTPStatus, "fetching %s", "https://example.com/a.jar")
	require.Error(t, wrapped)
	assert.True(t, errors.Is(wrapped, ErrHTTPStatus))
	assert.Contains(t, wrapped.Error(), "https://example.com/a.jar")

	assert.NoError(t, Wrapf(nil, "ignored %d", 1))
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrDirectoryCreate, ErrHTTPStatus, ErrHashMismatch, ErrReplaceFailed,
		ErrTimeout, ErrCancelled, ErrManifestMalformed, ErrManifestMissingField,
		ErrUnknownResourceCategory, ErrUnknownHashAlgorithm,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(fmt.Errorf("x: %w", a), b))
		}
	}
}
