//go:build notokenizers

package tokenizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadFast_Unavailable(t *testing.T) {
	assert.False(t, FastBackendAvailable)

	_, err := LoadFast("tokenizer.json")
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	_, err = LoadPretrained(context.Background(), FamilyFast, Source{Identifier: t.TempDir(), Files: localFiles(t)})
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}
