package tokenizer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeJSON marshals v into dir/name and returns the path.
func writeJSON(t *testing.T, dir, name string, v interface{}) string {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// writeFile writes content into dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func bpeTokenizerJSON() map[string]interface{} {
	return map[string]interface{}{
		"model": map[string]interface{}{
			"type":   "BPE",
			"vocab":  map[string]int{"h": 0, "i": 1, "hi": 2, "<unk>": 3},
			"merges": []string{"h i"},
		},
		"added_tokens": []map[string]interface{}{
			{"id": 3, "content": "<unk>", "special": true},
			{"id": 4, "content": "<s>", "special": true},
			{"id": 5, "content": "</s>", "special": true},
		},
	}
}
