//go:build notokenizers

package tokenizer

// FastBackendAvailable reports whether accelerated tokenizers can be built.
// It is false when compiled with the notokenizers build tag.
const FastBackendAvailable = false

// FastTokenizer is unavailable in this build.
type FastTokenizer struct {
	specialTokens
}

// LoadFast always fails with ErrBackendUnavailable in this build.
func LoadFast(string) (*FastTokenizer, error) {
	return nil, ErrBackendUnavailable
}

// Encode is never reachable in this build.
func (f *FastTokenizer) Encode(string) ([]int32, error) { return nil, ErrBackendUnavailable }

// Decode is never reachable in this build.
func (f *FastTokenizer) Decode([]int32) (string, error) { return "", ErrBackendUnavailable }

// VocabSize is never reachable in this build.
func (f *FastTokenizer) VocabSize() int { return 0 }

// TokenID is never reachable in this build.
func (f *FastTokenizer) TokenID(string) (int32, bool) { return -1, false }
