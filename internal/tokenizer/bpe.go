package tokenizer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// BPETokenizer implements Byte-Pair Encoding tokenization.
//
// This is a pure Go implementation that loads either a HuggingFace
// tokenizer.json or a vocab.json + merges.txt pair.
type BPETokenizer struct {
	specialTokens

	vocab        map[string]int32 // token -> ID
	ranks        map[pair]int     // merge -> priority (lower merges first)
	reverseVocab map[int32]string // ID -> token
}

type pair struct {
	first  string
	second string
}

// NewBPETokenizer creates a new BPE tokenizer from vocab and merges.
func NewBPETokenizer(vocab map[string]int32, merges []pair) *BPETokenizer {
	reverseVocab := make(map[int32]string, len(vocab))
	for token, id := range vocab {
		reverseVocab[id] = token
	}

	ranks := make(map[pair]int, len(merges))
	for i, m := range merges {
		if _, dup := ranks[m]; !dup {
			ranks[m] = i
		}
	}

	return &BPETokenizer{
		specialTokens: newSpecialTokens(),
		vocab:         vocab,
		ranks:         ranks,
		reverseVocab:  reverseVocab,
	}
}

// Encode converts text to token IDs using BPE.
func (b *BPETokenizer) Encode(text string) ([]int32, error) {
	if text == "" {
		return []int32{}, nil
	}

	// Split text into words (simplified - real BPE uses regex patterns).
	var tokens []int32
	for _, word := range strings.Fields(text) {
		for _, piece := range b.merge(word) {
			if id, ok := b.vocab[piece]; ok {
				tokens = append(tokens, id)
			} else if b.unk >= 0 {
				tokens = append(tokens, b.unk)
			}
		}
	}

	return tokens, nil
}

// merge applies merges to a single word until no ranked pair remains.
func (b *BPETokenizer) merge(word string) []string {
	parts := make([]string, 0, len(word))
	for _, r := range word {
		parts = append(parts, string(r))
	}

	for len(parts) > 1 {
		bestIdx, bestRank := -1, len(b.ranks)
		for i := 0; i < len(parts)-1; i++ {
			if rank, ok := b.ranks[pair{parts[i], parts[i+1]}]; ok && rank < bestRank {
				bestIdx, bestRank = i, rank
			}
		}
		if bestIdx == -1 {
			break
		}

		merged := parts[bestIdx] + parts[bestIdx+1]
		parts = append(parts[:bestIdx+1], parts[bestIdx+2:]...)
		parts[bestIdx] = merged
	}

	return parts
}

// Decode converts token IDs back to text.
func (b *BPETokenizer) Decode(tokens []int32) (string, error) {
	var sb strings.Builder
	for _, token := range tokens {
		if text, ok := b.reverseVocab[token]; ok {
			sb.WriteString(text)
		} else {
			sb.WriteString("�")
		}
	}
	return sb.String(), nil
}

// VocabSize returns the total vocabulary size.
func (b *BPETokenizer) VocabSize() int {
	return len(b.vocab)
}

// TokenID looks up a token string.
func (b *BPETokenizer) TokenID(token string) (int32, bool) {
	id, ok := b.vocab[token]
	return id, ok
}

// HuggingFaceTokenizerConfig represents a subset of tokenizer.json structure.
type HuggingFaceTokenizerConfig struct {
	Model struct {
		Type   string          `json:"type"`
		Vocab  json.RawMessage `json:"vocab"`
		Merges json.RawMessage `json:"merges"`
	} `json:"model"`
	AddedTokens []struct {
		ID      int    `json:"id"`
		Content string `json:"content"`
		Special bool   `json:"special"`
	} `json:"added_tokens"`
}

func readTokenizerJSON(path string) (*HuggingFaceTokenizerConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path comes from trusted caller
	if err != nil {
		return nil, fmt.Errorf("failed to read tokenizer.json: %w", err)
	}

	var config HuggingFaceTokenizerConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse tokenizer.json: %w", err)
	}
	return &config, nil
}

// LoadBPEFromHuggingFace loads a BPE tokenizer from tokenizer.json.
//
// Merges may be encoded as "a b" strings or as ["a", "b"] pairs.
func LoadBPEFromHuggingFace(path string) (*BPETokenizer, error) {
	config, err := readTokenizerJSON(path)
	if err != nil {
		return nil, err
	}

	vocab, err := decodeVocabMap(config.Model.Vocab)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tokenizer.json vocab: %w", err)
	}

	merges, err := decodeMerges(config.Model.Merges)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tokenizer.json merges: %w", err)
	}

	tokenizer := NewBPETokenizer(vocab, merges)

	for _, added := range config.AddedTokens {
		id := int32(added.ID) //nolint:gosec // G115: integer overflow conversion int -> int32
		if _, ok := tokenizer.vocab[added.Content]; !ok {
			tokenizer.vocab[added.Content] = id
			tokenizer.reverseVocab[id] = added.Content
		}
		if added.Special {
			tokenizer.MarkSpecial(id)
			guessSpecialRole(&tokenizer.specialTokens, added.Content, id)
		}
	}

	return tokenizer, nil
}

// LoadBPEFromFiles loads a BPE tokenizer from vocab.json and merges.txt.
func LoadBPEFromFiles(vocabPath, mergesPath string) (*BPETokenizer, error) {
	data, err := os.ReadFile(vocabPath) //nolint:gosec // G304: Path comes from trusted caller
	if err != nil {
		return nil, fmt.Errorf("failed to read vocab.json: %w", err)
	}

	vocab, err := decodeVocabMap(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse vocab.json: %w", err)
	}

	f, err := os.Open(mergesPath) //nolint:gosec // G304: Path comes from trusted caller
	if err != nil {
		return nil, fmt.Errorf("failed to read merges.txt: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only file.

	var merges []pair
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#version") {
			continue
		}
		if parts := strings.Fields(line); len(parts) == 2 {
			merges = append(merges, pair{parts[0], parts[1]})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read merges.txt: %w", err)
	}

	tokenizer := NewBPETokenizer(vocab, merges)
	for _, name := range []string{"<|endoftext|>", "<s>", "</s>", "<pad>", "<unk>"} {
		if id, ok := vocab[name]; ok {
			tokenizer.MarkSpecial(id)
			guessSpecialRole(&tokenizer.specialTokens, name, id)
		}
	}

	return tokenizer, nil
}

func decodeVocabMap(raw json.RawMessage) (map[string]int32, error) {
	var m map[string]int
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
	}

	vocab := make(map[string]int32, len(m))
	for token, id := range m {
		vocab[token] = int32(id) //nolint:gosec // G115: integer overflow conversion int -> int32
	}
	return vocab, nil
}

func decodeMerges(raw json.RawMessage) ([]pair, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var asStrings []string
	if err := json.Unmarshal(raw, &asStrings); err == nil {
		merges := make([]pair, 0, len(asStrings))
		for _, s := range asStrings {
			if parts := strings.Fields(s); len(parts) == 2 {
				merges = append(merges, pair{parts[0], parts[1]})
			}
		}
		return merges, nil
	}

	var asPairs [][]string
	if err := json.Unmarshal(raw, &asPairs); err != nil {
		return nil, err
	}
	merges := make([]pair, 0, len(asPairs))
	for _, p := range asPairs {
		if len(p) == 2 {
			merges = append(merges, pair{p[0], p[1]})
		}
	}
	return merges, nil
}

// guessSpecialRole assigns bos/eos/pad/unk from a token's surface form.
func guessSpecialRole(s *specialTokens, content string, id int32) {
	c := strings.ToLower(content)
	switch {
	case strings.Contains(c, "bos") || c == "<s>" || c == "[cls]":
		s.bos = id
	case strings.Contains(c, "eos") || c == "</s>" || c == "[sep]" || c == "<|endoftext|>":
		s.eos = id
	case strings.Contains(c, "pad"):
		s.pad = id
	case strings.Contains(c, "unk"):
		s.unk = id
	}
}

// ExampleBPEVocab creates a minimal BPE tokenizer for testing.
func ExampleBPEVocab() *BPETokenizer {
	vocab := map[string]int32{
		"h":   0,
		"e":   1,
		"l":   2,
		"o":   3,
		"w":   4,
		"r":   5,
		"d":   6,
		" ":   7,
		"he":  8,
		"ll":  9,
		"o ":  10,
		"wor": 11,
		"ld":  12,
	}

	merges := []pair{
		{"h", "e"},
		{"l", "l"},
		{"o", " "},
		{"w", "o"},
		{"l", "d"},
	}

	return NewBPETokenizer(vocab, merges)
}
