package tokenizer

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"
)

const (
	wordPiecePrefix      = "##"
	maxWordPieceCharsLen = 100
)

// WordPieceTokenizer implements BERT-style greedy longest-match-first tokenization.
type WordPieceTokenizer struct {
	specialTokens

	vocab        map[string]int32
	reverseVocab map[int32]string
	lowerCase    bool
}

// NewWordPieceTokenizer creates a WordPiece tokenizer from a vocabulary.
//
// Special tokens are picked up from the usual BERT names when present.
func NewWordPieceTokenizer(vocab map[string]int32, lowerCase bool) *WordPieceTokenizer {
	reverseVocab := make(map[int32]string, len(vocab))
	for token, id := range vocab {
		reverseVocab[id] = token
	}

	w := &WordPieceTokenizer{
		specialTokens: newSpecialTokens(),
		vocab:         vocab,
		reverseVocab:  reverseVocab,
		lowerCase:     lowerCase,
	}

	lookup := func(name string) int32 {
		if id, ok := vocab[name]; ok {
			return id
		}
		return -1
	}
	w.SetSpecialTokens(lookup("[CLS]"), lookup("[SEP]"), lookup("[PAD]"), lookup("[UNK]"))
	if id := lookup("[MASK]"); id >= 0 {
		w.MarkSpecial(id)
	}

	return w
}

// LoadWordPieceFromVocab loads a vocab.txt file, one token per line.
func LoadWordPieceFromVocab(path string, lowerCase bool) (*WordPieceTokenizer, error) {
	f, err := os.Open(path) //nolint:gosec // G304: Path comes from trusted caller
	if err != nil {
		return nil, fmt.Errorf("failed to read vocab.txt: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only file.

	vocab := make(map[string]int32)
	var idx int32
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		token := strings.TrimRight(scanner.Text(), "\r\n")
		if token == "" {
			continue
		}
		if _, dup := vocab[token]; !dup {
			vocab[token] = idx
		}
		idx++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vocab.txt: %w", err)
	}

	return NewWordPieceTokenizer(vocab, lowerCase), nil
}

// LoadWordPieceFromHuggingFace loads the WordPiece model of a tokenizer.json.
func LoadWordPieceFromHuggingFace(path string, lowerCase bool) (*WordPieceTokenizer, error) {
	config, err := readTokenizerJSON(path)
	if err != nil {
		return nil, err
	}

	vocab, err := decodeVocabMap(config.Model.Vocab)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tokenizer.json vocab: %w", err)
	}

	w := NewWordPieceTokenizer(vocab, lowerCase)
	for _, added := range config.AddedTokens {
		if added.Special {
			w.MarkSpecial(int32(added.ID)) //nolint:gosec // G115: integer overflow conversion int -> int32
		}
	}
	return w, nil
}

// Encode converts text to token IDs. No [CLS]/[SEP] framing is added.
func (w *WordPieceTokenizer) Encode(text string) ([]int32, error) {
	tokens := []int32{}
	for _, word := range w.basicTokenize(text) {
		tokens = append(tokens, w.wordPiece(word)...)
	}
	return tokens, nil
}

// basicTokenize splits on whitespace and isolates punctuation.
func (w *WordPieceTokenizer) basicTokenize(text string) []string {
	if w.lowerCase {
		text = strings.ToLower(text)
	}

	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}

	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			flush()
		case unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.Is(unicode.Han, r):
			flush()
			words = append(words, string(r))
		default:
			cur.WriteRune(r)
		}
	}
	flush()

	return words
}

func (w *WordPieceTokenizer) wordPiece(word string) []int32 {
	runes := []rune(word)
	if len(runes) > maxWordPieceCharsLen {
		return w.unknown()
	}

	var out []int32
	for start := 0; start < len(runes); {
		end := len(runes)
		found := int32(-1)
		for end > start {
			piece := string(runes[start:end])
			if start > 0 {
				piece = wordPiecePrefix + piece
			}
			if id, ok := w.vocab[piece]; ok {
				found = id
				break
			}
			end--
		}
		if found < 0 {
			return w.unknown()
		}
		out = append(out, found)
		start = end
	}
	return out
}

func (w *WordPieceTokenizer) unknown() []int32 {
	if w.unk >= 0 {
		return []int32{w.unk}
	}
	return nil
}

// Decode joins word pieces back into text, gluing "##" continuations.
func (w *WordPieceTokenizer) Decode(tokens []int32) (string, error) {
	var sb strings.Builder
	for _, id := range tokens {
		piece, ok := w.reverseVocab[id]
		if !ok {
			return "", fmt.Errorf("unknown token id %d", id)
		}
		if rest, isCont := strings.CutPrefix(piece, wordPiecePrefix); isCont {
			sb.WriteString(rest)
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(piece)
	}
	return sb.String(), nil
}

// VocabSize returns the total vocabulary size.
func (w *WordPieceTokenizer) VocabSize() int {
	return len(w.vocab)
}

// TokenID looks up a token string.
func (w *WordPieceTokenizer) TokenID(token string) (int32, bool) {
	id, ok := w.vocab[token]
	return id, ok
}
