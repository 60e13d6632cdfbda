package tokenizer

// Tokenizer is the core interface for text tokenization.
//
// Every tokenizer class the resolver can construct returns a value
// implementing this interface.
type Tokenizer interface {
	// Encode converts text to token IDs.
	Encode(text string) ([]int32, error)

	// Decode converts token IDs back to text.
	Decode(tokens []int32) (string, error)

	// VocabSize returns the total vocabulary size.
	VocabSize() int

	// BosToken returns the beginning-of-sequence token ID.
	// Returns -1 if not applicable.
	BosToken() int32

	// EosToken returns the end-of-sequence token ID.
	// Returns -1 if not applicable.
	EosToken() int32

	// PadToken returns the padding token ID.
	// Returns -1 if not applicable.
	PadToken() int32

	// UnkToken returns the unknown token ID.
	// Returns -1 if not applicable.
	UnkToken() int32

	// IsSpecialToken checks if a token ID is a special token.
	IsSpecialToken(token int32) bool
}

// Vocabulary is implemented by tokenizers that can look up a token string.
type Vocabulary interface {
	TokenID(token string) (int32, bool)
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role specifies the message role ("system", "user", "assistant").
	Role string

	// Content is the message text.
	Content string
}

// ChatTemplate formats messages for conversational models.
type ChatTemplate interface {
	// Apply formats a sequence of messages into a prompt string.
	Apply(messages []ChatMessage) string

	// Name returns the template name (e.g., "ChatML", "LLaMA").
	Name() string
}

// specialTokens holds the four well-known special token IDs.
//
// Embedded by the vocabulary-backed tokenizers.
type specialTokens struct {
	bos, eos, pad, unk int32
	set                map[int32]bool
}

func newSpecialTokens() specialTokens {
	return specialTokens{bos: -1, eos: -1, pad: -1, unk: -1, set: make(map[int32]bool)}
}

// SetSpecialTokens configures special token IDs. Negative IDs are ignored.
func (s *specialTokens) SetSpecialTokens(bos, eos, pad, unk int32) {
	s.bos, s.eos, s.pad, s.unk = bos, eos, pad, unk
	for _, id := range []int32{bos, eos, pad, unk} {
		if id >= 0 {
			s.set[id] = true
		}
	}
}

// MarkSpecial flags an additional token ID as special.
func (s *specialTokens) MarkSpecial(id int32) {
	s.set[id] = true
}

// BosToken returns the beginning-of-sequence token ID.
func (s *specialTokens) BosToken() int32 { return s.bos }

// EosToken returns the end-of-sequence token ID.
func (s *specialTokens) EosToken() int32 { return s.eos }

// PadToken returns the padding token ID.
func (s *specialTokens) PadToken() int32 { return s.pad }

// UnkToken returns the unknown token ID.
func (s *specialTokens) UnkToken() int32 { return s.unk }

// IsSpecialToken checks if a token ID is a special token.
func (s *specialTokens) IsSpecialToken(token int32) bool { return s.set[token] }
