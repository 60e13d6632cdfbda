// Package tokenizer provides the tokenizer implementations that resolved
// tokenizer classes construct.
//
// Implementations:
//   - WordPieceTokenizer: BERT-style greedy longest-match (vocab.txt)
//   - BPETokenizer: Byte-Pair Encoding (tokenizer.json, or vocab.json + merges.txt)
//   - TikToken: OpenAI BPE encodings via tiktoken-go, with offline ranks
//   - FastTokenizer: full tokenizer.json pipelines via sugarme/tokenizer
//     (removed by the notokenizers build tag)
//
// LoadPretrained picks files for a Family through a hub.Resolver, so the
// same code path serves local directories and remote repositories.
//
// Chat templates (ChatML, LLaMA, Mistral, Gemma) format conversations
// for the models whose tokenizer classes declare them.
//
// Example usage:
//
//	tok, err := tokenizer.LoadPretrained(ctx, tokenizer.FamilyWordPiece, tokenizer.Source{
//	    Identifier: "./bert-base-uncased",
//	    Files:      files,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tokens, err := tok.Encode("Hello, world!")
package tokenizer
