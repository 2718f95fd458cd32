package llm

import (
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

var (
	codecOnce sync.Once
	codec     tokenizer.Codec
)

func getCodec() tokenizer.Codec {
	codecOnce.Do(func() {
		enc, err := tokenizer.Get(tokenizer.Cl100kBase)
		if err == nil {
			codec = enc
		}
	})
	return codec
}

// CountTokens returns the cl100k_base token count of text, or a
// four-characters-per-token estimate when the codec is unavailable.
func CountTokens(text string) int {
	enc := getCodec()
	if enc == nil {
		return (len(text) + 3) / 4
	}
	ids, _, err := enc.Encode(text)
	if err != nil {
		return (len(text) + 3) / 4
	}
	return len(ids)
}

// EstimateTokens approximates the prompt size of messages using the usual
// chat overhead of 4 tokens per message plus 3 for reply priming.
func EstimateTokens(messages []Message) int {
	total := 3
	for _, m := range messages {
		total += 4 + CountTokens(string(m.Role)) + CountTokens(m.Content)
	}
	return total
}
