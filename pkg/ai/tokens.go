package ai

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

var (
	encodingsMu sync.Mutex
	encodings   = make(map[string]*tiktoken.Tiktoken)
)

// CountTokens estimates the token count of text for model. Models unknown to
// tiktoken (gemini, local ollama models) are counted with cl100k_base; if no
// encoding can be loaded at all, a chars/4 approximation is used.
func CountTokens(model, text string) int {
	if text == "" {
		return 0
	}
	enc := encodingFor(model)
	if enc == nil {
		return (len([]rune(text)) + 3) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

func encodingFor(model string) *tiktoken.Tiktoken {
	encodingsMu.Lock()
	defer encodingsMu.Unlock()

	if enc, ok := encodings[model]; ok {
		return enc
	}

	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			log.Warn().Err(err).Str("model", model).Msg("no tiktoken encoding available, approximating")
			encodings[model] = nil
			return nil
		}
	}
	encodings[model] = enc
	return enc
}
