package tokenizer

const (
	// BytesPerToken is the divisor of the character based estimate.
	BytesPerToken = 4
	// ContextWindowTokens is the typical context window an estimate is compared against.
	ContextWindowTokens = 128000
)

// Estimate is a local, approximate token count.
type Estimate struct {
	Tokens           int
	ExceedsThreshold bool
}

// EstimateText approximates the token count of text as ceil(len(text)/BytesPerToken).
// Byte length keeps the estimate monotonic under concatenation.
func EstimateText(text string) Estimate {
	tokens := (len(text) + BytesPerToken - 1) / BytesPerToken
	return Estimate{Tokens: tokens, ExceedsThreshold: tokens > ContextWindowTokens}
}
