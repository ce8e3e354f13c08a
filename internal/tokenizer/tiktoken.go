package tokenizer

import (
	"errors"

	"github.com/pkoukk/tiktoken-go"
)

var errNilEncoding = errors.New("nil tiktoken encoding")

type openAICounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

var _ Counter = openAICounter{}

func (counter openAICounter) Name() string {
	return counter.name
}

// CountString encodes input, treating special-token text as ordinary text.
func (counter openAICounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errNilEncoding
	}
	tokenIDs := counter.encoding.Encode(input, nil, nil)
	return len(tokenIDs), nil
}
