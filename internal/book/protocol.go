package book

import (
	"encoding/json"
	"io"

	"git.home.luguber.info/inful/bookproc/internal/foundation/errors"
)

// ParseInput decodes the `[context, book]` pair mdBook writes to a
// preprocessor's stdin.
func ParseInput(r io.Reader) (*Context, *Book, error) {
	var pair []json.RawMessage
	if err := json.NewDecoder(r).Decode(&pair); err != nil {
		return nil, nil, errors.WrapError(err, errors.CategoryProtocol, "decode preprocessor input").Fatal().Build()
	}
	if len(pair) != 2 {
		return nil, nil, errors.ProtocolError("preprocessor input must be a [context, book] pair").
			WithContext("elements", len(pair)).
			Build()
	}

	var ctx Context
	if err := json.Unmarshal(pair[0], &ctx); err != nil {
		return nil, nil, errors.WrapError(err, errors.CategoryProtocol, "decode preprocessor context").Fatal().Build()
	}
	var b Book
	if err := json.Unmarshal(pair[1], &b); err != nil {
		return nil, nil, errors.WrapError(err, errors.CategoryProtocol, "decode book").Fatal().Build()
	}
	return &ctx, &b, nil
}

// EncodeInput is the inverse of ParseInput. It is what mdBook does on its side
// and is used to drive preprocessors from tests.
func EncodeInput(w io.Writer, ctx *Context, b *Book) error {
	if err := json.NewEncoder(w).Encode([]any{ctx, b}); err != nil {
		return errors.WrapError(err, errors.CategoryProtocol, "encode preprocessor input").Fatal().Build()
	}
	return nil
}

// WriteBook writes the processed book as mdBook expects it on stdout.
func WriteBook(w io.Writer, b *Book) error {
	if err := json.NewEncoder(w).Encode(b); err != nil {
		return errors.WrapError(err, errors.CategoryProtocol, "encode book").Fatal().Build()
	}
	return nil
}
