package token

import (
	"encoding/base64"
	"fmt"
)

// DecodeError indicates that a token is not a valid encoding of a path.
type DecodeError struct {
	Token string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid media token %q: %v", e.Token, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Encode converts an absolute filesystem path into an opaque token that is
// safe to embed in a URL path segment. Encoding is deterministic and
// lossless: Decode(Encode(p)) == p for every path p.
func Encode(path string) string {
	return base64.URLEncoding.EncodeToString([]byte(path))
}

// Decode converts a token produced by Encode back into the original path.
// Malformed tokens return a *DecodeError; Decode never panics on garbage
// input.
func Decode(tok string) (string, error) {
	raw, err := base64.URLEncoding.DecodeString(tok)
	if err != nil {
		return "", &DecodeError{Token: tok, Err: err}
	}
	return string(raw), nil
}
