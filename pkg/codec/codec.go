// Package codec converts binary payloads between raw bytes, base64
// text, data URLs, and JSON carried inside binary blobs. All
// conversions are deterministic and lossless; malformed input always
// surfaces as a *DecodeError.
package codec

import (
	"encoding/base64"
	"encoding/json"
	"io"
)

// EncodeBase64 encodes a byte buffer using the standard base64
// alphabet with padding and no line breaks. An empty buffer encodes to
// the empty string.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeBase64 is the inverse of EncodeBase64. Input that is not
// well-formed base64 fails with a *DecodeError.
func DecodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, &DecodeError{Reason: ReasonBadBase64, Err: err}
	}
	return data, nil
}

// DecodeJSONBlob reads the entirety of a binary blob as UTF-8 text and
// parses it as JSON. Three failures are possible, all reported as
// *DecodeError distinguishable by Reason: the read itself failing, the
// read yielding no data at all, and the text not being valid JSON. A
// blob containing a valid empty JSON value ("{}", `""`) is not an
// error; a blob containing zero bytes is.
func DecodeJSONBlob(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &DecodeError{Reason: ReasonReadFailed, Err: err}
	}
	if len(data) == 0 {
		return nil, &DecodeError{Reason: ReasonEmptyRead}
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, &DecodeError{Reason: ReasonBadJSON, Err: err}
	}
	return v, nil
}
