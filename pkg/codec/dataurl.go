package codec

import "strings"

const dataURLMarker = ";base64,"

// DataURL builds a base64 data URL from raw bytes and a MIME type,
// e.g. "data:audio/wav;base64,UklGRg==".
func DataURL(data []byte, mimeType string) string {
	return "data:" + mimeType + dataURLMarker + EncodeBase64(data)
}

// ParseDataURL is the inverse of DataURL. It returns the MIME type and
// decoded payload, failing with a *DecodeError for anything that is
// not a base64 data URL.
func ParseDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, &DecodeError{Reason: ReasonBadDataURL}
	}

	mimeType, encoded, ok := strings.Cut(rest, dataURLMarker)
	if !ok {
		return "", nil, &DecodeError{Reason: ReasonBadDataURL}
	}

	data, err := DecodeBase64(encoded)
	if err != nil {
		return "", nil, err
	}
	return mimeType, data, nil
}
