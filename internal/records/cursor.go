package records

import (
	"encoding/base64"
	"encoding/json"
)

// CursorData is the payload encoded in a page token.
type CursorData struct {
	AfterID string `json:"after_id,omitempty"`
}

// EncodeCursor encodes cursor data to an opaque base64 token.
func EncodeCursor(data CursorData) string {
	if data.AfterID == "" {
		return ""
	}
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(jsonBytes)
}

// DecodeCursor decodes a page token back to CursorData. An empty token
// decodes to the zero value and means "start from the beginning".
func DecodeCursor(cursor string) (CursorData, error) {
	if cursor == "" {
		return CursorData{}, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return CursorData{}, err
	}

	var data CursorData
	if err := json.Unmarshal(decoded, &data); err != nil {
		return CursorData{}, err
	}
	return data, nil
}
