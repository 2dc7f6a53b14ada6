package handler

import (
	"encoding/json"
	"errors"
)

// ErrBodyNotObject is returned when a request body is not a JSON object.
var ErrBodyNotObject = errors.New("request body must be a JSON object")

// BodyObject decodes a JSON object request body.
func BodyObject(body []byte) (map[string]any, error) {
	var out map[string]any

	if err := json.Unmarshal(body, &out); err != nil || out == nil {
		return nil, ErrBodyNotObject
	}

	return out, nil
}
