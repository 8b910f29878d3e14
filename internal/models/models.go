package models

import (
	"encoding/json"
	"fmt"
)

// JSONValue is a generic type to represent any JSON value.
// This can be a string, number, boolean, null, object, or array.
type JSONValue interface{}

// JSONObject represents a JSON object, which is a map of strings to JSONValues.
type JSONObject map[string]JSONValue

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// TypeName names a JSON value the way an error message would describe it.
func TypeName(v JSONValue) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number:
		return "number"
	case JSONObject:
		return "object"
	case JSONArray:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// CompactRequest is a single match request from the compact input document.
// Players holds one property object per player; the first entry belongs to
// the player submitting the request and is the only one whose request-level
// keys are honored.
type CompactRequest struct {
	Players []JSONObject
}

// Requesting returns the property object of the player submitting the request.
func (r CompactRequest) Requesting() JSONObject {
	if len(r.Players) == 0 {
		return JSONObject{}
	}
	return r.Players[0]
}

// CompactDocument is the parsed form of the compact input: one entry per
// match request, in input order.
type CompactDocument struct {
	Requests []CompactRequest
}
