package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors" // Standard errors package

	"github.com/gamecenter-tools/matchrules/internal/errors" // Custom errors package
	"github.com/gamecenter-tools/matchrules/internal/models"
)

// Parse reads one compact match-request document from an io.Reader.
// The document must be a JSON array in which each element is either a
// single request object or a non-empty array of player objects.
func Parse(reader io.Reader) (models.CompactDocument, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber() // Ensure numbers are read as json.Number

	var rootValue models.JSONValue
	if err := decoder.Decode(&rootValue); err != nil {
		if stderrors.Is(err, io.EOF) { // io.EOF means empty input if nothing was decoded
			return models.CompactDocument{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		if stderrors.As(err, &syntaxError) {
			return models.CompactDocument{}, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
				errors.ErrInvalidJSON,
			)
		}
		if stderrors.As(err, &unmarshalTypeError) {
			return models.CompactDocument{}, errors.NewParsingError(
				fmt.Sprintf("JSON type error at offset %d for type %s", unmarshalTypeError.Offset, unmarshalTypeError.Type),
				errors.ErrInvalidJSON,
			)
		}
		return models.CompactDocument{}, errors.NewParsingError("failed to decode JSON", err)
	}

	// Check for trailing data after the first JSON value. If decoder.More()
	// is true and another Decode call succeeds, the stream held more than
	// one JSON value; trailing whitespace alone is fine.
	if decoder.More() {
		var trailingValue interface{}
		if err := decoder.Decode(&trailingValue); err != nil {
			if !stderrors.Is(err, io.EOF) {
				return models.CompactDocument{}, errors.NewParsingError("invalid trailing data after first JSON value", err)
			}
		} else {
			return models.CompactDocument{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
		}
	}

	return buildDocument(normalizeJSONValue(rootValue))
}

// buildDocument validates the decoded root against the compact input shape
// and groups each element into one request's worth of player objects.
func buildDocument(root models.JSONValue) (models.CompactDocument, error) {
	rootArray, ok := root.(models.JSONArray)
	if !ok {
		return models.CompactDocument{}, errors.NewParsingError(
			fmt.Sprintf("input must be a JSON array of requests, found %s", models.TypeName(root)),
			errors.ErrInvalidJSON,
		)
	}

	doc := models.CompactDocument{Requests: make([]models.CompactRequest, 0, len(rootArray))}
	for i, element := range rootArray {
		switch v := element.(type) {
		case models.JSONObject:
			doc.Requests = append(doc.Requests, models.CompactRequest{Players: []models.JSONObject{v}})
		case models.JSONArray:
			request, err := buildMultiPlayerRequest(i+1, v)
			if err != nil {
				return models.CompactDocument{}, err
			}
			doc.Requests = append(doc.Requests, request)
		default:
			return models.CompactDocument{}, errors.NewParsingError(
				fmt.Sprintf("element %d: request must be an object or an array of player objects, found %s", i+1, models.TypeName(element)),
				errors.ErrInvalidJSON,
			)
		}
	}
	return doc, nil
}

// buildMultiPlayerRequest validates one nested array element. The array must
// be non-empty and hold only objects; deeper nesting is invalid.
func buildMultiPlayerRequest(ordinal int, elements models.JSONArray) (models.CompactRequest, error) {
	if len(elements) == 0 {
		return models.CompactRequest{}, errors.NewParsingError(
			fmt.Sprintf("element %d: a multi-player request must contain at least one player object", ordinal),
			errors.ErrInvalidJSON,
		)
	}
	players := make([]models.JSONObject, 0, len(elements))
	for j, element := range elements {
		obj, ok := element.(models.JSONObject)
		if !ok {
			return models.CompactRequest{}, errors.NewParsingError(
				fmt.Sprintf("element %d: player %d must be an object, found %s", ordinal, j+1, models.TypeName(element)),
				errors.ErrInvalidJSON,
			)
		}
		players = append(players, obj)
	}
	return models.CompactRequest{Players: players}, nil
}

// normalizeJSONValue converts raw JSON types into our model types
func normalizeJSONValue(val models.JSONValue) models.JSONValue {
	switch v := val.(type) {
	case map[string]interface{}:
		obj := make(models.JSONObject, len(v))
		for key, value := range v {
			obj[key] = normalizeJSONValue(value)
		}
		return obj
	case []interface{}:
		arr := make(models.JSONArray, len(v))
		for i, value := range v {
			arr[i] = normalizeJSONValue(value)
		}
		return arr
	default:
		return v // Primitives (string, json.Number, bool, nil) are returned as is
	}
}

// ParseString parses a compact document from a string
func ParseString(jsonString string) (models.CompactDocument, error) {
	// TrimSpace is important here because an empty string reader will give io.EOF to Decode,
	// but a string with only spaces might not, depending on the decoder's behavior.
	if strings.TrimSpace(jsonString) == "" {
		return models.CompactDocument{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	reader := strings.NewReader(jsonString)
	return Parse(reader)
}

// ParseFile parses a compact document from a file path
func ParseFile(filePath string) (models.CompactDocument, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.CompactDocument{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		// Check if the file doesn't exist
		if os.IsNotExist(err) {
			return models.CompactDocument{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.CompactDocument{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	// Check for empty file before parsing
	stat, err := file.Stat()
	if err != nil {
		return models.CompactDocument{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.CompactDocument{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file)
}
