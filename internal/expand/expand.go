// Package expand turns the compact request document into the two verbose
// forms the tools emit: the playground document and the rule set test
// request body. Request-level attributes come from the requesting player's
// object, with configured defaults filling the gaps.
package expand

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gamecenter-tools/matchrules/internal/config"
	"github.com/gamecenter-tools/matchrules/internal/errors"
	"github.com/gamecenter-tools/matchrules/internal/models"
)

// Expander expands compact documents using the configured defaults.
type Expander struct {
	cfg *config.Config
}

// NewExpander creates an Expander backed by cfg.
func NewExpander(cfg *config.Config) *Expander {
	return &Expander{cfg: cfg}
}

// RequestName returns the identifier assigned to request n (1-based, in
// input order).
func RequestName(n int) string {
	return fmt.Sprintf("r%d", n)
}

// PlayerID returns the identifier of player m (1-based) of request n.
func PlayerID(n, m int) string {
	return fmt.Sprintf("r%d_p%d", n, m)
}

// Placeholder wraps an identifier in the ${...} syntax used to reference
// resources created inline in the same payload.
func Placeholder(id string) string {
	return "${" + id + "}"
}

// reservedKeys are request-level attributes. They are stripped from every
// player's property map and never treated as custom properties.
var reservedKeys = map[string]struct{}{
	"appVersion":     {},
	"bundleId":       {},
	"locale":         {},
	"location":       {},
	"latitude":       {},
	"longitude":      {},
	"maxPlayers":     {},
	"minPlayers":     {},
	"platform":       {},
	"playerCount":    {},
	"secondsInQueue": {},
}

// IsReserved reports whether key is a request-level attribute.
func IsReserved(key string) bool {
	_, ok := reservedKeys[key]
	return ok
}

// playerProperties returns a copy of obj with the request-level keys removed.
func playerProperties(obj models.JSONObject) models.JSONObject {
	props := make(models.JSONObject, len(obj))
	for key, value := range obj {
		if IsReserved(key) {
			continue
		}
		props[key] = value
	}
	return props
}

// stringAttr reads a string attribute from the requesting player's object,
// falling back when the key is absent. An explicitly supplied value is used
// as-is, even when empty; a value of the wrong type is an error.
func stringAttr(requestName string, obj models.JSONObject, key, fallback string) (string, error) {
	value, ok := obj[key]
	if !ok {
		return fallback, nil
	}
	s, isString := value.(string)
	if !isString {
		return "", errors.NewExpandError(
			fmt.Sprintf("request %s: %s must be a string, found %s", requestName, key, models.TypeName(value)),
			nil,
		)
	}
	return s, nil
}

// numberAttr reads a numeric attribute, falling back when the key is absent.
// An empty fallback marks an attribute with no default.
func numberAttr(requestName string, obj models.JSONObject, key string, fallback json.Number) (json.Number, error) {
	value, ok := obj[key]
	if !ok {
		return fallback, nil
	}
	n, isNumber := value.(json.Number)
	if !isNumber {
		return "", errors.NewExpandError(
			fmt.Sprintf("request %s: %s must be a number, found %s", requestName, key, models.TypeName(value)),
			nil,
		)
	}
	return n, nil
}

// locationAttr reads the nested location object, defaulting to 0,0. Latitude
// and longitude must be numbers; other keys inside the object are ignored.
func locationAttr(requestName string, obj models.JSONObject) (models.Location, error) {
	fallback := models.Location{Latitude: "0", Longitude: "0"}
	value, ok := obj["location"]
	if !ok {
		return fallback, nil
	}
	locObj, isObject := value.(models.JSONObject)
	if !isObject {
		return models.Location{}, errors.NewExpandError(
			fmt.Sprintf("request %s: location must be an object, found %s", requestName, models.TypeName(value)),
			nil,
		)
	}
	latitude, err := numberAttr(requestName, locObj, "latitude", "0")
	if err != nil {
		return models.Location{}, err
	}
	longitude, err := numberAttr(requestName, locObj, "longitude", "0")
	if err != nil {
		return models.Location{}, err
	}
	return models.Location{Latitude: latitude, Longitude: longitude}, nil
}

// intNumber converts a configured integer default into a json.Number.
func intNumber(n int) json.Number {
	return json.Number(strconv.Itoa(n))
}

// encodeValue renders a property value exactly as a plain JSON dump would,
// without HTML escaping, for embedding as a string attribute.
func encodeValue(v models.JSONValue) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
