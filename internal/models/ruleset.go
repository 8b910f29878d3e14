package models

import "encoding/json"

// Resource type names used by the gameCenterMatchmakingRuleSetTests endpoint.
// See https://developer.apple.com/documentation/appstoreconnectapi/test_a_rule_set.
const (
	TypeRuleSetTest          = "gameCenterMatchmakingRuleSetTests"
	TypeRuleSet              = "gameCenterMatchmakingRuleSets"
	TypeTestRequest          = "gameCenterMatchmakingTestRequests"
	TypeTestPlayerProperties = "gameCenterMatchmakingTestPlayerProperties"
)

// ResourceRef identifies a resource by type and id. Resources created inline
// in the same payload are referenced with the ${name} placeholder syntax.
type ResourceRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Relationship wraps a single resource reference.
type Relationship struct {
	Data ResourceRef `json:"data"`
}

// RelationshipList wraps a list of resource references.
type RelationshipList struct {
	Data []ResourceRef `json:"data"`
}

// RuleSetTestRequest is the request body for
// POST /v1/gameCenterMatchmakingRuleSetTests. Included carries the
// inline-created test requests first, then the player properties.
type RuleSetTestRequest struct {
	Data     RuleSetTestData `json:"data"`
	Included []interface{}   `json:"included"`
}

// RuleSetTestData is the primary resource of the request body. The endpoint
// accepts no top-level attributes, so Attributes always encodes as {}.
type RuleSetTestData struct {
	Type          string                   `json:"type"`
	Attributes    struct{}                 `json:"attributes"`
	Relationships RuleSetTestRelationships `json:"relationships"`
}

// RuleSetTestRelationships binds the rule set under test to the test
// requests created inline.
type RuleSetTestRelationships struct {
	MatchmakingRuleSet  Relationship     `json:"matchmakingRuleSet"`
	MatchmakingRequests RelationshipList `json:"matchmakingRequests"`
}

// TestRequestResource is an inline-created gameCenterMatchmakingTestRequests
// resource.
type TestRequestResource struct {
	Type          string                   `json:"type"`
	ID            string                   `json:"id"`
	Attributes    TestRequestAttributes    `json:"attributes"`
	Relationships TestRequestRelationships `json:"relationships"`
}

// TestRequestAttributes holds the request-level attributes. MinPlayers and
// MaxPlayers have no default; the zero json.Number is the empty string, so
// omitempty drops them unless the input supplied a value.
type TestRequestAttributes struct {
	RequestName    string      `json:"requestName"`
	AppVersion     string      `json:"appVersion"`
	BundleID       string      `json:"bundleId"`
	Locale         string      `json:"locale"`
	Location       Location    `json:"location"`
	Platform       string      `json:"platform"`
	PlayerCount    int         `json:"playerCount"`
	SecondsInQueue json.Number `json:"secondsInQueue"`
	MinPlayers     json.Number `json:"minPlayers,omitempty"`
	MaxPlayers     json.Number `json:"maxPlayers,omitempty"`
}

// Location is a latitude/longitude pair.
type Location struct {
	Latitude  json.Number `json:"latitude"`
	Longitude json.Number `json:"longitude"`
}

// TestRequestRelationships references the player properties of one request.
type TestRequestRelationships struct {
	MatchmakingPlayerProperties RelationshipList `json:"matchmakingPlayerProperties"`
}

// TestPlayerPropertiesResource is an inline-created
// gameCenterMatchmakingTestPlayerProperties resource.
type TestPlayerPropertiesResource struct {
	Type       string                         `json:"type"`
	ID         string                         `json:"id"`
	Attributes TestPlayerPropertiesAttributes `json:"attributes"`
}

// TestPlayerPropertiesAttributes carries one player's custom properties.
type TestPlayerPropertiesAttributes struct {
	Properties []PlayerProperty `json:"properties"`
	PlayerID   string           `json:"playerId"`
}

// PlayerProperty is one custom property. Value is the JSON encoding of the
// property value rendered as a string, e.g. 20 becomes "20" and "bob"
// becomes "\"bob\"".
type PlayerProperty struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RuleSetTestResponse mirrors the parts of the endpoint's response the tools
// read. MatchmakingResults stays raw so the service's ordering survives
// re-encoding untouched.
type RuleSetTestResponse struct {
	Data   *RuleSetTestResponseData `json:"data"`
	Errors []ErrorDetail            `json:"errors"`
}

// RuleSetTestResponseData is the primary resource of a successful response.
type RuleSetTestResponseData struct {
	Attributes RuleSetTestResponseAttributes `json:"attributes"`
}

// RuleSetTestResponseAttributes holds the match results.
type RuleSetTestResponseAttributes struct {
	MatchmakingResults json.RawMessage `json:"matchmakingResults"`
}

// ErrorDetail is one entry of an App Store Connect error response.
type ErrorDetail struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
	Code   string `json:"code,omitempty"`
	Title  string `json:"title,omitempty"`
	Detail string `json:"detail,omitempty"`
}
