package models

import "encoding/json"

// PlaygroundDocument is the verbose document consumed by the JMESPath rule
// expression playground. Field order matches the document layout the
// playground examples use.
type PlaygroundDocument struct {
	Requests []PlaygroundRequest `json:"requests"`
	Players  []PlaygroundPlayer  `json:"players"`
	Teams    []PlaygroundTeam    `json:"teams"`
}

// PlaygroundRequest is one expanded match request. Numeric attributes stay
// json.Number so values round-trip exactly as they appeared in the input.
type PlaygroundRequest struct {
	RequestName    string             `json:"requestName"`
	PlayerID       string             `json:"playerId"`
	Properties     JSONObject         `json:"properties"`
	Players        []PlaygroundPlayer `json:"players"`
	AppVersion     string             `json:"appVersion"`
	BundleID       string             `json:"bundleId"`
	Platform       string             `json:"platform"`
	Locale         string             `json:"locale"`
	Longitude      json.Number        `json:"longitude"`
	Latitude       json.Number        `json:"latitude"`
	MinPlayers     json.Number        `json:"minPlayers"`
	MaxPlayers     json.Number        `json:"maxPlayers"`
	PlayerCount    int                `json:"playerCount"`
	SecondsInQueue json.Number        `json:"secondsInQueue"`
}

// PlaygroundPlayer is one player of a request, carrying only the custom
// properties left after the request-level keys are stripped.
type PlaygroundPlayer struct {
	PlayerID    string     `json:"playerId"`
	Properties  JSONObject `json:"properties"`
	RequestName string     `json:"requestName"`
}

// PlaygroundTeam is one of the fixed playground teams. Players are dealt to
// teams round-robin in global player order.
type PlaygroundTeam struct {
	Name       string             `json:"name"`
	MinPlayers int                `json:"minPlayers"`
	MaxPlayers int                `json:"maxPlayers"`
	Players    []PlaygroundPlayer `json:"players"`
}
