package expand

import (
	"github.com/elliotchance/pie/v2"

	"github.com/gamecenter-tools/matchrules/internal/models"
)

// Playground teams are fixed at two players a side.
const (
	teamMinPlayers = 2
	teamMaxPlayers = 2
)

// PlaygroundDocument expands doc into the verbose document the rule
// expression playground consumes: every request with its generated name and
// attributes, plus the flattened player list and the team split.
func (e *Expander) PlaygroundDocument(doc models.CompactDocument) (*models.PlaygroundDocument, error) {
	requests := make([]models.PlaygroundRequest, 0, len(doc.Requests))
	for i, compact := range doc.Requests {
		request, err := e.playgroundRequest(i+1, compact)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	players := pie.Flat(pie.Map(requests, func(r models.PlaygroundRequest) []models.PlaygroundPlayer {
		return r.Players
	}))
	if players == nil {
		// The document always carries arrays, never null.
		players = []models.PlaygroundPlayer{}
	}

	return &models.PlaygroundDocument{
		Requests: requests,
		Players:  players,
		Teams:    e.teams(players),
	}, nil
}

func (e *Expander) playgroundRequest(ordinal int, compact models.CompactRequest) (models.PlaygroundRequest, error) {
	name := RequestName(ordinal)
	requesting := compact.Requesting()

	players := make([]models.PlaygroundPlayer, 0, len(compact.Players))
	for j, obj := range compact.Players {
		players = append(players, models.PlaygroundPlayer{
			PlayerID:    PlayerID(ordinal, j+1),
			Properties:  playerProperties(obj),
			RequestName: name,
		})
	}

	defaults := e.cfg.Defaults
	appVersion, err := stringAttr(name, requesting, "appVersion", defaults.AppVersion)
	if err != nil {
		return models.PlaygroundRequest{}, err
	}
	bundleID, err := stringAttr(name, requesting, "bundleId", defaults.BundleID)
	if err != nil {
		return models.PlaygroundRequest{}, err
	}
	platform, err := stringAttr(name, requesting, "platform", defaults.Platform)
	if err != nil {
		return models.PlaygroundRequest{}, err
	}
	locale, err := stringAttr(name, requesting, "locale", defaults.Locale)
	if err != nil {
		return models.PlaygroundRequest{}, err
	}
	longitude, err := numberAttr(name, requesting, "longitude", "0")
	if err != nil {
		return models.PlaygroundRequest{}, err
	}
	latitude, err := numberAttr(name, requesting, "latitude", "0")
	if err != nil {
		return models.PlaygroundRequest{}, err
	}
	minPlayers, err := numberAttr(name, requesting, "minPlayers", intNumber(defaults.MinPlayers))
	if err != nil {
		return models.PlaygroundRequest{}, err
	}
	maxPlayers, err := numberAttr(name, requesting, "maxPlayers", intNumber(defaults.MaxPlayers))
	if err != nil {
		return models.PlaygroundRequest{}, err
	}
	secondsInQueue, err := numberAttr(name, requesting, "secondsInQueue", intNumber(defaults.SecondsInQueue))
	if err != nil {
		return models.PlaygroundRequest{}, err
	}

	return models.PlaygroundRequest{
		RequestName:    name,
		PlayerID:       PlayerID(ordinal, 1),
		Properties:     playerProperties(requesting),
		Players:        players,
		AppVersion:     appVersion,
		BundleID:       bundleID,
		Platform:       platform,
		Locale:         locale,
		Longitude:      longitude,
		Latitude:       latitude,
		MinPlayers:     minPlayers,
		MaxPlayers:     maxPlayers,
		PlayerCount:    len(players),
		SecondsInQueue: secondsInQueue,
	}, nil
}

// teams deals the players round-robin across the configured team names in
// global player order: player 1 to the first team, player 2 to the second,
// and so on. The counter does not reset between requests.
func (e *Expander) teams(players []models.PlaygroundPlayer) []models.PlaygroundTeam {
	teams := pie.Map(e.cfg.Teams, func(name string) models.PlaygroundTeam {
		return models.PlaygroundTeam{
			Name:       name,
			MinPlayers: teamMinPlayers,
			MaxPlayers: teamMaxPlayers,
			Players:    []models.PlaygroundPlayer{},
		}
	})

	for i, player := range players {
		teams[i%len(teams)].Players = append(teams[i%len(teams)].Players, player)
	}
	return teams
}
