package expand

import (
	"fmt"

	"github.com/elliotchance/pie/v2"

	"github.com/gamecenter-tools/matchrules/internal/errors"
	"github.com/gamecenter-tools/matchrules/internal/models"
)

// RuleSetTest expands doc into the request body for
// POST /v1/gameCenterMatchmakingRuleSetTests against the given rule set.
// Every request and player is created inline and referenced through ${...}
// placeholder ids; the included resources list all test requests first,
// then all player properties, each group in request order.
func (e *Expander) RuleSetTest(doc models.CompactDocument, ruleSetID string) (*models.RuleSetTestRequest, error) {
	testRequests := make([]models.TestRequestResource, 0, len(doc.Requests))
	playerProps := make([]models.TestPlayerPropertiesResource, 0, len(doc.Requests))
	for i, compact := range doc.Requests {
		request, err := e.testRequest(i+1, compact)
		if err != nil {
			return nil, err
		}
		testRequests = append(testRequests, request)

		for j, obj := range compact.Players {
			resource, err := playerPropertiesResource(i+1, j+1, obj)
			if err != nil {
				return nil, err
			}
			playerProps = append(playerProps, resource)
		}
	}

	refs := pie.Map(testRequests, func(r models.TestRequestResource) models.ResourceRef {
		return models.ResourceRef{Type: models.TypeTestRequest, ID: r.ID}
	})

	included := make([]interface{}, 0, len(testRequests)+len(playerProps))
	for _, request := range testRequests {
		included = append(included, request)
	}
	for _, props := range playerProps {
		included = append(included, props)
	}

	return &models.RuleSetTestRequest{
		Data: models.RuleSetTestData{
			Type: models.TypeRuleSetTest,
			Relationships: models.RuleSetTestRelationships{
				MatchmakingRuleSet: models.Relationship{
					Data: models.ResourceRef{Type: models.TypeRuleSet, ID: ruleSetID},
				},
				MatchmakingRequests: models.RelationshipList{Data: refs},
			},
		},
		Included: included,
	}, nil
}

func (e *Expander) testRequest(ordinal int, compact models.CompactRequest) (models.TestRequestResource, error) {
	name := RequestName(ordinal)
	requesting := compact.Requesting()
	defaults := e.cfg.Defaults

	appVersion, err := stringAttr(name, requesting, "appVersion", defaults.AppVersion)
	if err != nil {
		return models.TestRequestResource{}, err
	}
	bundleID, err := stringAttr(name, requesting, "bundleId", defaults.BundleID)
	if err != nil {
		return models.TestRequestResource{}, err
	}
	locale, err := stringAttr(name, requesting, "locale", defaults.Locale)
	if err != nil {
		return models.TestRequestResource{}, err
	}
	platform, err := stringAttr(name, requesting, "platform", defaults.Platform)
	if err != nil {
		return models.TestRequestResource{}, err
	}
	location, err := locationAttr(name, requesting)
	if err != nil {
		return models.TestRequestResource{}, err
	}
	secondsInQueue, err := numberAttr(name, requesting, "secondsInQueue", intNumber(defaults.SecondsInQueue))
	if err != nil {
		return models.TestRequestResource{}, err
	}

	// No default for minPlayers and maxPlayers here: the endpoint applies
	// its own when the attribute is absent.
	minPlayers, err := numberAttr(name, requesting, "minPlayers", "")
	if err != nil {
		return models.TestRequestResource{}, err
	}
	maxPlayers, err := numberAttr(name, requesting, "maxPlayers", "")
	if err != nil {
		return models.TestRequestResource{}, err
	}

	playerRefs := make([]models.ResourceRef, 0, len(compact.Players))
	for j := range compact.Players {
		playerRefs = append(playerRefs, models.ResourceRef{
			Type: models.TypeTestPlayerProperties,
			ID:   Placeholder(PlayerID(ordinal, j+1)),
		})
	}

	return models.TestRequestResource{
		Type: models.TypeTestRequest,
		ID:   Placeholder(name),
		Attributes: models.TestRequestAttributes{
			RequestName:    name,
			AppVersion:     appVersion,
			BundleID:       bundleID,
			Locale:         locale,
			Location:       location,
			Platform:       platform,
			PlayerCount:    len(compact.Players),
			SecondsInQueue: secondsInQueue,
			MinPlayers:     minPlayers,
			MaxPlayers:     maxPlayers,
		},
		Relationships: models.TestRequestRelationships{
			MatchmakingPlayerProperties: models.RelationshipList{Data: playerRefs},
		},
	}, nil
}

// playerPropertiesResource builds the inline player properties for player m
// of request n. Keys are emitted in sorted order so the body is
// deterministic regardless of map iteration.
func playerPropertiesResource(n, m int, obj models.JSONObject) (models.TestPlayerPropertiesResource, error) {
	id := PlayerID(n, m)
	props := playerProperties(obj)

	properties := make([]models.PlayerProperty, 0, len(props))
	for _, key := range pie.Sort(pie.Keys(props)) {
		value, err := encodeValue(props[key])
		if err != nil {
			return models.TestPlayerPropertiesResource{}, errors.NewExpandError(
				fmt.Sprintf("player %s: failed to encode property '%s'", id, key),
				err,
			)
		}
		properties = append(properties, models.PlayerProperty{Key: key, Value: value})
	}

	return models.TestPlayerPropertiesResource{
		Type: models.TypeTestPlayerProperties,
		ID:   Placeholder(id),
		Attributes: models.TestPlayerPropertiesAttributes{
			Properties: properties,
			PlayerID:   id,
		},
	}, nil
}
