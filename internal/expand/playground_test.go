package expand

import (
	"encoding/json"
	"testing"

	"github.com/elliotchance/pie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamecenter-tools/matchrules/internal/config"
	"github.com/gamecenter-tools/matchrules/internal/models"
	"github.com/gamecenter-tools/matchrules/internal/parser"
	"github.com/gamecenter-tools/matchrules/internal/render"
)

func mustParse(t *testing.T, input string) models.CompactDocument {
	t.Helper()
	doc, err := parser.ParseString(input)
	require.NoError(t, err)
	return doc
}

func TestPlaygroundDocument_MixedRequests(t *testing.T) {
	exp := NewExpander(config.NewConfig())
	doc := mustParse(t, `[{"skill": 1}, {"skill": 50}, [{"skill": 20}, {"skill": 30}]]`)

	out, err := exp.PlaygroundDocument(doc)
	require.NoError(t, err)

	names := pie.Map(out.Requests, func(r models.PlaygroundRequest) string { return r.RequestName })
	assert.Equal(t, []string{"r1", "r2", "r3"}, names)

	ids := pie.Map(out.Players, func(p models.PlaygroundPlayer) string { return p.PlayerID })
	assert.Equal(t, []string{"r1_p1", "r2_p1", "r3_p1", "r3_p2"}, ids)

	// The multi-player request carries both players, named after it.
	r3 := out.Requests[2]
	assert.Equal(t, "r3_p1", r3.PlayerID)
	require.Len(t, r3.Players, 2)
	assert.Equal(t, "r3", r3.Players[0].RequestName)
	assert.Equal(t, "r3", r3.Players[1].RequestName)
	assert.Equal(t, models.JSONObject{"skill": json.Number("20")}, r3.Players[0].Properties)
	assert.Equal(t, models.JSONObject{"skill": json.Number("30")}, r3.Players[1].Properties)
	assert.Equal(t, 2, r3.PlayerCount)
}

func TestPlaygroundDocument_Defaults(t *testing.T) {
	exp := NewExpander(config.NewConfig())
	doc := mustParse(t, `[{"skill": 1}]`)

	out, err := exp.PlaygroundDocument(doc)
	require.NoError(t, err)
	require.Len(t, out.Requests, 1)

	r := out.Requests[0]
	assert.Equal(t, "1.0.0", r.AppVersion)
	assert.Equal(t, "com.example.mygame", r.BundleID)
	assert.Equal(t, "IOS", r.Platform)
	assert.Equal(t, "EN-US", r.Locale)
	assert.Equal(t, json.Number("0"), r.Longitude)
	assert.Equal(t, json.Number("0"), r.Latitude)
	assert.Equal(t, json.Number("2"), r.MinPlayers)
	assert.Equal(t, json.Number("2"), r.MaxPlayers)
	assert.Equal(t, 1, r.PlayerCount)
	assert.Equal(t, json.Number("0"), r.SecondsInQueue)
}

func TestPlaygroundDocument_Overrides(t *testing.T) {
	exp := NewExpander(config.NewConfig())
	doc := mustParse(t, `[{
		"appVersion": "2.0.1",
		"bundleId": "com.example.other",
		"platform": "MACOS",
		"locale": "FR-FR",
		"latitude": 37.33,
		"longitude": -122.01,
		"minPlayers": 4,
		"maxPlayers": 8,
		"secondsInQueue": 30,
		"skill": 12
	}]`)

	out, err := exp.PlaygroundDocument(doc)
	require.NoError(t, err)

	r := out.Requests[0]
	assert.Equal(t, "2.0.1", r.AppVersion)
	assert.Equal(t, "com.example.other", r.BundleID)
	assert.Equal(t, "MACOS", r.Platform)
	assert.Equal(t, "FR-FR", r.Locale)
	assert.Equal(t, json.Number("37.33"), r.Latitude)
	assert.Equal(t, json.Number("-122.01"), r.Longitude)
	assert.Equal(t, json.Number("4"), r.MinPlayers)
	assert.Equal(t, json.Number("8"), r.MaxPlayers)
	assert.Equal(t, json.Number("30"), r.SecondsInQueue)
}

func TestPlaygroundDocument_ExplicitZeroOverridesDefault(t *testing.T) {
	exp := NewExpander(config.NewConfig())
	doc := mustParse(t, `[{"minPlayers": 0}]`)

	out, err := exp.PlaygroundDocument(doc)
	require.NoError(t, err)

	// A supplied value wins even when it is falsy; the default only fills
	// absent keys.
	assert.Equal(t, json.Number("0"), out.Requests[0].MinPlayers)
	assert.Equal(t, json.Number("2"), out.Requests[0].MaxPlayers)
}

func TestPlaygroundDocument_ReservedKeysStripped(t *testing.T) {
	exp := NewExpander(config.NewConfig())
	doc := mustParse(t, `[{"skill": 9, "appVersion": "3.0", "playerCount": 99, "location": {"latitude": 1, "longitude": 2}}]`)

	out, err := exp.PlaygroundDocument(doc)
	require.NoError(t, err)

	r := out.Requests[0]
	assert.Equal(t, models.JSONObject{"skill": json.Number("9")}, r.Properties)
	assert.Equal(t, models.JSONObject{"skill": json.Number("9")}, r.Players[0].Properties)
	assert.Equal(t, "3.0", r.AppVersion)
	// playerCount is always computed, never read from the input.
	assert.Equal(t, 1, r.PlayerCount)
}

func TestPlaygroundDocument_InvitedPlayerRequestKeysIgnored(t *testing.T) {
	exp := NewExpander(config.NewConfig())
	doc := mustParse(t, `[[{"skill": 1}, {"skill": 2, "bundleId": "com.example.ignored"}]]`)

	out, err := exp.PlaygroundDocument(doc)
	require.NoError(t, err)

	r := out.Requests[0]
	// Only the requesting player's object sets request-level attributes.
	assert.Equal(t, "com.example.mygame", r.BundleID)
	// The invitee's reserved key is still stripped from its properties.
	assert.Equal(t, models.JSONObject{"skill": json.Number("2")}, r.Players[1].Properties)
}

func TestPlaygroundDocument_TeamsRoundRobin(t *testing.T) {
	exp := NewExpander(config.NewConfig())
	doc := mustParse(t, `[{"skill": 1}, [{"skill": 2}, {"skill": 3}], [{"skill": 4}, {"skill": 5}]]`)

	out, err := exp.PlaygroundDocument(doc)
	require.NoError(t, err)
	require.Len(t, out.Teams, 2)

	blue, red := out.Teams[0], out.Teams[1]
	assert.Equal(t, "blue", blue.Name)
	assert.Equal(t, "red", red.Name)
	assert.Equal(t, 2, blue.MinPlayers)
	assert.Equal(t, 2, blue.MaxPlayers)

	blueIDs := pie.Map(blue.Players, func(p models.PlaygroundPlayer) string { return p.PlayerID })
	redIDs := pie.Map(red.Players, func(p models.PlaygroundPlayer) string { return p.PlayerID })
	assert.Equal(t, []string{"r1_p1", "r2_p2", "r3_p2"}, blueIDs)
	assert.Equal(t, []string{"r2_p1", "r3_p1"}, redIDs)
}

func TestPlaygroundDocument_ConfiguredTeamNames(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Teams = []string{"alpha", "beta", "gamma"}
	exp := NewExpander(cfg)
	doc := mustParse(t, `[[{"skill": 1}, {"skill": 2}, {"skill": 3}, {"skill": 4}]]`)

	out, err := exp.PlaygroundDocument(doc)
	require.NoError(t, err)
	require.Len(t, out.Teams, 3)

	assert.Equal(t, "alpha", out.Teams[0].Name)
	assert.Len(t, out.Teams[0].Players, 2) // players 1 and 4
	assert.Len(t, out.Teams[1].Players, 1)
	assert.Len(t, out.Teams[2].Players, 1)
}

func TestPlaygroundDocument_Empty(t *testing.T) {
	exp := NewExpander(config.NewConfig())
	doc := mustParse(t, `[]`)

	out, err := exp.PlaygroundDocument(doc)
	require.NoError(t, err)

	assert.Empty(t, out.Requests)
	assert.Empty(t, out.Players)
	require.Len(t, out.Teams, 2)
	assert.NotNil(t, out.Teams[0].Players, "empty team must encode as [] rather than null")
	assert.Empty(t, out.Teams[0].Players)

	data, err := render.JSON(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"requests": []`)
	assert.Contains(t, string(data), `"players": []`)
	assert.NotContains(t, string(data), "null")
}

func TestPlaygroundDocument_TypeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "appVersion must be a string",
			input: `[{"appVersion": 2}]`,
			want:  "request r1: appVersion must be a string, found number",
		},
		{
			name:  "secondsInQueue must be a number",
			input: `[{"secondsInQueue": "soon"}]`,
			want:  "request r1: secondsInQueue must be a number, found string",
		},
		{
			name:  "error names the failing request",
			input: `[{"skill": 1}, {"latitude": true}]`,
			want:  "request r2: latitude must be a number, found boolean",
		},
	}

	exp := NewExpander(config.NewConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.input)
			_, err := exp.PlaygroundDocument(doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPlaygroundDocument_RenderedOutput(t *testing.T) {
	exp := NewExpander(config.NewConfig())
	doc := mustParse(t, `[{"skill": 1}]`)

	out, err := exp.PlaygroundDocument(doc)
	require.NoError(t, err)

	data, err := render.JSON(out)
	require.NoError(t, err)

	expected := `{
		"requests": [
			{
				"requestName": "r1",
				"playerId": "r1_p1",
				"properties": {"skill": 1},
				"players": [{"playerId": "r1_p1", "properties": {"skill": 1}, "requestName": "r1"}],
				"appVersion": "1.0.0",
				"bundleId": "com.example.mygame",
				"platform": "IOS",
				"locale": "EN-US",
				"longitude": 0,
				"latitude": 0,
				"minPlayers": 2,
				"maxPlayers": 2,
				"playerCount": 1,
				"secondsInQueue": 0
			}
		],
		"players": [{"playerId": "r1_p1", "properties": {"skill": 1}, "requestName": "r1"}],
		"teams": [
			{"name": "blue", "minPlayers": 2, "maxPlayers": 2, "players": [{"playerId": "r1_p1", "properties": {"skill": 1}, "requestName": "r1"}]},
			{"name": "red", "minPlayers": 2, "maxPlayers": 2, "players": []}
		]
	}`
	assert.JSONEq(t, expected, string(data))
}

func TestIsReserved(t *testing.T) {
	for _, key := range []string{
		"appVersion", "bundleId", "locale", "location", "latitude", "longitude",
		"maxPlayers", "minPlayers", "platform", "playerCount", "secondsInQueue",
	} {
		assert.True(t, IsReserved(key), key)
	}
	assert.False(t, IsReserved("skill"))
	assert.False(t, IsReserved("AppVersion"), "reserved keys are case sensitive")
}

func TestNaming(t *testing.T) {
	assert.Equal(t, "r1", RequestName(1))
	assert.Equal(t, "r12", RequestName(12))
	assert.Equal(t, "r3_p2", PlayerID(3, 2))
	assert.Equal(t, "${r3_p2}", Placeholder(PlayerID(3, 2)))
}
