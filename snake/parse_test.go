package snake_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelhage/battlesnake/snake"
	. "github.com/nelhage/battlesnake/snaketest"
)

const sample = `{
  "game": {
    "id": "totally-unique-game-id",
    "ruleset": {
      "name": "standard",
      "version": "v1.1.15",
      "settings": {
        "foodSpawnChance": 15,
        "minimumFood": 1,
        "hazardDamagePerTurn": 14,
        "royale": {"shrinkEveryNTurns": 5},
        "squad": {"allowBodyCollisions": true}
      }
    },
    "map": "standard",
    "source": "league",
    "timeout": 500
  },
  "turn": 14,
  "board": {
    "height": 11,
    "width": 11,
    "food": [{"x": 5, "y": 5}, {"x": 9, "y": 0}, {"x": 2, "y": 6}],
    "hazards": [{"x": 3, "y": 2}],
    "snakes": [
      {
        "id": "snake-508e96ac-94ad-11ea-bb37",
        "name": "My Snake",
        "health": 54,
        "body": [{"x": 0, "y": 0}, {"x": 1, "y": 0}, {"x": 2, "y": 0}],
        "latency": "111",
        "head": {"x": 0, "y": 0},
        "length": 3,
        "shout": "why are we shouting??",
        "customizations": {"color": "#FF0000", "head": "pixel", "tail": "pixel"}
      },
      {
        "id": "snake-b67f4906-94ae-11ea-bb37",
        "name": "Another Snake",
        "health": 16,
        "body": [{"x": 5, "y": 4}, {"x": 5, "y": 3}, {"x": 6, "y": 3}, {"x": 6, "y": 2}],
        "latency": "222",
        "head": {"x": 5, "y": 4},
        "length": 4,
        "shout": "I'm not really sure..."
      }
    ]
  },
  "you": {
    "id": "snake-508e96ac-94ad-11ea-bb37",
    "name": "My Snake",
    "health": 54,
    "body": [{"x": 0, "y": 0}, {"x": 1, "y": 0}, {"x": 2, "y": 0}],
    "latency": "111",
    "head": {"x": 0, "y": 0},
    "length": 3,
    "shout": "why are we shouting??"
  }
}`

func TestParseSample(t *testing.T) {
	st, err := snake.ParseState(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "totally-unique-game-id", st.Game.ID)
	assert.Equal(t, 500, st.Game.Timeout)
	assert.Equal(t, 14, st.Turn)
	assert.Equal(t, 11, st.Board.Width)
	assert.Len(t, st.Board.Snakes, 2)
	assert.Equal(t, C(0, 0), st.You.Head)
	assert.Equal(t, "standard", st.Game.Ruleset.Name())
	assert.Equal(t, 14, st.Game.Ruleset.Setting("hazardDamagePerTurn", 0))
	assert.Equal(t, 99, st.Game.Ruleset.Setting("missing", 99))

	v, ok := st.Game.Ruleset.Lookup("settings", "royale", "shrinkEveryNTurns")
	require.True(t, ok)
	assert.Equal(t, snake.NumberValue, v.Kind)
	assert.Equal(t, 5.0, v.Num)

	v, ok = st.Game.Ruleset.Lookup("settings", "squad", "allowBodyCollisions")
	require.True(t, ok)
	assert.Equal(t, snake.Bool(true), v)

	me, err := st.RequireYou()
	require.NoError(t, err)
	assert.Equal(t, 54, me.Health)
}

func TestRoundTrip(t *testing.T) {
	st, err := snake.ParseState(strings.NewReader(sample))
	require.NoError(t, err)

	back, err := snake.ParseState(bytes.NewReader(JSON(st)))
	require.NoError(t, err)
	assert.Equal(t, st, back)

	built := State(11, 11, Snake("me", C(5, 5), C(5, 6)), Snake("them", C(1, 1), C(1, 2), C(1, 3)))
	back, err = snake.ParseState(bytes.NewReader(JSON(built)))
	require.NoError(t, err)
	assert.Equal(t, built, back)
}

func TestParseMalformed(t *testing.T) {
	edit := func(f func(m map[string]interface{})) string {
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(sample), &m); err != nil {
			panic(err)
		}
		f(m)
		bs, _ := json.Marshal(m)
		return string(bs)
	}
	board := func(m map[string]interface{}) map[string]interface{} {
		return m["board"].(map[string]interface{})
	}
	you := func(m map[string]interface{}) map[string]interface{} {
		return m["you"].(map[string]interface{})
	}
	game := func(m map[string]interface{}) map[string]interface{} {
		return m["game"].(map[string]interface{})
	}
	first := func(m map[string]interface{}) map[string]interface{} {
		return board(m)["snakes"].([]interface{})[0].(map[string]interface{})
	}

	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"not json", "{nope"},
		{"array", "[]"},
		{"no board", edit(func(m map[string]interface{}) { delete(m, "board") })},
		{"no game", edit(func(m map[string]interface{}) { delete(m, "game") })},
		{"no you", edit(func(m map[string]interface{}) { delete(m, "you") })},
		{"wrong type", edit(func(m map[string]interface{}) { m["turn"] = "fourteen" })},
		{"zero width", edit(func(m map[string]interface{}) { board(m)["width"] = 0 })},
		{"food out of bounds", edit(func(m map[string]interface{}) {
			board(m)["food"] = []interface{}{map[string]int{"x": 11, "y": 0}}
		})},
		{"negative hazard", edit(func(m map[string]interface{}) {
			board(m)["hazards"] = []interface{}{map[string]int{"x": -1, "y": 0}}
		})},
		{"head mismatch", edit(func(m map[string]interface{}) {
			you(m)["head"] = map[string]int{"x": 1, "y": 1}
		})},
		{"length mismatch", edit(func(m map[string]interface{}) { you(m)["length"] = 7 })},
		{"health", edit(func(m map[string]interface{}) { you(m)["health"] = 101 })},
		{"empty body", edit(func(m map[string]interface{}) {
			you(m)["body"] = []interface{}{}
		})},
		{"no game id", edit(func(m map[string]interface{}) {
			m["game"].(map[string]interface{})["id"] = ""
		})},
		{"no turn", edit(func(m map[string]interface{}) { delete(m, "turn") })},
		{"no timeout", edit(func(m map[string]interface{}) { delete(game(m), "timeout") })},
		{"no ruleset", edit(func(m map[string]interface{}) { delete(game(m), "ruleset") })},
		{"null ruleset", edit(func(m map[string]interface{}) { game(m)["ruleset"] = nil })},
		{"no food", edit(func(m map[string]interface{}) { delete(board(m), "food") })},
		{"no hazards", edit(func(m map[string]interface{}) { delete(board(m), "hazards") })},
		{"no snakes", edit(func(m map[string]interface{}) { delete(board(m), "snakes") })},
		{"no height", edit(func(m map[string]interface{}) { delete(board(m), "height") })},
		{"no health", edit(func(m map[string]interface{}) { delete(you(m), "health") })},
		{"no name", edit(func(m map[string]interface{}) { delete(first(m), "name") })},
		{"no latency", edit(func(m map[string]interface{}) { delete(first(m), "latency") })},
		{"no head", edit(func(m map[string]interface{}) { delete(you(m), "head") })},
		{"no length", edit(func(m map[string]interface{}) { delete(first(m), "length") })},
		{"half coordinate", edit(func(m map[string]interface{}) {
			board(m)["food"] = []interface{}{map[string]int{"x": 1}}
		})},
		{"you out of bounds", edit(func(m map[string]interface{}) {
			you(m)["body"] = []interface{}{
				map[string]int{"x": -4, "y": 40},
				map[string]int{"x": -4, "y": 41},
				map[string]int{"x": -4, "y": 42},
			}
			you(m)["head"] = map[string]int{"x": -4, "y": 40}
		})},
		{"duplicate snake", edit(func(m map[string]interface{}) {
			snakes := board(m)["snakes"].([]interface{})
			board(m)["snakes"] = append(snakes, snakes[0])
		})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := snake.ParseState(strings.NewReader(tc.in))
			require.Error(t, err)
			assert.True(t, errors.Is(err, snake.ErrMalformedRequest), "err=%v", err)
		})
	}
}

func TestParseOptionalFields(t *testing.T) {
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(sample), &m))
	delete(m["game"].(map[string]interface{}), "map")
	delete(m["game"].(map[string]interface{}), "source")
	delete(m["you"].(map[string]interface{}), "shout")
	bs, err := json.Marshal(m)
	require.NoError(t, err)

	st, err := snake.ParseState(bytes.NewReader(bs))
	require.NoError(t, err)
	assert.Empty(t, st.You.Shout)
	assert.Empty(t, st.Game.Map)
}

func TestMarshalEmptyLists(t *testing.T) {
	st := State(7, 7, Snake("me", C(3, 3), C(3, 2)))
	st.Board.Food = nil
	st.Board.Hazards = nil
	st.Game.Ruleset = nil

	back, err := snake.ParseState(bytes.NewReader(JSON(st)))
	require.NoError(t, err)
	assert.Empty(t, back.Board.Food)
	assert.Empty(t, back.Board.Hazards)
	assert.Empty(t, back.Game.Ruleset)
}

func TestRequireYou(t *testing.T) {
	st := State(7, 7, Snake("me", C(3, 3), C(3, 2)))
	st.Board.Snakes = []snake.Snake{Snake("other", C(1, 1))}
	require.NoError(t, st.Validate())
	_, err := st.RequireYou()
	assert.True(t, errors.Is(err, snake.ErrMalformedRequest))
}

func TestClone(t *testing.T) {
	st := State(7, 7, Snake("me", C(3, 3), C(3, 2)))
	st.Game.Ruleset["settings"] = snake.Map(map[string]snake.RuleValue{"minimumFood": snake.Number(2)})
	c := st.Clone()
	assert.Equal(t, st, c)

	c.Board.Snakes[0].Body[0] = C(0, 0)
	c.Game.Ruleset["settings"].Map["minimumFood"] = snake.Number(9)
	assert.Equal(t, C(3, 3), st.Board.Snakes[0].Body[0])
	assert.Equal(t, 2, st.Game.Ruleset.Setting("minimumFood", 0))
}
