package snaketest

import (
	"encoding/json"

	"github.com/nelhage/battlesnake/snake"
)

const GameID = "test-game"

func C(x, y int) snake.Coord {
	return snake.Coord{X: x, Y: y}
}

func Snake(id string, body ...snake.Coord) snake.Snake {
	return snake.Snake{
		ID:      id,
		Name:    id,
		Health:  snake.MaxHealth,
		Body:    body,
		Head:    body[0],
		Length:  len(body),
		Latency: "0",
	}
}

// State builds a valid move request on a w×h board. you is placed on
// the board ahead of others.
func State(w, h int, you snake.Snake, others ...snake.Snake) *snake.State {
	return &snake.State{
		Game: snake.Game{
			ID: GameID,
			Ruleset: snake.Ruleset{
				"name":    snake.String("standard"),
				"version": snake.String("v1.2.3"),
			},
			Timeout: 500,
		},
		Board: snake.Board{
			Width:   w,
			Height:  h,
			Food:    []snake.Coord{},
			Hazards: []snake.Coord{},
			Snakes:  append([]snake.Snake{you}, others...),
		},
		You: you,
	}
}

func JSON(st *snake.State) []byte {
	bs, err := json.Marshal(st)
	if err != nil {
		panic(err)
	}
	return bs
}
