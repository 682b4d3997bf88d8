package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/nelhage/battlesnake/snake"
)

// Client asks a remote Decider for moves. It is an ai.SnakePlayer, so
// a remote server can stand in for a local strategy.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Move(ctx context.Context, st *snake.State) (snake.Move, error) {
	bs, err := json.Marshal(st)
	if err != nil {
		return snake.Move{}, err
	}
	req := new(structpb.Struct)
	if err := protojson.Unmarshal(bs, req); err != nil {
		return snake.Move{}, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, moveMethod, req, out); err != nil {
		return snake.Move{}, err
	}
	d, err := snake.ParseDirection(out.GetFields()["move"].GetStringValue())
	if err != nil {
		return snake.Move{}, fmt.Errorf("response: %w", err)
	}
	return snake.Move{
		Direction: d,
		Shout:     out.GetFields()["shout"].GetStringValue(),
	}, nil
}

// GetMove returns the zero Move on error, which callers treat as no
// answer.
func (c *Client) GetMove(ctx context.Context, st *snake.State) snake.Move {
	m, err := c.Move(ctx, st)
	if err != nil {
		log.Printf("rpc move game-id=%s turn=%d err=%v", st.Game.ID, st.Turn, err)
	}
	return m
}
