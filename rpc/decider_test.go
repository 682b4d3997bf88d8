package rpc

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/nelhage/battlesnake/ai"
	"github.com/nelhage/battlesnake/games"
	"github.com/nelhage/battlesnake/snake"
	. "github.com/nelhage/battlesnake/snaketest"
)

type playerFunc func(ctx context.Context, st *snake.State) snake.Move

func (f playerFunc) GetMove(ctx context.Context, st *snake.State) snake.Move {
	return f(ctx, st)
}

func dial(t *testing.T, p ai.SnakePlayer, tr *games.Tracker) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	Register(srv, &ai.Bounded{Player: p, Margin: 50 * time.Millisecond}, tr, nil)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	cc, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { cc.Close() })
	return cc
}

func scenario() *snake.State {
	return State(11, 11, Snake("me", C(5, 5), C(5, 6)))
}

func TestClientMove(t *testing.T) {
	p := playerFunc(func(context.Context, *snake.State) snake.Move {
		return snake.Move{Direction: snake.Left, Shout: "hiss"}
	})
	tr := games.NewTracker(nil)
	c := NewClient(dial(t, p, tr))

	st := scenario()
	tr.Start(st)
	m, err := c.Move(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, snake.Move{Direction: snake.Left, Shout: "hiss"}, m)
	assert.Equal(t, 1, tr.Active())
}

func TestMoveFallback(t *testing.T) {
	p := playerFunc(func(ctx context.Context, st *snake.State) snake.Move {
		<-ctx.Done()
		return snake.Move{Direction: snake.Left}
	})
	c := NewClient(dial(t, p, nil))

	st := scenario()
	st.Game.Timeout = 100
	m, err := c.Move(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, snake.Right, m.Direction)
}

func TestMoveInvalidArgument(t *testing.T) {
	cc := dial(t, playerFunc(func(context.Context, *snake.State) snake.Move {
		return snake.Move{Direction: snake.Up}
	}), nil)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(JSON(scenario()), &payload))
	delete(payload, "board")
	req, err := structpb.NewStruct(payload)
	require.NoError(t, err)

	out := new(structpb.Struct)
	err = cc.Invoke(context.Background(), moveMethod, req, out)
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	// the server keeps answering after a bad request
	bs := JSON(scenario())
	req = new(structpb.Struct)
	require.NoError(t, protojson.Unmarshal(bs, req))
	require.NoError(t, cc.Invoke(context.Background(), moveMethod, req, out))
	assert.Equal(t, "up", out.GetFields()["move"].GetStringValue())
}

func TestHealth(t *testing.T) {
	cc := dial(t, playerFunc(func(context.Context, *snake.State) snake.Move {
		return snake.Move{Direction: snake.Up}
	}), nil)
	resp, err := healthpb.NewHealthClient(cc).Check(context.Background(),
		&healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestClientGetMoveError(t *testing.T) {
	cc, err := grpc.NewClient("passthrough:///nowhere",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return nil, context.DeadlineExceeded
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer cc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	m := NewClient(cc).GetMove(ctx, scenario())
	assert.False(t, m.Direction.Valid())
}
