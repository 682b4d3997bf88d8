// Package rpc serves move decisions over gRPC. Requests and responses
// are google.protobuf.Struct messages with the same shape as the HTTP
// API's JSON bodies.
package rpc

import (
	"bytes"
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/nelhage/battlesnake/ai"
	"github.com/nelhage/battlesnake/games"
	"github.com/nelhage/battlesnake/snake"
)

const (
	ServiceName = "battlesnake.Decider"
	moveMethod  = "/" + ServiceName + "/Move"
)

type DeciderServer interface {
	Move(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

func _Decider_Move_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DeciderServer).Move(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: moveMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DeciderServer).Move(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var Decider_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DeciderServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Move",
			Handler:    _Decider_Move_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "battlesnake/decider.proto",
}

type server struct {
	decider *ai.Bounded
	tracker *games.Tracker
	log     *zap.SugaredLogger
}

// Register adds the Decider service and a health service reporting it
// as serving. tracker and logger may be nil.
func Register(r grpc.ServiceRegistrar, d *ai.Bounded, tracker *games.Tracker, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r.RegisterService(&Decider_ServiceDesc, &server{
		decider: d,
		tracker: tracker,
		log:     logger.Sugar(),
	})
	h := health.NewServer()
	h.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(r, h)
}

func (s *server) Move(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	bs, err := protojson.Marshal(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "encode request: %v", err)
	}
	st, err := snake.ParseState(bytes.NewReader(bs))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if _, err := st.RequireYou(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	move, out := s.decider.Decide(ctx, st)
	if s.tracker != nil {
		s.tracker.Observe(st, out)
	}
	if out.Err != nil {
		s.log.Warnw("fallback move", "game-id", st.Game.ID, "turn", st.Turn,
			"move", move.Direction.String(), "error", out.Err)
	}

	resp := map[string]interface{}{"move": move.Direction.String()}
	if move.Shout != "" {
		resp["shout"] = move.Shout
	}
	return structpb.NewStruct(resp)
}
