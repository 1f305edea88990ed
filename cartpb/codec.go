package cartpb

import (
	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/proto"
)

// codec encodes the messages of this package and falls back to protobuf for
// generated messages, so one server can host both the cart service and the
// standard health service.
type codec struct{}

var _ encoding.Codec = codec{}

// Codec returns the codec used by CartService clients and servers.
func Codec() encoding.Codec { return codec{} }

// ServerOption forces the cart codec on a gRPC server.
func ServerOption() grpc.ServerOption { return grpc.ForceServerCodec(codec{}) }

func (codec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case Message:
		return m.MarshalWire(), nil
	case proto.Message:
		return proto.Marshal(m)
	}
	return nil, errors.Errorf("cartpb: cannot marshal %T", v)
}

func (codec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case Message:
		return m.UnmarshalWire(data)
	case proto.Message:
		return proto.Unmarshal(data, m)
	}
	return errors.Errorf("cartpb: cannot unmarshal into %T", v)
}

func (codec) Name() string { return "proto" }
