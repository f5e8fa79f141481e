package server

import (
	"context"

	"gofvm/model"

	"github.com/golang/protobuf/ptypes/empty"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls a gofvm.Verifier service.
type Client struct {
	conn *grpc.ClientConn
}

func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	conn, err := grpc.Dial(target, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) Verify(ctx context.Context, d *model.Document, opts ...grpc.CallOption) ([]model.Report, error) {
	in, err := d.Struct()
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/Verify", in, out, opts...); err != nil {
		return nil, err
	}
	return model.ReportsFromStruct(out)
}

func (c *Client) Reports(ctx context.Context, fingerprint string, opts ...grpc.CallOption) ([]model.Report, error) {
	in, err := structpb.NewStruct(map[string]any{"fingerprint": fingerprint})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/Reports", in, out, opts...); err != nil {
		return nil, err
	}
	return model.ReportsFromStruct(out)
}

// Evaluators returns the condition and action evaluators of the server.
func (c *Client) Evaluators(ctx context.Context, opts ...grpc.CallOption) ([]string, []string, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/Evaluators", &empty.Empty{}, out, opts...); err != nil {
		return nil, nil, err
	}
	return names(out.GetFields()["conditions"]), names(out.GetFields()["actions"]), nil
}

func names(v *structpb.Value) []string {
	out := []string{}
	for _, n := range v.GetListValue().GetValues() {
		out = append(out, n.GetStringValue())
	}
	return out
}
