package server

import (
	"context"
	"net"
	"testing"
	"time"

	"gofvm"
	"gofvm/model"
	"gofvm/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const bufSize = 1024 * 1024

const lightDocument = `
name: light
system:
  states: [off, on]
  initial: [off]
  actions: [toggle]
  propositions: [lit]
  transitions:
    - {from: off, action: toggle, to: on}
    - {from: on, action: toggle, to: off}
  labels:
    on: [lit]
properties:
  - name: lit-eventually
    eventually: [lit]
  - name: stays-lit
    eventually: [lit]
    thenAlways: [lit]
`

const counterDocument = `
name: counter
programs:
  - name: count
    locations: [loop]
    initial: [loop]
    initializations: [["x := 0"]]
    transitions:
      - {from: loop, action: "x := x + 1", to: loop}
properties:
  - name: never-zero
    never: [loop]
`

func start(t *testing.T, opts ...Option) *Client {
	lis := bufconn.Listen(bufSize)
	srv := New(append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)...)
	go srv.Serve(lis)
	t.Cleanup(func() {
		assert.NoError(t, srv.Stop())
	})

	c, err := Dial("bufnet",
		grpc.WithContextDialer(func(ctx context.Context, s string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func parse(t *testing.T, src string) *model.Document {
	d, err := model.Parse([]byte(src))
	require.NoError(t, err)
	return d
}

func TestVerify(t *testing.T) {
	c := start(t)
	reports, err := c.Verify(context.Background(), parse(t, lightDocument))
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "lit-eventually", reports[0].Property)
	assert.False(t, reports[0].Holds)
	assert.NotEmpty(t, reports[0].Cycle)
	assert.True(t, reports[1].Holds)
}

func TestVerifyInvalidDocument(t *testing.T) {
	c := start(t)
	_, err := c.Verify(context.Background(), &model.Document{Name: "empty"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestVerifyStateLimit(t *testing.T) {
	c := start(t, WithVerifyOptions(gofvm.WithMaxStates(10)))
	_, err := c.Verify(context.Background(), parse(t, counterDocument))
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
}

func TestVerifyTimeout(t *testing.T) {
	c := start(t, WithTimeout(time.Millisecond))
	_, err := c.Verify(context.Background(), parse(t, counterDocument))
	assert.Equal(t, codes.DeadlineExceeded, status.Code(err))
}

func TestReportsAreStored(t *testing.T) {
	s, err := store.Open("", store.InMemory())
	require.NoError(t, err)
	c := start(t, WithStore(s))

	d := parse(t, lightDocument)
	d.Properties = d.Properties[:1]
	fp, err := d.Fingerprint()
	require.NoError(t, err)

	_, err = c.Reports(context.Background(), fp)
	assert.Equal(t, codes.NotFound, status.Code(err))

	reports, err := c.Verify(context.Background(), d)
	require.NoError(t, err)
	stored, err := s.Get(fp)
	require.NoError(t, err)
	assert.Equal(t, reports, stored)

	again, err := c.Reports(context.Background(), fp)
	require.NoError(t, err)
	assert.Equal(t, reports, again)

	_, err = c.Reports(context.Background(), "")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestReportsWithoutStore(t *testing.T) {
	c := start(t)
	_, err := c.Reports(context.Background(), "00ff")
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestEvaluators(t *testing.T) {
	c := start(t)
	conditions, actions, err := c.Evaluators(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"eval.Expressions"}, conditions)
	assert.Equal(t, []string{"eval.Handshake", "eval.Channels", "eval.Assignments"}, actions)
}
