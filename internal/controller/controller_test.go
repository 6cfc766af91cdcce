package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"adview/internal/model"
	"adview/internal/specify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

const (
	addrA = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	addrB = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type MockServer struct {
	mock.Mock
}

func (m *MockServer) Serve(ctx context.Context, walletAddress string) (*model.AdContent, error) {
	args := m.Called(ctx, walletAddress)
	content, _ := args.Get(0).(*model.AdContent)
	return content, args.Error(1)
}

type recorder struct {
	mu     sync.Mutex
	states []model.FetchState
}

func (r *recorder) observe(s model.FetchState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) phases() []model.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Phase, 0, len(r.states))
	for _, s := range r.states {
		out = append(out, s.Phase())
	}
	return out
}

func newController(t *testing.T, server specify.Server) (*Controller, *recorder) {
	t.Helper()
	rec := &recorder{}
	c := New(server, WithLogger(zaptest.NewLogger(t)), WithObserver(rec.observe))
	t.Cleanup(c.Close)
	return c, rec
}

func TestDisconnectedStaysIdle(t *testing.T) {
	server := new(MockServer)
	c, rec := newController(t, server)

	c.Update(context.Background(), model.ConnectionState{Connected: false, Address: addrA})
	c.Update(context.Background(), model.ConnectionState{Connected: false, Address: addrB})
	c.Update(context.Background(), model.ConnectionState{Connected: true})
	c.Wait()

	assert.Equal(t, model.Idle{}, c.State())
	assert.Empty(t, rec.phases())
	server.AssertNotCalled(t, "Serve", mock.Anything, mock.Anything)
}

func TestConnectedLoadsContent(t *testing.T) {
	content := &model.AdContent{CampaignID: "c1", AdID: "a1", Headline: "Hello", Content: "World"}
	server := new(MockServer)
	server.On("Serve", mock.Anything, addrA).Return(content, nil).Once()

	c, rec := newController(t, server)
	c.Update(context.Background(), model.ConnectionState{Connected: true, Address: addrA})
	c.Wait()

	assert.Equal(t, model.Loaded{Content: content}, c.State())
	assert.Equal(t, []model.Phase{model.PhaseLoading, model.PhaseLoaded}, rec.phases())
	server.AssertExpectations(t)
}

func TestNoContentLoadsNil(t *testing.T) {
	server := new(MockServer)
	server.On("Serve", mock.Anything, addrA).Return(nil, nil).Once()

	c, _ := newController(t, server)
	c.Update(context.Background(), model.ConnectionState{Connected: true, Address: addrA})
	c.Wait()

	assert.Equal(t, model.Loaded{}, c.State())
}

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"authentication", &specify.AuthenticationError{StatusCode: 401}, AuthenticationMessage},
		{"validation", &specify.ValidationError{Message: "bad"}, ValidationMessage},
		{"generic", errors.New("ad server returned 503"), "ad server returned 503"},
		{"empty", errors.New(""), GenericMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := new(MockServer)
			server.On("Serve", mock.Anything, addrA).Return(nil, tc.err).Once()

			c, rec := newController(t, server)
			c.Update(context.Background(), model.ConnectionState{Connected: true, Address: addrA})
			c.Wait()

			assert.Equal(t, model.Failed{Message: tc.want}, c.State())
			assert.Equal(t, []model.Phase{model.PhaseLoading, model.PhaseError}, rec.phases())
		})
	}
}

func TestRepeatedStateCallsOnce(t *testing.T) {
	server := new(MockServer)
	server.On("Serve", mock.Anything, addrA).Return(&model.AdContent{AdID: "a"}, nil).Once()

	c, _ := newController(t, server)
	conn := model.ConnectionState{Connected: true, Address: addrA}
	c.Update(context.Background(), conn)
	c.Wait()
	c.Update(context.Background(), conn)
	c.Wait()

	server.AssertNumberOfCalls(t, "Serve", 1)
}

func TestAddressIsTrimmedOnce(t *testing.T) {
	server := new(MockServer)
	server.On("Serve", mock.Anything, addrA).Return(&model.AdContent{AdID: "a"}, nil).Once()

	c, rec := newController(t, server)
	c.Update(context.Background(), model.ConnectionState{Connected: true, Address: "  " + addrA + "\n"})
	c.Wait()
	c.Update(context.Background(), model.ConnectionState{Connected: true, Address: addrA})
	c.Wait()

	server.AssertNumberOfCalls(t, "Serve", 1)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.NotEmpty(t, rec.states)
	assert.Equal(t, model.Loading{Address: addrA}, rec.states[0])
}

func TestReconnectFetchesAgain(t *testing.T) {
	server := new(MockServer)
	server.On("Serve", mock.Anything, addrA).Return(&model.AdContent{AdID: "a"}, nil).Twice()

	c, rec := newController(t, server)
	connected := model.ConnectionState{Connected: true, Address: addrA}
	c.Update(context.Background(), connected)
	c.Wait()
	c.Update(context.Background(), model.ConnectionState{})
	c.Update(context.Background(), connected)
	c.Wait()

	server.AssertNumberOfCalls(t, "Serve", 2)
	assert.Equal(t, []model.Phase{
		model.PhaseLoading, model.PhaseLoaded,
		model.PhaseIdle,
		model.PhaseLoading, model.PhaseLoaded,
	}, rec.phases())
}

func TestStaleResponseIsDropped(t *testing.T) {
	release := make(chan struct{})
	var staleCtx context.Context
	var ctxMu sync.Mutex

	server := new(MockServer)
	server.On("Serve", mock.Anything, addrA).
		Run(func(args mock.Arguments) {
			ctxMu.Lock()
			staleCtx = args.Get(0).(context.Context)
			ctxMu.Unlock()
			<-release
		}).
		Return(&model.AdContent{AdID: "stale"}, nil).Once()
	fresh := &model.AdContent{AdID: "fresh"}
	server.On("Serve", mock.Anything, addrB).Return(fresh, nil).Once()

	c, rec := newController(t, server)
	c.Update(context.Background(), model.ConnectionState{Connected: true, Address: addrA})
	c.Update(context.Background(), model.ConnectionState{Connected: true, Address: addrB})

	require.Eventually(t, func() bool {
		return c.State() == model.FetchState(model.Loaded{Content: fresh})
	}, 2*time.Second, 5*time.Millisecond)

	close(release)
	c.Wait()

	assert.Equal(t, model.Loaded{Content: fresh}, c.State())
	assert.Equal(t, []model.Phase{model.PhaseLoading, model.PhaseLoading, model.PhaseLoaded}, rec.phases())

	ctxMu.Lock()
	defer ctxMu.Unlock()
	require.NotNil(t, staleCtx)
	assert.ErrorIs(t, staleCtx.Err(), context.Canceled)
}

func TestDisconnectDuringLoadDropsResponse(t *testing.T) {
	release := make(chan struct{})
	server := new(MockServer)
	server.On("Serve", mock.Anything, addrA).
		Run(func(mock.Arguments) { <-release }).
		Return(&model.AdContent{AdID: "late"}, nil).Once()

	c, _ := newController(t, server)
	c.Update(context.Background(), model.ConnectionState{Connected: true, Address: addrA})
	c.Update(context.Background(), model.ConnectionState{Connected: false})
	close(release)
	c.Wait()

	assert.Equal(t, model.Idle{}, c.State())
}

func TestCloseDiscardsInFlight(t *testing.T) {
	server := new(MockServer)
	server.On("Serve", mock.Anything, addrA).
		Run(func(args mock.Arguments) { <-args.Get(0).(context.Context).Done() }).
		Return(nil, context.Canceled).Once()

	c := New(server)
	c.Update(context.Background(), model.ConnectionState{Connected: true, Address: addrA})
	c.Close()

	assert.Equal(t, model.Loading{Address: addrA}, c.State())
}

func TestMessage(t *testing.T) {
	wrapped := fmt.Errorf("serve: %w", &specify.AuthenticationError{})
	assert.Equal(t, AuthenticationMessage, Message(wrapped))
	assert.Equal(t, ValidationMessage, Message(&specify.ValidationError{}))
	assert.Equal(t, "boom", Message(errors.New("boom")))
}

func TestCanceledCallerContextDropsResponse(t *testing.T) {
	server := new(MockServer)
	server.On("Serve", mock.Anything, addrA).
		Run(func(args mock.Arguments) { <-args.Get(0).(context.Context).Done() }).
		Return(nil, context.Canceled).Once()

	c, rec := newController(t, server)
	ctx, cancel := context.WithCancel(context.Background())
	c.Update(ctx, model.ConnectionState{Connected: true, Address: addrA})
	cancel()
	c.Wait()

	assert.Equal(t, model.Loading{Address: addrA}, c.State())
	assert.Equal(t, []model.Phase{model.PhaseLoading}, rec.phases())
}
