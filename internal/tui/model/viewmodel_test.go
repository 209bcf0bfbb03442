package model

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/matheus3301/weibo/internal/rpc"
	"github.com/matheus3301/weibo/internal/tui/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

type fakeTimeline struct {
	resp *rpc.FetchStatusesResponse
	req  *rpc.FetchStatusesRequest
}

func (f *fakeTimeline) FetchStatuses(_ context.Context, in *rpc.FetchStatusesRequest, _ ...grpc.CallOption) (*rpc.FetchStatusesResponse, error) {
	f.req = in
	return f.resp, nil
}

func (f *fakeTimeline) ListCached(_ context.Context, _ *rpc.ListCachedRequest, _ ...grpc.CallOption) (*rpc.ListCachedResponse, error) {
	return &rpc.ListCachedResponse{Statuses: f.resp.Statuses}, nil
}

func TestViewModelFetchStatuses(t *testing.T) {
	tl := &fakeTimeline{resp: &rpc.FetchStatusesResponse{
		Present: true,
		Statuses: []json.RawMessage{
			json.RawMessage(`{"id":9007199254740993,"text":"big id"}`),
			json.RawMessage(`{"text":"no id"}`),
			json.RawMessage(`not json`),
		},
	}}
	vm := NewViewModel(&client.Client{Timeline: tl})

	list, err := vm.FetchStatuses(context.Background(), 7, 9)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(9007199254740993), list[0].ID)
	assert.Equal(t, &rpc.FetchStatusesRequest{SinceID: 7, MaxID: 9}, tl.req)

	cached, err := vm.LoadCached(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	tl.resp = &rpc.FetchStatusesResponse{Present: false}
	_, err = vm.FetchStatuses(context.Background(), 0, 0)
	assert.ErrorIs(t, err, ErrNoStatuses)
}

func TestViewModelUnread(t *testing.T) {
	vm := NewViewModel(&client.Client{})
	_, known := vm.Unread()
	assert.False(t, known)

	vm.SetUnread(4, true)
	n, known := vm.Unread()
	assert.True(t, known)
	assert.Equal(t, 4, n)

	select {
	case <-vm.RefreshCh():
	default:
		t.Fatal("expected a refresh signal")
	}
}
