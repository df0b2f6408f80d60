package gateway

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viahme/viah/internal/config"
	"github.com/viahme/viah/internal/service"
	"github.com/viahme/viah/pkg/constant"
	"github.com/viahme/viah/pkg/errcode"
)

type fakeConn struct {
	mu     sync.Mutex
	writes [][]byte
	closed bool
}

func (f *fakeConn) ReadMessage() ([]byte, error) { return nil, ErrConnClosed }

func (f *fakeConn) WriteMessage(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, data)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) frames(t *testing.T) []WSResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]WSResponse, 0, len(f.writes))
	for _, w := range f.writes {
		var resp WSResponse
		require.NoError(t, json.Unmarshal(w, &resp))
		out = append(out, resp)
	}
	return out
}

func newTestServer(chanSize int) *WsServer {
	return NewWsServer(&config.WebSocketConfig{PushChannelSize: chanSize}, nil, nil, nil, nil)
}

func TestUserMap(t *testing.T) {
	ctx := context.Background()
	m := NewUserMap(nil)

	a1 := &Client{UserId: "a", ConnId: "1"}
	a2 := &Client{UserId: "a", ConnId: "2"}

	assert.True(t, m.Register(ctx, a1))
	assert.False(t, m.Register(ctx, a2))
	assert.Equal(t, 1, m.GetOnlineUserCount())

	clients, ok := m.GetAll("a")
	require.True(t, ok)
	assert.Len(t, clients, 2)

	assert.False(t, m.Unregister(ctx, a1))
	assert.True(t, m.IsOnline(ctx, "a"))
	assert.True(t, m.Unregister(ctx, a2))
	assert.False(t, m.IsOnline(ctx, "a"))
	assert.False(t, m.Unregister(ctx, a2))
}

func TestAsyncPushDeliversLocally(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(8)

	conn := &fakeConn{}
	client := NewClient(conn, "u1", constant.RoleCouple, "c1", s)
	s.userMap.Register(ctx, client)

	other := &fakeConn{}
	s.userMap.Register(ctx, NewClient(other, "u2", constant.RoleVendor, "c2", s))

	s.AsyncPush(ctx, &service.Push{
		Type:    constant.PushConversationClosed,
		UserIds: []string{"u1"},
		Data:    map[string]string{"conversation_id": "cv_w:v"},
	})
	require.Len(t, s.pushChan, 1)
	s.processPushTask(ctx, <-s.pushChan)

	frames := conn.frames(t)
	require.Len(t, frames, 1)
	assert.EqualValues(t, WSPush, frames[0].ReqIdentifier)

	var push PushData
	require.NoError(t, json.Unmarshal(frames[0].Data, &push))
	assert.Equal(t, constant.PushConversationClosed, push.Type)
	assert.JSONEq(t, `{"conversation_id":"cv_w:v"}`, string(push.Data))

	assert.Empty(t, other.frames(t))
}

func TestAsyncPushDropsWhenFull(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(1)

	p := &service.Push{Type: constant.PushUnreadChanged, UserIds: []string{"u1"}, Data: 1}
	s.AsyncPush(ctx, p)
	s.AsyncPush(ctx, p)
	assert.Len(t, s.pushChan, 1)

	s.AsyncPush(ctx, &service.Push{Type: constant.PushUnreadChanged})
	assert.Len(t, s.pushChan, 1)
}

func TestHandleMessageErrors(t *testing.T) {
	s := newTestServer(1)
	conn := &fakeConn{}
	client := NewClient(conn, "u1", constant.RoleCouple, "c1", s)

	require.NoError(t, client.handleMessage([]byte("not json")))
	require.NoError(t, client.handleMessage([]byte(`{"req_identifier":9999,"msg_incr":"7"}`)))
	require.NoError(t, client.handleMessage([]byte(`{"req_identifier":1001,"msg_incr":"8","data":{}}`)))

	frames := conn.frames(t)
	require.Len(t, frames, 3)
	assert.Equal(t, errcode.ErrInvalidProtocol.Code, frames[0].ErrCode)

	assert.EqualValues(t, 9999, frames[1].ReqIdentifier)
	assert.Equal(t, "7", frames[1].MsgIncr)
	assert.Equal(t, errcode.ErrInvalidProtocol.Code, frames[1].ErrCode)

	assert.EqualValues(t, WSMarkRead, frames[2].ReqIdentifier)
	assert.Equal(t, errcode.ErrInvalidParam.Code, frames[2].ErrCode)
}

func TestClientCloseStopsPushes(t *testing.T) {
	s := newTestServer(1)
	conn := &fakeConn{}
	client := NewClient(conn, "u1", constant.RoleCouple, "c1", s)

	require.NoError(t, client.KickOnline())
	assert.True(t, client.IsClosed())
	assert.True(t, conn.closed)
	assert.ErrorIs(t, client.Push([]byte("{}")), ErrConnClosed)

	frames := conn.frames(t)
	require.Len(t, frames, 1)
	assert.EqualValues(t, WSKickOnlineMsg, frames[0].ReqIdentifier)
}

func TestConnOptionsDefaults(t *testing.T) {
	o := connOptions{PongWait: 10 * time.Second, PingPeriod: 20 * time.Second}.withDefaults()
	assert.Equal(t, 9*time.Second, o.PingPeriod)
	assert.Equal(t, WriteWait, o.WriteWait)
	assert.EqualValues(t, MaxMessageSize, o.MaxMessageSize)
	assert.Equal(t, 256, o.WriteChannelSize)
}

func TestKickClosesRevokedSession(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(8)

	phone, laptop := &fakeConn{}, &fakeConn{}
	revoked := NewClient(phone, "u1", constant.RoleCouple, "c1", s)
	revoked.token = "t1"
	kept := NewClient(laptop, "u1", constant.RoleCouple, "c2", s)
	kept.token = "t2"
	s.userMap.Register(ctx, revoked)
	s.userMap.Register(ctx, kept)

	s.Kick(ctx, "u1", "t1")
	require.Len(t, s.pushChan, 1)
	s.processPushTask(ctx, <-s.pushChan)

	assert.True(t, revoked.IsClosed())
	assert.True(t, phone.closed)
	frames := phone.frames(t)
	require.Len(t, frames, 1)
	assert.EqualValues(t, WSKickOnlineMsg, frames[0].ReqIdentifier)
	assert.False(t, kept.IsClosed())
	assert.Empty(t, laptop.frames(t))

	s.AsyncPush(ctx, &service.Push{Type: constant.PushMessageNew, UserIds: []string{"u1"}, Data: "hi"})
	s.processPushTask(ctx, <-s.pushChan)
	assert.Len(t, phone.frames(t), 1)
	require.Len(t, laptop.frames(t), 1)
	assert.EqualValues(t, WSPush, laptop.frames(t)[0].ReqIdentifier)
}

func TestKickWithoutTokenClosesAllSessions(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(8)

	a := NewClient(&fakeConn{}, "u1", constant.RoleVendor, "c1", s)
	a.token = "t1"
	b := NewClient(&fakeConn{}, "u1", constant.RoleVendor, "c2", s)
	b.token = "t2"
	s.userMap.Register(ctx, a)
	s.userMap.Register(ctx, b)

	s.Kick(ctx, "u1", "")
	s.processPushTask(ctx, <-s.pushChan)
	assert.True(t, a.IsClosed())
	assert.True(t, b.IsClosed())

	s.Kick(ctx, "", "t1")
	assert.Empty(t, s.pushChan)
}
