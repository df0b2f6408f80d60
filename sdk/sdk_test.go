package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	mu     sync.Mutex
	routes map[string]func(*Request) (*Response, error)
	calls  map[string]int
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		routes: make(map[string]func(*Request) (*Response, error)),
		calls:  make(map[string]int),
	}
}

func (f *fakeTransport) on(method, path string, fn func(*Request) (*Response, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = fn
}

func (f *fakeTransport) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method+" "+path]
}

func (f *fakeTransport) Do(_ context.Context, req *Request) (*Response, error) {
	key := req.Method + " " + req.Path
	f.mu.Lock()
	f.calls[key]++
	fn, ok := f.routes[key]
	f.mu.Unlock()
	if !ok {
		return &Response{Code: CodeNotFound, Msg: "no route " + key}, nil
	}
	return fn(req)
}

func okResp(v interface{}) func(*Request) (*Response, error) {
	return func(*Request) (*Response, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return &Response{Code: CodeSuccess, Msg: "success", Data: data}, nil
	}
}

func errResp(e *Error, v interface{}) func(*Request) (*Response, error) {
	return func(*Request) (*Response, error) {
		resp := &Response{Code: e.Code, Msg: e.Msg}
		if v != nil {
			data, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			resp.Data = data
		}
		return resp, nil
	}
}

func newTestClient(t *testing.T, ft *fakeTransport) *Client {
	c, err := NewClient("http://localhost:8080", WithTransport(ft), WithToken("tok"))
	require.NoError(t, err)
	return c
}

func testConversations() []*ConversationInfo {
	return []*ConversationInfo{
		{ConversationId: "cv_w:a", WeddingId: "w", VendorId: "a", Status: ConversationStatusOpen},
		{ConversationId: "cv_w:b:e1", WeddingId: "w", VendorId: "b", EventId: "e1", Status: ConversationStatusOpen},
		{ConversationId: "cv_w:b:e2", WeddingId: "w", VendorId: "b", EventId: "e2", Status: ConversationStatusOpen, UnreadCount: 3},
		{ConversationId: "cv_w:c", WeddingId: "w", VendorId: "c", Status: ConversationStatusClosed},
	}
}

func TestClientSendsTokenAndPrefix(t *testing.T) {
	ft := newFakeTransport()
	var got *Request
	ft.on("GET", "/api/users/me", func(r *Request) (*Response, error) {
		got = r
		return okResp(UserInfo{Id: "u1", Role: RoleCouple})(r)
	})
	c := newTestClient(t, ft)

	me, err := c.GetMe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", me.Id)
	require.NotNil(t, got)
	assert.Equal(t, "tok", got.Token)
}

func TestClientErrorEnvelope(t *testing.T) {
	ft := newFakeTransport()
	ft.on("GET", "/api/weddings/w1", errResp(NewError(3001, "wedding not found"), nil))
	c := newTestClient(t, ft)

	_, err := c.GetWedding(context.Background(), "w1")
	require.Error(t, err)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, CodeWeddingNotFound, apiErr.Code)
}

func TestCreateVendorDuplicateReturnsExisting(t *testing.T) {
	ft := newFakeTransport()
	ft.on("POST", "/api/vendors", errResp(ErrVendorDuplicate, Vendor{Id: "v1", Name: "Rang Decor"}))
	c := newTestClient(t, ft)

	v, err := c.CreateVendor(context.Background(), &CreateVendorRequest{Name: "rang decor", City: "Delhi"})
	assert.True(t, IsVendorDuplicate(err))
	require.NotNil(t, v)
	assert.Equal(t, "v1", v.Id)
}

func TestLogoutClearsToken(t *testing.T) {
	ft := newFakeTransport()
	ft.on("POST", "/api/auth/logout", okResp(nil))
	c := newTestClient(t, ft)

	require.NoError(t, c.Logout(context.Background()))
	assert.Empty(t, c.GetToken())
}

func TestInboxPicksInitialOnce(t *testing.T) {
	ctx := context.Background()
	ft := newFakeTransport()
	ft.on("GET", "/api/conversations", okResp(testConversations()))
	c := newTestClient(t, ft)
	cache := NewQueryCache()
	b := NewInbox(c, cache, "w")

	require.NoError(t, b.Load(ctx))
	assert.Equal(t, "cv_w:b:e2", b.Selected())

	groups := b.Groups()
	require.Len(t, groups, 3)
	assert.Equal(t, "b", groups[0].VendorId)
	assert.EqualValues(t, 3, groups[0].TotalUnread)
	assert.True(t, b.IsExpanded("b"))
	assert.False(t, b.IsExpanded("a"))

	b.Select("cv_w:a")
	cache.Invalidate(keyConversations("w"))
	require.NoError(t, b.Load(ctx))
	assert.Equal(t, "cv_w:a", b.Selected())
	assert.Equal(t, 2, ft.count("GET", "/api/conversations"))
}

func TestInboxInitialPickLeavesGroupsCollapsed(t *testing.T) {
	ft := newFakeTransport()
	ft.on("GET", "/api/conversations", okResp([]*ConversationInfo{
		{ConversationId: "cv_w:a", WeddingId: "w", VendorId: "a", Status: ConversationStatusOpen},
		{ConversationId: "cv_w:b", WeddingId: "w", VendorId: "b", Status: ConversationStatusOpen},
	}))
	b := NewInbox(newTestClient(t, ft), NewQueryCache(), "w")

	require.NoError(t, b.Load(context.Background()))
	assert.Equal(t, "cv_w:a", b.Selected())
	assert.False(t, b.IsExpanded("a"))
	assert.False(t, b.IsExpanded("b"))
}

func TestInboxRefreshStatusDisablesCompose(t *testing.T) {
	ctx := context.Background()
	ft := newFakeTransport()
	ft.on("GET", "/api/conversations", okResp(testConversations()))
	ft.on("GET", "/api/conversations/cv_w:a/status", okResp(ConversationStatus{
		ConversationId: "cv_w:a", Status: ConversationStatusClosed, ClosedBy: "v",
	}))
	cache := NewQueryCache()
	b := NewInbox(newTestClient(t, ft), cache, "w")
	require.NoError(t, b.Load(ctx))

	b.Select("cv_w:a")
	require.True(t, b.CanCompose())

	st, err := b.RefreshStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, ConversationStatusClosed, st.Status)
	assert.False(t, b.CanCompose())
	assert.Equal(t, ConversationStatusClosed, b.Status("cv_w:a"))

	cached, ok := Peek[*ConversationStatus](cache, keyConvStatus("cv_w:a"))
	require.True(t, ok)
	assert.Equal(t, ConversationStatusClosed, cached.Status)

	b.Select("")
	_, err = b.RefreshStatus(ctx)
	assert.ErrorIs(t, err, ErrComposeDisabled)
	assert.Equal(t, 1, ft.count("GET", "/api/conversations/cv_w:a/status"))
}

func TestInboxLoadUsesCache(t *testing.T) {
	ctx := context.Background()
	ft := newFakeTransport()
	ft.on("GET", "/api/conversations", okResp(testConversations()))
	b := NewInbox(newTestClient(t, ft), NewQueryCache(), "w")

	require.NoError(t, b.Load(ctx))
	require.NoError(t, b.Load(ctx))
	assert.Equal(t, 1, ft.count("GET", "/api/conversations"))
}

func TestInboxClosedConversationBlocksSend(t *testing.T) {
	ctx := context.Background()
	ft := newFakeTransport()
	ft.on("GET", "/api/conversations", okResp(testConversations()))
	ft.on("POST", "/api/messages", okResp(MessageInfo{Seq: 1}))
	b := NewInbox(newTestClient(t, ft), NewQueryCache(), "w")
	require.NoError(t, b.Load(ctx))

	b.Select("cv_w:c")
	assert.False(t, b.CanCompose())
	_, err := b.Send(ctx, "hello")
	assert.ErrorIs(t, err, ErrComposeDisabled)
	assert.Zero(t, ft.count("POST", "/api/messages"))

	b.Select("")
	_, err = b.Send(ctx, "hello")
	assert.ErrorIs(t, err, ErrComposeDisabled)
	assert.Zero(t, ft.count("POST", "/api/messages"))
}

func TestInboxServerClosedFlipsStatus(t *testing.T) {
	ctx := context.Background()
	ft := newFakeTransport()
	ft.on("GET", "/api/conversations", okResp(testConversations()))
	ft.on("POST", "/api/messages", errResp(ErrConversationClosed, nil))
	cache := NewQueryCache()
	b := NewInbox(newTestClient(t, ft), cache, "w")
	require.NoError(t, b.Load(ctx))

	b.Select("cv_w:a")
	require.True(t, b.CanCompose())

	notified := 0
	unsubscribe := cache.Subscribe(keyConvStatus("cv_w:a"), func() { notified++ })
	defer unsubscribe()

	_, err := b.Send(ctx, "hello")
	assert.True(t, IsConversationClosed(err))
	assert.False(t, b.CanCompose())
	assert.Equal(t, ConversationStatusClosed, b.Status("cv_w:a"))
	assert.Equal(t, 1, notified)

	st, ok := Peek[*ConversationStatus](cache, keyConvStatus("cv_w:a"))
	require.True(t, ok)
	assert.Equal(t, ConversationStatusClosed, st.Status)

	_, err = b.Send(ctx, "again")
	assert.ErrorIs(t, err, ErrComposeDisabled)
	assert.Equal(t, 1, ft.count("POST", "/api/messages"))

	// a stale list does not reopen it
	cache.Invalidate(keyConversations("w"))
	require.NoError(t, b.Load(ctx))
	assert.Equal(t, ConversationStatusClosed, b.Status("cv_w:a"))
}

func TestInboxSendInvalidatesMessages(t *testing.T) {
	ctx := context.Background()
	ft := newFakeTransport()
	ft.on("GET", "/api/conversations", okResp(testConversations()))
	var sent SendMessageRequest
	ft.on("POST", "/api/messages", func(r *Request) (*Response, error) {
		sent = *r.Body.(*SendMessageRequest)
		return okResp(MessageInfo{ConversationId: sent.ConversationId, Seq: 4, Content: sent.Content})(r)
	})
	cache := NewQueryCache()
	b := NewInbox(newTestClient(t, ft), cache, "w")
	require.NoError(t, b.Load(ctx))

	cache.Set(keyMessages("cv_w:b:e2"), "cached page")
	msg, err := b.Send(ctx, "namaste")
	require.NoError(t, err)
	assert.EqualValues(t, 4, msg.Seq)
	assert.Equal(t, "cv_w:b:e2", sent.ConversationId)
	assert.NotEmpty(t, sent.ClientMsgId)

	_, ok := Peek[string](cache, keyMessages("cv_w:b:e2"))
	assert.False(t, ok)
}

func TestInboxHandlePush(t *testing.T) {
	ctx := context.Background()
	ft := newFakeTransport()
	ft.on("GET", "/api/conversations", okResp(testConversations()))
	cache := NewQueryCache()
	b := NewInbox(newTestClient(t, ft), cache, "w")
	require.NoError(t, b.Load(ctx))
	require.True(t, b.CanCompose())

	data, err := json.Marshal(ConversationStatus{ConversationId: "cv_w:b:e2", Status: ConversationStatusClosed, ClosedBy: "v"})
	require.NoError(t, err)
	b.HandlePush(&PushEvent{Type: PushConversationClosed, Data: data})
	assert.False(t, b.CanCompose())

	cache.Set(keyUnread, int64(5))
	b.HandlePush(&PushEvent{Type: PushUnreadChanged, Data: json.RawMessage(`{"total":6}`)})
	_, ok := Peek[int64](cache, keyUnread)
	assert.False(t, ok)
}

func testWidgets() []*DashboardWidget {
	return []*DashboardWidget{
		{Id: "w1", Position: 0, IsVisible: true},
		{Id: "w2", Position: 1, IsVisible: true},
		{Id: "w3", Position: 2, IsVisible: true},
	}
}

func widgetIds(ws []*DashboardWidget) []string {
	ids := make([]string, len(ws))
	for i, w := range ws {
		ids[i] = w.Id
	}
	return ids
}

func TestDashboardReorderRollsBack(t *testing.T) {
	ctx := context.Background()
	ft := newFakeTransport()
	ft.on("GET", "/api/dashboard/widgets/wed", okResp(testWidgets()))
	ft.on("PUT", "/api/dashboard/widgets/wed/order", errResp(ErrWidgetOrder, nil))
	d := NewDashboard(newTestClient(t, ft), NewQueryCache(), "wed")
	require.NoError(t, d.Load(ctx))

	err := d.Reorder(ctx, 0, 2)
	assert.ErrorIs(t, err, ErrWidgetOrder)
	assert.Equal(t, []string{"w1", "w2", "w3"}, widgetIds(d.Widgets()))
}

func TestDashboardReorderSaves(t *testing.T) {
	ctx := context.Background()
	ft := newFakeTransport()
	ft.on("GET", "/api/dashboard/widgets/wed", okResp(testWidgets()))
	var sent []string
	ft.on("PUT", "/api/dashboard/widgets/wed/order", func(r *Request) (*Response, error) {
		sent = r.Body.(map[string][]string)["widget_ids"]
		saved := make([]*DashboardWidget, len(sent))
		for i, id := range sent {
			saved[i] = &DashboardWidget{Id: id, Position: i}
		}
		return okResp(saved)(r)
	})
	d := NewDashboard(newTestClient(t, ft), NewQueryCache(), "wed")
	require.NoError(t, d.Load(ctx))

	require.NoError(t, d.Reorder(ctx, 0, 2))
	assert.Equal(t, []string{"w2", "w3", "w1"}, sent)
	assert.Equal(t, []string{"w2", "w3", "w1"}, widgetIds(d.Widgets()))

	ft.on("PUT", "/api/dashboard/widgets/wed/order", errResp(ErrInternalServer, nil))
	require.Error(t, d.Reorder(ctx, 2, 0))
	assert.Equal(t, []string{"w2", "w3", "w1"}, widgetIds(d.Widgets()))
}

func TestDashboardSetVisibleSurvivesRollback(t *testing.T) {
	ctx := context.Background()
	ft := newFakeTransport()
	ft.on("GET", "/api/dashboard/widgets/wed", okResp(testWidgets()))
	ft.on("PATCH", "/api/dashboard/widgets/item/w2", func(r *Request) (*Response, error) {
		assert.Equal(t, map[string]bool{"is_visible": false}, r.Body)
		return okResp(DashboardWidget{Id: "w2", Position: 1, IsVisible: false})(r)
	})
	ft.on("PUT", "/api/dashboard/widgets/wed/order", errResp(ErrInternalServer, nil))
	cache := NewQueryCache()
	d := NewDashboard(newTestClient(t, ft), cache, "wed")
	require.NoError(t, d.Load(ctx))

	require.NoError(t, d.SetVisible(ctx, "w2", false))
	assert.False(t, d.Widgets()[1].IsVisible)
	_, ok := Peek[[]*DashboardWidget](cache, keyWidgets("wed"))
	assert.False(t, ok)

	require.Error(t, d.Reorder(ctx, 1, 0))
	ws := d.Widgets()
	assert.Equal(t, []string{"w1", "w2", "w3"}, widgetIds(ws))
	assert.False(t, ws[1].IsVisible)
	assert.True(t, ws[0].IsVisible)
}

func TestPollUnreadReportsChanges(t *testing.T) {
	ft := newFakeTransport()
	totals := []int64{2, 2, 3}
	var mu sync.Mutex
	polls := 0
	ft.on("GET", "/api/notifications/unread-count", func(r *Request) (*Response, error) {
		mu.Lock()
		i := polls
		polls++
		mu.Unlock()
		if i >= len(totals) {
			i = len(totals) - 1
		}
		return okResp(UnreadCountResponse{Total: totals[i]})(r)
	})
	c := newTestClient(t, ft)

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan int64, 16)
	done := make(chan struct{})
	go func() {
		c.PollUnread(ctx, NewQueryCache(), 5*time.Millisecond, func(total int64) { changes <- total })
		close(done)
	}()

	require.Eventually(t, func() bool {
		return ft.count("GET", "/api/notifications/unread-count") >= 5
	}, 2*time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("PollUnread did not return after cancel")
	}
	close(changes)

	var got []int64
	for v := range changes {
		got = append(got, v)
	}
	assert.Equal(t, []int64{2, 3}, got)
}

func TestQueryCache(t *testing.T) {
	ctx := context.Background()
	qc := NewQueryCache()
	now := time.Unix(1700000000, 0)
	qc.now = func() time.Time { return now }

	fetches := 0
	fetch := func(context.Context) (int, error) {
		fetches++
		return fetches, nil
	}

	v, err := Query(ctx, qc, "k", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, _ = Query(ctx, qc, "k", time.Minute, fetch)
	assert.Equal(t, 1, v)

	now = now.Add(time.Minute)
	v, _ = Query(ctx, qc, "k", time.Minute, fetch)
	assert.Equal(t, 2, v)

	notified := 0
	unsubscribe := qc.Subscribe("k", func() { notified++ })
	qc.Invalidate("k")
	assert.Equal(t, 1, notified)

	v, _ = Query(ctx, qc, "k", time.Minute, fetch)
	assert.Equal(t, 3, v)

	unsubscribe()
	qc.Invalidate("k")
	assert.Equal(t, 1, notified)
}

func TestQueryCacheSkipsFailedFetch(t *testing.T) {
	ctx := context.Background()
	qc := NewQueryCache()
	boom := errors.New("boom")

	_, err := Query(ctx, qc, "k", 0, func(context.Context) (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	_, ok := Peek[string](qc, "k")
	assert.False(t, ok)
}

func TestQueryCacheInvalidatePrefix(t *testing.T) {
	qc := NewQueryCache()
	qc.Set(keyMessages("a"), 1)
	qc.Set(keyMessages("b"), 2)
	qc.Set(keyWidgets("w"), 3)

	notified := 0
	defer qc.Subscribe(keyMessages("c"), func() { notified++ })()

	qc.InvalidatePrefix("messages:")
	_, ok := Peek[int](qc, keyMessages("a"))
	assert.False(t, ok)
	_, ok = Peek[int](qc, keyMessages("b"))
	assert.False(t, ok)
	_, ok = Peek[int](qc, keyWidgets("w"))
	assert.True(t, ok)
	assert.Equal(t, 1, notified)
}

func TestRealtimeURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://localhost:8080", "ws://localhost:8080/ws?token=t+1"},
		{"https://api.viah.me", "wss://api.viah.me/ws?token=t+1"},
		{"https://api.viah.me/", "wss://api.viah.me/ws?token=t+1"},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			got, err := realtimeURL(tt.base, "t 1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeFrame(t *testing.T) {
	ev, kicked, err := decodeFrame([]byte(`{"req_identifier":2001,"err_code":0,"data":{"type":"message.new","data":{"seq":3}}}`))
	require.NoError(t, err)
	assert.False(t, kicked)
	require.NotNil(t, ev)
	assert.Equal(t, PushMessageNew, ev.Type)
	assert.JSONEq(t, `{"seq":3}`, string(ev.Data))

	ev, kicked, err = decodeFrame([]byte(`{"req_identifier":2002,"err_code":0}`))
	require.NoError(t, err)
	assert.True(t, kicked)
	assert.Nil(t, ev)

	ev, kicked, err = decodeFrame([]byte(`{"req_identifier":1001,"msg_incr":"1","err_code":0}`))
	require.NoError(t, err)
	assert.False(t, kicked)
	assert.Nil(t, ev)

	_, _, err = decodeFrame([]byte(`nope`))
	assert.Error(t, err)
}
