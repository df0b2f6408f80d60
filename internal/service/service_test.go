package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viahme/viah/internal/broker/kafka"
	"github.com/viahme/viah/internal/config"
	"github.com/viahme/viah/internal/entity"
	"github.com/viahme/viah/pkg/constant"
	"github.com/viahme/viah/pkg/errcode"
)

type recordingPublisher struct {
	events []*kafka.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt *kafka.Event) error {
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func widgets(ids ...string) []*entity.DashboardWidget {
	ws := make([]*entity.DashboardWidget, 0, len(ids))
	for i, id := range ids {
		ws = append(ws, &entity.DashboardWidget{Id: id, Position: i})
	}
	return ws
}

func widgetIds(ws []*entity.DashboardWidget) []string {
	ids := make([]string, 0, len(ws))
	for _, w := range ws {
		ids = append(ids, w.Id)
	}
	return ids
}

func TestApplyOrder(t *testing.T) {
	current := widgets("a", "b", "c")

	t.Run("permutation", func(t *testing.T) {
		ordered, err := applyOrder(current, []string{"c", "a", "b"})
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "a", "b"}, widgetIds(ordered))
	})

	cases := map[string][]string{
		"missing":   {"a", "b"},
		"unknown":   {"a", "b", "x"},
		"duplicate": {"a", "a", "b"},
		"extra":     {"a", "b", "c", "d"},
	}
	for name, ids := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := applyOrder(current, ids)
			assert.ErrorIs(t, err, errcode.ErrWidgetOrder)
		})
	}
}

func TestDefaultWidgets(t *testing.T) {
	ws, err := defaultWidgets("w1")
	require.NoError(t, err)
	require.Len(t, ws, len(constant.DefaultWidgets))

	seen := make(map[string]bool)
	for i, w := range ws {
		assert.Equal(t, "w1", w.WeddingId)
		assert.Equal(t, i, w.Position)
		assert.Equal(t, constant.DefaultWidgets[i], w.WidgetType)
		assert.True(t, w.IsVisible)
		assert.False(t, seen[w.Id], "ids must be unique")
		seen[w.Id] = true
	}
}

func TestResolvePaymentStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		amount  int64
		paid    int64
		want    string
		wantErr *errcode.Error
	}{
		{name: "nothing paid", amount: 100, paid: 0, want: constant.PaymentStatusPending},
		{name: "part paid", amount: 100, paid: 40, want: constant.PaymentStatusPartial},
		{name: "fully paid", amount: 100, paid: 100, want: constant.PaymentStatusPaid},
		{name: "overpaid", amount: 100, paid: 120, want: constant.PaymentStatusPaid},
		{name: "explicit", status: constant.PaymentStatusPaid, amount: 100, paid: 0, want: constant.PaymentStatusPaid},
		{name: "unknown status", status: "refunded", amount: 100, wantErr: errcode.ErrInvalidPayStatus},
		{name: "negative amount", amount: -1, wantErr: errcode.ErrInvalidAmount},
		{name: "negative paid", amount: 10, paid: -1, wantErr: errcode.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolvePaymentStatus(tt.status, tt.amount, tt.paid)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupBookingStatus(t *testing.T) {
	statuses := map[string]string{
		bookingKey("v1", "e1"): constant.BookingStatusConfirmed,
		bookingKey("v1", ""):   constant.BookingStatusPending,
	}

	assert.Equal(t, constant.BookingStatusConfirmed, lookupBookingStatus(statuses, "v1", "e1"))
	assert.Equal(t, constant.BookingStatusPending, lookupBookingStatus(statuses, "v1", "e2"))
	assert.Equal(t, constant.BookingStatusPending, lookupBookingStatus(statuses, "v1", ""))
	assert.Empty(t, lookupBookingStatus(statuses, "v2", ""))
}

func TestPublishEvent(t *testing.T) {
	ctx := context.Background()

	pub := &recordingPublisher{}
	publishEvent(ctx, pub, constant.EventLeadCreated, "v1", map[string]string{"id": "l1"})
	require.Len(t, pub.events, 1)
	assert.Equal(t, constant.EventLeadCreated, pub.events[0].Type)
	assert.Equal(t, "v1", pub.events[0].Key)

	failing := &recordingPublisher{err: errors.New("broker down")}
	assert.NotPanics(t, func() {
		publishEvent(ctx, failing, constant.EventMessageSent, "cv_w:v", nil)
	})

	assert.NotPanics(t, func() {
		publishEvent(ctx, nil, constant.EventMessageSent, "cv_w:v", nil)
	})
}

func TestPassThrough(t *testing.T) {
	ctx := context.Background()

	err := passThrough(ctx, errcode.ErrConversationClosed, errcode.ErrSendFailed, "send failed: id=%s", "c1")
	assert.ErrorIs(t, err, errcode.ErrConversationClosed)

	err = passThrough(ctx, errors.New("deadlock"), errcode.ErrSendFailed, "send failed: id=%s", "c1")
	assert.ErrorIs(t, err, errcode.ErrSendFailed)
}

func TestValidationRejectsBeforeStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("register bad email", func(t *testing.T) {
		s := &AuthService{}
		_, err := s.Register(ctx, &RegisterRequest{Email: "nope", Password: "longenough"})
		assert.ErrorIs(t, err, errcode.ErrInvalidParam)
	})

	t.Run("register short password", func(t *testing.T) {
		s := &AuthService{}
		_, err := s.Register(ctx, &RegisterRequest{Email: "a@b.co", Password: "short"})
		assert.ErrorIs(t, err, errcode.ErrInvalidParam)
	})

	t.Run("register unknown role", func(t *testing.T) {
		s := &AuthService{}
		_, err := s.Register(ctx, &RegisterRequest{Email: "a@b.co", Password: "longenough", Role: "admin"})
		assert.ErrorIs(t, err, errcode.ErrInvalidParam)
	})

	t.Run("vendor cannot create wedding", func(t *testing.T) {
		s := &WeddingService{}
		_, err := s.Create(ctx, "u1", constant.RoleVendor, &CreateWeddingRequest{Title: "Ours"})
		assert.ErrorIs(t, err, errcode.ErrForbidden)
	})

	t.Run("negative wedding budget", func(t *testing.T) {
		s := &WeddingService{}
		_, err := s.Create(ctx, "u1", constant.RoleCouple, &CreateWeddingRequest{Title: "Ours", TotalBudget: -5})
		assert.ErrorIs(t, err, errcode.ErrInvalidAmount)
	})

	t.Run("couple cannot list a vendor", func(t *testing.T) {
		s := &VendorService{}
		_, err := s.Create(ctx, "u1", constant.RoleCouple, &CreateVendorRequest{Name: "Lens", City: "Pune", Category: "photo"})
		assert.ErrorIs(t, err, errcode.ErrForbidden)
	})

	t.Run("vendor name of punctuation only", func(t *testing.T) {
		s := &VendorService{}
		_, err := s.Create(ctx, "u1", constant.RoleVendor, &CreateVendorRequest{Name: "!!!", City: "Pune", Category: "photo"})
		assert.ErrorIs(t, err, errcode.ErrInvalidParam)
	})

	t.Run("empty message", func(t *testing.T) {
		s := &MessageService{}
		_, err := s.Send(ctx, "u1", &SendMessageRequest{ConversationId: "cv_w:v", ClientMsgId: "m1", Content: "   "})
		assert.ErrorIs(t, err, errcode.ErrEmptyMessage)
	})

	t.Run("message without client id", func(t *testing.T) {
		s := &MessageService{}
		_, err := s.Send(ctx, "u1", &SendMessageRequest{ConversationId: "cv_w:v", Content: "hi"})
		assert.ErrorIs(t, err, errcode.ErrInvalidParam)
	})

	t.Run("lead without email", func(t *testing.T) {
		s := &LeadService{}
		_, err := s.Create(ctx, &CreateLeadRequest{VendorId: "v1", CoupleName: "A & B"})
		assert.ErrorIs(t, err, errcode.ErrInvalidParam)
	})

	t.Run("close reason too long", func(t *testing.T) {
		s := &ConversationService{}
		long := make([]byte, maxCloseReasonLen+1)
		for i := range long {
			long[i] = 'x'
		}
		_, err := s.Close(ctx, "u1", "cv_w:v", string(long))
		assert.ErrorIs(t, err, errcode.ErrInvalidParam)
	})
}

func TestCalendarProvider(t *testing.T) {
	s := &CalendarService{cfg: &config.CalendarConfig{
		Google: config.OAuthProvider{ClientId: "gid", RedirectURL: "https://viah.me/cb", AuthURL: "https://accounts.google.com/o/oauth2/v2/auth"},
	}}

	p, err := s.provider(constant.CalendarGoogle)
	require.NoError(t, err)
	assert.Equal(t, "gid", p.ClientId)

	_, err = s.provider(constant.CalendarOutlook)
	assert.ErrorIs(t, err, errcode.ErrCalendarNotConfig)

	_, err = s.provider("icloud")
	assert.ErrorIs(t, err, errcode.ErrCalendarProvider)
}

type recordingPusher struct {
	pushes []*Push
}

func (p *recordingPusher) AsyncPush(_ context.Context, push *Push) {
	p.pushes = append(p.pushes, push)
}

func (p *recordingPusher) Kick(context.Context, string, string) {}

type memoryBadges struct {
	totals map[string]int64
	calls  []string
}

func (m *memoryBadges) GetUnreadBadge(_ context.Context, userId string) (int64, bool, error) {
	m.calls = append(m.calls, "get:"+userId)
	total, ok := m.totals[userId]
	return total, ok, nil
}

func (m *memoryBadges) SetUnreadBadge(_ context.Context, userId string, total int64) error {
	m.calls = append(m.calls, "set:"+userId)
	m.totals[userId] = total
	return nil
}

func (m *memoryBadges) InvalidateUnreadBadge(_ context.Context, userIds ...string) error {
	for _, id := range userIds {
		m.calls = append(m.calls, "del:"+id)
		delete(m.totals, id)
	}
	return nil
}

type fixedUnread struct {
	totals map[string]int64
	err    error
	calls  int
}

func (f *fixedUnread) SumUnreadForUser(_ context.Context, userId string) (int64, error) {
	f.calls++
	return f.totals[userId], f.err
}

func TestUnreadCountUsesCachedBadge(t *testing.T) {
	ctx := context.Background()
	badges := &memoryBadges{totals: map[string]int64{"u1": 4}}
	db := &fixedUnread{totals: map[string]int64{"u1": 9}}
	s := &NotificationService{convRepo: db, cacheRepo: badges}

	got, err := s.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 4, got.Total)
	assert.Zero(t, db.calls)

	got, err = s.UnreadCount(ctx, "u2")
	require.NoError(t, err)
	assert.Zero(t, got.Total)
	assert.Equal(t, 1, db.calls)
	assert.Contains(t, badges.totals, "u2")

	db.err = errors.New("db down")
	_, err = s.UnreadCount(ctx, "u3")
	assert.ErrorIs(t, err, errcode.ErrInternalServer)
}

func TestPushUnreadChangedRecomputesBeforePush(t *testing.T) {
	ctx := context.Background()
	badges := &memoryBadges{totals: map[string]int64{"u1": 7, "u2": 1}}
	db := &fixedUnread{totals: map[string]int64{"u1": 2, "u2": 0}}
	pusher := &recordingPusher{}
	s := &NotificationService{convRepo: db, cacheRepo: badges}
	s.SetPusher(pusher)

	s.PushUnreadChanged(ctx, "u1", "u2")

	assert.Equal(t, []string{"del:u1", "del:u2", "get:u1", "set:u1", "get:u2", "set:u2"}, badges.calls)
	assert.Equal(t, 2, db.calls)

	require.Len(t, pusher.pushes, 2)
	assert.Equal(t, constant.PushUnreadChanged, pusher.pushes[0].Type)
	assert.Equal(t, []string{"u1"}, pusher.pushes[0].UserIds)
	assert.EqualValues(t, 2, pusher.pushes[0].Data.(*UnreadCount).Total)
	assert.Equal(t, []string{"u2"}, pusher.pushes[1].UserIds)
	assert.EqualValues(t, 0, pusher.pushes[1].Data.(*UnreadCount).Total)
}

func TestPushUnreadChangedWithoutPusherOnlyInvalidates(t *testing.T) {
	badges := &memoryBadges{totals: map[string]int64{"u1": 7}}
	db := &fixedUnread{}
	s := &NotificationService{convRepo: db, cacheRepo: badges}

	s.PushUnreadChanged(context.Background(), "u1")

	assert.Equal(t, []string{"del:u1"}, badges.calls)
	assert.Zero(t, db.calls)
}
