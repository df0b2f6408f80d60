package sdk

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/viahme/viah/internal/inbox"
)

const conversationStaleTime = 30 * time.Second

// Inbox is the messages page state for one wedding: vendor groups, the
// expanded tree, the selected conversation and whether it accepts messages.
type Inbox struct {
	client    *Client
	cache     *QueryCache
	weddingId string

	mu            sync.Mutex
	groups        []*VendorGroup
	expanded      inbox.ExpandedSet
	selected      string
	status        map[string]string
	initialPicked bool
}

// NewInbox creates an inbox for weddingId backed by cache
func NewInbox(client *Client, cache *QueryCache, weddingId string) *Inbox {
	return &Inbox{
		client:    client,
		cache:     cache,
		weddingId: weddingId,
		expanded:  make(inbox.ExpandedSet),
		status:    make(map[string]string),
	}
}

// Load fetches the conversation list and regroups it. The first successful
// load selects an initial conversation; later loads never change the
// selection.
func (b *Inbox) Load(ctx context.Context) error {
	convs, err := Query(ctx, b.cache, keyConversations(b.weddingId), conversationStaleTime,
		func(ctx context.Context) ([]*ConversationInfo, error) {
			return b.client.ListConversations(ctx, b.weddingId)
		})
	if err != nil {
		return err
	}

	groups := inbox.GroupByVendor(convs)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.groups = groups
	inbox.AutoExpand(groups, b.expanded)
	for _, c := range convs {
		// closed is terminal
		if b.status[c.ConversationId] == ConversationStatusClosed {
			continue
		}
		b.status[c.ConversationId] = c.Status
	}

	if !b.initialPicked {
		if pick, ok := inbox.PickInitial(groups); ok {
			b.selected = pick.ConversationId
		}
		b.initialPicked = true
	}
	return nil
}

// Groups returns the vendor groups from the last load
func (b *Inbox) Groups() []*VendorGroup {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*VendorGroup, len(b.groups))
	copy(out, b.groups)
	return out
}

// IsExpanded reports whether a vendor group is open
func (b *Inbox) IsExpanded(vendorId string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.expanded.Has(vendorId)
}

// Toggle opens or closes a vendor group and reports the new state
func (b *Inbox) Toggle(vendorId string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.expanded.Toggle(vendorId)
}

// Select makes conversationId the active conversation
func (b *Inbox) Select(conversationId string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selected = conversationId
	b.initialPicked = true
}

// Selected returns the active conversation id, or "" when none
func (b *Inbox) Selected() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selected
}

// Status returns the last known status of a conversation
func (b *Inbox) Status(conversationId string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status[conversationId]
}

// CanCompose reports whether the composer is enabled for the selection
func (b *Inbox) CanCompose() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.canComposeLocked()
}

func (b *Inbox) canComposeLocked() bool {
	return b.selected != "" && b.status[b.selected] != ConversationStatusClosed
}

// RefreshStatus refetches the selected conversation's status
func (b *Inbox) RefreshStatus(ctx context.Context) (*ConversationStatus, error) {
	id := b.Selected()
	if id == "" {
		return nil, ErrComposeDisabled
	}
	st, err := Query(ctx, b.cache, keyConvStatus(id), conversationStaleTime,
		func(ctx context.Context) (*ConversationStatus, error) {
			return b.client.GetConversationStatus(ctx, id)
		})
	if err != nil {
		return nil, err
	}
	b.applyStatus(st)
	return st, nil
}

// Send posts content to the selected conversation. A closed or missing
// selection fails with ErrComposeDisabled before any request is made. When
// the server reports the conversation closed, the inbox marks it closed.
func (b *Inbox) Send(ctx context.Context, content string) (*MessageInfo, error) {
	b.mu.Lock()
	id := b.selected
	ok := b.canComposeLocked()
	b.mu.Unlock()
	if !ok {
		return nil, ErrComposeDisabled
	}

	msg, err := b.client.SendText(ctx, id, content)
	if err != nil {
		if IsConversationClosed(err) {
			b.applyStatus(&ConversationStatus{ConversationId: id, Status: ConversationStatusClosed})
		}
		return nil, err
	}

	b.cache.Invalidate(keyMessages(id), keyConversations(b.weddingId))
	return msg, nil
}

// Close closes the selected conversation
func (b *Inbox) Close(ctx context.Context, reason string) (*ConversationStatus, error) {
	id := b.Selected()
	if id == "" {
		return nil, ErrComposeDisabled
	}
	st, err := b.client.CloseConversation(ctx, id, reason)
	if err != nil {
		return nil, err
	}
	b.applyStatus(st)
	return st, nil
}

// HandlePush applies a realtime push to the inbox and its cache
func (b *Inbox) HandlePush(ev *PushEvent) {
	switch ev.Type {
	case PushConversationClosed:
		var st ConversationStatus
		if err := json.Unmarshal(ev.Data, &st); err != nil || st.ConversationId == "" {
			return
		}
		st.Status = ConversationStatusClosed
		b.applyStatus(&st)
	case PushMessageNew:
		var msg MessageInfo
		if err := json.Unmarshal(ev.Data, &msg); err != nil {
			return
		}
		b.cache.Invalidate(keyMessages(msg.ConversationId), keyConversations(b.weddingId))
	case PushUnreadChanged:
		b.cache.Invalidate(keyUnread, keyConversations(b.weddingId))
	}
}

// applyStatus records st locally and in the cache. Closed is never reopened.
func (b *Inbox) applyStatus(st *ConversationStatus) {
	b.mu.Lock()
	if b.status[st.ConversationId] == ConversationStatusClosed {
		b.mu.Unlock()
		return
	}
	b.status[st.ConversationId] = st.Status
	b.mu.Unlock()

	b.cache.Set(keyConvStatus(st.ConversationId), st)
	if st.Status == ConversationStatusClosed {
		b.cache.Invalidate(keyConversations(b.weddingId))
	}
}
