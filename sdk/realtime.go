package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// ErrKicked is returned by Listen when the server closed the session
var ErrKicked = errors.New("realtime session kicked by server")

// PushEvent is one server push
type PushEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type wsRequest struct {
	ReqIdentifier int32       `json:"req_identifier"`
	MsgIncr       string      `json:"msg_incr"`
	Data          interface{} `json:"data,omitempty"`
}

type wsResponse struct {
	ReqIdentifier int32           `json:"req_identifier"`
	MsgIncr       string          `json:"msg_incr,omitempty"`
	ErrCode       int             `json:"err_code"`
	ErrMsg        string          `json:"err_msg,omitempty"`
	Data          json.RawMessage `json:"data,omitempty"`
}

// Realtime is a websocket session receiving pushes for the current user
type Realtime struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	incr    atomic.Int64
}

// DialRealtime opens the realtime connection with the client's token
func (c *Client) DialRealtime(ctx context.Context) (*Realtime, error) {
	if c.token == "" {
		return nil, ErrTokenMissing
	}
	wsURL, err := realtimeURL(c.baseURL, c.token)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial realtime: %w", err)
	}
	return &Realtime{conn: conn}, nil
}

// realtimeURL maps an http(s) base URL to the ws(s) /ws endpoint
func realtimeURL(baseURL, token string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	u.RawQuery = url.Values{"token": []string{token}}.Encode()
	return u.String(), nil
}

// Listen reads frames until ctx ends or the connection drops, calling onPush
// for every push. Replies to requests are discarded.
func (r *Realtime) Listen(ctx context.Context, onPush func(*PushEvent)) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = r.conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := r.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		ev, kicked, err := decodeFrame(data)
		if err != nil {
			continue
		}
		if kicked {
			return ErrKicked
		}
		if ev != nil && onPush != nil {
			onPush(ev)
		}
	}
}

// decodeFrame returns the push carried by data, if any
func decodeFrame(data []byte) (ev *PushEvent, kicked bool, err error) {
	var resp wsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, false, err
	}
	switch resp.ReqIdentifier {
	case WSKickOnlineMsg:
		return nil, true, nil
	case WSPush:
		var push PushEvent
		if err := json.Unmarshal(resp.Data, &push); err != nil {
			return nil, false, err
		}
		return &push, false, nil
	default:
		return nil, false, nil
	}
}

// MarkRead advances a read cursor over the realtime connection
func (r *Realtime) MarkRead(conversationId string, readSeq int64) error {
	return r.send(WSMarkRead, map[string]interface{}{
		"conversation_id": conversationId,
		"read_seq":        readSeq,
	})
}

func (r *Realtime) send(reqIdentifier int32, data interface{}) error {
	frame, err := json.Marshal(wsRequest{
		ReqIdentifier: reqIdentifier,
		MsgIncr:       strconv.FormatInt(r.incr.Add(1), 10),
		Data:          data,
	})
	if err != nil {
		return err
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	_ = r.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return r.conn.WriteMessage(websocket.TextMessage, frame)
}

// Close closes the connection
func (r *Realtime) Close() error {
	r.writeMu.Lock()
	_ = r.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	r.writeMu.Unlock()
	return r.conn.Close()
}

// PollUnread calls onChange with the unread total every interval until ctx
// ends. It is the fallback when no realtime connection is open.
func (c *Client) PollUnread(ctx context.Context, cache *QueryCache, interval time.Duration, onChange func(int64)) {
	if interval <= 0 {
		interval = UnreadPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := int64(-1)
	for {
		total, err := Query(ctx, cache, keyUnread, interval/2, c.GetUnreadCount)
		if err == nil && total != last {
			last = total
			onChange(total)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
