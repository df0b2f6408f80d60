package gateway

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/mbeoliero/kit/log"

	"github.com/viahme/viah/pkg/errcode"
)

// requestHandler serves one client request identifier
type requestHandler func(ctx context.Context, client *Client, req *WSRequest) (interface{}, error)

// Client is one authenticated websocket connection
type Client struct {
	mu        sync.Mutex
	conn      ClientConn
	UserId    string
	Role      string
	ConnId    string
	token     string
	server    *WsServer
	closed    atomic.Bool
	closedErr error
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewClient creates a new client
func NewClient(conn ClientConn, userId, role, connId string, server *WsServer) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		conn:   conn,
		UserId: userId,
		Role:   role,
		ConnId: connId,
		server: server,
		ctx:    ctx,
		cancel: cancel,
	}
}

// readLoop reads frames until the connection fails, then unregisters
func (c *Client) readLoop() {
	defer func() {
		if r := recover(); r != nil {
			c.closedErr = ErrPanic
			log.CtxError(c.ctx, "client read loop panic: user_id=%s, error=%v", c.UserId, r)
		}
		c.close()
	}()

	for {
		message, err := c.conn.ReadMessage()
		if err != nil {
			log.CtxDebug(c.ctx, "read message error: user_id=%s, error=%v", c.UserId, err)
			c.closedErr = err
			return
		}

		if c.closed.Load() {
			c.closedErr = ErrConnClosed
			return
		}

		if err := c.handleMessage(message); err != nil {
			log.CtxWarn(c.ctx, "handle message error: user_id=%s, error=%v", c.UserId, err)
			c.closedErr = err
			return
		}
	}
}

// handleMessage dispatches one frame. Only write failures end the connection;
// bad frames get an error reply.
func (c *Client) handleMessage(message []byte) error {
	var req WSRequest
	if err := json.Unmarshal(message, &req); err != nil {
		return c.reply(&req, errcode.ErrInvalidProtocol, nil)
	}

	log.CtxDebug(c.ctx, "received message: req_identifier=%d, user_id=%s", req.ReqIdentifier, c.UserId)

	handler, ok := c.server.handlers[req.ReqIdentifier]
	if !ok {
		return c.reply(&req, errcode.ErrInvalidProtocol, nil)
	}
	data, err := handler(c.ctx, c, &req)
	return c.reply(&req, err, data)
}

// reply answers a request with data or an error code
func (c *Client) reply(req *WSRequest, err error, data interface{}) error {
	resp := WSResponse{
		ReqIdentifier: req.ReqIdentifier,
		MsgIncr:       req.MsgIncr,
	}

	if err != nil {
		if e, ok := errcode.As(err); ok {
			resp.ErrCode = e.Code
			resp.ErrMsg = e.Msg
		} else {
			resp.ErrCode = errcode.ErrInternalServer.Code
			resp.ErrMsg = errcode.ErrInternalServer.Msg
		}
		return c.writeResponse(resp)
	}

	if data != nil {
		raw, mErr := json.Marshal(data)
		if mErr != nil {
			return mErr
		}
		resp.Data = raw
	}
	return c.writeResponse(resp)
}

func (c *Client) writeResponse(resp WSResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.write(data)
}

func (c *Client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return nil
	}
	return c.conn.WriteMessage(data)
}

// Push writes an encoded WSPush frame
func (c *Client) Push(frame []byte) error {
	if c.closed.Load() {
		return ErrConnClosed
	}
	return c.write(frame)
}

// KickOnline notifies the client and closes the connection
func (c *Client) KickOnline() error {
	if err := c.writeResponse(WSResponse{ReqIdentifier: WSKickOnlineMsg}); err != nil {
		log.CtxDebug(c.ctx, "kick notify failed: user_id=%s, error=%v", c.UserId, err)
	}
	return c.Close()
}

// Close closes the client connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return nil
	}

	c.closed.Store(true)
	c.cancel()
	return c.conn.Close()
}

func (c *Client) close() {
	c.Close()
	c.server.UnregisterClient(c)
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	return c.closed.Load()
}
