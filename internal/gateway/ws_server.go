package gateway

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
	"github.com/hertz-contrib/websocket"
	"github.com/mbeoliero/kit/log"
	"github.com/redis/go-redis/v9"

	"github.com/viahme/viah/internal/config"
	"github.com/viahme/viah/internal/service"
	"github.com/viahme/viah/pkg/constant"
	"github.com/viahme/viah/pkg/errcode"
)

// WsServer is the realtime gateway. Pushes are published on a redis channel
// that every instance subscribes to, so whichever instance holds a user's
// connection delivers the frame.
type WsServer struct {
	cfg            *config.WebSocketConfig
	userMap        *UserMap
	registerChan   chan *Client
	unregisterChan chan *Client
	pushChan       chan *PushTask
	rdb            *redis.Client
	authService    *service.AuthService
	convService    *service.ConversationService
	notifyService  *service.NotificationService
	handlers       map[int32]requestHandler
	onlineUserNum  atomic.Int64
	onlineConnNum  atomic.Int64
}

// PushTask is one push ready for local delivery
type PushTask struct {
	Type    string
	UserIds []string
	Data    json.RawMessage
}

// NewWsServer creates a new WebSocket server; rdb may be nil for a single
// instance deployment.
func NewWsServer(cfg *config.WebSocketConfig, rdb *redis.Client, authService *service.AuthService,
	convService *service.ConversationService, notifyService *service.NotificationService) *WsServer {
	chanSize := cfg.PushChannelSize
	if chanSize <= 0 {
		chanSize = 10000
	}
	s := &WsServer{
		cfg:            cfg,
		userMap:        NewUserMap(rdb),
		registerChan:   make(chan *Client, 1000),
		unregisterChan: make(chan *Client, 1000),
		pushChan:       make(chan *PushTask, chanSize),
		rdb:            rdb,
		authService:    authService,
		convService:    convService,
		notifyService:  notifyService,
	}
	s.handlers = map[int32]requestHandler{
		WSMarkRead:       s.HandleMarkRead,
		WSGetUnreadCount: s.HandleGetUnreadCount,
		WSGetConvStatus:  s.HandleGetConvStatus,
	}
	return s
}

// Run starts the event loop, push workers and the redis subscriber
func (s *WsServer) Run(ctx context.Context) {
	go s.eventLoop(ctx)

	workerNum := s.cfg.PushWorkerNum
	if workerNum <= 0 {
		workerNum = 10
	}
	for i := 0; i < workerNum; i++ {
		go s.pushLoop(ctx)
	}
	log.Info("started %d push workers", workerNum)

	if s.rdb != nil {
		go s.subscribeLoop(ctx)
	}
}

// eventLoop handles registration and keeps presence keys alive
func (s *WsServer) eventLoop(ctx context.Context) {
	ticker := time.NewTicker(OnlineTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-s.registerChan:
			s.registerClient(ctx, client)
		case client := <-s.unregisterChan:
			s.unregisterClient(ctx, client)
		case <-ticker.C:
			s.userMap.RefreshAll(ctx)
		}
	}
}

func (s *WsServer) pushLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-s.pushChan:
			s.processPushTask(ctx, task)
		}
	}
}

// subscribeLoop feeds pushes published by any instance into the local queue
func (s *WsServer) subscribeLoop(ctx context.Context) {
	sub := s.rdb.Subscribe(ctx, constant.RedisChannelPush())
	defer sub.Close()

	ch := sub.Channel()
	log.Info("subscribed to push channel: %s", constant.RedisChannelPush())
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				log.Warn("push channel subscription closed")
				return
			}
			var env pushEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Warn("decode push envelope failed: %v", err)
				continue
			}
			s.enqueue(&PushTask{Type: env.Type, UserIds: env.UserIds, Data: env.Data})
		}
	}
}

// processPushTask writes the push to every local connection of its users
func (s *WsServer) processPushTask(ctx context.Context, task *PushTask) {
	if task.Type == constant.PushSessionRevoked {
		s.kickLocal(ctx, task)
		return
	}

	frame, err := encodePushFrame(task)
	if err != nil {
		log.CtxWarn(ctx, "encode push frame failed: type=%s, error=%v", task.Type, err)
		return
	}

	for _, userId := range task.UserIds {
		clients, ok := s.userMap.GetAll(userId)
		if !ok {
			continue
		}
		for _, client := range clients {
			if err := client.Push(frame); err != nil {
				log.CtxDebug(ctx, "push to client failed: user_id=%s, conn_id=%s, error=%v", userId, client.ConnId, err)
			}
		}
	}
}

// kickLocal closes the local connections matched by a revoke task. The read
// loop of each kicked client unregisters it.
func (s *WsServer) kickLocal(ctx context.Context, task *PushTask) {
	var r revokeData
	if len(task.Data) > 0 {
		if err := json.Unmarshal(task.Data, &r); err != nil {
			log.CtxWarn(ctx, "decode revoke data failed: %v", err)
			return
		}
	}

	for _, userId := range task.UserIds {
		clients, ok := s.userMap.GetAll(userId)
		if !ok {
			continue
		}
		for _, client := range clients {
			if r.Token != "" && client.token != r.Token {
				continue
			}
			if err := client.KickOnline(); err != nil {
				log.CtxDebug(ctx, "kick client failed: user_id=%s, conn_id=%s, error=%v", userId, client.ConnId, err)
			}
			log.CtxInfo(ctx, "client kicked: user_id=%s, conn_id=%s", userId, client.ConnId)
		}
	}
}

func encodePushFrame(task *PushTask) ([]byte, error) {
	payload, err := json.Marshal(PushData{Type: task.Type, Data: task.Data})
	if err != nil {
		return nil, err
	}
	return json.Marshal(WSResponse{ReqIdentifier: WSPush, Data: payload})
}

// AsyncPush implements service.Pusher. The push is published for all
// instances; when redis is unavailable it is delivered locally only.
func (s *WsServer) AsyncPush(ctx context.Context, p *service.Push) {
	if p == nil || len(p.UserIds) == 0 {
		return
	}
	data, err := json.Marshal(p.Data)
	if err != nil {
		log.CtxWarn(ctx, "encode push data failed: type=%s, error=%v", p.Type, err)
		return
	}
	task := &PushTask{Type: p.Type, UserIds: p.UserIds, Data: data}

	if s.rdb != nil {
		env, err := json.Marshal(pushEnvelope{Type: task.Type, UserIds: task.UserIds, Data: task.Data})
		if err == nil {
			err = s.rdb.Publish(ctx, constant.RedisChannelPush(), env).Err()
		}
		if err == nil {
			return
		}
		log.CtxWarn(ctx, "publish push failed, delivering locally: type=%s, error=%v", p.Type, err)
	}
	s.enqueue(task)
}

// Kick implements service.Pusher. It travels the same channel as pushes so
// the instance holding the connection closes it.
func (s *WsServer) Kick(ctx context.Context, userId, token string) {
	if userId == "" {
		return
	}
	s.AsyncPush(ctx, &service.Push{
		Type:    constant.PushSessionRevoked,
		UserIds: []string{userId},
		Data:    revokeData{Token: token},
	})
}

func (s *WsServer) enqueue(task *PushTask) {
	select {
	case s.pushChan <- task:
	default:
		log.Warn("push channel full, push dropped: type=%s, users=%d", task.Type, len(task.UserIds))
	}
}

func (s *WsServer) registerClient(ctx context.Context, client *Client) {
	if s.userMap.Register(ctx, client) {
		s.onlineUserNum.Add(1)
	}
	s.onlineConnNum.Add(1)

	log.CtxInfo(ctx, "client registered: user_id=%s, role=%s, conn_id=%s, online_users=%d, online_conns=%d",
		client.UserId, client.Role, client.ConnId, s.onlineUserNum.Load(), s.onlineConnNum.Load())
}

func (s *WsServer) unregisterClient(ctx context.Context, client *Client) {
	isUserOffline := s.userMap.Unregister(ctx, client)
	s.onlineConnNum.Add(-1)
	if isUserOffline {
		s.onlineUserNum.Add(-1)
	}

	log.CtxInfo(ctx, "client unregistered: user_id=%s, conn_id=%s, user_offline=%v, online_users=%d, online_conns=%d",
		client.UserId, client.ConnId, isUserOffline, s.onlineUserNum.Load(), s.onlineConnNum.Load())
}

// UnregisterClient queues client for unregistration
func (s *WsServer) UnregisterClient(client *Client) {
	select {
	case s.unregisterChan <- client:
	default:
		log.Warn("unregister channel full: user_id=%s", client.UserId)
	}
}

// HandleConnection authenticates the token query parameter and upgrades
func (s *WsServer) HandleConnection(ctx context.Context, c *app.RequestContext, upgrader *websocket.HertzUpgrader) {
	if s.cfg.MaxConnNum > 0 && s.onlineConnNum.Load() >= s.cfg.MaxConnNum {
		c.String(consts.StatusServiceUnavailable, errcode.ErrConnOverLimit.Msg)
		return
	}

	token := c.Query(QueryToken)
	if token == "" {
		c.String(consts.StatusUnauthorized, errcode.ErrTokenMissing.Msg)
		return
	}
	claims, err := s.authService.ValidateToken(ctx, token)
	if err != nil {
		log.CtxDebug(ctx, "websocket token rejected: error=%v", err)
		c.String(consts.StatusUnauthorized, errcode.ErrUnauthorized.Msg)
		return
	}

	err = upgrader.Upgrade(c, func(conn *websocket.Conn) {
		wsConn := newHertzConn(conn, connOptions{
			MaxMessageSize:   s.cfg.MaxMessageSize,
			WriteWait:        s.cfg.WriteWait,
			PongWait:         s.cfg.PongWait,
			PingPeriod:       s.cfg.PingPeriod,
			WriteChannelSize: s.cfg.WriteChannelSize,
		})
		client := NewClient(wsConn, claims.UserId, claims.Role, uuid.New().String(), s)
		client.token = token

		s.registerChan <- client
		client.readLoop()
	})
	if err != nil {
		log.CtxWarn(ctx, "websocket upgrade failed: %v", err)
	}
}

// IsOnline reports whether the user holds a connection on any instance
func (s *WsServer) IsOnline(ctx context.Context, userId string) bool {
	return s.userMap.IsOnline(ctx, userId)
}

// ========== Request Handlers ==========

// HandleMarkRead advances the caller's read cursor
func (s *WsServer) HandleMarkRead(ctx context.Context, client *Client, req *WSRequest) (interface{}, error) {
	var r MarkReadReq
	if err := json.Unmarshal(req.Data, &r); err != nil || r.ConversationId == "" {
		return nil, errcode.ErrInvalidParam
	}
	return s.convService.MarkRead(ctx, client.UserId, r.ConversationId, r.ReadSeq)
}

// HandleGetUnreadCount returns the caller's unread badge total
func (s *WsServer) HandleGetUnreadCount(ctx context.Context, client *Client, _ *WSRequest) (interface{}, error) {
	return s.notifyService.UnreadCount(ctx, client.UserId)
}

// HandleGetConvStatus returns a conversation's open/closed status
func (s *WsServer) HandleGetConvStatus(ctx context.Context, client *Client, req *WSRequest) (interface{}, error) {
	var r ConvStatusReq
	if err := json.Unmarshal(req.Data, &r); err != nil || r.ConversationId == "" {
		return nil, errcode.ErrInvalidParam
	}
	return s.convService.Status(ctx, client.UserId, r.ConversationId)
}
