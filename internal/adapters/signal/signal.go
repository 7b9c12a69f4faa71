package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"webmeet/internal/app"
	"webmeet/internal/core"
	"webmeet/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

const sendBuffer = 32

// Controller accepts signaling websockets and feeds events into the
// orchestrator. Each connection gets a fresh uuid; nothing is resumed
// across reconnects.
type Controller struct {
	Orch       *app.Orchestrator
	ReadLimit  int64
	PingPeriod time.Duration

	joins *JoinRateLimiter
}

func NewController(orch *app.Orchestrator, readLimit int64, pingPeriod time.Duration) *Controller {
	if pingPeriod <= 0 {
		pingPeriod = 54 * time.Second
	}
	return &Controller{
		Orch:       orch,
		ReadLimit:  readLimit,
		PingPeriod: pingPeriod,
		joins:      NewJoinRateLimiter(5, 10*time.Second),
	}
}

type wsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *Controller) HandleMeet(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.ReadLimit > 0 {
		ws.SetReadLimit(ctl.ReadLimit)
	}

	id := domain.ConnID(uuid.NewString())
	log.Info().Str("module", "signal").Str("conn", string(id)).Msg("new WS connection")

	conn := &wsSignalConn{
		conn: ws,
		send: make(chan core.Frame, sendBuffer),
	}
	ctl.Orch.OnConnect(id, conn)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, id, conn)
}
