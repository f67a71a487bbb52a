package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/momentsync/internal/app"
	"github.com/dkeye/momentsync/internal/config"
	"github.com/dkeye/momentsync/internal/domain"
)

const writeWait = 5 * time.Second

// Controller upgrades HTTP requests to moment-scoped WebSocket
// connections and runs the admission sequence before any frame flows.
type Controller struct {
	Orch *app.Orchestrator
	Cfg  *config.Config
}

func NewController(orch *app.Orchestrator, cfg *config.Config) *Controller {
	return &Controller{Orch: orch, Cfg: cfg}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle serves GET /ws/moments/:momentID. The identity middleware has
// already resolved the user (empty string for anonymous callers).
func (ctl *Controller) Handle(ctx context.Context, c *gin.Context) {
	momentID := domain.MomentID(c.Param("momentID"))
	user := domain.UserID(c.GetString("user"))

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Msg("upgrade failed")
		return
	}
	ws.SetReadLimit(ctl.Cfg.ReadLimit)

	conn := NewConn(ws, ctl.Cfg.SendBuffer)

	client, err := ctl.Orch.Admit(c.Request.Context(), user, momentID, conn)
	if err != nil {
		if errors.Is(err, app.ErrAccessDenied) {
			log.Warn().Str("module", "adapters.ws").Str("user", string(user)).
				Str("moment", string(momentID)).Msg("admission denied")
			msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "access denied")
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = ws.WriteMessage(websocket.CloseMessage, msg)
		}
		conn.Close()
		return
	}

	log.Info().Str("module", "adapters.ws").Str("conn", string(client.ID)).
		Str("user", string(user)).Str("moment", string(momentID)).Msg("connected")

	connCtx, cancel := context.WithCancel(ctx)
	go ctl.writePump(connCtx, conn)
	go ctl.readPump(connCtx, cancel, client, conn)
}

func (ctl *Controller) writePump(ctx context.Context, c *Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "adapters.ws").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "adapters.ws").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, client *app.Client, c *Conn) {
	defer func() {
		log.Info().Str("module", "adapters.ws").Str("conn", string(client.ID)).Msg("readPump closing")
		ctl.Orch.Disconnect(client)
		cancel()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				return
			}
			ctl.Orch.OnFrame(ctx, client, data)
		}
	}
}
