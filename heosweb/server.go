package heosweb

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	heos "github.com/mvandenberg/heos-go"
	"github.com/mvandenberg/heos-go/data"
	"github.com/mvandenberg/heos-go/event"
)

// Server is the heosweb HTTP+WebSocket front-end over one
// *heos.Connection. Construct with New, call Start to begin fanning
// out events, then hand Echo to its caller (cmd/heos-dashboard) to
// serve.
type Server struct {
	Echo *echo.Echo

	conn   *heos.Connection
	hub    *hub
	logger *zap.Logger
	sub    *heos.EventSubscription

	upgrader websocket.Upgrader
}

// New builds a Server bound to conn. It does not start draining
// events until Start is called.
func New(conn *heos.Connection, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		Echo:     e,
		conn:     conn,
		hub:      newHub(logger),
		logger:   logger,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
	}

	e.GET("/api/snapshot", s.handleSnapshot)
	e.GET("/api/events", s.handleEvents)
	e.POST("/api/players/:id/volume", s.handleSetVolume)

	return s
}

// Start subscribes to the connection's post-model-update event
// broadcast and begins fanning events out to WebSocket listeners.
// Call once, before serving requests.
func (s *Server) Start() {
	s.sub = s.conn.Subscribe()
	go s.hub.run(ctxSubscription{sub: s.sub})
}

// Stop closes the underlying event subscription.
func (s *Server) Stop() {
	if s.sub != nil {
		s.sub.Close()
	}
}

// ctxSubscription adapts *heos.EventSubscription's ctx-taking Next to
// the hub's zero-arg subscription interface, binding it to a
// background context for the server's lifetime.
type ctxSubscription struct {
	sub *heos.EventSubscription
}

func (c ctxSubscription) Next() (event.Event, bool) {
	return c.sub.Next(context.Background())
}

func (s *Server) handleSnapshot(c echo.Context) error {
	model, err := s.conn.Model()
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	return c.JSON(http.StatusOK, model.Snapshot())
}

func (s *Server) handleSetVolume(c echo.Context) error {
	pid, err := data.ParsePlayerId(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid player id")
	}

	var body struct {
		Level int `json:"level"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	level, err := data.NewVolume(body.Level)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	model, err := s.conn.Model()
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	player, ok := model.Player(pid)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown player id")
	}
	defer player.Release()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()
	if err := player.SetVolume(ctx, level); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// handleEvents upgrades the request to a WebSocket and relays every
// hub event to it as one JSON frame per event.Event, until the client
// disconnects. When its send queue is full, new events are dropped for
// that client and the connection stays open, so a slow client never
// backpressures the rest of the fleet.
func (s *Server) handleEvents(c echo.Context) error {
	connID := uuid.NewString()
	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	log := s.logger.With(zap.String("ws_conn", connID))
	log.Info("heosweb: websocket subscriber connected")
	defer log.Info("heosweb: websocket subscriber disconnected")

	ch, unsubscribe := s.hub.subscribe()
	defer unsubscribe()

	// Detect client-initiated close without blocking the write loop.
	go func() {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				ws.Close()
				return
			}
		}
	}()

	for evt := range ch {
		if err := ws.WriteJSON(toEventDTO(evt)); err != nil {
			return nil
		}
	}
	return nil
}
