// Package server exposes the budget engine and coach over REST and WebSocket.
package server

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/finmate/finmate/budget"
	"github.com/finmate/finmate/coach"
	"github.com/finmate/finmate/core"
	"github.com/finmate/finmate/invest"
	"github.com/finmate/finmate/seed"
	"github.com/finmate/finmate/state"
	"github.com/finmate/finmate/store"
)

// Config configures the server.
type Config struct {
	// State is the shared application state container.
	State *state.Store

	// Coach runs the staged response flows.
	Coach *coach.Engine

	// Persist is the optional durable store. When nil the app is memory-only.
	Persist *store.SQLiteStore

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time

	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Server wires the REST API and the chat WebSocket.
type Server struct {
	state    *state.Store
	coach    *coach.Engine
	persist  *store.SQLiteStore
	now      func() time.Time
	log      *zap.Logger
	router   *gin.Engine
	upgrader websocket.Upgrader
}

// New creates a server with all routes registered.
func New(cfg Config) *Server {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	s := &Server{
		state:   cfg.State,
		coach:   cfg.Coach,
		persist: cfg.Persist,
		now:     cfg.Now,
		log:     cfg.Logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // demo app, single-user, no origin policy
			},
		},
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := router.Group("/api")
	{
		api.GET("/state", s.handleState)
		api.GET("/split", s.handleSplit)
		api.GET("/alerts", s.handleAlerts)
		api.GET("/suggestions", s.handleSuggestions)
		api.GET("/goals", s.handleGoals)
		api.POST("/goals/:id/contributions", s.handleContribution)
		api.PUT("/profile", s.handleProfile)
		api.PUT("/ui", s.handleUIPrefs)
		api.POST("/ui/dismiss-needs-alert", s.handleDismissNeedsAlert)
		api.GET("/tips", s.handleTips)
		api.GET("/lessons", s.handleLessons)
		api.POST("/seeds", s.handleLoadSeeds)
		api.POST("/reset", s.handleReset)
		api.GET("/invest", s.handleInvest)
	}

	router.GET("/ws", s.handleWebSocket)

	s.router = router
	return s
}

// Router exposes the gin engine, mainly for httptest.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server on addr.
func (s *Server) Run(addr string) error {
	s.log.Info("starting finmate server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// ============================================================================
// REST HANDLERS
// ============================================================================

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.state.Snapshot())
}

// splitResponse decorates the split with the week window metadata the
// dashboard shows next to it.
type splitResponse struct {
	budget.Split
	WeekKey       string `json:"week_key"`
	WeekStart     string `json:"week_start"`
	DaysRemaining int    `json:"days_remaining"`
}

func (s *Server) handleSplit(c *gin.Context) {
	now := s.now()
	c.JSON(http.StatusOK, splitResponse{
		Split:         s.state.WeeklySplit(now),
		WeekKey:       budget.WeekKey(now),
		WeekStart:     budget.WeekStart(now).Format("2006-01-02"),
		DaysRemaining: budget.DaysRemaining(now),
	})
}

func (s *Server) handleAlerts(c *gin.Context) {
	snap := s.state.Snapshot()
	alerts := snap.Alerts
	if alerts == nil {
		alerts = []core.Alert{}
	}
	c.JSON(http.StatusOK, alerts)
}

func (s *Server) handleSuggestions(c *gin.Context) {
	snap := s.state.Snapshot()
	suggestions := snap.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	c.JSON(http.StatusOK, suggestions)
}

func (s *Server) handleGoals(c *gin.Context) {
	snap := s.state.Snapshot()
	goals := snap.Goals
	if goals == nil {
		goals = []core.Goal{}
	}
	c.JSON(http.StatusOK, goals)
}

type contributionRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

func (s *Server) handleContribution(c *gin.Context) {
	var req contributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := s.state.AddContribution(c.Param("id"), req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.save(c.Request.Context())
	c.JSON(http.StatusOK, goal)
}

// profileRequest carries partial profile changes. ClearWeeklyPlan resets the
// plan to "unset" (distinct from an explicit zero).
type profileRequest struct {
	Name            *string  `json:"name"`
	Campus          *string  `json:"campus"`
	IncomeCycle     *string  `json:"income_cycle"`
	WeeklyPlan      *float64 `json:"weekly_plan"`
	ClearWeeklyPlan bool     `json:"clear_weekly_plan"`
	Currency        *string  `json:"currency"`
	RoundUps        *bool    `json:"round_ups_enabled"`
}

func (s *Server) handleProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := state.ProfileUpdate{
		Name:        req.Name,
		Campus:      req.Campus,
		IncomeCycle: req.IncomeCycle,
		Currency:    req.Currency,
		RoundUps:    req.RoundUps,
	}
	if req.ClearWeeklyPlan {
		var cleared *float64
		update.WeeklyPlan = &cleared
	} else if req.WeeklyPlan != nil {
		plan := *req.WeeklyPlan
		ptr := &plan
		update.WeeklyPlan = &ptr
	}

	profile := s.state.SetProfile(update)
	s.save(c.Request.Context())
	c.JSON(http.StatusOK, profile)
}

type uiPrefsRequest struct {
	LargeText *bool `json:"large_text"`
	DarkMode  *bool `json:"dark_mode"`
}

func (s *Server) handleUIPrefs(c *gin.Context) {
	var req uiPrefsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.LargeText != nil {
		s.state.SetLargeText(*req.LargeText)
	}
	if req.DarkMode != nil {
		s.state.SetDarkMode(*req.DarkMode)
	}
	s.save(c.Request.Context())
	c.JSON(http.StatusOK, s.state.Snapshot().UI)
}

func (s *Server) handleDismissNeedsAlert(c *gin.Context) {
	weekKey := budget.WeekKey(s.now())
	s.state.DismissNeedsAlert(weekKey)
	s.save(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"dismissed_for": weekKey})
}

func (s *Server) handleTips(c *gin.Context) {
	c.JSON(http.StatusOK, s.state.Snapshot().Tips)
}

func (s *Server) handleLessons(c *gin.Context) {
	c.JSON(http.StatusOK, s.state.Snapshot().Lessons)
}

func (s *Server) handleLoadSeeds(c *gin.Context) {
	data, err := seed.Load(s.now())
	if err != nil {
		s.log.Error("failed to load seeds", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.state.LoadSeeds(data)
	s.save(c.Request.Context())
	c.JSON(http.StatusOK, s.state.Snapshot())
}

func (s *Server) handleReset(c *gin.Context) {
	s.state.ResetAll()
	if s.persist != nil {
		if err := s.persist.Reset(c.Request.Context()); err != nil {
			s.log.Error("failed to reset persisted state", zap.Error(err))
		}
	}
	s.save(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (s *Server) handleInvest(c *gin.Context) {
	weekly := queryFloat(c, "weekly", 10)
	rate := queryFloat(c, "rate", 0.08)
	years := int(queryFloat(c, "years", 5))
	c.JSON(http.StatusOK, invest.Project(weekly, rate, years))
}

func queryFloat(c *gin.Context, name string, def float64) float64 {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

// save writes the current snapshot through to SQLite, if configured.
func (s *Server) save(ctx context.Context) {
	if s.persist == nil {
		return
	}
	if err := s.persist.SaveSnapshot(ctx, s.state.Snapshot()); err != nil {
		s.log.Error("failed to persist snapshot", zap.Error(err))
	}
}

// ============================================================================
// WEBSOCKET CHAT
// ============================================================================

// wsConn serializes writes; coach flows stream from their own goroutine.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *wsConn) send(msg ServerMessage) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(msg)
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	s.log.Info("websocket connected", zap.String("remote", c.Request.RemoteAddr))
	wc := &wsConn{conn: conn}

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				s.log.Warn("websocket error", zap.Error(err))
			}
			break
		}

		switch msg.Type {
		case "message":
			s.handleChatMessage(c.Request.Context(), wc, msg.Content)
		case "history":
			s.sendHistory(wc)
		default:
			s.sendError(wc, "Unknown message type: "+msg.Type)
		}
	}
}

func (s *Server) handleChatMessage(ctx context.Context, wc *wsConn, content string) {
	if content == "" {
		return
	}

	userMsg := s.state.AppendUserMessage(content)
	if s.persist != nil {
		if err := s.persist.AppendMessage(ctx, userMsg); err != nil {
			s.log.Error("failed to persist user message", zap.Error(err))
		}
	}

	// Respond runs in its own goroutine so the read loop keeps consuming.
	// A newer message cancels this flow inside the engine.
	go func() {
		err := s.coach.Respond(context.Background(), coach.Events{
			OnThinking: func() { _ = wc.send(ServerMessage{Type: "thinking"}) },
			OnTyping:   func() { _ = wc.send(ServerMessage{Type: "typing"}) },
			OnChunk: func(chunk string) {
				_ = wc.send(ServerMessage{Type: "text_chunk", Content: chunk})
			},
			OnComplete: func(full string) {
				_ = wc.send(ServerMessage{Type: "complete", Content: full})
			},
		})
		if err != nil {
			// Cancelled by a newer message; the successor flow owns the
			// socket now.
			s.log.Debug("coach flow ended early", zap.Error(err))
			return
		}
		s.persistCoachReply(context.Background())
	}()
}

// persistCoachReply saves the finished coach message and the snapshot.
func (s *Server) persistCoachReply(ctx context.Context) {
	if s.persist == nil {
		return
	}
	snap := s.state.Snapshot()
	if n := len(snap.Coach.Messages); n > 0 {
		last := snap.Coach.Messages[n-1]
		if last.Role == core.RoleCoach {
			if err := s.persist.AppendMessage(ctx, last); err != nil {
				s.log.Error("failed to persist coach message", zap.Error(err))
			}
		}
	}
	s.save(ctx)
}

func (s *Server) sendHistory(wc *wsConn) {
	snap := s.state.Snapshot()
	messages := snap.Coach.Messages
	if messages == nil {
		messages = []core.ChatMessage{}
	}
	_ = wc.send(ServerMessage{Type: "history", Messages: messages})
}

func (s *Server) sendError(wc *wsConn, content string) {
	s.log.Warn("sending error", zap.String("content", content))
	_ = wc.send(ServerMessage{Type: "error", Content: content})
}
