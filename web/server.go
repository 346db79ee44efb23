// Package web serves Dragon Road over HTTP: a JSON API with one in-memory
// session per player and a small embedded page that drives it.
package web

import (
	"context"
	_ "embed"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/nathoo/dragonroad/engine"
	"github.com/nathoo/dragonroad/engine/events"
	"github.com/nathoo/dragonroad/engine/parser"
	"github.com/nathoo/dragonroad/engine/rules"
	"github.com/nathoo/dragonroad/engine/state"
	"github.com/nathoo/dragonroad/telemetry"
	"github.com/nathoo/dragonroad/types"
)

//go:embed static/index.html
var indexHTML []byte

// Idle sessions are swept after MaxIdle, checked every sweepEvery.
const (
	MaxIdle    = 30 * time.Minute
	sweepEvery = time.Minute
)

// Server is the HTTP front end.
type Server struct {
	defs    *state.Defs
	store   *store
	seed    int64
	version string
	log     *log.Logger
	tracer  trace.Tracer
}

// Option configures a Server.
type Option func(*Server)

// WithSeed seeds every new session's RNG. 0 seeds from the clock.
func WithSeed(seed int64) Option {
	return func(s *Server) { s.seed = seed }
}

// WithLogger sets the request and session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithTracer traces every action with the given tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Server) { s.tracer = t }
}

// WithVersion sets the version reported by the root endpoint.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// NewServer creates a server for the given game.
func NewServer(defs *state.Defs, opts ...Option) *Server {
	s := &Server{
		defs:    defs,
		store:   newStore(),
		version: "dev",
		log:     log.New(io.Discard),
		tracer:  telemetry.NoopTracer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// sessionResponse is the JSON body returned for every session call.
type sessionResponse struct {
	ID      string       `json:"id"`
	Mode    types.Mode   `json:"mode"`
	Turn    int          `json:"turn"`
	Ignored bool         `json:"ignored,omitempty"`
	Result  types.Result `json:"result"`
}

type commandRequest struct {
	Input string `json:"input" binding:"required"`
}

// Router builds the gin engine with all routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Next()
	})

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"game":     s.defs.Game.Title,
			"version":  s.version,
			"sessions": s.store.count(),
		})
	})

	api := r.Group("/api")
	{
		api.GET("/game", s.getGame)
		api.POST("/sessions", s.createSession)

		sess := api.Group("/sessions/:id")
		{
			sess.GET("", s.getSession)
			sess.DELETE("", s.deleteSession)
			sess.POST("/actions/:action", s.doAction)
			sess.POST("/command", s.doCommand)
		}
	}

	return r
}

func (s *Server) getGame(c *gin.Context) {
	g := s.defs.Game
	c.JSON(http.StatusOK, gin.H{
		"title":     g.Title,
		"author":    g.Author,
		"version":   g.Version,
		"intro":     g.Intro,
		"locations": len(s.defs.Locations),
	})
}

func (s *Server) createSession(c *gin.Context) {
	eng := engine.New(s.defs, engine.WithSeed(s.seed), engine.WithLogger(s.log))
	sess := s.store.add(eng)
	s.log.Info("session created", "id", sess.id, "seed", eng.State.RNGSeed)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	c.JSON(http.StatusCreated, s.response(sess, eng.Start(), false))
}

func (s *Server) getSession(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	c.JSON(http.StatusOK, s.response(sess, sess.eng.Start(), false))
}

func (s *Server) deleteSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || !s.store.remove(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	s.log.Info("session deleted", "id", id)
	c.Status(http.StatusNoContent)
}

func (s *Server) doAction(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	id := types.ActionID(c.Param("action"))
	if _, known := rules.Lookup(id); !known {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action " + string(id)})
		return
	}
	s.run(c, sess, id)
}

func (s *Server) doCommand(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	id, ok := parser.Parse(req.Input, sess.eng.Available())
	if !ok {
		c.JSON(http.StatusOK, s.response(sess, sess.eng.Step(req.Input), false))
		return
	}
	s.execute(c, sess, id)
}

// run executes one action on a session.
func (s *Server) run(c *gin.Context, sess *session, id types.ActionID) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.execute(c, sess, id)
}

// execute runs id with the session lock held. Actions that are not legal
// right now leave the session untouched and come back flagged as ignored.
func (s *Server) execute(c *gin.Context, sess *session, id types.ActionID) {
	result := telemetry.TraceAction(c.Request.Context(), s.tracer, id, sess.eng.State, func() types.Result {
		return sess.eng.Do(id)
	})
	if len(result.Events) == 0 {
		c.JSON(http.StatusOK, s.response(sess, sess.eng.Start(), true))
		return
	}
	if outcome, ok := events.Outcome(result); ok {
		s.log.Info("session ended", "id", sess.id, "outcome", outcome, "turn", sess.eng.State.Turn)
	}
	c.JSON(http.StatusOK, s.response(sess, result, false))
}

func (s *Server) lookup(c *gin.Context) (*session, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return nil, false
	}
	sess, ok := s.store.get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return sess, true
}

func (s *Server) response(sess *session, result types.Result, ignored bool) sessionResponse {
	return sessionResponse{
		ID:      sess.id.String(),
		Mode:    sess.eng.State.Mode,
		Turn:    sess.eng.State.Turn,
		Ignored: ignored,
		Result:  result,
	}
}

// requestLogger logs each request at debug level through the charm logger.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}

// Run serves on addr until ctx is cancelled, sweeping idle sessions in the
// background.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		ticker := time.NewTicker(sweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					s.log.Error("shutdown", "err", err)
				}
				return
			case <-ticker.C:
				if n := s.store.sweep(MaxIdle); n > 0 {
					s.log.Info("swept idle sessions", "count", n)
				}
			}
		}
	}()

	s.log.Info("listening", "addr", addr, "game", s.defs.Game.Title)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
