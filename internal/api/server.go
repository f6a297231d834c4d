// Package api exposes a session over a small JSON HTTP API so browser
// tooling can share the CLI's wallet and cache.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/bidcli/internal/auction"
	"github.com/Mohsinsiddi/bidcli/internal/cache"
	"github.com/Mohsinsiddi/bidcli/internal/config"
	"github.com/Mohsinsiddi/bidcli/internal/deployment"
	"github.com/Mohsinsiddi/bidcli/internal/optimistic"
	"github.com/Mohsinsiddi/bidcli/internal/session"
)

// Session is the part of *session.Controller the API serves.
type Session interface {
	State() session.State
	Deployment() *deployment.Descriptor
	GetAllItems(ctx context.Context) []auction.Item
	GetItem(ctx context.Context, id uint64) (auction.Item, bool)
	AddItem(ctx context.Context, name, description, startingPriceEther string) (auction.Item, *session.Settlement, error)
	PlaceBid(ctx context.Context, itemID uint64, bidderName, amountEther string) (optimistic.Bid, *session.Settlement, error)
	EndAuction(ctx context.Context, itemID uint64) (*types.Receipt, error)
	RefreshDeployment(ctx context.Context) bool
	ClearCache()
	CacheStats() cache.Stats
}

// Server routes HTTP requests to a Session.
type Server struct {
	sess    Session
	log     *zap.Logger
	origins []string
	wait    time.Duration
	engine  *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithOrigins restricts CORS to origins. The default allows all.
func WithOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithConfirmTimeout bounds how long ?wait=true blocks on a write.
func WithConfirmTimeout(d time.Duration) Option {
	return func(s *Server) { s.wait = d }
}

// New builds the router.
func New(sess Session, opts ...Option) *Server {
	s := &Server{sess: sess, log: zap.NewNop(), wait: config.TxConfirmTimeout}
	for _, o := range opts {
		o(s)
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests())

	cc := cors.DefaultConfig()
	if len(s.origins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = s.origins
	}
	r.Use(cors.New(cc))

	r.GET("/deployment-info.json", s.deploymentInfo)

	g := r.Group("/api")
	g.GET("/state", s.state)
	g.GET("/items", s.items)
	g.GET("/items/:id", s.item)
	g.POST("/items", s.addItem)
	g.POST("/items/:id/bids", s.placeBid)
	g.POST("/items/:id/end", s.endAuction)
	g.GET("/cache", s.cacheStats)
	g.DELETE("/cache", s.clearCache)
	g.POST("/deployment/refresh", s.refreshDeployment)

	s.engine = r
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info("api listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}
