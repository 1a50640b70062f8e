package tools

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/time/rate"
)

// APIServer serves MCP endpoints for toolsets over streamable HTTP.
type APIServer struct {
	echo     *echo.Echo
	listener net.Listener
}

// NewAPIServer creates a new API server. When ratePerSec > 0, requests
// are rate limited per client IP.
func NewAPIServer(ratePerSec float64, burst int) *APIServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	if ratePerSec > 0 {
		e.Use(rateLimit(rate.Limit(ratePerSec), burst))
	}
	return &APIServer{echo: e}
}

// RegisterToolset adds an MCP endpoint for a toolset at /mcp/{name}.
func (s *APIServer) RegisterToolset(name string, mcpSrv *mcp.Server) {
	path := fmt.Sprintf("/mcp/%s", name)
	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return mcpSrv
	}, &mcp.StreamableHTTPOptions{
		Stateless: true,
	})
	// Echo needs a wildcard suffix to match sub-paths.
	s.echo.Any(path, echo.WrapHandler(handler))
	s.echo.Any(path+"/", echo.WrapHandler(handler))
}

// Start begins listening in a background goroutine on the given
// address. Pass ":0" for an auto-assigned port.
func (s *APIServer) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = ln
	s.echo.Listener = ln
	go s.echo.Start("")
	return nil
}

// Stop shuts down the server.
func (s *APIServer) Stop() error {
	if s.echo != nil {
		return s.echo.Shutdown(context.Background())
	}
	return nil
}

// BaseURL returns the base URL of the running server.
func (s *APIServer) BaseURL() string {
	if s.listener == nil {
		return ""
	}
	return fmt.Sprintf("http://%s", s.listener.Addr().String())
}

// ipRateLimiter keeps one token bucket per client IP.
type ipRateLimiter struct {
	mu  sync.Mutex
	ips map[string]*rate.Limiter
	r   rate.Limit
	b   int
}

func (l *ipRateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.ips[ip]
	if !ok {
		lim = rate.NewLimiter(l.r, l.b)
		l.ips[ip] = lim
	}
	return lim
}

// rateLimit is a per-IP rate limiting middleware.
func rateLimit(r rate.Limit, b int) echo.MiddlewareFunc {
	if b <= 0 {
		b = 1
	}
	limiter := &ipRateLimiter{ips: make(map[string]*rate.Limiter), r: r, b: b}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.limiter(c.RealIP()).Allow() {
				return c.NoContent(http.StatusTooManyRequests)
			}
			return next(c)
		}
	}
}
