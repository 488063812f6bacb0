package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"

	defaultInterval = 15 * time.Second
	checkTimeout    = 3 * time.Second
)

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type Report struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	CheckedAt time.Time         `json:"checked_at"`
}

// Checker pings dependencies periodically and mirrors the result into the
// gRPC health service. The overall service ("") is SERVING only when every
// dependency answered.
type Checker struct {
	server   *grpchealth.Server
	interval time.Duration
	logger   *zap.Logger

	mu     sync.RWMutex
	checks map[string]Pinger
	last   Report
}

func NewChecker(interval time.Duration, logger *zap.Logger) *Checker {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Checker{
		server:   grpchealth.NewServer(),
		interval: interval,
		logger:   logger,
		checks:   make(map[string]Pinger),
		last:     Report{Status: StatusOK},
	}
}

func (c *Checker) Add(name string, p Pinger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = p
}

// Register exposes the health service on s.
func (c *Checker) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, c.server)
}

func (c *Checker) Run(ctx context.Context) {
	c.Check(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.Check(ctx)
		case <-ctx.Done():
			c.server.Shutdown()
			return
		}
	}
}

// Check pings every dependency once and stores the result.
func (c *Checker) Check(ctx context.Context) Report {
	c.mu.RLock()
	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	c.mu.RUnlock()
	sort.Strings(names)

	report := Report{Status: StatusOK, Checks: make(map[string]string, len(names)), CheckedAt: time.Now().UTC()}
	for _, name := range names {
		c.mu.RLock()
		p := c.checks[name]
		c.mu.RUnlock()

		pingCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := p.Ping(pingCtx)
		cancel()

		status := healthpb.HealthCheckResponse_SERVING
		report.Checks[name] = StatusOK
		if err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			report.Checks[name] = err.Error()
			report.Status = StatusDegraded
			c.logger.Warn("dependency unhealthy", zap.String("dependency", name), zap.Error(err))
		}
		c.server.SetServingStatus(name, status)
	}

	overall := healthpb.HealthCheckResponse_SERVING
	if report.Status != StatusOK {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	c.server.SetServingStatus("", overall)

	c.mu.Lock()
	c.last = report
	c.mu.Unlock()
	return report
}

// Last returns the most recent report without pinging anything.
func (c *Checker) Last() Report {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}
