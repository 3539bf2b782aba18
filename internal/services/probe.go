package services

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"trun/internal/config"
	"trun/internal/domain"
	"trun/internal/engine"
)

// Prober checks whether one backing service is ready to accept traffic
type Prober interface {
	Check(ctx context.Context) error
}

// mysqlProber pings the database server directly over the wire
type mysqlProber struct {
	dsn string
}

func (p *mysqlProber) Check(ctx context.Context) error {
	db, err := sql.Open("mysql", p.dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database server: %w", err)
	}
	return nil
}

// tcpProber dials the service port until it accepts connections
type tcpProber struct {
	addr string
}

func (p *tcpProber) Check(ctx context.Context) error {
	dialer := &net.Dialer{Timeout: 3 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", p.addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", p.addr, err)
	}
	defer conn.Close()
	return nil
}

// commandProber runs the declared health command inside the container
type commandProber struct {
	engine    engine.Engine
	container string
	command   []string
}

func (p *commandProber) Check(ctx context.Context) error {
	return p.engine.Exec(ctx, p.container, p.command)
}

// proberFor selects the probe implementation for a service spec
func proberFor(spec domain.ServiceSpec, cfg *config.Config, eng engine.Engine, container string) Prober {
	switch spec.Probe {
	case domain.ProbeMySQL:
		return &mysqlProber{dsn: cfg.MySQLDSN()}
	case domain.ProbeTCP:
		return &tcpProber{addr: spec.ProbeTarget}
	default:
		return &commandProber{engine: eng, container: container, command: spec.ProbeCommand}
	}
}
