package postgres

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/luxy-checkout/pkg/config"
)

// Reintentos del ping inicial: el kiosko puede arrancar antes que la red.
const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// NewPool crea el pool PostgreSQL para el almacenamiento compartido de kioscos.
// deviceID se publica como application_name para identificar el kiosko en pg_stat_activity.
func NewPool(ctx context.Context, cfg config.DBConfig, deviceID string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	if deviceID != "" {
		poolConfig.ConnConfig.RuntimeParams["application_name"] = "luxy-checkout/" + deviceID
	}
	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second
	poolConfig.ConnConfig.DialFunc = dialPreferIPv4

	// Pocas escrituras y siempre serializadas por la cola: pool chico.
	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pingWithRetry(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func pingWithRetry(ctx context.Context, pool *pgxpool.Pool) error {
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		if err = pool.Ping(ctx); err == nil {
			return nil
		}
		if attempt == connectAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("ping DB: %w", ctx.Err())
		case <-time.After(connectBackoff * time.Duration(attempt)):
		}
	}
	return fmt.Errorf("ping DB tras %d intentos: %w", connectAttempts, err)
}

// dialPreferIPv4 usa la primera dirección IPv4 del host si existe; si no, el dial normal.
// Hay redes de tiendas sin ruta IPv6 aunque el DNS devuelva AAAA.
func dialPreferIPv4(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	if ip := firstIPv4(ctx, host); ip != "" {
		return dialer.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
	}
	return dialer.DialContext(ctx, network, addr)
}

func firstIPv4(ctx context.Context, host string) string {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() != nil {
			return host
		}
		return ""
	}
	ips, err := net.DefaultResolver.LookupIP(ctx, "ip4", host)
	if err != nil || len(ips) == 0 {
		return ""
	}
	return ips[0].String()
}
