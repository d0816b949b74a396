// Package mongodb owns the MongoDB client lifecycle: connect, ping, health
// checking, and disconnect.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config holds connection configuration.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
}

// DefaultConfig returns sensible defaults for the connection pool.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout: 10 * time.Second,
		MaxPoolSize:    50,
	}
}

// Client wraps the driver client with health checking.
type Client struct {
	client   *mongo.Client
	database string
}

// Connect establishes and verifies a connection.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &Client{client: client, database: cfg.Database}, nil
}

// Database returns the configured database handle.
func (c *Client) Database() *mongo.Database {
	return c.client.Database(c.database)
}

// Health checks whether the server is reachable.
func (c *Client) Health(ctx context.Context) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("mongodb not configured")
	}
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Disconnect(ctx)
}
