package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodemap/internal/server"
	"github.com/matzehuels/nodemap/pkg/cache"
	"github.com/matzehuels/nodemap/pkg/pipeline"
	"github.com/matzehuels/nodemap/pkg/store"
)

// serveOpts holds the flags of the serve command. Every flag falls back to a
// NODEMAP_ environment variable.
type serveOpts struct {
	addr      string // NODEMAP_ADDR
	redisURL  string // NODEMAP_REDIS_URL
	mongoURI  string // NODEMAP_MONGO_URI
	mongoDB   string // NODEMAP_MONGO_DB
	dataDir   string // NODEMAP_DATA_DIR
	cacheSize int    // NODEMAP_CACHE_SIZE
	timeout   time.Duration
}

const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command running the HTTP API.
//
// Backends:
//   - artifact cache: redis when --redis is set, else an in-memory LRU
//   - diagram store: mongo when --mongo is set, else files in --data-dir,
//     else memory
func (c *CLI) serveCommand() *cobra.Command {
	size, _ := strconv.Atoi(envOr("CACHE_SIZE", ""))
	opts := serveOpts{
		addr:      envOr("ADDR", server.DefaultAddr),
		redisURL:  envOr("REDIS_URL", ""),
		mongoURI:  envOr("MONGO_URI", ""),
		mongoDB:   envOr("MONGO_DB", store.DefaultMongoDatabase),
		dataDir:   envOr("DATA_DIR", ""),
		cacheSize: size,
		timeout:   server.DefaultTimeout,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP rendering API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis", opts.redisURL, "redis URL for the artifact cache (e.g. redis://localhost:6379/0)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", opts.mongoURI, "MongoDB URI for stored diagrams")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "MongoDB database name")
	cmd.Flags().StringVar(&opts.dataDir, "data-dir", opts.dataDir, "directory for stored diagrams when MongoDB is not configured")
	cmd.Flags().IntVar(&opts.cacheSize, "cache-size", opts.cacheSize, "in-memory cache entries when redis is not configured")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "per-render timeout")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	artifacts, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	diagrams, err := c.serveStore(ctx, opts)
	if err != nil {
		artifacts.Close()
		return err
	}
	defer diagrams.Close()

	server.NewMetrics(prometheus.DefaultRegisterer).Register()

	runner := pipeline.NewRunner(artifacts, cache.NewScopedKeyer(cache.NewDefaultKeyer(), "server:"), nil, c.Logger)
	defer runner.Close()

	srv := server.New(server.Config{
		Addr:    opts.addr,
		Runner:  runner,
		Store:   diagrams,
		Logger:  c.Logger,
		Timeout: opts.timeout,
	})

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()
	printSuccess("Listening on %s", StyleLink.Render("http://"+displayAddr(srv.Addr())))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errc
}

func (c *CLI) serveCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	if opts.redisURL != "" {
		rc, err := cache.NewRedisCache(ctx, opts.redisURL)
		if err != nil {
			return nil, err
		}
		c.Logger.Info("artifact cache", "backend", "redis")
		return rc, nil
	}
	mc, err := cache.NewMemoryCache(opts.cacheSize)
	if err != nil {
		return nil, err
	}
	c.Logger.Info("artifact cache", "backend", "memory")
	return mc, nil
}

func (c *CLI) serveStore(ctx context.Context, opts *serveOpts) (store.Store, error) {
	switch {
	case opts.mongoURI != "":
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		s, err := store.NewMongoStore(connectCtx, store.MongoConfig{URI: opts.mongoURI, Database: opts.mongoDB})
		if err != nil {
			return nil, err
		}
		c.Logger.Info("diagram store", "backend", "mongo", "database", opts.mongoDB)
		return s, nil
	case opts.dataDir != "":
		s, err := store.NewFileStore(opts.dataDir)
		if err != nil {
			return nil, err
		}
		c.Logger.Info("diagram store", "backend", "file", "dir", s.Path())
		return s, nil
	}
	printWarning("Stored diagrams are kept in memory and lost on restart (set --data-dir or --mongo)")
	return store.NewMemoryStore(), nil
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
