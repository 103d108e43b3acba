package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/askdocs/kbretrieve/internal/config"
	"github.com/askdocs/kbretrieve/internal/embedder"
	"github.com/askdocs/kbretrieve/internal/kb"
	"github.com/askdocs/kbretrieve/internal/mcp"
	"github.com/askdocs/kbretrieve/internal/retriever"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	configPath := flag.String("config", os.Getenv(config.EnvConfigPath), "path to YAML config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("kbretrieve MCP server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the MCP protocol; everything else goes to stderr.
	logger := newLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	logger.Info("kbretrieve starting",
		zap.String("version", version),
		zap.String("kb_dir", cfg.KnowledgeBase.Dir),
	)

	emb, err := embedder.New(cfg.EmbedderConfig())
	if err != nil {
		logger.Fatal("initializing embedder", zap.Error(err))
	}
	defer func() { _ = emb.Close() }()

	docs, err := kb.Load(cfg.KnowledgeBase.Dir, cfg.KnowledgeBase.Extensions)
	if err != nil {
		logger.Fatal("loading knowledge base", zap.Error(err))
	}

	// Build the index before accepting a single query; a build failure
	// means the process must not serve.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ret, err := retriever.Build(ctx, docs, emb, &retriever.Options{
		CacheSize: cfg.Cache.Size,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("building index", zap.Error(err))
	}

	server, err := mcp.NewServer(mcp.Config{
		Retriever: ret,
		Provider:  emb.Provider(),
		Model:     emb.Model(),
		UseCache:  cfg.Cache.Enabled,
		CacheTTL:  cfg.Cache.TTL.Std(),
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("creating MCP server", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("MCP server ready, listening on stdio")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		logger.Info("received signal, shutting down", zap.Stringer("signal", sig))
		cancel()
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}

	logger.Info("server stopped")
}

// newLogger builds a stderr zap logger at the configured level.
func newLogger(level string) *zap.Logger {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}
