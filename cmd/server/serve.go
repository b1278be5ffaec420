package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/kylejryan/claims-admin/internal/authz"
	"github.com/kylejryan/claims-admin/internal/awsutil"
	"github.com/kylejryan/claims-admin/internal/clients"
	"github.com/kylejryan/claims-admin/internal/config"
	"github.com/kylejryan/claims-admin/internal/ddb"
	"github.com/kylejryan/claims-admin/internal/draftcache"
	"github.com/kylejryan/claims-admin/internal/logger"
	"github.com/kylejryan/claims-admin/internal/lookup"
	"github.com/kylejryan/claims-admin/internal/metrics"
	"github.com/kylejryan/claims-admin/internal/server"
	"github.com/kylejryan/claims-admin/internal/session"
)

var (
	listenAddr    string
	flushInterval time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (default HTTP_ADDR)")
	serveCmd.Flags().DurationVar(&flushInterval, "flush-interval", 15*time.Second, "how often sessions are checkpointed and swept")
}

func runServe(cmd *cobra.Command, _ []string) error {
	env := config.MustLoad()
	log, err := logger.New(env.LogMode)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()
	if env.LogMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cl, err := awsutil.NewClients(ctx, env.Region, env.Endpoint)
	if err != nil {
		return fmt.Errorf("aws config: %w", err)
	}

	var m *metrics.Metrics
	if env.MetricsEnabled {
		m = metrics.New()
	}

	var cp session.Checkpointer
	if env.RedisAddr != "" {
		cache, closeRedis, err := draftcache.Dial(ctx, log, env.RedisAddr)
		if err != nil {
			return err
		}
		defer func() { _ = closeRedis() }()
		cp = cache
		log.Info("session checkpoints enabled", "redis_addr", env.RedisAddr)
	}

	repo := &ddb.Repo{DB: cl.DynamoDB, Table: env.Table}
	sessions := session.NewManager(session.ManagerConfig{
		Logger:       log,
		Metrics:      m,
		Checkpointer: cp,
		TTL:          env.SessionTTL,
	})
	swept := make(chan struct{})
	go func() {
		defer close(swept)
		sessions.Run(ctx, flushInterval)
	}()

	if env.JWTSecret == "" && !env.TrustUpstreamJWT {
		log.Warn("no JWT_HMAC_SECRET and TRUST_UPSTREAM_JWT unset, bearer tokens will be rejected")
	}
	router := server.NewRouter(server.RouterConfig{
		Log:     log,
		Metrics: m,
		Auth: authz.Authenticator{
			DevBypass:     env.DevBypassAuth,
			Secret:        []byte(env.JWTSecret),
			TrustUpstream: env.TrustUpstreamJWT,
		},
		CORSOrigins: env.CORSOrigins,
		Sessions:    sessions,
		Clients: clients.New(clients.Config{
			Logger:  log,
			Metrics: m,
			Repo:    repo,
			Blobs:   cl.S3,
			Bucket:  env.Bucket,
		}),
		Lookups:    lookup.New(log, repo),
		Presigner:  cl.Presign,
		Bucket:     env.Bucket,
		PresignTTL: env.PresignTTL,
	})

	addr := env.HTTPAddr
	if listenAddr != "" {
		addr = listenAddr
	}
	srv := &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", addr, "table", env.Table, "bucket", env.Bucket)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			stop()
			<-swept
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", "error", err)
	}
	stop()
	<-swept
	return nil
}
