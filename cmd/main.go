package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/dtroode/recipes-server/database"
	restctx "github.com/dtroode/recipes-server/internal/api/rest/context"
	"github.com/dtroode/recipes-server/internal/api/rest/router"
	restserver "github.com/dtroode/recipes-server/internal/api/rest/server"
	"github.com/dtroode/recipes-server/internal/config"
	"github.com/dtroode/recipes-server/internal/imagefile"
	"github.com/dtroode/recipes-server/internal/logger"
	"github.com/dtroode/recipes-server/internal/model"
	"github.com/dtroode/recipes-server/internal/repository/postgres"
	"github.com/dtroode/recipes-server/internal/server"
	"github.com/dtroode/recipes-server/internal/service"
	"github.com/dtroode/recipes-server/internal/storage/local"
	miniostorage "github.com/dtroode/recipes-server/internal/storage/minio"
	"github.com/dtroode/recipes-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)

	err := newApp().Run(ctx, os.Args)
	stop()
	if err != nil {
		log.Fatalf("failed to run: %v", err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "recipes",
		Usage:   "Recipes REST API server",
		Version: buildVersion,
		Action:  serveAction,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (default)",
				Action: serveAction,
			},
			{
				Name:   "migrate",
				Usage:  "Apply database migrations and exit",
				Action: migrateAction,
			},
			{
				Name:  "version",
				Usage: "Print build information",
				Action: func(_ context.Context, cmd *cli.Command) error {
					writeAppVersion(cmd.Root().Writer)
					return nil
				},
			},
		},
	}
}

func serveAction(ctx context.Context, _ *cli.Command) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)

	writeAppVersion(os.Stdout)

	if err := serve(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", "error", err)
	}
	return nil
}

func migrateAction(ctx context.Context, _ *cli.Command) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)

	if err := database.Migrate(ctx, cfg.Database.DSN); err != nil {
		log.Fatal("failed to migrate database", "error", err)
	}

	log.Info("migrations applied")
	return nil
}

func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	images, err := newImageStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize image storage: %w", err)
	}

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)
	tokenService := service.NewTokenService(tokenManager, log)
	userRepo := postgres.NewUserRepository(db)
	authService := service.NewAuth(userRepo, tokenService, log)
	recipeService := service.NewRecipe(
		postgres.NewRecipeRepository(db),
		userRepo,
		images,
		imagefile.NewResizer(cfg.Images.MaxWidth),
		log,
	)

	r := router.New(
		recipeService,
		authService,
		tokenService,
		images,
		db,
		restctx.NewManager(),
		router.Options{
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			RateLimit:      cfg.HTTP.RateLimit,
			RateLimitBurst: cfg.HTTP.RateLimitBurst,
			MaxUploadBytes: cfg.HTTP.MaxUploadBytes,
			TrustProxy:     cfg.HTTP.TrustProxy,
		},
		log,
	)

	var srv model.Server = restserver.NewHTTPServer(r.Register(), ":"+cfg.HTTP.Port)
	sl := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting server on", "address", srv.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := srv.Start(sl); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", "address", srv.Address())

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("error during server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("shutdown complete")
	return nil
}

func newImageStorage(ctx context.Context, cfg *config.Config) (model.Storage, error) {
	if cfg.Images.Backend != config.BackendMinio {
		client, err := local.NewClient(cfg.Images.Dir)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	client, err := miniostorage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func writeAppVersion(w io.Writer) {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Fprintf(w, tmpl, buildVersion, buildDate, buildCommit)
}
