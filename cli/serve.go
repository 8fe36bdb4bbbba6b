package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yeremiapane/quickserve/config"
	"github.com/yeremiapane/quickserve/database"
	"github.com/yeremiapane/quickserve/events"
	"github.com/yeremiapane/quickserve/router"
	"github.com/yeremiapane/quickserve/utils"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func NewServeCommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Run the HTTP server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	seedIfEmpty(ctx, db, cfg)

	publisher, err := newPublisher(cfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.SetupRouter(db, cfg, publisher),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		utils.InfoLogger.Printf("Received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newPublisher(cfg *config.Config) (events.Publisher, error) {
	if cfg.RabbitMQURL == "" {
		utils.InfoLogger.Println("RABBITMQ_URL not set, order events go to the log")
		return events.LogPublisher{}, nil
	}
	return events.DialRabbit(cfg.RabbitMQURL, events.DefaultExchange)
}

// seedIfEmpty loads the seed file on first start. A missing file is not an error.
func seedIfEmpty(ctx context.Context, db *gorm.DB, cfg *config.Config) {
	count, err := database.NewMenuCatalog(db, cfg.DBTimeout).Count(ctx)
	if err != nil {
		utils.ErrorLogger.Printf("Error counting menu items, seed skipped: %v", err)
		return
	}
	if count > 0 {
		return
	}
	seed, err := database.LoadSeed(cfg.SeedFile)
	if err != nil {
		utils.InfoLogger.Printf("Menu is empty and no seed was loaded: %v", err)
		return
	}
	if _, err := database.ApplySeed(ctx, db, seed); err != nil {
		utils.ErrorLogger.Printf("Error applying seed: %v", err)
	}
}
