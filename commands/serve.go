package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"adisyo-api/config"
	"adisyo-api/controllers"
	"adisyo-api/logger"
	"adisyo-api/middlewares"
	"adisyo-api/printing"
	"adisyo-api/routes"
	"adisyo-api/seeders"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// NewEngine builds the gin engine with middleware and routes.
func NewEngine(cfg *config.Config, log logger.Logger) *gin.Engine {
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestID(), middlewares.RequestLogger(log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
	}))

	routes.RegisterRoutes(r)
	return r
}

func runServe() error {
	if err := bootstrap(); err != nil {
		return err
	}
	defer config.CloseDatabase()

	cfg := config.App
	log := logger.L()

	if err := config.Migrate(config.DB); err != nil {
		return err
	}
	if err := seeders.Seed(config.DB); err != nil {
		return err
	}

	router, queue := printing.NewDefaultRouter(printing.Options{
		Timeout:     cfg.Printing.Timeout,
		AMQPURL:     cfg.Printing.AMQPURL,
		TicketQueue: cfg.Printing.TicketQueue,
		Log:         log,
	})
	defer queue.Close()
	controllers.Transport = router

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           NewEngine(cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server_start", "listening", "", map[string]interface{}{
			"port":    cfg.App.Port,
			"env":     cfg.App.Environment,
			"version": cfg.App.Version,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("server_stop", "shutting down", "", map[string]interface{}{"signal": sig.String()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
