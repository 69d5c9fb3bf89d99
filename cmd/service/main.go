package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gitlab.com/dirk.krummacker/contacts-app/internal/config"
	"gitlab.com/dirk.krummacker/contacts-app/internal/service"
	"gitlab.com/dirk.krummacker/contacts-app/internal/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose bool
	port    int
)

var rootCmd = &cobra.Command{
	Use:   "service",
	Short: "Serves the contact list core to a presentation shell",
	Long: `Serves the contact list core over a local HTTP/JSON interface.

The shell forwards form input, taps and drag gestures; the service answers with the
contacts to render and the animated state of every row. All data is kept in memory and
is lost when the process exits.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

// Usage example on the command line:
// > CONTACTS_SERVER_PORT=8080 GIN_LOGGING=OFF go run main.go --verbose
func main() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on, overrides the configuration")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Server.Port = port
	}

	logConfig := zap.NewProductionConfig()
	if verbose {
		logConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := logConfig.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.Server.GinMode)
	contacts := store.New(store.WithLogger(logger.Named("store")))
	shell := service.NewShell(contacts,
		service.WithLogger(logger.Named("shell")),
		service.WithDeleteDuration(cfg.Swipe.DeleteDuration))
	router := service.SetupHttpRouter(shell, cfg.Server.RequestLogging)

	logger.Info("Server starting", zap.String("addr", cfg.Server.Addr()))
	if err := router.Run(cfg.Server.Addr()); err != nil {
		logger.Error("Server stopped", zap.Error(err))
		return err
	}
	return nil
}
