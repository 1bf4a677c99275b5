// Command onecupctl is the operator CLI for the One Cup site: impact
// overrides, staff accounts and seed data.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/onecuponetree/onecup/internal/app/bootstrap"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose  bool
	mongoURI string
	dbName   string
	timeout  time.Duration

	logger *zap.Logger
	db     *mongo.Database
	client *mongo.Client
)

var rootCmd = &cobra.Command{
	Use:   "onecupctl",
	Short: "Operator tools for the One Cup impact site",
	Long: `onecupctl manages the data behind the impact dashboard.

Connection settings default to ONECUP_MONGO_URI and ONECUP_MONGO_DATABASE,
read from the environment or a .env file in the working directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}

		if logger == nil {
			cfg := zap.NewProductionConfig()
			cfg.Encoding = "console"
			if verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			l, err := cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
		}

		// Tests inject db directly.
		if db != nil {
			return nil
		}
		return connect(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if client != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func connect(ctx context.Context) error {
	uri := firstNonEmpty(mongoURI, os.Getenv("ONECUP_MONGO_URI"), "mongodb://localhost:27017")
	name := firstNonEmpty(dbName, os.Getenv("ONECUP_MONGO_DATABASE"), "onecup")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	deps, err := bootstrap.ConnectDB(ctx, nil, bootstrap.AppConfig{MongoURI: uri, MongoDatabase: name}, logger)
	if err != nil {
		return err
	}
	client = deps.MongoClient
	db = deps.MongoDatabase
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// opContext bounds a single command's database work.
func opContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, timeout)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB URI (default $ONECUP_MONGO_URI)")
	rootCmd.PersistentFlags().StringVar(&dbName, "db", "", "database name (default $ONECUP_MONGO_DATABASE or onecup)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "per-command database timeout")

	statsCmd.AddCommand(statsListCmd, statsSetCmd, statsClearCmd)
	staffCmd.AddCommand(staffCreateCmd, staffGrantCmd, staffRevokeCmd)
	rootCmd.AddCommand(statsCmd, staffCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
