package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/DrDeranged/bloompad-final3/internal/catalog"
	"github.com/DrDeranged/bloompad-final3/internal/chat"
	"github.com/DrDeranged/bloompad-final3/internal/eventbus"
	"github.com/DrDeranged/bloompad-final3/internal/httpapi"
	"github.com/DrDeranged/bloompad-final3/internal/session"
	"github.com/DrDeranged/bloompad-final3/internal/store/gormstore"
	"github.com/DrDeranged/bloompad-final3/internal/streaming"
	"github.com/DrDeranged/bloompad-final3/pkg/wallet"
)

const (
	flagDatabaseURL       = "database-url"
	flagListenAddr        = "listen-addr"
	flagAllowedOrigins    = "allowed-origins"
	flagSessionSigningKey = "session-signing-key"
	flagSessionTTL        = "session-ttl"
	flagStreamAPIKey      = "stream-api-key"
	flagStreamGatewayURL  = "stream-gateway-url"
	flagConnectLatency    = "connect-latency"
	flagPurchaseLatency   = "purchase-latency"

	configKeyDatabaseURL       = "database_url"
	configKeyListenAddr        = "listen_addr"
	configKeyAllowedOrigins    = "allowed_origins"
	configKeySessionSigningKey = "session_signing_key"
	configKeySessionTTL        = "session_ttl"
	configKeyStreamAPIKey      = "stream_api_key"
	configKeyStreamGatewayURL  = "stream_gateway_url"
	configKeyConnectLatency    = "connect_latency"
	configKeyPurchaseLatency   = "purchase_latency"

	defaultDatabaseURL = "sqlite:///tmp/bloompad.db"
	defaultListenAddr  = ":9090"
)

type runtimeConfig struct {
	DatabaseURL       string
	ListenAddr        string
	AllowedOrigins    string
	SessionSigningKey string
	SessionTTL        time.Duration
	StreamAPIKey      string
	StreamGatewayURL  string
	ConnectLatency    time.Duration
	PurchaseLatency   time.Duration
}

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bloompadd: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := &runtimeConfig{}
	cmd := &cobra.Command{
		Use:           "bloompadd",
		Short:         "Bloompad launchpad demo API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd, cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg)
		},
	}

	cmd.Flags().String(flagDatabaseURL, defaultDatabaseURL, "Database connection string (postgres:// or sqlite path)")
	cmd.Flags().String(flagListenAddr, defaultListenAddr, "HTTP listen address")
	cmd.Flags().String(flagAllowedOrigins, "", "Comma-delimited CORS origins")
	cmd.Flags().String(flagSessionSigningKey, "", "HMAC key for session tokens")
	cmd.Flags().Duration(flagSessionTTL, 0, "Session token lifetime")
	cmd.Flags().String(flagStreamAPIKey, "", "Streaming gateway API key (placeholder streams when empty)")
	cmd.Flags().String(flagStreamGatewayURL, "", "Streaming gateway base URL")
	cmd.Flags().Duration(flagConnectLatency, 0, "Simulated wallet connect delay")
	cmd.Flags().Duration(flagPurchaseLatency, 0, "Simulated purchase delay")

	return cmd
}

func loadConfig(cmd *cobra.Command, cfg *runtimeConfig) error {
	_ = godotenv.Load()

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	bindings := map[string]string{
		configKeyDatabaseURL:       "BLOOMPAD_DATABASE_URL",
		configKeyListenAddr:        "BLOOMPAD_LISTEN_ADDR",
		configKeyAllowedOrigins:    "BLOOMPAD_ALLOWED_ORIGINS",
		configKeySessionSigningKey: "BLOOMPAD_SESSION_SIGNING_KEY",
		configKeySessionTTL:        "BLOOMPAD_SESSION_TTL",
		configKeyStreamAPIKey:      "BLOOMPAD_STREAM_API_KEY",
		configKeyStreamGatewayURL:  "BLOOMPAD_STREAM_GATEWAY_URL",
		configKeyConnectLatency:    "BLOOMPAD_CONNECT_LATENCY",
		configKeyPurchaseLatency:   "BLOOMPAD_PURCHASE_LATENCY",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			return err
		}
	}

	flags := map[string]string{
		configKeyDatabaseURL:       flagDatabaseURL,
		configKeyListenAddr:        flagListenAddr,
		configKeyAllowedOrigins:    flagAllowedOrigins,
		configKeySessionSigningKey: flagSessionSigningKey,
		configKeySessionTTL:        flagSessionTTL,
		configKeyStreamAPIKey:      flagStreamAPIKey,
		configKeyStreamGatewayURL:  flagStreamGatewayURL,
		configKeyConnectLatency:    flagConnectLatency,
		configKeyPurchaseLatency:   flagPurchaseLatency,
	}
	for key, flag := range flags {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}

	cfg.DatabaseURL = viper.GetString(configKeyDatabaseURL)
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDatabaseURL
	}
	cfg.ListenAddr = viper.GetString(configKeyListenAddr)
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	cfg.AllowedOrigins = viper.GetString(configKeyAllowedOrigins)
	cfg.SessionSigningKey = viper.GetString(configKeySessionSigningKey)
	cfg.SessionTTL = viper.GetDuration(configKeySessionTTL)
	cfg.StreamAPIKey = viper.GetString(configKeyStreamAPIKey)
	cfg.StreamGatewayURL = viper.GetString(configKeyStreamGatewayURL)
	cfg.ConnectLatency = viper.GetDuration(configKeyConnectLatency)
	cfg.PurchaseLatency = viper.GetDuration(configKeyPurchaseLatency)

	if cfg.SessionSigningKey == "" {
		return fmt.Errorf("session signing key is required")
	}
	return nil
}

func runServer(ctx context.Context, cfg *runtimeConfig) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	gormDB, cleanup, err := openDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database open: %w", err)
	}
	defer func() { _ = cleanup() }()

	if err := gormstore.Migrate(gormDB); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	store := gormstore.New(gormDB)

	bus := eventbus.New()

	connectLatency, purchaseLatency := walletLatencies(cfg)
	walletService, err := wallet.NewService(ctx, store,
		wallet.WithOperationLogger(&zapOperationLogger{logger: logger}),
		wallet.WithCommandSource(bus),
		wallet.WithLatencies(connectLatency, purchaseLatency),
	)
	if err != nil {
		return fmt.Errorf("wallet service init: %w", err)
	}
	defer walletService.Close()

	catalogService, err := catalog.NewService(store, nil)
	if err != nil {
		return fmt.Errorf("catalog service init: %w", err)
	}

	assistant, err := chat.NewAssistant(store, nil)
	if err != nil {
		return fmt.Errorf("assistant init: %w", err)
	}

	sessions, err := session.NewManager(cfg.SessionSigningKey, cfg.SessionTTL, nil)
	if err != nil {
		return fmt.Errorf("session manager init: %w", err)
	}

	var streams streaming.Provider
	if cfg.StreamAPIKey != "" {
		streams = streaming.NewGatewayClient(cfg.StreamGatewayURL, cfg.StreamAPIKey, nil)
	} else {
		streams = streaming.NewPlaceholderProvider(nil)
	}

	serverConfig := httpapi.Config{
		ListenAddr:     cfg.ListenAddr,
		AllowedOrigins: httpapi.ParseAllowedOrigins(cfg.AllowedOrigins),
	}
	return httpapi.Run(ctx, serverConfig, httpapi.Dependencies{
		Logger:    logger,
		Wallet:    walletService,
		Catalog:   catalogService,
		Assistant: assistant,
		Streams:   streams,
		Sessions:  sessions,
		Bus:       bus,
	})
}

// walletLatencies resolves the simulated delays. Each override applies
// independently; a value left unset keeps the wallet default.
func walletLatencies(cfg *runtimeConfig) (time.Duration, time.Duration) {
	connect := cfg.ConnectLatency
	if connect <= 0 {
		connect = wallet.DefaultConnectLatency
	}
	purchase := cfg.PurchaseLatency
	if purchase <= 0 {
		purchase = wallet.DefaultPurchaseLatency
	}
	return connect, purchase
}

// zapOperationLogger forwards wallet operation callbacks into structured logs.
type zapOperationLogger struct {
	logger *zap.Logger
}

func (adapter *zapOperationLogger) LogOperation(_ context.Context, entry wallet.OperationLog) {
	fields := []zap.Field{
		zap.String("operation", entry.Operation),
		zap.String("status", entry.Status),
	}
	if entry.Address != "" {
		fields = append(fields, zap.String("address", entry.Address))
	}
	if entry.Symbol != "" {
		fields = append(fields, zap.String("symbol", entry.Symbol))
	}
	if entry.Amount > 0 {
		fields = append(fields, zap.Int64("amount", entry.Amount))
	}
	if entry.Error != nil {
		fields = append(fields, zap.Error(entry.Error))
		adapter.logger.Warn("wallet operation failed", fields...)
		return
	}
	adapter.logger.Info("wallet operation", fields...)
}

func openDatabase(ctx context.Context, dsn string) (*gorm.DB, func() error, error) {
	driver, sqlitePath, err := resolveDriver(dsn)
	if err != nil {
		return nil, nil, err
	}

	var db *gorm.DB
	switch driver {
	case "postgres":
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{})
	default:
		return nil, nil, fmt.Errorf("unsupported database scheme %q", driver)
	}
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() error { return sqlDB.Close() }
	return db.WithContext(ctx), cleanup, nil
}

func resolveDriver(dsn string) (string, string, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres", "", nil
	}
	if strings.HasPrefix(dsn, "sqlite://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", "", fmt.Errorf("parse sqlite url: %w", err)
		}
		path := u.Path
		if path == "" {
			path = u.Host
		}
		if path == "" || path == "/" {
			path = "bloompad.db"
		}
		sqlitePath, err := normalizeSQLitePath(path)
		return "sqlite", sqlitePath, err
	}
	// Treat everything else as a direct sqlite path.
	sqlitePath, err := normalizeSQLitePath(dsn)
	return "sqlite", sqlitePath, err
}

func normalizeSQLitePath(path string) (string, error) {
	if path == ":memory:" {
		return path, nil
	}
	if strings.HasPrefix(path, "/") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", err
		}
		return path, nil
	}
	abs := filepath.Join(".", path)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}
	return abs, nil
}
