package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/bailey339/websiteThatlegendjack/internal/auth"
	"github.com/bailey339/websiteThatlegendjack/internal/common"
	"github.com/bailey339/websiteThatlegendjack/internal/config"
	"github.com/bailey339/websiteThatlegendjack/internal/database"
	"github.com/bailey339/websiteThatlegendjack/internal/handlers"
	"github.com/bailey339/websiteThatlegendjack/internal/middlewares"
	"github.com/bailey339/websiteThatlegendjack/internal/middlewares/sessions"
	"github.com/bailey339/websiteThatlegendjack/internal/nowplaying"
	"github.com/bailey339/websiteThatlegendjack/internal/oauth"
	"github.com/bailey339/websiteThatlegendjack/internal/render"
	"github.com/bailey339/websiteThatlegendjack/internal/staff"
	"github.com/bailey339/websiteThatlegendjack/internal/store"
	"github.com/bailey339/websiteThatlegendjack/internal/tokens"
	"github.com/bailey339/websiteThatlegendjack/params"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/urfave/cli/v2"
)

var (
	app       *cli.App
	gitCommit string
	gitDate   string
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "YAML config file",
		Value: "config.yaml",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Enable debug logging",
	}
)

func init() {
	app = cli.NewApp()
	app.Name = "hub"
	app.EnableBashCompletion = true
	app.Usage = "ThatLegendJack streamer hub server"
	app.Flags = []cli.Flag{
		configFileFlag,
		debugFlag,
	}
	app.Commands = []*cli.Command{
		{
			Name:  "version",
			Usage: "Print version information",
			Action: func(ctx *cli.Context) error {
				fmt.Println(params.VersionWithCommit(gitCommit, gitDate))
				return nil
			},
		},
		{
			Name:  "token",
			Usage: "Inspect or clear the stored Spotify token",
			Subcommands: []*cli.Command{
				{
					Name:   "status",
					Usage:  "Show whether a Spotify account is connected",
					Action: tokenStatus,
				},
				{
					Name:   "clear",
					Usage:  "Disconnect the Spotify account",
					Action: tokenClear,
				},
			},
		},
		{
			Name:  "staff",
			Usage: "Manage staff accounts",
			Subcommands: []*cli.Command{
				{
					Name:      "hash-password",
					Usage:     "Print the bcrypt hash for a staff account password",
					ArgsUsage: "[password]",
					Action:    hashPassword,
				},
			},
		},
	}
	app.Action = run
}

func initLogger(debug bool) {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(ctx.String(configFileFlag.Name))
	if err != nil {
		return nil, err
	}
	if ctx.IsSet(debugFlag.Name) {
		cfg.Debug = ctx.Bool(debugFlag.Name)
	}
	initLogger(cfg.Debug)
	return cfg, nil
}

func initTokenStore(cfg *config.Config, storage *store.Storage) (tokens.Store, error) {
	switch cfg.TokenStore {
	case config.TokenStoreDatabase:
		db, err := database.Open(cfg.Database, cfg.Debug)
		if err != nil {
			return nil, fmt.Errorf("could not open database: %w", err)
		}
		return tokens.NewDBStore(db), nil
	case config.TokenStoreKV:
		if !storage.Durable() {
			slog.Warn("Spotify token is kept in memory and will be lost on restart", "storage", storage.Driver())
		}
		return tokens.NewKVStore(store.NewKVStorage(storage, "token:")), nil
	default:
		return nil, fmt.Errorf("unsupported token store: %s", cfg.TokenStore)
	}
}

func newSpotifyProvider(cfg *config.Config) *oauth.SpotifyOAuthProvider {
	return oauth.NewSpotifyOAuthProvider(oauth.SpotifyProviderOptions{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		RedirectURL:  cfg.Spotify.RedirectURL,
		Scopes:       cfg.Spotify.Scope,
		AuthURL:      cfg.Spotify.AuthURL,
		TokenURL:     cfg.Spotify.TokenURL,
	})
}

func sessionSecret(cfg *config.Config) string {
	if cfg.Session.Secret != "" {
		return cfg.Session.Secret
	}
	secret, err := common.RandomToken(32)
	if err != nil {
		panic(err)
	}
	slog.Warn("No session secret configured, pending authorizations will not survive a restart")
	return secret
}

func healthChecks(storage *store.Storage) map[string]handlers.HealthCheck {
	checks := make(map[string]handlers.HealthCheck)
	if rdb := storage.Redis(); rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return checks
}

func spaFallback(staticDir string) fiber.Handler {
	indexFile := filepath.Join(staticDir, "index.html")
	return func(ctx *fiber.Ctx) error {
		if ctx.Method() != fiber.MethodGet {
			return fiber.ErrNotFound
		}
		if _, err := os.Stat(indexFile); err != nil {
			return fiber.ErrNotFound
		}
		return ctx.SendFile(indexFile)
	}
}

func run(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		slog.Error("Could not load config file.", "error", err)
		return err
	}

	storage, err := store.NewStorage(cfg.Storage, cfg.RedisURL)
	if err != nil {
		return err
	}
	tokenStore, err := initTokenStore(cfg, storage)
	if err != nil {
		return err
	}

	provider := newSpotifyProvider(cfg)
	if !provider.Configured() {
		slog.Warn("Spotify client credentials are missing, connecting an account is disabled")
	}

	var (
		tokenManager      = tokens.NewManager(tokenStore, provider)
		pendingStore      = auth.NewPendingStore(store.NewKVStorage(storage, "pending:"), sessionSecret(cfg))
		authorizeService  = auth.NewAuthorizeService(provider, pendingStore, tokenManager)
		nowPlayingService = nowplaying.NewService(tokenManager, nil, cfg.Spotify.APIBaseURL)
		staffService      = staff.NewStaffService(cfg.Staff)
	)
	if !staffService.Enabled() {
		slog.Warn("No staff accounts configured, anyone can connect the Spotify account")
	}

	render.InitValues(fiber.Map{
		"siteName": cfg.AppName,
	})
	router := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		Views:        render.NewHtmlEngine(cfg.TemplateDir),
		ErrorHandler: middlewares.ErrorHandler,
		BodyLimit:    params.ServerBodyLimit,
		IdleTimeout:  params.ServerIdleTimeout,
		ReadTimeout:  params.ServerReadTimeout,
		WriteTimeout: params.ServerWriteTimeout,
	})
	router.Use(recover.New())
	if len(cfg.AllowOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(cfg.AllowOrigins, ","),
			AllowCredentials: true,
		}))
	}

	sessionStore := session.New(session.Config{
		Storage:        store.NewKVStorage(storage, "session:"),
		Expiration:     cfg.Session.SessionMaxAge,
		KeyLookup:      "cookie:" + cfg.Session.CookieName,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.Session.CookieSecure,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		KeyGenerator:   sessions.GenerateSessionID,
	})
	router.Use(sessions.SessionMiddleware(sessionStore))

	handlers.SetupRoutes(router, &handlers.Handlers{
		SpotifyAuth: handlers.NewSpotifyAuthHandler(authorizeService),
		API:         handlers.NewAPIHandler(nowPlayingService, tokenManager, cfg.DiscordUserID),
		Staff:       handlers.NewStaffHandler(staffService),
		Health:      handlers.NewHealthHandler(healthChecks(storage)),
	}, handlers.RouteOptions{
		StaffEnabled:   staffService.Enabled(),
		LimiterStorage: store.NewKVStorage(storage, "limiter:"),
	})
	router.Static("/", cfg.StaticDir, fiber.Static{Index: "index.html"})
	router.Get("*", spaFallback(cfg.StaticDir))

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-sigCtx.Done()
		slog.Info("Shutting down hub server")
		if err := router.ShutdownWithTimeout(params.ServerWriteTimeout); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting hub server", "address", cfg.ListenAddr, "storage", storage.Driver(), "tokenStore", cfg.TokenStore)
	if err := router.Listen(cfg.ListenAddr); err != nil {
		return err
	}
	return storage.Close()
}

func openTokenStore(ctx *cli.Context) (tokens.Store, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	storage, err := store.NewStorage(cfg.Storage, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	if cfg.TokenStore == config.TokenStoreKV && !storage.Durable() {
		return nil, errors.New("the in-memory token store only exists inside the running server")
	}
	return initTokenStore(cfg, storage)
}

func tokenStatus(ctx *cli.Context) error {
	tokenStore, err := openTokenStore(ctx)
	if err != nil {
		return err
	}
	token, err := tokenStore.Load(ctx.Context)
	if errors.Is(err, tokens.ErrTokenNotFound) {
		fmt.Println("Spotify: not connected")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println("Spotify: connected")
	fmt.Printf("  scope:      %s\n", token.Scope)
	fmt.Printf("  expires at: %s\n", token.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
	if !token.IsFresh(time.Now(), params.TokenExpiryMargin) {
		fmt.Println("  access token is stale and will be refreshed on the next request")
	}
	return nil
}

func tokenClear(ctx *cli.Context) error {
	tokenStore, err := openTokenStore(ctx)
	if err != nil {
		return err
	}
	if err := tokenStore.Clear(ctx.Context); err != nil {
		return err
	}
	fmt.Println("Spotify account disconnected")
	return nil
}

func hashPassword(ctx *cli.Context) error {
	password := ctx.Args().First()
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return err
		}
		password = strings.TrimRight(line, "\r\n")
	}
	hash, err := staff.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
