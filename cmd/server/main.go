package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/urfave/cli/v3"

	"github.com/ugaemi/parkingdrive-server/internal/config"
	"github.com/ugaemi/parkingdrive-server/internal/game"
	"github.com/ugaemi/parkingdrive-server/internal/handler"
	"github.com/ugaemi/parkingdrive-server/internal/room"
	"github.com/ugaemi/parkingdrive-server/internal/store"
	"github.com/ugaemi/parkingdrive-server/internal/ws"
)

const shutdownTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.Load()

	cmd := &cli.Command{
		Name:  "parkingdrive-server",
		Usage: "multiplayer parking game server",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "HTTP listen address",
				Value:   cfg.Addr(),
				Sources: cli.EnvVars("ADDR"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
				Value: cfg.LogLevel,
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "text or json",
				Value: cfg.LogFormat,
			},
			&cli.StringFlag{
				Name:  "database-url",
				Usage: "Postgres connection string; empty keeps data in memory",
				Value: cfg.DatabaseURL,
			},
			&cli.BoolFlag{
				Name:  "memory",
				Usage: "keep accounts and results in memory even if a database is configured",
			},
		}, config.BoardFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg.LogLevel = cmd.String("log-level")
			cfg.LogFormat = cmd.String("log-format")
			cfg.DatabaseURL = cmd.String("database-url")
			if cmd.Bool("memory") {
				cfg.DatabaseURL = ""
			}
			setupLogger(cfg)
			return run(ctx, cfg, config.BoardFromCommand(cmd), cmd.String("addr"))
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, board game.BoardConfig, addr string) error {
	if err := board.Validate(); err != nil {
		return err
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	hub := ws.NewHub()
	rm := room.NewManager(board, st)
	router := handler.NewRouter(rm, st)

	hub.OnConnect = router.StartAuthTimeout
	hub.OnMessage = router.HandleMessage
	hub.OnDisconnect = router.HandleDisconnect

	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("GET /results", func(w http.ResponseWriter, r *http.Request) {
		handleResults(st, w, r)
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(hub, w, r)
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", addr, "board", fmt.Sprintf("%vx%v", board.Width, board.Height))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	rm.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-hub.Done()
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.DatabaseURL == "" {
		slog.Info("using in-memory store")
		return store.NewMemoryStore(), nil
	}
	st, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	slog.Info("connected to postgres")
	return st, nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func handleResults(results store.ResultStore, w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := results.RecentResults(r.Context(), limit)
	if err != nil {
		slog.Error("failed to load results", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*store.Result{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func handleWebSocket(hub *ws.Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	client := ws.NewClient(uuid.New().String(), hub, conn)
	select {
	case hub.Register <- client:
	case <-hub.Done():
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

func setupLogger(cfg *config.Config) {
	var h slog.Handler
	opts := &slog.HandlerOptions{}

	switch cfg.LogLevel {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	switch cfg.LogFormat {
	case "json":
		h = slog.NewJSONHandler(os.Stdout, opts)
	default:
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(h))
}
