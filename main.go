// Command lost-cities-scorer starts the Lost Cities scoresheet server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing the scoresheet page, REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Settings come from the environment (optionally a .env file) and can be
// overridden by flags: host/port, preset directory, scoresheet expiry, preset
// hot reload, debug logging, and optional ngrok tunneling.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/lost-cities-scorer/api"
	"github.com/wricardo/lost-cities-scorer/game/config"
	"github.com/wricardo/lost-cities-scorer/game/form"
	"github.com/wricardo/lost-cities-scorer/game/service"
	"github.com/wricardo/lost-cities-scorer/game/session"
	"github.com/wricardo/lost-cities-scorer/transport/mcp"
	"github.com/wricardo/lost-cities-scorer/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Lost Cities Scorekeeper"
)

// Config holds the server settings. Environment variables provide the
// defaults and command-line flags override them.
type Config struct {
	Host         string        `env:"LOSTCITIES_HOST" envDefault:"localhost"`
	Port         int           `env:"LOSTCITIES_PORT" envDefault:"8080"`
	ConfigDir    string        `env:"CONFIG_DIR" envDefault:"configs"`
	Debug        bool          `env:"LOSTCITIES_DEBUG"`
	SheetTTL     time.Duration `env:"SHEET_TTL" envDefault:"24h"`
	WatchPresets bool          `env:"WATCH_PRESETS" envDefault:"true"`
	NgrokEnabled bool          `env:"NGROK_ENABLED"`
	NgrokAuth    string        `env:"NGROK_AUTHTOKEN"`
	NgrokDomain  string        `env:"NGROK_DOMAIN"`

	// Set from the command line only
	Version bool
	Mode    string
}

// Addr returns the host:port the HTTP server listens on
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// loadConfig reads the environment into a Config
func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// parseFlags applies command-line overrides on top of cfg and resolves the mode
func parseFlags(cfg Config, args []string) (Config, error) {
	fs := flag.NewFlagSet(AppName, flag.ContinueOnError)
	fs.StringVar(&cfg.Host, "host", cfg.Host, "HTTP server host")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	fs.StringVar(&cfg.ConfigDir, "config-dir", cfg.ConfigDir, "Directory containing scoring presets")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug logging")
	fs.DurationVar(&cfg.SheetTTL, "sheet-ttl", cfg.SheetTTL, "Remove scoresheets idle for longer than this")
	fs.BoolVar(&cfg.WatchPresets, "watch-presets", cfg.WatchPresets, "Reload presets when the preset directory changes")
	fs.BoolVar(&cfg.Version, "version", false, "Show version information")
	fs.BoolVar(&cfg.NgrokEnabled, "ngrok", cfg.NgrokEnabled, "Enable ngrok tunnel")
	fs.StringVar(&cfg.NgrokAuth, "ngrok-auth", cfg.NgrokAuth, "Ngrok auth token (or use NGROK_AUTHTOKEN env var)")
	fs.StringVar(&cfg.NgrokDomain, "ngrok-domain", cfg.NgrokDomain, "Custom ngrok domain (optional)")
	fs.Usage = func() { usage(fs) }

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	cfg.Mode = "server"
	if fs.NArg() > 0 {
		cfg.Mode = fs.Arg(0)
	}
	return cfg, nil
}

func usage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintf(out, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
	fmt.Fprintf(out, "%s v%s\n\n", AppName, Version)
	fmt.Fprintf(out, "Available modes:\n")
	fmt.Fprintf(out, "  server, http     Run HTTP server with scoresheet page, API, WebSocket, and MCP endpoint (default)\n")
	fmt.Fprintf(out, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
	fmt.Fprintf(out, "  mcp-stdio        Alias for stdio-mcp\n")
	fmt.Fprintf(out, "  mcp              Alias for stdio-mcp\n")
	fmt.Fprintf(out, "\nOptions:\n")
	fs.PrintDefaults()
	fmt.Fprintf(out, "\nExamples:\n")
	fmt.Fprintf(out, "  %s                    # Run HTTP server on default port 8080\n", os.Args[0])
	fmt.Fprintf(out, "  %s -port 9090         # Run HTTP server on port 9090\n", os.Args[0])
	fmt.Fprintf(out, "  %s stdio-mcp          # Run MCP stdio server\n", os.Args[0])
}

// services bundles the managers that background routines need next to the
// score service
type services struct {
	score    service.ScoreService
	sessions *session.Manager
	presets  *config.Manager
}

// main loads configuration, initializes services, and starts the selected mode.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	cfg, err = parseFlags(cfg, os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if cfg.Version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	if cfg.Debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	log.Printf("Starting %s v%s (mode: %s)", AppName, Version, cfg.Mode)

	svcs, err := initializeServices(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	startBackgroundRoutines(ctx, cfg, svcs)

	switch cfg.Mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		runStdioMCPWithInternalServer(ctx, cfg, svcs.score)

	case "server", "http":
		runHTTPServer(ctx, cfg, svcs.score)

	default:
		log.Fatalf("Unknown mode: %s. Use 'server' (default) or 'stdio-mcp'", cfg.Mode)
	}
}

// initializeServices wires the preset and scoresheet managers into the score service
func initializeServices(cfg Config) (*services, error) {
	presets, err := config.NewManager(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create preset manager: %w", err)
	}

	sessions := session.NewManager()

	return &services{
		score:    service.NewScoreService(sessions, presets),
		sessions: sessions,
		presets:  presets,
	}, nil
}

// startBackgroundRoutines starts scoresheet expiry and, when enabled, the
// preset directory watcher. Both stop when ctx is cancelled.
func startBackgroundRoutines(ctx context.Context, cfg Config, svcs *services) {
	go sessionCleanupRoutine(ctx, svcs.sessions, cfg.SheetTTL, cleanupInterval(cfg.SheetTTL))

	if cfg.WatchPresets {
		watcher := config.NewWatcher(svcs.presets, config.DefaultPollInterval, func() {
			log.Printf("[PRESETS] reloaded presets from %s", svcs.presets.Dir())
		})
		go func() {
			if err := watcher.Run(ctx); err != nil {
				log.Printf("Preset watcher stopped: %v", err)
			}
		}()
	}
}

// cleanupInterval checks for idle scoresheets often enough relative to ttl
func cleanupInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	if interval > time.Hour {
		interval = time.Hour
	}
	return interval
}

// sessionCleanupRoutine periodically removes scoresheets that have not been
// accessed within ttl
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := manager.CleanupExpiredSessions(ttl)
			if removed > 0 {
				log.Printf("Cleaned up %d expired scoresheets", removed)
			}
		}
	}
}

// newHub creates a WebSocket hub that applies client input events through the score service
func newHub(svc service.ScoreService) *websocket.Hub {
	return websocket.NewHub(func(ctx context.Context, sheetID string, ev form.Event) (*form.View, error) {
		result, err := svc.ApplyEvent(ctx, sheetID, ev)
		if err != nil {
			return nil, err
		}
		return result.View, nil
	})
}

// newRootHandler mounts the API server at the root and the MCP proxy at /mcp
func newRootHandler(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	return mainRouter
}

// runHTTPServer serves the page, REST API, WebSocket hub, and the /mcp proxy
// until ctx is cancelled. If ngrok is enabled it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, cfg Config, svc service.ScoreService) {
	hub := newHub(svc)
	go hub.Run(ctx)

	apiServer := api.NewServer(svc, hub)

	addr := cfg.Addr()
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))
	handler := newRootHandler(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("Scoresheet: http://%s/", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?sheet=<sheet_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	if cfg.NgrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cfg, handler)
		}()
	}

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is cancelled
func runNgrokTunnel(ctx context.Context, cfg Config, handler http.Handler) {
	authToken := cfg.NgrokAuth
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTH_TOKEN")
	}
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if cfg.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.NgrokDomain))
		log.Printf("Using custom ngrok domain: %s", cfg.NgrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	defer func() {
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  Scoresheet (ngrok): %s/", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	go func() {
		<-ctx.Done()
		tun.Close()
	}()

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// apiAvailable reports whether a scoresheet API answers its health check at baseURL
func apiAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It reuses the API at the configured address when it is up; otherwise it
// starts an internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, cfg Config, svc service.ScoreService) {
	externalURL := fmt.Sprintf("http://%s", cfg.Addr())
	log.Printf("Checking for external API server at %s...", externalURL)

	baseURL := externalURL
	if apiAvailable(externalURL) {
		log.Printf("External API server found at %s, using it for MCP", externalURL)
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatalf("Failed to get available port: %v", err)
		}
		internalAddr := listener.Addr().String()
		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		hub := newHub(svc)
		go hub.Run(ctx)

		httpServer := &http.Server{Handler: api.NewServer(svc, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()
		defer httpServer.Close()

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Printf("MCP stdio server ready (API at %s)", baseURL)

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		log.Fatalf("MCP stdio server error: %v", err)
	}
}
