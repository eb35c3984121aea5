package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/wricardo/lost-cities-scorer/api"
	"github.com/wricardo/lost-cities-scorer/game/form"
	"github.com/wricardo/lost-cities-scorer/game/service"
	"github.com/wricardo/lost-cities-scorer/transport/mcp"
	"github.com/wricardo/lost-cities-scorer/transport/websocket"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	expectedAppName := "Lost Cities Scorekeeper"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"LOSTCITIES_HOST", "LOSTCITIES_PORT", "CONFIG_DIR", "SHEET_TTL", "WATCH_PRESETS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.Host != "localhost" {
		t.Errorf("Expected host localhost, got %s", cfg.Host)
	}
	if cfg.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Port)
	}
	if cfg.ConfigDir != "configs" {
		t.Errorf("Expected config dir configs, got %s", cfg.ConfigDir)
	}
	if cfg.SheetTTL != 24*time.Hour {
		t.Errorf("Expected sheet TTL 24h, got %v", cfg.SheetTTL)
	}
	if !cfg.WatchPresets {
		t.Error("Expected preset watching to be enabled by default")
	}
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("LOSTCITIES_HOST", "0.0.0.0")
	t.Setenv("LOSTCITIES_PORT", "9090")
	t.Setenv("SHEET_TTL", "30m")
	t.Setenv("WATCH_PRESETS", "false")
	t.Setenv("NGROK_ENABLED", "true")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.Addr() != "0.0.0.0:9090" {
		t.Errorf("Expected addr 0.0.0.0:9090, got %s", cfg.Addr())
	}
	if cfg.SheetTTL != 30*time.Minute {
		t.Errorf("Expected sheet TTL 30m, got %v", cfg.SheetTTL)
	}
	if cfg.WatchPresets {
		t.Error("Expected preset watching to be disabled")
	}
	if !cfg.NgrokEnabled {
		t.Error("Expected ngrok to be enabled")
	}
}

func TestLoadConfig_InvalidPort(t *testing.T) {
	t.Setenv("LOSTCITIES_PORT", "eighty")

	if _, err := loadConfig(); err == nil {
		t.Error("Expected error for non-numeric port")
	}
}

func TestParseFlags(t *testing.T) {
	base := Config{Host: "localhost", Port: 8080, ConfigDir: "configs", SheetTTL: time.Hour}

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg Config)
	}{
		{
			name: "defaults keep environment values",
			args: nil,
			check: func(t *testing.T, cfg Config) {
				if cfg.Port != 8080 || cfg.Mode != "server" {
					t.Errorf("Expected port 8080 in server mode, got %d in %s", cfg.Port, cfg.Mode)
				}
			},
		},
		{
			name: "flags override",
			args: []string{"-port", "9191", "-config-dir", "/tmp/presets", "-sheet-ttl", "5m", "-debug"},
			check: func(t *testing.T, cfg Config) {
				if cfg.Port != 9191 {
					t.Errorf("Expected port 9191, got %d", cfg.Port)
				}
				if cfg.ConfigDir != "/tmp/presets" {
					t.Errorf("Expected config dir override, got %s", cfg.ConfigDir)
				}
				if cfg.SheetTTL != 5*time.Minute {
					t.Errorf("Expected sheet TTL 5m, got %v", cfg.SheetTTL)
				}
				if !cfg.Debug {
					t.Error("Expected debug to be enabled")
				}
			},
		},
		{
			name: "mode argument",
			args: []string{"-port", "9090", "stdio-mcp"},
			check: func(t *testing.T, cfg Config) {
				if cfg.Mode != "stdio-mcp" {
					t.Errorf("Expected stdio-mcp mode, got %s", cfg.Mode)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseFlags(base, tt.args)
			if err != nil {
				t.Fatalf("parseFlags failed: %v", err)
			}
			tt.check(t, cfg)
		})
	}

	if _, err := parseFlags(base, []string{"-port", "x"}); err == nil {
		t.Error("Expected error for invalid port flag")
	}
}

func TestCleanupInterval(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want time.Duration
	}{
		{time.Second, time.Minute},
		{20 * time.Minute, 5 * time.Minute},
		{24 * time.Hour, time.Hour},
	}
	for _, tt := range tests {
		if got := cleanupInterval(tt.ttl); got != tt.want {
			t.Errorf("cleanupInterval(%v) = %v, want %v", tt.ttl, got, tt.want)
		}
	}
}

func TestInitializeServices(t *testing.T) {
	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	svcs, err := initializeServices(Config{ConfigDir: "configs"})
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	presets, err := svcs.score.ListPresets(context.Background())
	if err != nil {
		t.Fatalf("ListPresets failed: %v", err)
	}
	if len(presets) == 0 {
		t.Error("Expected bundled presets to be listed")
	}

	if svcs.presets.GetDefault().Name != "standard" {
		t.Errorf("Expected standard default preset, got %s", svcs.presets.GetDefault().Name)
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	_, err := initializeServices(Config{ConfigDir: "/non/existent/path"})
	if err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestSessionCleanupRoutine(t *testing.T) {
	svcs, err := initializeServices(Config{ConfigDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	if _, err := svcs.score.CreateSheet(context.Background(), service.CreateSheetRequest{}); err != nil {
		t.Fatalf("CreateSheet failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sessionCleanupRoutine(ctx, svcs.sessions, time.Nanosecond, 10*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for svcs.sessions.Count() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("Expected idle scoresheet to be removed")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestNewHub_AppliesEvents(t *testing.T) {
	svcs, err := initializeServices(Config{ConfigDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sheet, err := svcs.score.CreateSheet(ctx, service.CreateSheetRequest{})
	if err != nil {
		t.Fatalf("CreateSheet failed: %v", err)
	}

	hub := newHub(svcs.score)
	go hub.Run(ctx)

	ts := httptest.NewServer(api.NewServer(svcs.score, hub))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?sheet=" + sheet.ID
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	readView := func() *form.View {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg websocket.Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("Failed to read message: %v", err)
		}
		if msg.View == nil {
			t.Fatalf("Expected view in message, got event %q", msg.Event)
		}
		return msg.View
	}

	// initial view
	readView()

	conn.WriteJSON(form.Event{Type: form.EventMultiplier, Player: 0, Slot: 0, Value: "1"})
	readView()

	conn.WriteJSON(form.Event{Type: form.EventCards, Player: 0, Slot: 0, Value: "2 3 9"})
	view := readView()
	if view.Players[0].Score != -12 {
		t.Errorf("Expected score -12, got %d", view.Players[0].Score)
	}
}

func TestRootHandler(t *testing.T) {
	dir := t.TempDir()
	preset := `{"name":"standard","parameters":{"base_value":20,"bonus_threshold":8,"bonus_value":20}}`
	if err := os.WriteFile(filepath.Join(dir, "standard.json"), []byte(preset), 0644); err != nil {
		t.Fatalf("Failed to write preset: %v", err)
	}

	svcs, err := initializeServices(Config{ConfigDir: dir})
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	apiServer := api.NewServer(svcs.score, nil)
	ts := httptest.NewServer(newRootHandler(apiServer, mcp.NewClient("http://127.0.0.1:0")))
	defer ts.Close()

	t.Run("health", func(t *testing.T) {
		if !apiAvailable(ts.URL) {
			t.Error("Expected API to report healthy")
		}
	})

	t.Run("mcp rejects GET", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/mcp")
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("Expected status 405, got %d", resp.StatusCode)
		}
	})

	t.Run("mcp ping", func(t *testing.T) {
		body := []byte(`{"jsonrpc":"2.0","id":1,"method":"ping"}`)
		resp, err := http.Post(ts.URL+"/mcp", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		defer resp.Body.Close()

		var buf bytes.Buffer
		buf.ReadFrom(resp.Body)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, buf.String())
		}
		if !strings.Contains(buf.String(), `"jsonrpc":"2.0"`) {
			t.Errorf("Expected JSON-RPC response, got %s", buf.String())
		}
	})

	t.Run("index redirects to new sheet", func(t *testing.T) {
		client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}}
		resp, err := client.Get(ts.URL + "/")
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusSeeOther {
			t.Errorf("Expected status 303, got %d", resp.StatusCode)
		}
		if !strings.HasPrefix(resp.Header.Get("Location"), "/sheets/") {
			t.Errorf("Expected redirect to a scoresheet, got %s", resp.Header.Get("Location"))
		}
	})
}

func TestApiAvailable_Down(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	if apiAvailable(ts.URL) {
		t.Error("Expected unhealthy API to be reported unavailable")
	}
}
