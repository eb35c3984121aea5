package service

import (
	"context"
	"time"

	"github.com/wricardo/lost-cities-scorer/game/engine"
	"github.com/wricardo/lost-cities-scorer/game/form"
)

// ScoreService defines all scoresheet operations
type ScoreService interface {
	// Scoresheet Management
	CreateSheet(ctx context.Context, req CreateSheetRequest) (*SheetInfo, error)
	GetSheet(ctx context.Context, sheetID string) (*SheetInfo, error)
	ListSheets(ctx context.Context) ([]*SheetInfo, error)
	DeleteSheet(ctx context.Context, sheetID string) error

	// Form Operations
	ApplyEvent(ctx context.Context, sheetID string, ev form.Event) (*EventResult, error)
	SetParameters(ctx context.Context, sheetID string, params engine.ScoringParameters) (*form.View, error)
	ReplacePlayer(ctx context.Context, sheetID string, idx int, player engine.Player) (*form.View, error)
	Reset(ctx context.Context, sheetID string) (*form.View, error)
	GetView(ctx context.Context, sheetID string) (*form.View, error)

	// Stateless scoring
	Calculate(ctx context.Context, req CalculateRequest) (*form.View, error)

	// Presets
	ListPresets(ctx context.Context) ([]*PresetInfo, error)
	LoadPreset(ctx context.Context, name string) (*engine.Preset, error)
	SavePreset(ctx context.Context, name string, preset *engine.Preset) error
}

// SessionManager defines scoresheet storage operations
type SessionManager interface {
	Create(id string, preset *engine.Preset, names [engine.Players]string) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles scoring preset loading
type ConfigManager interface {
	LoadPreset(name string) (*engine.Preset, error)
	ListPresets() ([]*PresetInfo, error)
	GetDefault() *engine.Preset
	SavePreset(name string, preset *engine.Preset) error
}

// Session represents a live scoresheet
type Session struct {
	ID             string
	Controller     *form.Controller
	PresetName     string
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
