package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/wricardo/lost-cities-scorer/game/engine"
	"github.com/wricardo/lost-cities-scorer/game/form"
	"github.com/wricardo/lost-cities-scorer/game/service"
	"github.com/wricardo/lost-cities-scorer/transport/websocket"
	"github.com/wricardo/lost-cities-scorer/web"
)

// Server represents the REST API server
type Server struct {
	service service.ScoreService
	hub     *websocket.Hub
	router  *mux.Router
	handler http.Handler
}

// NewServer creates a new API server. hub may be nil.
func NewServer(scoreService service.ScoreService, hub *websocket.Hub) *Server {
	s := &Server{
		service: scoreService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()

	// CORS wraps the whole router so preflight requests reach it
	s.handler = cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})(s.router)

	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	// Page
	s.router.HandleFunc("/", s.handleIndex).Methods("GET")
	s.router.HandleFunc("/sheets/{id}", s.handleSheetPage).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()

	// Scoresheet management
	api.HandleFunc("/sheets", s.handleCreateSheet).Methods("POST")
	api.HandleFunc("/sheets", s.handleListSheets).Methods("GET")
	api.HandleFunc("/sheets/{id}", s.handleGetSheet).Methods("GET")
	api.HandleFunc("/sheets/{id}", s.handleDeleteSheet).Methods("DELETE")

	// Form operations
	api.HandleFunc("/sheets/{id}/view", s.handleGetView).Methods("GET")
	api.HandleFunc("/sheets/{id}/events", s.handleEvent).Methods("POST")
	api.HandleFunc("/sheets/{id}/parameters", s.handleSetParameters).Methods("PUT")
	api.HandleFunc("/sheets/{id}/players/{idx}", s.handleReplacePlayer).Methods("PUT")
	api.HandleFunc("/sheets/{id}/reset", s.handleReset).Methods("POST")

	// Stateless scoring
	api.HandleFunc("/score", s.handleCalculate).Methods("POST")

	// Presets
	api.HandleFunc("/presets", s.handleListPresets).Methods("GET")
	api.HandleFunc("/presets", s.handleCreatePreset).Methods("POST")
	api.HandleFunc("/presets/{name}", s.handleGetPreset).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors to HTTP status codes
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrPresetNotFound):
		return http.StatusNotFound
	case errors.Is(err, form.ErrInvalidPlayer),
		errors.Is(err, form.ErrInvalidSlot),
		errors.Is(err, form.ErrInvalidField),
		errors.Is(err, form.ErrInvalidEvent),
		errors.Is(err, form.ErrInvalidCards),
		errors.Is(err, service.ErrInvalidPreset):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// decodeBody decodes an optional JSON body. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Server) broadcast(sheetID string, view *form.View) {
	if s.hub != nil && view != nil {
		s.hub.BroadcastView(sheetID, view)
	}
}

// Page Handlers

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.CreateSheet(r.Context(), service.CreateSheetRequest{
		Preset: r.URL.Query().Get("preset"),
	})
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	http.Redirect(w, r, "/sheets/"+info.ID, http.StatusSeeOther)
}

func (s *Server) handleSheetPage(w http.ResponseWriter, r *http.Request) {
	sheetID := mux.Vars(r)["id"]

	view, err := s.service.GetView(r.Context(), sheetID)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	templ.Handler(web.Page(*view, sheetID)).ServeHTTP(w, r)
}

// Scoresheet Handlers

func (s *Server) handleCreateSheet(w http.ResponseWriter, r *http.Request) {
	var req service.CreateSheetRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	info, err := s.service.CreateSheet(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Printf("[SHEET] created id=%s preset=%s", info.ID, info.Preset)
	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListSheets(w http.ResponseWriter, r *http.Request) {
	sheets, err := s.service.ListSheets(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// Parse query parameters
	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sheets to return

	sort.Slice(sheets, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sheets[i].CreatedAt, sheets[j].CreatedAt
		} else {
			ti, tj = sheets[i].LastAccessedAt, sheets[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	if limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit >= 0 && limit < len(sheets) {
			sheets = sheets[:limit]
		}
	}

	respondJSON(w, http.StatusOK, sheets)
}

func (s *Server) handleGetSheet(w http.ResponseWriter, r *http.Request) {
	sheetID := mux.Vars(r)["id"]

	info, err := s.service.GetSheet(r.Context(), sheetID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSheet(w http.ResponseWriter, r *http.Request) {
	sheetID := mux.Vars(r)["id"]

	if err := s.service.DeleteSheet(r.Context(), sheetID); err != nil {
		respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(sheetID, "sheet_deleted", nil)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Scoresheet %s deleted", sheetID),
	})
}

// Form Handlers

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	sheetID := mux.Vars(r)["id"]

	view, err := s.service.GetView(r.Context(), sheetID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	sheetID := mux.Vars(r)["id"]

	var ev form.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.ApplyEvent(r.Context(), sheetID, ev)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if result.Accepted {
		s.broadcast(sheetID, result.View)
	}

	// Compact server log for observability
	log.Printf("[EVENT] sheet=%s type=%s player=%d slot=%d accepted=%t result=%q",
		sheetID, ev.Type, ev.Player, ev.Slot, result.Accepted, result.View.Result)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSetParameters(w http.ResponseWriter, r *http.Request) {
	sheetID := mux.Vars(r)["id"]

	var params engine.ScoringParameters
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := s.service.SetParameters(r.Context(), sheetID, params)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sheetID, view)
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleReplacePlayer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sheetID := vars["id"]

	idx, err := strconv.Atoi(vars["idx"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Player index must be a number")
		return
	}

	var player engine.Player
	if err := json.NewDecoder(r.Body).Decode(&player); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := s.service.ReplacePlayer(r.Context(), sheetID, idx, player)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sheetID, view)
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sheetID := mux.Vars(r)["id"]

	view, err := s.service.Reset(r.Context(), sheetID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sheetID, view)
	log.Printf("[EVENT] sheet=%s type=reset", sheetID)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Scoresheet reset successfully",
		"view":    view,
	})
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req service.CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := s.service.Calculate(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// Preset Handlers

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.service.ListPresets(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if presets == nil {
		presets = []*service.PresetInfo{}
	}
	respondJSON(w, http.StatusOK, presets)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	// Remove file extension if present
	name = strings.TrimSuffix(strings.TrimSuffix(name, ".json"), ".toml")

	preset, err := s.service.LoadPreset(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, preset)
}

func (s *Server) handleCreatePreset(w http.ResponseWriter, r *http.Request) {
	var preset engine.Preset
	if err := json.NewDecoder(r.Body).Decode(&preset); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(preset.Name) == "" {
		respondError(w, http.StatusBadRequest, "Preset name is required")
		return
	}

	if err := s.service.SavePreset(r.Context(), preset.Name, &preset); err != nil {
		status := statusFor(err)
		respondError(w, status, fmt.Sprintf("Failed to save preset: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Preset saved successfully",
		"preset_id": preset.Name,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sheetID := r.URL.Query().Get("sheet")
	if sheetID == "" {
		http.Error(w, "sheet parameter required", http.StatusBadRequest)
		return
	}

	if s.hub == nil {
		http.Error(w, "WebSocket not available", http.StatusServiceUnavailable)
		return
	}

	// Verify scoresheet exists
	view, err := s.service.GetView(r.Context(), sheetID)
	if err != nil {
		http.Error(w, "Invalid scoresheet", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sheetID, view)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
