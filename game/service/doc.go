// Package service provides the business logic layer for the Lost Cities scorekeeper.
//
// The service package implements:
//   - Multi-scoresheet management
//   - Scoring preset lookup and storage
//   - Applying form input events to a scoresheet
//   - Stateless score calculation
//
// Core Interfaces:
//
// ScoreService is the main service interface providing high-level operations.
// SessionManager handles scoresheet creation, retrieval, and lifecycle.
// ConfigManager manages scoring preset loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the form controller. Each scoresheet owns one form.Controller; the service
// serializes every operation so an input event is applied atomically before
// the next one is read.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	scoreService := service.NewScoreService(sessionMgr, configMgr)
//
//	sheet, err := scoreService.CreateSheet(ctx, service.CreateSheetRequest{Preset: "standard"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := scoreService.ApplyEvent(ctx, sheet.ID, form.Event{
//		Type: form.EventCards, Player: 0, Slot: 0, Value: "2 3 9",
//	})
//
// Scoresheets live in memory only and are identified by short 4-character IDs.
package service
