// Package session provides scoresheet storage for the Lost Cities scorekeeper.
//
// The session package implements:
//   - Thread-safe scoresheet storage and retrieval
//   - Unique scoresheet ID generation
//   - Scoresheet lifecycle management
//   - Expiration of idle scoresheets
//
// Core Types:
//
// Manager is the session manager that handles all scoresheet operations.
// Each session (service.Session) owns one form.Controller together with
// metadata like creation time and last access time.
//
// Session Identifiers:
//
// Scoresheets use 4-character hexadecimal IDs for easy sharing. IDs are
// looked up case-insensitively and generated from crypto/rand.
//
// Storage:
//
// Scoresheets are held in memory only. They are removed explicitly or by
// CleanupExpiredSessions once they have been idle longer than the retention
// window; nothing survives a restart.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", engine.NewDefaultPreset(), engine.DefaultPlayerNames())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
package session
