// Package web renders the Lost Cities scoresheet page.
//
// The page is a thin render surface over a server-held scoresheet: every
// input sends an event over the sheet's WebSocket (falling back to the REST
// events endpoint) and the server answers with a freshly derived view that
// the page applies in place.
//
// Page returns a templ.Component so handlers can serve it with templ.Handler.
package web
