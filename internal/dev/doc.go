// Package dev provides the development server and hot update pipeline.
//
// This package implements:
//   - File watching for source changes
//   - Full bundle rebuilds through the external bundler
//   - Change propagation along the module graph's reverse edges
//   - WebSocket broadcast of per-module hot updates
//   - Error overlay in browser
//
// # Architecture
//
// The development server consists of several components:
//
//   - Watcher: Monitors the file system for changes
//   - Pipeline: Resolves affected modules and transforms each one
//   - Hub: Delivers update and reload messages via WebSocket
//   - Server: Serves the host page, the bundle and the browser runtime
//
// # Usage
//
//	srv := dev.NewServer(dev.ServerOptions{Config: cfg})
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Configuration
//
// Hot updates can be disabled via lumen.json (dev.hotUpdate=false), in
// which case every change broadcasts a full reload. Watch paths are the
// static directory plus the entries in dev.watch.
//
// # Update Protocol
//
// The browser connects to /_lumen/hmr via WebSocket.
// Messages are JSON-encoded:
//
//	{"type": "update", "id": "...", "body": "..."} // Replaces one module in place
//	{"type": "reload"}                             // Triggers full page reload
//	{"type": "error", "error": "..."}              // Shows error overlay
//	{"type": "clear"}                              // Clears error overlay
//
// An update batch is all-or-nothing: if any affected module fails to
// transform, clients receive a single reload and no updates.
package dev
