// Trackerd - Self-Hosted GPS Location Tracking Backend
// Copyright 2026 Digital7
// SPDX-License-Identifier: MIT
// https://github.com/digital7/trackerd

// Package page serves the self-contained HTML tracking client from an
// in-process cache. The source file's modification time is polled lazily
// on each serve; a newer mtime triggers a reload under a write lock.
// Racing reloads are benign since reading the file is idempotent.
package page

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/digital7/trackerd/internal/logging"
)

// Page is the cached tracking client asset.
type Page struct {
	path string

	mu    sync.RWMutex
	body  []byte
	mtime time.Time
}

// Load reads the asset once and returns the cache. A missing or empty
// file is a startup error; the tracking page is the only UI the server has.
func Load(path string) (*Page, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load tracking page: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("load tracking page: %s is empty", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("load tracking page: %w", err)
	}
	return &Page{path: path, body: body, mtime: info.ModTime()}, nil
}

// Body returns the current page bytes, reloading first when the file on
// disk has a newer modification time. A failed stat or reload serves the
// cached copy; the stale check is a dev convenience, not a contract.
func (p *Page) Body() []byte {
	p.refreshIfStale()
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.body
}

// refreshIfStale reloads the asset when its mtime advanced past the cached
// one. Check-then-swap: a concurrent reload of the same content is harmless.
func (p *Page) refreshIfStale() {
	info, err := os.Stat(p.path)
	if err != nil {
		logging.Warn().Err(err).Str("path", p.path).Msg("Failed to stat tracking page")
		return
	}

	p.mu.RLock()
	stale := info.ModTime().After(p.mtime)
	p.mu.RUnlock()
	if !stale {
		return
	}

	body, err := os.ReadFile(p.path)
	if err != nil || len(body) == 0 {
		logging.Warn().Err(err).Str("path", p.path).Msg("Failed to reload tracking page")
		return
	}

	p.mu.Lock()
	p.body = body
	p.mtime = info.ModTime()
	p.mu.Unlock()
	logging.Info().Str("path", p.path).Msg("Tracking page reloaded")
}

// Serve writes the page with no-cache headers so clients always revalidate.
func (p *Page) Serve(w http.ResponseWriter, _ *http.Request) {
	body := p.Body()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logging.Warn().Err(err).Msg("Failed to write tracking page")
	}
}
