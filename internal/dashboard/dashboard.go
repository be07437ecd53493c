// Package dashboard is the web UI host for the air quality service. It
// collects sensor readings through the form page, runs the analysis
// pipeline, and renders the resulting gauge, severity message and raw
// prediction. Connected WebSocket clients receive every completed analysis.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"airsage/internal/metrics"
	"airsage/internal/model"
	"airsage/internal/pipeline"
	"airsage/internal/storage"
)

// Dashboard serves the monitoring UI and its JSON API.
type Dashboard struct {
	pipe             *pipeline.Pipeline
	provider         model.Provider
	store            *storage.Store // nil disables history
	mw               *metrics.Wrapper
	defaultThreshold float64

	server    *http.Server
	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex

	mu         sync.RWMutex
	isRunning  bool
	lastResult *pipeline.Result
}

// New creates a dashboard bound to the given port. The store may be nil.
func New(pipe *pipeline.Pipeline, provider model.Provider, store *storage.Store, mw *metrics.Wrapper, defaultThreshold float64, port int) *Dashboard {
	d := &Dashboard{
		pipe:             pipe,
		provider:         provider,
		store:            store,
		mw:               mw,
		defaultThreshold: defaultThreshold,
		upgrader:         websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:          make(map[*websocket.Conn]bool),
	}

	r := mux.NewRouter()
	r.HandleFunc("/", d.handleIndex).Methods("GET")
	r.HandleFunc("/api/analyze", d.handleAnalyze).Methods("POST")
	r.HandleFunc("/api/model/info", d.handleModelInfo).Methods("GET")
	r.HandleFunc("/api/history", d.handleHistory).Methods("GET")
	r.HandleFunc("/history/chart", d.handleHistoryChart).Methods("GET")
	r.HandleFunc("/ws", d.handleWebSocket).Methods("GET")
	r.HandleFunc("/health", d.handleHealth).Methods("GET")

	d.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return d
}

// Start starts the dashboard server.
func (d *Dashboard) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isRunning {
		return fmt.Errorf("dashboard is already running")
	}

	go func() {
		log.Info().Str("address", d.server.Addr).Msg("starting dashboard server")
		if err := d.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("dashboard server failed")
		}
	}()

	d.isRunning = true
	return nil
}

// Stop shuts the server down and closes all WebSocket clients.
func (d *Dashboard) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isRunning {
		return nil
	}

	d.clientsMu.Lock()
	for client := range d.clients {
		client.Close()
	}
	d.clients = make(map[*websocket.Conn]bool)
	d.clientsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := d.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown dashboard server")
		return err
	}

	d.isRunning = false
	log.Info().Msg("dashboard stopped")
	return nil
}

// handleWebSocket upgrades the connection and registers the client for
// analysis broadcasts.
func (d *Dashboard) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := d.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	d.clientsMu.Lock()
	d.clients[conn] = true
	d.clientsMu.Unlock()

	// Drain the connection; clients only listen.
	go func() {
		defer func() {
			d.clientsMu.Lock()
			delete(d.clients, conn)
			d.clientsMu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// broadcastResult sends a completed analysis to all connected clients.
func (d *Dashboard) broadcastResult(res pipeline.Result) {
	data, err := json.Marshal(res)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal result for broadcast")
		return
	}

	d.clientsMu.Lock()
	defer d.clientsMu.Unlock()
	for client := range d.clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			client.Close()
			delete(d.clients, client)
		}
	}
}
