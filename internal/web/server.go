package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/bharathrajssp-jpg/image-resizer/internal/config"
	"github.com/bharathrajssp-jpg/image-resizer/internal/report"
	"github.com/bharathrajssp-jpg/image-resizer/internal/resizer"
)

// Server exposes the batch resizer over HTTP, with per-file progress
// streamed to WebSocket clients.
type Server struct {
	cfg        *config.Config
	log        *logrus.Logger
	preserver  resizer.MetadataPreserver
	router     *mux.Router
	httpServer *http.Server
	wsUpgrader websocket.Upgrader
	wsClients  map[*websocket.Conn]bool
	wsMutex    sync.RWMutex

	// Current operation state
	operationMutex sync.RWMutex
	isRunning      bool
	currentReport  *report.Report
}

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type ResizeRequest struct {
	InputDirectory  string  `json:"input_directory"`
	OutputDirectory string  `json:"output_directory"`
	Width           int     `json:"width,omitempty"`
	Height          int     `json:"height,omitempty"`
	ScalePercent    float64 `json:"scale_percent,omitempty"`
	OutputFormat    string  `json:"output_format,omitempty"`
	MaintainAspect  *bool   `json:"maintain_aspect,omitempty"`
	Preset          string  `json:"preset,omitempty"`
	DryRun          bool    `json:"dry_run"`
}

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// NewServer returns a Server wired to the given base configuration.
func NewServer(cfg *config.Config, log *logrus.Logger, preserver resizer.MetadataPreserver) *Server {
	s := &Server{
		cfg:       cfg,
		log:       log,
		preserver: preserver,
		router:    mux.NewRouter(),
		wsClients: make(map[*websocket.Conn]bool),
		wsUpgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in development
			},
		},
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// API routes
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", s.handleStatus).Methods("GET")
	api.HandleFunc("/presets", s.handlePresets).Methods("GET")
	api.HandleFunc("/resize", s.handleResize).Methods("POST")
	api.HandleFunc("/stop", s.handleStop).Methods("POST")
	api.HandleFunc("/report", s.handleGetReport).Methods("GET")

	// WebSocket endpoint
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Static files
	s.router.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir("web/static/"))),
	)

	// Main page
	s.router.HandleFunc("/", s.handleIndex).Methods("GET")
}

func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.log.Infof("Starting web server on http://localhost%s", addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, "web/templates/index.html")
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.operationMutex.RLock()
	running := s.isRunning
	rep := s.currentReport
	s.operationMutex.RUnlock()

	s.writeJSON(w, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"running": running,
			"report":  reportData(rep),
		},
	})
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, APIResponse{
		Success: true,
		Data:    config.GetAvailablePresets(),
	})
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req ResizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.InputDirectory == "" {
		s.writeError(w, "Input directory is required", http.StatusBadRequest)
		return
	}

	// Check if already running
	s.operationMutex.RLock()
	if s.isRunning {
		s.operationMutex.RUnlock()
		s.writeError(w, "Operation already in progress", http.StatusConflict)
		return
	}
	s.operationMutex.RUnlock()

	// Check if directory exists
	if _, err := os.Stat(req.InputDirectory); os.IsNotExist(err) {
		s.writeError(w, "Input directory does not exist", http.StatusBadRequest)
		return
	}

	cfg, err := s.buildJobConfig(req)
	if err != nil {
		s.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	go s.runResizeAsync(cfg)

	s.writeJSON(w, APIResponse{
		Success: true,
		Message: "Resize started",
	})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.operationMutex.Lock()
	s.isRunning = false
	s.operationMutex.Unlock()

	s.broadcastWSMessage("operation_stopped", map[string]interface{}{
		"message": "Operation stopped by user",
	})

	s.writeJSON(w, APIResponse{
		Success: true,
		Message: "Operation stopped",
	})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	s.operationMutex.RLock()
	rep := s.currentReport
	s.operationMutex.RUnlock()

	if rep == nil {
		s.writeJSON(w, APIResponse{
			Success: true,
			Data:    nil,
		})
		return
	}

	s.writeJSON(w, APIResponse{
		Success: true,
		Data:    reportData(rep),
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Errorf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	s.wsMutex.Lock()
	s.wsClients[conn] = true
	s.wsMutex.Unlock()

	s.log.Debug("WebSocket client connected")

	// Remove client on disconnect
	defer func() {
		s.wsMutex.Lock()
		delete(s.wsClients, conn)
		s.wsMutex.Unlock()
		s.log.Debug("WebSocket client disconnected")
	}()

	// Keep connection alive
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}

// buildJobConfig clones the base config and applies the request overrides.
func (s *Server) buildJobConfig(req ResizeRequest) (*config.Config, error) {
	cfg := *s.cfg
	cfg.InputDirectory = req.InputDirectory
	if req.OutputDirectory != "" {
		cfg.OutputDirectory = req.OutputDirectory
	}
	cfg.Processing.DryRun = req.DryRun

	if req.Preset != "" {
		if err := cfg.ApplyPreset(req.Preset); err != nil {
			return nil, err
		}
	} else {
		cfg.Resize.Width = req.Width
		cfg.Resize.Height = req.Height
		cfg.Resize.ScalePercent = req.ScalePercent
		if req.MaintainAspect != nil {
			cfg.Resize.MaintainAspect = *req.MaintainAspect
		}
		cfg.Output.Format = req.OutputFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *Server) runResizeAsync(cfg *config.Config) {
	rep := report.NewReport()

	s.operationMutex.Lock()
	s.isRunning = true
	s.currentReport = rep
	s.operationMutex.Unlock()

	s.broadcastWSMessage("resize_started", map[string]interface{}{
		"input_directory":  cfg.InputDirectory,
		"output_directory": cfg.OutputDirectory,
		"dry_run":          cfg.Processing.DryRun,
	})

	logHook := func(level, message string) {
		s.broadcastWSMessage("progress", map[string]interface{}{
			"level":   level,
			"message": message,
		})
	}

	br := resizer.NewBatchResizerWithLogHook(cfg, s.log, s.preserver, logHook)
	result, err := br.Process()

	s.operationMutex.Lock()
	s.isRunning = false
	if result != nil {
		s.currentReport = result
	}
	s.operationMutex.Unlock()

	if err != nil {
		s.broadcastWSMessage("resize_error", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		s.broadcastWSMessage("resize_completed", map[string]interface{}{
			"report": reportData(result),
		})
	}
}

func (s *Server) broadcastWSMessage(messageType string, data interface{}) {
	message := WSMessage{
		Type: messageType,
		Data: data,
	}

	msgBytes, err := json.Marshal(message)
	if err != nil {
		s.log.Errorf("Failed to marshal WebSocket message: %v", err)
		return
	}

	s.wsMutex.RLock()
	defer s.wsMutex.RUnlock()

	for conn := range s.wsClients {
		err := conn.WriteMessage(websocket.TextMessage, msgBytes)
		if err != nil {
			s.log.Errorf("Failed to write WebSocket message: %v", err)
			// Remove failed connection
			go func(c *websocket.Conn) {
				s.wsMutex.Lock()
				delete(s.wsClients, c)
				s.wsMutex.Unlock()
				c.Close()
			}(conn)
		}
	}
}

func reportData(rep *report.Report) interface{} {
	if rep == nil {
		return nil
	}
	return map[string]interface{}{
		"summary": rep.GetSummary(),
		"files": map[string]interface{}{
			"total_found":     atomic.LoadInt64(&rep.FilesFound),
			"total_processed": atomic.LoadInt64(&rep.FilesProcessed),
			"succeeded":       atomic.LoadInt64(&rep.FilesSucceeded),
			"skipped":         atomic.LoadInt64(&rep.FilesSkipped),
			"failed":          atomic.LoadInt64(&rep.FilesFailed),
		},
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(APIResponse{
		Success: false,
		Error:   message,
	})
}
