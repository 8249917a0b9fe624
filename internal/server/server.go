package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/lox/tablevision/internal/analyzer"
)

// maxFrameBytes caps uploaded screenshot size.
const maxFrameBytes = 10 << 20

// Server serves frame analysis over HTTP POST and websocket streams.
type Server struct {
	addr        string
	strategy    analyzer.Strategy
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	httpServer  *http.Server
}

// NewServer creates a server around the given analysis strategy.
func NewServer(cfg *Config, strategy analyzer.Strategy, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		addr:        cfg.Addr(),
		strategy:    strategy,
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}

	s.upgrader = websocket.Upgrader{
		CheckOrigin:     originChecker(cfg.Server.Origins),
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	return s
}

// originChecker builds the websocket origin policy. An empty list
// allows every origin, which suits local capture tools.
func originChecker(origins []string) func(r *http.Request) bool {
	if len(origins) == 0 {
		return func(r *http.Request) bool { return true }
	}

	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed["*"] || allowed[origin]
	}
}

// Run starts the server and blocks until the context is cancelled or
// the listener fails.
func (s *Server) Run(ctx context.Context) error {
	go s.run()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting analysis server", "addr", s.addr, "strategy", s.strategy.Name())
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return s.Stop()
	})

	return g.Wait()
}

// Start starts the server without lifecycle management. Mostly useful
// in tests; production entrypoints use Run.
func (s *Server) Start() error {
	go s.run()
	s.logger.Info("Starting analysis server", "addr", s.addr, "strategy", s.strategy.Name())
	return s.httpServer.ListenAndServe()
}

// Stop shuts the server down and closes all websocket clients.
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close() // Ignore close errors during shutdown
	}
	s.mu.Unlock()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// Handler exposes the HTTP handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// run handles websocket connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				_ = conn.Close() // Ignore close errors during unregistration
			}
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handleAnalyze analyzes a single frame posted as the request body or
// as a multipart "image" field.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, badRequestResponse("POST required"))
		return
	}

	frame, err := readFrame(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, badRequestResponse(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, s.analyzeFrame(r.Context(), frame))
}

// analyzeFrame runs the strategy and shapes the result. Strategy
// failures become error payloads rather than transport errors so
// capture clients keep polling.
func (s *Server) analyzeFrame(ctx context.Context, frame []byte) *AnalyzeResponse {
	analysis, err := s.strategy.Analyze(ctx, frame)
	if err != nil {
		s.logger.Error("Analysis failed", "strategy", s.strategy.Name(), "error", err)
		return errorResponseFor(err)
	}
	return responseFor(analysis)
}

// readFrame extracts image bytes from the request.
func readFrame(r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxFrameBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("image")
		if err != nil {
			return nil, fmt.Errorf("missing image field: %w", err)
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read image field: %w", err)
		}
		if len(data) == 0 {
			return nil, fmt.Errorf("empty image field")
		}
		return data, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty request body")
	}
	return data, nil
}

// handleWebSocket handles websocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s.analyzeFrame)
	s.register <- client
	client.Start()

	go func() {
		<-client.ctx.Done()
		select {
		case s.unregister <- client:
		case <-s.ctx.Done():
		}
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"strategy": s.strategy.Name(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) // Ignore write errors to dead clients
}
