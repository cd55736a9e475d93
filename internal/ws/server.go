package ws

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hackersim/backend/internal/command"
	"github.com/hackersim/backend/internal/game"
	"github.com/hackersim/backend/internal/leaderboard"
	"github.com/hackersim/backend/internal/mission"
	"github.com/hackersim/backend/internal/progress"
	"github.com/hackersim/backend/internal/telemetry"
)

type Server struct {
	engine          *game.Engine
	broadcaster     *Broadcaster
	frontendDir     string
	dev             bool
	embeddedHandler http.Handler
	allowedOrigins  map[string]bool
	allowedHosts    map[string]bool
}

func NewServer(engine *game.Engine, broadcaster *Broadcaster, frontendDir string, dev bool, embeddedHandler http.Handler, allowedOrigins []string) *Server {
	s := &Server{
		engine:          engine,
		broadcaster:     broadcaster,
		frontendDir:     frontendDir,
		dev:             dev,
		embeddedHandler: embeddedHandler,
		allowedOrigins:  make(map[string]bool),
		allowedHosts:    make(map[string]bool),
	}

	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		s.allowedOrigins[trimmed] = true
		if parsed, err := url.Parse(trimmed); err == nil && parsed.Host != "" {
			s.allowedHosts[parsed.Host] = true
		}
	}

	return s
}

func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/api/command", s.handleCommand)
	mux.HandleFunc("/api/login", s.handleLogin)
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/missions", s.handleMissions)
	mux.HandleFunc("/api/missions/", s.handleMissionRoutes)
	mux.HandleFunc("/api/leaderboard/", s.handleLeaderboard)
	mux.HandleFunc("/api/daily", s.handleDaily)
	mux.HandleFunc("/api/host", s.handleHost)

	if s.dev {
		log.Printf("Serving frontend from filesystem: %s", s.frontendDir)
		mux.Handle("/", http.FileServer(http.Dir(s.frontendDir)))
	} else if s.embeddedHandler != nil {
		log.Println("Serving embedded frontend")
		mux.Handle("/", s.embeddedHandler)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: s.checkOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	c, err := s.broadcaster.AddClient(conn)
	if err != nil {
		log.Printf("ws client rejected: %v", err)
		conn.Close()
		return
	}
	log.Printf("WebSocket client connected: %s", r.RemoteAddr)

	go func() {
		defer func() {
			s.broadcaster.RemoveClient(c)
			log.Printf("WebSocket client disconnected: %s", r.RemoteAddr)
		}()
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				return
			}
		}
	}()
}

// commandRequest is the POST /api/command body. Outcome, when present, is a
// mini-game result that replaces the probabilistic draw.
type commandRequest struct {
	Command string           `json:"command"`
	Outcome *command.Outcome `json:"outcome,omitempty"`
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.Command = strings.TrimSpace(strings.ToLower(req.Command))
	if req.Command == "" {
		http.Error(w, "missing command", http.StatusBadRequest)
		return
	}

	res := s.engine.ExecuteCommand(req.Command, req.Outcome)
	writeJSON(w, res)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.engine.RecordLogin())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Store().Snapshot()
	writeJSON(w, SnapshotPayload{
		State:    snap,
		Progress: progress.XPProgress(snap.XP),
	})
}

func (s *Server) handleMissions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.engine.Store().Snapshot().Missions)
}

// handleMissionRoutes dispatches
//
//	POST /api/missions/{id}/solution   select an alternate solution
//	POST /api/missions/{id}/steps/{sid} complete a step directly
func (s *Server) handleMissionRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/missions/")
	parts := strings.Split(path, "/")

	switch {
	case len(parts) == 2 && parts[1] == "solution":
		var req struct {
			SolutionID string `json:"solutionId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SolutionID == "" {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if err := s.engine.SelectSolution(parts[0], req.SolutionID); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case len(parts) == 3 && parts[1] == "steps":
		completion := s.engine.CompleteStepDirect(parts[0], parts[2])
		writeJSON(w, map[string]any{"completion": completion})

	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	missionID, err := url.PathUnescape(strings.TrimPrefix(r.URL.Path, "/api/leaderboard/"))
	if err != nil || missionID == "" {
		http.Error(w, "missing mission id", http.StatusBadRequest)
		return
	}
	snap := s.engine.Store().Snapshot()
	writeJSON(w, leaderboard.Top(snap, missionID, leaderboard.MaxEntries))
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, mission.DailyChallenges(time.Now().UTC()))
}

func (s *Server) handleHost(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, telemetry.Sample())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if len(s.allowedOrigins) > 0 {
		if s.allowedOrigins[origin] {
			return true
		}
		if parsed, err := url.Parse(origin); err == nil && parsed.Host != "" {
			return s.allowedHosts[parsed.Host]
		}
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}

	host := parsed.Host
	if host == "" {
		return false
	}

	if host == r.Host {
		return true
	}

	if strings.HasPrefix(host, "localhost:") || host == "localhost" {
		return true
	}
	if strings.HasPrefix(host, "127.0.0.1:") || host == "127.0.0.1" {
		return true
	}
	if strings.HasPrefix(host, "[::1]:") || host == "::1" {
		return true
	}

	return false
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		next.ServeHTTP(w, r)
	})
}

func ListenAndServe(host string, port int, mux *http.ServeMux) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	log.Printf("Server listening on %s", addr)
	return http.ListenAndServe(addr, securityHeaders(mux))
}
