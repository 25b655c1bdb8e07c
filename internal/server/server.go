// Package server exposes the recording session controller over a small JSON
// API so recording can be driven from another device on the same network.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/takelab/takecap/internal/capture"
	"github.com/takelab/takecap/internal/config"
	"github.com/takelab/takecap/internal/session"
)

// Server drives one recording session controller over HTTP.
type Server struct {
	cfg  *config.Config
	ctrl *session.Controller
	port string
}

// StatusResponse is the JSON body of the status endpoint.
type StatusResponse struct {
	State      string `json:"state"`
	OutputFile string `json:"output_file,omitempty"`
	Error      string `json:"error,omitempty"`
}

// StartRequest carries recording parameters; absent fields fall back to the
// stored preferences.
type StartRequest struct {
	DeviceIndex       string `json:"device_index"`
	FileName          string `json:"file_name"`
	DestinationFolder string `json:"destination_folder"`
	RecordMode        string `json:"record_mode"`
	MonoChannel       int    `json:"mono_channel"`
	StereoPair        string `json:"stereo_pair"`
	TotalChannels     int    `json:"total_channels"`
	StreamIndex       *int   `json:"stream_index"`
}

// DevicesResponse is the JSON body of the devices endpoint.
type DevicesResponse struct {
	Devices []capture.Device `json:"devices"`
}

// GenericResponse is the envelope for start/stop results.
type GenericResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// New creates a server around a fresh controller built from the given
// preferences.
func New(cfg *config.Config, port string) *Server {
	return &Server{
		cfg:  cfg,
		ctrl: session.NewController(cfg.ToolOptions()),
		port: port,
	}
}

// Handler returns the route table; split out so tests can drive it directly.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/start", s.handleStart)
	mux.HandleFunc("/api/stop", s.handleStop)
	mux.HandleFunc("/api/devices", s.handleDevices)
	return mux
}

// Start runs the server; it blocks until the listener fails.
func (s *Server) Start() error {
	slog.Info("Remote control server listening", "url", fmt.Sprintf("http://%s:%s", getLocalIP(), s.port))
	return http.ListenAndServe(":"+s.port, s.Handler())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := StatusResponse{
		State:      string(s.ctrl.State()),
		OutputFile: s.ctrl.OutputPath(),
	}
	if err := s.ctrl.Err(); err != nil {
		resp.Error = err.Error()
	}

	s.sendJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.sendError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req StartRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.sendError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
	}

	if err := s.ctrl.Start(s.mergeParams(req)); err != nil {
		s.sendError(w, statusForError(err), err.Error())
		return
	}

	s.sendJSON(w, http.StatusOK, GenericResponse{
		Success: true,
		Message: fmt.Sprintf("recording to %s", s.ctrl.OutputPath()),
	})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.sendError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	err := s.ctrl.Stop()
	switch {
	case err == nil:
		s.sendJSON(w, http.StatusOK, GenericResponse{Success: true, Message: "recording stopped"})
	case errors.Is(err, session.ErrUngracefulStop):
		// The recording was saved; report the warning but not a failure.
		s.sendJSON(w, http.StatusOK, GenericResponse{Success: true, Message: err.Error()})
	default:
		s.sendError(w, statusForError(err), err.Error())
	}
}

func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	devices, err := capture.ListDevices(s.cfg.Command, s.cfg.InputFormat)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.sendJSON(w, http.StatusOK, DevicesResponse{Devices: devices})
}

// mergeParams overlays request fields on top of the stored preferences.
func (s *Server) mergeParams(req StartRequest) session.Params {
	params := s.cfg.Params()

	if req.DeviceIndex != "" {
		params.DeviceIndex = req.DeviceIndex
	}
	if req.FileName != "" {
		params.FileName = req.FileName
	}
	if req.DestinationFolder != "" {
		params.DestinationFolder = req.DestinationFolder
	}
	if req.RecordMode != "" {
		params.Mode = session.Mode(req.RecordMode)
	}
	if req.MonoChannel != 0 {
		params.MonoChannel = req.MonoChannel
	}
	if req.StereoPair != "" {
		params.StereoPair = req.StereoPair
	}
	if req.TotalChannels != 0 {
		params.TotalChannels = req.TotalChannels
	}
	if req.StreamIndex != nil {
		params.StreamIndex = *req.StreamIndex
	}

	return params
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, session.ErrAlreadyRecording), errors.Is(err, session.ErrNotRecording):
		return http.StatusConflict
	case errors.Is(err, session.ErrInvalidParameters),
		errors.Is(err, session.ErrInvalidChannelSelection),
		errors.Is(err, session.ErrDestinationUnavailable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) sendJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, statusCode int, errorMsg string) {
	slog.Debug("Request rejected", "status", statusCode, "error", errorMsg)
	s.sendJSON(w, statusCode, GenericResponse{Success: false, Error: errorMsg})
}

// getLocalIP returns a LAN address to display in the startup banner.
func getLocalIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "localhost"
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String()
}
