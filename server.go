package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/juruen/slideview/annotations"
	"github.com/juruen/slideview/geometry"
	"github.com/juruen/slideview/log"
	"github.com/juruen/slideview/model"
	"github.com/juruen/slideview/shell"
	"github.com/juruen/slideview/version"
	"github.com/juruen/slideview/viewer"
)

type ApiServer struct {
	shellCtx *shell.ShellCtxt
	timeout  time.Duration
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewApiServer(shellCtx *shell.ShellCtxt, timeout time.Duration) *ApiServer {
	return &ApiServer{shellCtx: shellCtx, timeout: timeout}
}

func (s *ApiServer) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
}

func (s *ApiServer) writeSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SuccessResponse{Data: data})
}

func (s *ApiServer) requireSlide(w http.ResponseWriter) bool {
	if s.shellCtx.Session.Descriptor() == nil {
		s.writeError(w, http.StatusConflict, viewer.ErrNoSlide)
		return false
	}
	return true
}

// POST /api/open {"slide": "<id>", "annotations": [...], "annotationsPath": "<file>"}
func (s *ApiServer) handleOpen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Slide           string             `json:"slide"`
		Annotations     []model.Annotation `json:"annotations"`
		AnnotationsPath string             `json:"annotationsPath"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Slide == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("slide is required"))
		return
	}

	list := req.Annotations
	if req.AnnotationsPath != "" {
		loaded, err := annotations.LoadFile(req.AnnotationsPath)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		list = append(list, loaded...)
	}

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	err := s.shellCtx.OpenWith(ctx, req.Slide, list, req.AnnotationsPath)
	switch {
	case err == nil:
	case errors.Is(err, viewer.ErrSuperseded):
		s.writeError(w, http.StatusConflict, err)
		return
	case errors.Is(err, viewer.ErrFetchFailure):
		s.writeError(w, http.StatusBadGateway, err)
		return
	default:
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	s.writeSuccess(w, s.shellCtx.Status())
}

// GET /api/source
func (s *ApiServer) handleSource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	src := s.shellCtx.SourceJSON()
	if src == nil {
		s.writeError(w, http.StatusConflict, viewer.ErrNoSlide)
		return
	}
	s.writeSuccess(w, src)
}

// GET /api/tile?level=<n>&x=<n>&y=<n>
func (s *ApiServer) handleTile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	d := s.shellCtx.Session.Descriptor()
	if d == nil {
		s.writeError(w, http.StatusConflict, viewer.ErrNoSlide)
		return
	}

	query := r.URL.Query()
	var coords [3]int
	for i, name := range []string{"level", "x", "y"} {
		v, err := strconv.Atoi(query.Get(name))
		if err != nil || v < 0 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid %s parameter", name))
			return
		}
		coords[i] = v
	}
	if coords[0] >= d.LevelCount {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("level must be less than %d", d.LevelCount))
		return
	}

	http.Redirect(w, r, d.TileURL(coords[0], coords[1], coords[2]), http.StatusFound)
}

// GET /api/tiles
func (s *ApiServer) handleTiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.requireSlide(w) {
		return
	}
	s.writeSuccess(w, s.shellCtx.VisibleTiles())
}

// GET /api/annotations
func (s *ApiServer) handleAnnotations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeSuccess(w, s.shellCtx.AnnotationsJSON())
}

// POST /api/select {"annotation": "<index|hash>"}; an empty annotation clears
// the selection
func (s *ApiServer) handleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Annotation string `json:"annotation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	if req.Annotation == "" {
		s.shellCtx.Selection.Clear()
		s.writeSuccess(w, s.shellCtx.Status())
		return
	}

	a, err := s.shellCtx.Find(req.Annotation)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}

	s.shellCtx.Selection.Select(a)
	s.writeSuccess(w, s.shellCtx.Status())
}

// POST /api/zoom {"zoom": <z>, "x": <x>, "y": <y>}; x and y pan when set
func (s *ApiServer) handleZoom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.requireSlide(w) {
		return
	}

	var req struct {
		Zoom float64  `json:"zoom"`
		X    *float64 `json:"x"`
		Y    *float64 `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Zoom < 0 {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("zoom must be positive"))
		return
	}

	if req.X != nil && req.Y != nil {
		s.shellCtx.Viewer.PanTo(geometry.NewPoint2D(*req.X, *req.Y))
	}
	if req.Zoom > 0 {
		s.shellCtx.Viewer.ZoomTo(req.Zoom)
	}
	s.writeSuccess(w, s.shellCtx.Status())
}

// GET /api/overlay.svg
func (s *ApiServer) handleOverlay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if _, err := s.shellCtx.Overlay.WriteTo(w); err != nil {
		log.Error.Println("failed to write overlay:", err)
	}
}

// GET /api/status
func (s *ApiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeSuccess(w, s.shellCtx.Status())
}

// GET /api/version
func (s *ApiServer) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.writeSuccess(w, map[string]string{"version": version.Version})
}

func (s *ApiServer) routes() *http.ServeMux {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/open", s.handleOpen)
	mux.HandleFunc("/api/source", s.handleSource)
	mux.HandleFunc("/api/tile", s.handleTile)
	mux.HandleFunc("/api/tiles", s.handleTiles)
	mux.HandleFunc("/api/annotations", s.handleAnnotations)
	mux.HandleFunc("/api/select", s.handleSelect)
	mux.HandleFunc("/api/zoom", s.handleZoom)
	mux.HandleFunc("/api/overlay.svg", s.handleOverlay)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Root endpoint with API documentation
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
	<title>slideview REST API</title>
</head>
<body>
	<h1>slideview REST API</h1>
	<h2>Endpoints:</h2>
	<ul>
		<li>POST /api/open - Open a slide with annotations</li>
		<li>GET /api/source - Tile source of the open slide</li>
		<li>GET /api/tile?level=&amp;x=&amp;y= - Redirect to a remote tile</li>
		<li>GET /api/tiles - Tiles of the current view</li>
		<li>GET /api/annotations - List annotations</li>
		<li>POST /api/select - Select and frame an annotation</li>
		<li>POST /api/zoom - Zoom and pan the viewport</li>
		<li>GET /api/overlay.svg - Annotation overlay</li>
		<li>GET /api/status - Session state</li>
		<li>GET /api/version - Get version</li>
		<li>GET /health - Health check</li>
	</ul>
</body>
</html>
`)
	})

	return mux
}

func runServerMode(shellCtx *shell.ShellCtxt, port string, timeout time.Duration) {
	server := NewApiServer(shellCtx, timeout)

	addr := ":" + port
	log.Info.Printf("Starting slideview API server on %s", addr)
	fmt.Printf("slideview API server listening on http://localhost%s\n", addr)

	if err := http.ListenAndServe(addr, server.routes()); err != nil {
		log.Error.Fatalf("Server failed: %v", err)
	}
}
