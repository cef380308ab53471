// Package httpapi exposes game sessions over HTTP with a chi router.
package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lgbarn/chessrules-go/internal/config"
	"github.com/lgbarn/chessrules-go/internal/session"
)

const maxBodyBytes = 1 << 16

type createRequest struct {
	FEN  string            `json:"fen"`
	Tags map[string]string `json:"tags"`
}

type syncRequest struct {
	session.MoveRequest
	FEN string `json:"fen"`
}

type movesResponse struct {
	Moves []string `json:"moves"`
}

// Handler serves the game session API.
type Handler struct {
	sessions *session.Manager
	log      *zap.Logger
}

// NewRouter builds the chi router for the session API.
func NewRouter(sessions *session.Manager, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{sessions: sessions, log: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Route("/games", func(r chi.Router) {
		r.Post("/", h.createGame)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getGame)
			r.Delete("/", h.deleteGame)
			r.Get("/moves", h.legalMoves)
			r.Post("/moves", h.makeMove)
			r.Post("/sync", h.syncMove)
			r.Post("/undo", h.undoMove)
			r.Get("/pgn", h.pgn)
		})
	})
	return r
}

// NewServer wraps handler in an http.Server configured from cfg.
func NewServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
}

func (h *Handler) createGame(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !h.decode(w, r, &req, true) {
		return
	}
	snap, err := h.sessions.Create(r.Context(), req.FEN, req.Tags)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeResponse(w, http.StatusCreated, snap)
}

func (h *Handler) getGame(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeResponse(w, http.StatusOK, snap)
}

func (h *Handler) deleteGame(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	writeResponse(w, http.StatusOK, nil)
}

func (h *Handler) legalMoves(w http.ResponseWriter, r *http.Request) {
	moves, err := h.sessions.LegalMoves(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("square"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeResponse(w, http.StatusOK, movesResponse{Moves: moves})
}

func (h *Handler) makeMove(w http.ResponseWriter, r *http.Request) {
	var req session.MoveRequest
	if !h.decode(w, r, &req, false) {
		return
	}
	snap, err := h.sessions.Move(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeResponse(w, http.StatusOK, snap)
}

func (h *Handler) syncMove(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if !h.decode(w, r, &req, false) {
		return
	}
	res, err := h.sessions.ApplyRemote(r.Context(), chi.URLParam(r, "id"), req.MoveRequest, req.FEN)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeResponse(w, http.StatusOK, res)
}

func (h *Handler) undoMove(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.Undo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeResponse(w, http.StatusOK, snap)
}

func (h *Handler) pgn(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.sessions.WritePGN(r.Context(), chi.URLParam(r, "id"), &buf); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/x-chess-pgn")
	_, _ = buf.WriteTo(w)
}

// decode reads a JSON body into dst. An empty body is accepted only when
// optional is set.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err == nil || (optional && err == io.EOF) {
		return true
	}
	h.log.Debug("bad request body", zap.Error(err), zap.String("path", r.URL.Path))
	writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
	return false
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	fields := []zap.Field{
		zap.String("session_id", chi.URLParam(r, "id")),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", fields...)
		writeError(w, status, "internal server error")
		return
	}
	h.log.Debug("request rejected", fields...)
	writeError(w, status, err.Error())
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
