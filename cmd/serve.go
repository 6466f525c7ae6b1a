package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wonderben-code/honestgpt/internal/model"
)

var servePort int

// maxHistoryTurns caps the conversation history accepted per request;
// synthesis only ever uses the most recent turns anyway.
const maxHistoryTurns = 5

// questionEvaluator is the slice of the evaluator the HTTP layer needs.
type questionEvaluator interface {
	EvaluateQuestion(ctx context.Context, question string, prior []model.ConversationTurn) model.StructuredAnswer
	SearchOnly(ctx context.Context, question string) model.SearchResult
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(env.Evaluator),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newRouter(ev questionEvaluator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/v1/ask", handleAsk(ev))
	r.Get("/v1/search", handleSearch(ev))

	return r
}

type askRequest struct {
	Question string                   `json:"question"`
	History  []model.ConversationTurn `json:"history,omitempty"`
}

func handleAsk(ev questionEvaluator) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body askRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.Question == "" {
			writeError(w, http.StatusBadRequest, "question is required")
			return
		}

		history := body.History
		if len(history) > maxHistoryTurns {
			history = history[len(history)-maxHistoryTurns:]
		}

		requestID := uuid.NewString()
		zap.L().Info("http: ask",
			zap.String("request_id", requestID),
			zap.Int("history_turns", len(history)),
		)

		answer := ev.EvaluateQuestion(req.Context(), body.Question, history)
		writeJSON(w, http.StatusOK, answer)
	}
}

func handleSearch(ev questionEvaluator) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		question := req.URL.Query().Get("q")
		if question == "" {
			writeError(w, http.StatusBadRequest, "query parameter q is required")
			return
		}

		requestID := uuid.NewString()
		zap.L().Info("http: search", zap.String("request_id", requestID))

		writeJSON(w, http.StatusOK, ev.SearchOnly(req.Context(), question))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("http: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
