package main

import (
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

	"github.com/sells-group/intel-engine/internal/intel"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for enrichment requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		timeout := time.Duration(cfg.Server.RequestTimeoutSecs) * time.Second

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env, timeout),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newRouter builds the API routes. Split out so tests can exercise the
// handlers without binding a port.
func newRouter(env *engineEnv, timeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/v1/enrich", handleEnrich(env))
	r.Post("/v1/boost", handleBoost(env))

	return r
}

// requestID attaches a fresh ID to each request for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

type enrichRequest struct {
	Name    string `json:"name"`
	Domain  string `json:"domain"`
	Role    string `json:"role"`
	Address string `json:"address"`
	NoCache bool   `json:"noCache"`
}

func handleEnrich(env *engineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req enrichRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		ctx := r.Context()

		if !req.NoCache {
			cached, err := env.Store.Get(ctx, req.Name, req.Domain)
			if err != nil {
				zap.L().Warn("cache lookup failed", zap.Error(err))
			} else if cached != nil {
				writeJSON(w, http.StatusOK, cached)
				return
			}
		}

		rec, err := env.Agg.Aggregate(ctx, intel.Request{
			CompanyName:    req.Name,
			Domain:         req.Domain,
			ContactRole:    req.Role,
			ContactAddress: req.Address,
		})
		if err != nil {
			zap.L().Error("enrichment failed", zap.String("company", req.Name), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "enrichment failed")
			return
		}

		if putErr := env.Store.Put(ctx, req.Name, req.Domain, rec, env.CacheTTL); putErr != nil {
			zap.L().Warn("cache write failed", zap.Error(putErr))
		}

		writeJSON(w, http.StatusOK, rec)
	}
}

func handleBoost(env *engineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req enrichRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Name == "" || req.Domain == "" {
			writeError(w, http.StatusBadRequest, "name and domain are required")
			return
		}

		ctx := r.Context()

		existing, err := env.Store.Get(ctx, req.Name, req.Domain)
		if err != nil {
			zap.L().Warn("cache lookup failed", zap.Error(err))
		}
		if existing == nil {
			writeError(w, http.StatusNotFound, "no cached record, enrich first")
			return
		}

		rec, err := env.Agg.Boost(ctx, existing, req.Domain)
		if err != nil {
			if eris.Is(err, intel.ErrBoostPrecondition) {
				writeError(w, http.StatusPreconditionFailed, err.Error())
				return
			}
			zap.L().Error("boost failed", zap.String("company", req.Name), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "boost failed")
			return
		}

		if putErr := env.Store.Put(ctx, req.Name, req.Domain, rec, env.CacheTTL); putErr != nil {
			zap.L().Warn("cache write failed", zap.Error(putErr))
		}

		writeJSON(w, http.StatusOK, rec)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
