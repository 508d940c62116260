package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"liquidityFaucet/internal/auth"
	"liquidityFaucet/internal/chain"
	"liquidityFaucet/internal/faucet"
	"liquidityFaucet/internal/model"
)

// Service is the faucet surface the HTTP API exposes.
type Service interface {
	Claim(ctx context.Context, claimant common.Address) (model.ClaimReceipt, error)
	Status(ctx context.Context) (model.Status, error)
	Eligibility(ctx context.Context, claimant common.Address) (model.Eligibility, error)
}

// MetaResolver looks up token metadata for display. Optional.
type MetaResolver interface {
	Resolve(ctx context.Context, token common.Address) model.TokenMeta
}

// Server serves the faucet over HTTP.
type Server struct {
	service  Service
	meta     MetaResolver
	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

// NewServer builds the HTTP server. meta and gatherer may be nil.
func NewServer(service Service, meta MetaResolver, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{service: service, meta: meta, gatherer: gatherer, logger: logger}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/claims", s.handleClaim)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/claimants/{address}", s.handleEligibility)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http listen", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	s.logger.Info("http stopped")
	return nil
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "", fmt.Errorf("decode request: %w", err))
		return
	}

	claimant, err := chain.ParseAddress(req.Claimant)
	if err != nil {
		writeError(w, http.StatusBadRequest, "", err)
		return
	}
	sig, err := hexutil.Decode(req.Signature)
	if err != nil {
		writeError(w, http.StatusBadRequest, "", fmt.Errorf("decode signature: %w", err))
		return
	}

	ctx := auth.WithProof(r.Context(), auth.Proof{Timestamp: req.Timestamp, Signature: sig})
	receipt, err := s.service.Claim(ctx, claimant)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newClaimResponse(receipt))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.service.Status(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	var metaA, metaB *model.TokenMeta
	if s.meta != nil {
		a := s.meta.Resolve(r.Context(), status.TokenA)
		b := s.meta.Resolve(r.Context(), status.TokenB)
		metaA, metaB = &a, &b
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Admin:              status.Settings.Admin.Hex(),
		Pool:               status.Settings.Pool.Hex(),
		Service:            status.Service.Hex(),
		Amount:             bigString(status.Settings.Amount),
		ClaimInterval:      status.Settings.ClaimInterval,
		TargetAsset:        status.Settings.TargetAsset.String(),
		TokenA:             newTokenResponse(status.ReserveA, metaA, status.TokenA.Hex()),
		TokenB:             newTokenResponse(status.ReserveB, metaB, status.TokenB.Hex()),
		TotalShares:        bigString(status.TotalShares),
		ShareBalance:       bigString(status.ShareBalance),
		AvailableForClaims: bigString(status.AvailableForClaims),
	})
}

func (s *Server) handleEligibility(w http.ResponseWriter, r *http.Request) {
	claimant, err := chain.ParseAddress(r.PathValue("address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "", err)
		return
	}
	eligibility, err := s.service.Eligibility(r.Context(), claimant)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newEligibilityResponse(eligibility))
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := faucet.KindOf(err)
	switch kind {
	case faucet.KindValidation:
		status = http.StatusBadRequest
		if errors.Is(err, faucet.ErrNotInitialized) {
			status = http.StatusServiceUnavailable
		}
	case faucet.KindAuthorization:
		status = http.StatusUnauthorized
	case faucet.KindRateLimit:
		status = http.StatusTooManyRequests
	case faucet.KindLiquidity:
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	name := ""
	if kind != 0 {
		name = strings.ReplaceAll(kind.String(), " ", "_")
	}
	writeError(w, status, name, err)
}

func writeError(w http.ResponseWriter, status int, kind string, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
