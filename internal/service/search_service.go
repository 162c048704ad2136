package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"contai/pkg/config"

	"go.uber.org/zap"
)

// SupplierContextUnavailable is the sentinel answer used when the supplier
// lookup fails for any reason. One failed lookup must not abort the
// classification of the invoice's line items.
const SupplierContextUnavailable = "informazioni sul fornitore non disponibili"

// SearchService wraps the external question-answering provider used to
// discover what a supplier actually does. The provider is opaque: one
// free-text question in, one free-text answer out.
type SearchService struct {
	cfg        *config.SearchConfig
	httpClient *http.Client
	logger     *zap.Logger
}

func NewSearchService(cfg *config.SearchConfig, logger *zap.Logger) *SearchService {
	return &SearchService{
		cfg:        cfg,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// ResolveSupplierContext asks the provider what business activity the
// supplier conducts. Called exactly once per invoice. Any transport or
// provider failure degrades to the SupplierContextUnavailable sentinel.
func (s *SearchService) ResolveSupplierContext(ctx context.Context, name, city string) string {
	question := fmt.Sprintf("Che attività svolge l'azienda %s di %s?", name, city)

	body, err := json.Marshal(map[string]string{"query": question})
	if err != nil {
		s.logger.Error("Failed to build supplier lookup request", zap.Error(err))
		return SupplierContextUnavailable
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		s.logger.Error("Failed to create supplier lookup request", zap.Error(err))
		return SupplierContextUnavailable
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("Supplier lookup failed",
			zap.Error(err),
			zap.String("supplier", name),
		)
		return SupplierContextUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		s.logger.Error("Supplier lookup failed",
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(bodyBytes)),
			zap.String("supplier", name),
		)
		return SupplierContextUnavailable
	}

	var qaResp struct {
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&qaResp); err != nil {
		s.logger.Error("Failed to decode supplier lookup response", zap.Error(err))
		return SupplierContextUnavailable
	}

	answer := strings.TrimSpace(qaResp.Answer)
	if answer == "" {
		s.logger.Warn("Supplier lookup returned an empty answer", zap.String("supplier", name))
		return SupplierContextUnavailable
	}

	s.logger.Info("Supplier context resolved",
		zap.String("supplier", name),
		zap.Int("answer_length", len(answer)),
	)
	return answer
}
