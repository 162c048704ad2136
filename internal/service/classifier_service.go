package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"contai/internal/models"
	"contai/pkg/config"

	"go.uber.org/zap"
)

// ChatMessageRequest is the payload of one classification call. The line
// description travels as the query; the recipient's activity and the
// optional supplier context travel as side inputs.
type ChatMessageRequest struct {
	User         string     `json:"user"`
	Query        string     `json:"query"`
	Inputs       ChatInputs `json:"inputs"`
	ResponseMode string     `json:"response_mode"`
}

type ChatInputs struct {
	AttivitaSvolta string `json:"attivita_svolta"`
	InfoFornitore  string `json:"info_fornitore,omitempty"`
}

// ChatMessageResponse is the outer transport envelope. Answer is itself a
// JSON-encoded string that has to be parsed again to reach the candidate
// list (the endpoint double-encodes its structured output).
type ChatMessageResponse struct {
	Answer string `json:"answer"`
}

// ClassifierService submits line-item descriptions to the remote
// classification endpoint, one request per description, no batching and no
// retries.
type ClassifierService struct {
	cfg        *config.ClassifierConfig
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClassifierService(cfg *config.ClassifierConfig, logger *zap.Logger) *ClassifierService {
	return &ClassifierService{
		cfg:        cfg,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Classify sends one description to the classifier. infoFornitore is empty
// when the supplier lookup is disabled and is then omitted from the payload.
// Any transport failure or non-2xx status degrades to nil: the failure is
// logged and the caller moves on to the next line item.
func (s *ClassifierService) Classify(ctx context.Context, description, infoFornitore string) *ChatMessageResponse {
	payload := ChatMessageRequest{
		User:  s.cfg.User,
		Query: "Descrizioni linee fattura:\n" + description,
		Inputs: ChatInputs{
			AttivitaSvolta: s.cfg.Attivita,
			InfoFornitore:  infoFornitore,
		},
		ResponseMode: "blocking",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("Failed to build classification request", zap.Error(err))
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		s.logger.Error("Failed to create classification request", zap.Error(err))
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("Classification request failed",
			zap.Error(err),
			zap.String("description", description),
		)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		s.logger.Error("Classification request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(bodyBytes)),
			zap.String("description", description),
		)
		return nil
	}

	var out ChatMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		s.logger.Error("Failed to decode classifier envelope", zap.Error(err))
		return nil
	}

	return &out
}

// DecodeAccounts extracts the candidate ledger accounts from a classifier
// reply. The two decode stages fail independently: a missing answer field
// and an unparsable inner string are logged separately, and both degrade to
// an empty list. An empty list is a valid outcome, not an error.
func (s *ClassifierService) DecodeAccounts(resp *ChatMessageResponse) []models.LedgerAccount {
	if resp == nil {
		return nil
	}

	if resp.Answer == "" {
		s.logger.Warn("Classifier response carries no answer field")
		return []models.LedgerAccount{}
	}

	var inner struct {
		ContiPossibili []models.LedgerAccount `json:"conti_possibili"`
	}
	if err := json.Unmarshal([]byte(resp.Answer), &inner); err != nil {
		s.logger.Error("Failed to parse classifier answer as JSON",
			zap.Error(err),
			zap.String("answer", resp.Answer),
		)
		return []models.LedgerAccount{}
	}

	if inner.ContiPossibili == nil {
		return []models.LedgerAccount{}
	}
	return inner.ContiPossibili
}
