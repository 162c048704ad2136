package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"contai/internal/models"
	"contai/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClassifier(url string) *ClassifierService {
	return NewClassifierService(&config.ClassifierConfig{
		URL:      url,
		APIKey:   "app-test-key",
		User:     "ContAI",
		Attivita: "commercio al dettaglio",
	}, zap.NewNop())
}

func TestClassify_Success(t *testing.T) {
	inner, err := json.Marshal(map[string]any{
		"conti_possibili": []models.LedgerAccount{
			{NumeroConto: "60.01.001", Descrizione: "Acquisti di merci"},
		},
	})
	require.NoError(t, err)

	var captured ChatMessageRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer app-test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_ = json.NewEncoder(w).Encode(ChatMessageResponse{Answer: string(inner)})
	}))
	defer server.Close()

	classifier := newTestClassifier(server.URL)
	resp := classifier.Classify(context.Background(), "Toner nero", "vende materiale da ufficio")
	require.NotNil(t, resp)

	assert.Equal(t, "ContAI", captured.User)
	assert.Equal(t, "Descrizioni linee fattura:\nToner nero", captured.Query)
	assert.Equal(t, "commercio al dettaglio", captured.Inputs.AttivitaSvolta)
	assert.Equal(t, "vende materiale da ufficio", captured.Inputs.InfoFornitore)
	assert.Equal(t, "blocking", captured.ResponseMode)

	accounts := classifier.DecodeAccounts(resp)
	require.Len(t, accounts, 1)
	assert.Equal(t, "60.01.001", accounts[0].NumeroConto)
	assert.Equal(t, "Acquisti di merci", accounts[0].Descrizione)
}

func TestClassify_OmitsEmptySupplierContext(t *testing.T) {
	var rawBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawBody, _ = io.ReadAll(r.Body)
		_ = json.NewEncoder(w).Encode(ChatMessageResponse{Answer: `{"conti_possibili": []}`})
	}))
	defer server.Close()

	classifier := newTestClassifier(server.URL)
	resp := classifier.Classify(context.Background(), "Toner nero", "")
	require.NotNil(t, resp)

	assert.NotContains(t, string(rawBody), "info_fornitore")
}

func TestClassify_DegradesToNil(t *testing.T) {
	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		classifier := newTestClassifier(server.URL)
		assert.Nil(t, classifier.Classify(context.Background(), "Toner nero", ""))
	})

	t.Run("non-2xx status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream exploded", http.StatusInternalServerError)
		}))
		defer server.Close()

		classifier := newTestClassifier(server.URL)
		assert.Nil(t, classifier.Classify(context.Background(), "Toner nero", ""))
	})

	t.Run("unparsable envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer server.Close()

		classifier := newTestClassifier(server.URL)
		assert.Nil(t, classifier.Classify(context.Background(), "Toner nero", ""))
	})
}

func TestDecodeAccounts(t *testing.T) {
	classifier := newTestClassifier("http://unused")

	t.Run("nil response", func(t *testing.T) {
		assert.Empty(t, classifier.DecodeAccounts(nil))
	})

	t.Run("double-encoded round trip", func(t *testing.T) {
		want := []models.LedgerAccount{
			{NumeroConto: "60.01.001", Descrizione: "Acquisti di merci"},
			{NumeroConto: "66.05.002", Descrizione: "Cancelleria varia"},
		}
		inner, err := json.Marshal(map[string]any{"conti_possibili": want})
		require.NoError(t, err)

		got := classifier.DecodeAccounts(&ChatMessageResponse{Answer: string(inner)})
		assert.Equal(t, want, got)
	})

	t.Run("empty candidate list is a valid outcome", func(t *testing.T) {
		got := classifier.DecodeAccounts(&ChatMessageResponse{Answer: `{"conti_possibili": []}`})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("missing answer field", func(t *testing.T) {
		got := classifier.DecodeAccounts(&ChatMessageResponse{})
		assert.Empty(t, got)
	})

	t.Run("answer is not valid JSON", func(t *testing.T) {
		got := classifier.DecodeAccounts(&ChatMessageResponse{Answer: "mi dispiace, non posso aiutarti"})
		assert.Empty(t, got)
	})

	t.Run("conti_possibili key missing", func(t *testing.T) {
		got := classifier.DecodeAccounts(&ChatMessageResponse{Answer: `{"altro_campo": 1}`})
		assert.Empty(t, got)
	})
}
