package sentiment_client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"supplier-verify/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Classify(t *testing.T) {
	tests := []struct {
		name      string
		label     string
		want      models.Sentiment
		wantError bool
	}{
		{"positive label", "POSITIVE", models.SentimentPositive, false},
		{"negative label", "NEGATIVE", models.SentimentNegative, false},
		{"unknown label is an error", "MIXED", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v1/classify", r.URL.Path)

				var req ClassifyRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.NotEmpty(t, req.Text)

				json.NewEncoder(w).Encode(ClassifyResponse{Label: tt.label, Score: 0.98})
			}))
			defer srv.Close()

			client := NewClient(srv.URL, 5*time.Second)
			got, err := client.Classify(context.Background(), "some supplier answer")
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Classify_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.Classify(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_Classify_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second)
	_, err := client.Classify(context.Background(), "text")
	require.Error(t, err)
}
