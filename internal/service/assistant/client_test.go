package assistant

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pcarvalho/editassist/internal/apperrors"
	"github.com/pcarvalho/editassist/internal/models"
)

func TestClientComplete(t *testing.T) {
	t.Parallel()

	conversation := models.EditRequest{
		Messages: []models.ChatMessage{
			{Role: models.RoleUser, Content: "Como melhorar essa foto?"},
		},
	}

	t.Run("missing credential never reaches upstream", func(t *testing.T) {
		for _, key := range []string{"", "sk-placeholder"} {
			var calls atomic.Int64
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
			}))
			t.Cleanup(server.Close)

			c := New(Config{APIKey: key, BaseURL: server.URL})
			require.False(t, c.Configured())

			_, err := c.Complete(t.Context(), conversation)

			require.ErrorIs(t, err, apperrors.ErrAssistantNotConfigured)
			require.Zero(t, calls.Load(), "unconfigured client must not call upstream")
		}
	})

	t.Run("forwards conversation and returns reply", func(t *testing.T) {
		var received completionRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/chat/completions", r.URL.Path)
			require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

			json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]string{"role": "assistant", "content": "Aumente o contraste."}},
				},
			})
		}))
		t.Cleanup(server.Close)

		c := New(Config{APIKey: "sk-test", BaseURL: server.URL})

		reply, err := c.Complete(t.Context(), conversation)

		require.NoError(t, err)
		require.Equal(t, "Aumente o contraste.", reply)

		require.Equal(t, "gpt-4o", received.Model)
		require.InEpsilon(t, 0.8, received.Temperature, 1e-9)
		require.Equal(t, 2000, received.MaxTokens)
		require.Len(t, received.Messages, 2, "system prompt plus the single user turn")
		require.Equal(t, models.RoleSystem, received.Messages[0].Role)
		require.Equal(t, "Como melhorar essa foto?", received.Messages[1].Content)
	})

	t.Run("media context appended to last user message", func(t *testing.T) {
		var received completionRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]string{"role": "assistant", "content": "ok"}},
				},
			})
		}))
		t.Cleanup(server.Close)

		c := New(Config{APIKey: "sk-test", BaseURL: server.URL})

		_, err := c.Complete(t.Context(), models.EditRequest{
			Messages: []models.ChatMessage{
				{Role: models.RoleUser, Content: "Primeira pergunta"},
				{Role: models.RoleAssistant, Content: "Primeira resposta"},
				{Role: models.RoleUser, Content: "Edite para o Instagram"},
			},
			MediaContext: []models.MediaFile{
				{Name: "foto.png", Type: "image/png", Size: 2 * 1024 * 1024},
			},
			EditRequest: "deixe mais vibrante",
		})
		require.NoError(t, err)

		require.Len(t, received.Messages, 4)
		last := received.Messages[3].Content
		require.Contains(t, last, "Edite para o Instagram")
		require.Contains(t, last, "foto.png (image/png, 2.00MB)")
		require.Contains(t, last, "deixe mais vibrante")
		require.NotContains(t, received.Messages[1].Content, "foto.png",
			"context should go only on the last user message")
	})

	t.Run("history without user turn still carries media", func(t *testing.T) {
		var received completionRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]string{"role": "assistant", "content": "ok"}},
				},
			})
		}))
		t.Cleanup(server.Close)

		c := New(Config{APIKey: "sk-test", BaseURL: server.URL})

		_, err := c.Complete(t.Context(), models.EditRequest{
			Messages: []models.ChatMessage{
				{Role: models.RoleAssistant, Content: "Em que posso ajudar?"},
			},
			MediaContext: []models.MediaFile{
				{Name: "foto.png", Type: "image/png", Size: 1024},
			},
			EditRequest: "recorte quadrado",
		})
		require.NoError(t, err)

		require.Len(t, received.Messages, 3, "context should become its own user message")
		last := received.Messages[2]
		require.Equal(t, models.RoleUser, last.Role)
		require.Contains(t, last.Content, "foto.png")
		require.Contains(t, last.Content, "recorte quadrado")
	})

	t.Run("carousel upload without instruction gets summary", func(t *testing.T) {
		var received completionRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]string{"role": "assistant", "content": "ok"}},
				},
			})
		}))
		t.Cleanup(server.Close)

		c := New(Config{APIKey: "sk-test", BaseURL: server.URL})

		_, err := c.Complete(t.Context(), models.EditRequest{
			Messages: []models.ChatMessage{
				{Role: models.RoleUser, Content: "Segue o post"},
			},
			MediaContext: []models.MediaFile{
				{Name: "a.png", Type: "image/png", Size: 1024},
				{Name: "b.png", Type: "image/png", Size: 1024},
				{Name: "c.png", Type: "image/png", Size: 1024},
			},
			Carousel: true,
		})
		require.NoError(t, err)

		require.Contains(t, received.Messages[1].Content, "Carousel with 3 images")
	})

	t.Run("empty choices fall back to fixed reply", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
		}))
		t.Cleanup(server.Close)

		c := New(Config{APIKey: "sk-test", BaseURL: server.URL})

		reply, err := c.Complete(t.Context(), conversation)

		require.NoError(t, err)
		require.Equal(t, fallbackReply, reply)
	})

	t.Run("upstream error fail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
		}))
		t.Cleanup(server.Close)

		c := New(Config{APIKey: "sk-test", BaseURL: server.URL})

		_, err := c.Complete(t.Context(), conversation)

		require.ErrorContains(t, err, "429")
	})
}
