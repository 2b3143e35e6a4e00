package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icad-go/tonedetect/internal/notify"
	"github.com/icad-go/tonedetect/internal/types"
)

func TestWebhookNotifyPostsSegmentJSON(t *testing.T) {
	var received types.Segment

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	webhook := notify.NewWebhook(server.URL)

	segment := types.Segment{LocalAudioPath: "/tmp/clip.mp3"}
	err := webhook.Notify(context.Background(), segment)

	require.NoError(t, err)
	assert.Equal(t, segment.LocalAudioPath, received.LocalAudioPath)
}

func TestWebhookNotifyErrorsOnServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	webhook := notify.NewWebhook(server.URL)

	err := webhook.Notify(context.Background(), types.Segment{})
	assert.Error(t, err)
}
