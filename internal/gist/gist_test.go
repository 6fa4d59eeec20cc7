package gist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payloadFixture() Payload {
	return Payload{
		Description: "Benchmark report for abc123 (comparison)",
		Public:      false,
		Files: map[string]File{
			"abc123.md": {Content: "# report"},
		},
	}
}

func testPublisher(t *testing.T, handler http.Handler) (*GitHubPublisher, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := github.NewClient(server.Client())
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	return newPublisherWithClient(client), server
}

func TestNewPublisherRequiresToken(t *testing.T) {
	_, err := NewPublisher("")
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestPublishCreateRejectsID(t *testing.T) {
	p := newPublisherWithClient(github.NewClient(nil))
	payload := payloadFixture()
	payload.ID = "deadbeef"

	_, err := p.Publish(context.Background(), payload, Create)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not carry a gist id")
}

func TestPublishUpdateRequiresID(t *testing.T) {
	p := newPublisherWithClient(github.NewClient(nil))

	_, err := p.Publish(context.Background(), payloadFixture(), Update)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must carry a gist id")
}

func TestPublishCreate(t *testing.T) {
	p, _ := testPublisher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/gists", r.URL.Path)

		var body struct {
			Description string                     `json:"description"`
			Public      bool                       `json:"public"`
			Files       map[string]json.RawMessage `json:"files"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body.Files, "abc123.md")

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"newgist","html_url":"https://gist.github.com/newgist"}`))
	}))

	handle, err := p.Publish(context.Background(), payloadFixture(), Create)
	require.NoError(t, err)
	assert.Equal(t, "newgist", handle.ID)
	assert.Equal(t, "https://gist.github.com/newgist", handle.URL)
}

func TestPublishUpdate(t *testing.T) {
	p, _ := testPublisher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/gists/existing", r.URL.Path)
		w.Write([]byte(`{"id":"existing","html_url":"https://gist.github.com/existing"}`))
	}))

	payload := payloadFixture()
	payload.ID = "existing"

	handle, err := p.Publish(context.Background(), payload, Update)
	require.NoError(t, err)
	// the handle's id equals the input id
	assert.Equal(t, "existing", handle.ID)
}

func TestPublishUpdateNotFound(t *testing.T) {
	p, _ := testPublisher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	}))

	payload := payloadFixture()
	payload.ID = "missing"

	_, err := p.Publish(context.Background(), payload, Update)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublishRejectedCredentials(t *testing.T) {
	p, _ := testPublisher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Bad credentials"}`))
	}))

	_, err := p.Publish(context.Background(), payloadFixture(), Create)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestPublishServerError(t *testing.T) {
	p, _ := testPublisher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := p.Publish(context.Background(), payloadFixture(), Create)
	assert.ErrorIs(t, err, ErrRemoteService)
}
