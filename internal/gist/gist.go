// Package gist publishes benchmark reports as GitHub gists.
package gist

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v66/github"
)

// Error taxonomy for publish failures. None of these are retried: a
// failure aborts the pipeline and surfaces to the invoker.
var (
	ErrAuthentication = errors.New("gist authentication failed")
	ErrNotFound       = errors.New("gist not found")
	ErrRemoteService  = errors.New("gist service error")
)

// Mode selects between creating a new gist and updating an existing one.
type Mode int

const (
	Create Mode = iota + 1
	Update
)

// File is one named file's content inside a payload.
type File struct {
	Content string `json:"content"`
}

// Payload is the document sent to the remote service. ID must be set in
// Update mode and absent in Create mode.
type Payload struct {
	ID          string          `json:"gist_id,omitempty"`
	Description string          `json:"description"`
	Public      bool            `json:"public"`
	Files       map[string]File `json:"files"`
}

// Handle identifies the published document.
type Handle struct {
	ID  string
	URL string
}

// Publisher publishes a payload and returns a handle to the remote
// document.
type Publisher interface {
	Publish(ctx context.Context, payload Payload, mode Mode) (*Handle, error)
}

// GitHubPublisher implements Publisher against the GitHub gists API.
type GitHubPublisher struct {
	client *github.Client
}

// NewPublisher builds a publisher from an API token. An empty token fails
// immediately with ErrAuthentication so the pipeline can reject a doomed
// run before any benchmark work starts.
func NewPublisher(token string) (*GitHubPublisher, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: no token configured", ErrAuthentication)
	}
	httpClient := &http.Client{Timeout: 30 * time.Second}
	return &GitHubPublisher{client: github.NewClient(httpClient).WithAuthToken(token)}, nil
}

func newPublisherWithClient(client *github.Client) *GitHubPublisher {
	return &GitHubPublisher{client: client}
}

// Publish creates or updates the remote gist. Update replaces files whose
// names match the payload's and adds the rest; it never deletes files
// already on the gist.
func (p *GitHubPublisher) Publish(ctx context.Context, payload Payload, mode Mode) (*Handle, error) {
	if err := validate(payload, mode); err != nil {
		return nil, err
	}

	files := make(map[github.GistFilename]github.GistFile, len(payload.Files))
	for name, f := range payload.Files {
		files[github.GistFilename(name)] = github.GistFile{Content: github.String(f.Content)}
	}
	g := &github.Gist{
		Description: github.String(payload.Description),
		Public:      github.Bool(payload.Public),
		Files:       files,
	}

	var (
		result *github.Gist
		err    error
	)
	switch mode {
	case Create:
		result, _, err = p.client.Gists.Create(ctx, g)
	case Update:
		result, _, err = p.client.Gists.Edit(ctx, payload.ID, g)
	}
	if err != nil {
		return nil, mapError(err)
	}

	return &Handle{ID: result.GetID(), URL: result.GetHTMLURL()}, nil
}

func validate(payload Payload, mode Mode) error {
	switch mode {
	case Create:
		if payload.ID != "" {
			return fmt.Errorf("create mode: payload must not carry a gist id (got %q)", payload.ID)
		}
	case Update:
		if payload.ID == "" {
			return fmt.Errorf("update mode: payload must carry a gist id")
		}
	default:
		return fmt.Errorf("unknown publish mode %d", mode)
	}
	return nil
}

func mapError(err error) error {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		switch errResp.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrAuthentication, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		}
	}
	// Timeouts and any other non-2xx end up here.
	return fmt.Errorf("%w: %v", ErrRemoteService, err)
}
