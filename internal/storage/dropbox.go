package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/auth"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"
	"golang.org/x/oauth2"

	"github.com/starford/contractviewer/internal/apperr"
	"github.com/starford/contractviewer/internal/models"
)

// Dropbox API endpoints.
const (
	DropboxTokenURL   = "https://api.dropboxapi.com/oauth2/token"
	DropboxContentURL = "https://content.dropboxapi.com/2"
)

const maxObjectBytes = 32 << 20

// DropboxCredentials are the app credentials and the long-lived refresh
// token used to mint short-lived access tokens.
type DropboxCredentials struct {
	AppKey       string
	AppSecret    string
	RefreshToken string
}

type dropboxOptions struct {
	tokenURL   string
	contentURL string
	httpClient *http.Client
}

// DropboxOption customises a Dropbox provider.
type DropboxOption func(*dropboxOptions)

// WithEndpoints overrides the token and content API base URLs.
func WithEndpoints(tokenURL, contentURL string) DropboxOption {
	return func(o *dropboxOptions) {
		o.tokenURL = tokenURL
		o.contentURL = contentURL
	}
}

// WithHTTPClient sets the client used for both token and content calls.
func WithHTTPClient(c *http.Client) DropboxOption {
	return func(o *dropboxOptions) {
		o.httpClient = c
	}
}

// Dropbox implements Provider on top of the Dropbox SDK. Access tokens come
// from a refresh-token oauth2 client handed to the SDK.
type Dropbox struct {
	client     *http.Client
	contentURL string
}

// NewDropbox creates a provider that refreshes its access token on demand.
func NewDropbox(creds DropboxCredentials, opts ...DropboxOption) *Dropbox {
	o := dropboxOptions{
		tokenURL:   DropboxTokenURL,
		contentURL: DropboxContentURL,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = NewHTTPClient(0)
	}

	conf := &oauth2.Config{
		ClientID:     creds.AppKey,
		ClientSecret: creds.AppSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  o.tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	// The token source outlives any single request, so it gets its own context.
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, o.httpClient)
	client := oauth2.NewClient(ctx, conf.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken}))
	client.Timeout = o.httpClient.Timeout

	return &Dropbox{
		client:     client,
		contentURL: strings.TrimRight(o.contentURL, "/"),
	}
}

// sdkConfig builds the SDK configuration for one call. The request context
// is stamped on every outgoing request so cancellation reaches the upstream.
func (d *Dropbox) sdkConfig(ctx context.Context) dropbox.Config {
	contentURL := d.contentURL
	return dropbox.Config{
		LogLevel: dropbox.LogOff,
		Client: &http.Client{
			Transport: &contextTransport{ctx: ctx, base: d.client.Transport},
			Timeout:   d.client.Timeout,
		},
		URLGenerator: func(hostType, namespace, route string) string {
			return contentURL + "/" + namespace + "/" + route
		},
	}
}

type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t *contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

// Download fetches the file at path through /files/download.
func (d *Dropbox) Download(ctx context.Context, path string) (*models.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("dropbox: download %s: %w", path, err)
	}

	meta, content, err := files.New(d.sdkConfig(ctx)).Download(files.NewDownloadArg(path))
	if err != nil {
		return nil, downloadError(path, err)
	}
	defer content.Close()

	data, err := io.ReadAll(io.LimitReader(content, maxObjectBytes+1))
	if err != nil {
		return nil, fmt.Errorf("dropbox: read %s: %w", path, err)
	}
	if len(data) > maxObjectBytes {
		return nil, fmt.Errorf("dropbox: %s exceeds %d bytes", path, maxObjectBytes)
	}

	obj := &models.Object{
		Path: path,
		Size: int64(len(data)),
		Data: data,
	}
	if meta != nil {
		if meta.PathDisplay != "" {
			obj.Path = meta.PathDisplay
		}
		if meta.Size > 0 {
			obj.Size = int64(meta.Size)
		}
		obj.LastModified = meta.ServerModified
	}
	return obj, nil
}

// APIError is a non-success answer from Dropbox. Summary holds Dropbox's
// error_summary (or the OAuth error code) for operator diagnosis.
type APIError struct {
	Op         string
	Path       string
	StatusCode int
	Summary    string
}

func (e *APIError) Error() string {
	summary := e.Summary
	if summary == "" {
		summary = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("dropbox %s %s: HTTP %d: %s", e.Op, e.Path, e.StatusCode, summary)
}

// Unwrap maps a missing path to apperr.ErrNotFound.
func (e *APIError) Unwrap() error {
	if strings.Contains(e.Summary, "not_found") {
		return apperr.ErrNotFound
	}
	return nil
}

// downloadError turns an SDK error into an *APIError. Transport failures,
// cancellation included, are wrapped as they are.
func downloadError(path string, err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		return tokenError(path, re)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("dropbox: download %s: %w", path, err)
	}

	apiErr := &APIError{Op: "download", Path: path}
	var (
		endpointErr files.DownloadAPIError
		authErr     auth.AuthAPIError
		internalErr dropbox.SDKInternalError
	)
	switch {
	case errors.As(err, &endpointErr):
		apiErr.StatusCode = http.StatusConflict
		apiErr.Summary = endpointErr.ErrorSummary
	case errors.As(err, &authErr):
		apiErr.StatusCode = http.StatusUnauthorized
		apiErr.Summary = authErr.ErrorSummary
	case errors.As(err, &internalErr):
		apiErr.StatusCode = internalErr.StatusCode
		apiErr.Summary = internalSummary(internalErr.Content)
	default:
		apiErr.Summary = err.Error()
	}
	apiErr.Summary = strings.TrimRight(strings.TrimSpace(apiErr.Summary), "/.")
	return apiErr
}

// internalSummary extracts error_summary from an unparsed error body, or
// returns the body itself when it is plain text.
func internalSummary(content string) string {
	var payload struct {
		ErrorSummary string `json:"error_summary"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err == nil && payload.ErrorSummary != "" {
		return payload.ErrorSummary
	}
	return content
}

func tokenError(path string, re *oauth2.RetrieveError) error {
	apiErr := &APIError{Op: "token", Path: path, Summary: re.ErrorCode}
	if re.Response != nil {
		apiErr.StatusCode = re.Response.StatusCode
	}
	if apiErr.Summary == "" {
		apiErr.Summary = strings.TrimSpace(string(re.Body))
	}
	return apiErr
}
