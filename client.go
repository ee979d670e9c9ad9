package fusion

import (
	"net/http"

	fusionerrors "github.com/oomol-lab/fusion-sdk-go/errors"
	"github.com/oomol-lab/fusion-sdk-go/fusiontypes"
	"github.com/oomol-lab/fusion-sdk-go/internal/api"
	"github.com/oomol-lab/fusion-sdk-go/internal/upload"
)

// Client provides access to the OOMOL Fusion API: task submission and
// polling plus file uploads to Fusion-managed storage. It is safe for
// concurrent use.
type Client struct {
	api        api.API
	uploader   *upload.Uploader
	cfg        fusiontypes.ClientConfig
	httpClient *http.Client
}

// New creates a new Fusion client authenticated with the given API
// token. Options override the default endpoint and polling behavior.
//
// Example:
//
//	client, err := fusion.New(token,
//	    fusion.WithPollingInterval(5*time.Second),
//	)
func New(token string, opts ...fusiontypes.Option) (*Client, error) {
	if token == "" {
		return nil, fusionerrors.NewError("new", fusionerrors.ErrValidation).
			WithMessage("API token must not be empty")
	}

	cfg := fusiontypes.ClientConfig{
		BaseURL:         DefaultBaseURL,
		PollingInterval: DefaultPollingInterval,
		Timeout:         DefaultTimeout,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	apiClient := api.NewClient(cfg.BaseURL, token, httpClient)

	return &Client{
		api:        apiClient,
		uploader:   upload.New(apiClient, httpClient),
		cfg:        cfg,
		httpClient: httpClient,
	}, nil
}

// Close releases idle connections held by the underlying HTTP client.
// The client must not be used after Close.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
