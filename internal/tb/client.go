// Package tb talks to a TensorBoard server: an HTTP client for its web API
// and a manager for running an embedded server process.
package tb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"charm.land/log/v2"
)

// DefaultBaseURL is where a locally started TensorBoard listens by default.
const DefaultBaseURL = "http://localhost:6006"

// Sentinel errors for the two failure classes the UI cares about.
var (
	// ErrConnection wraps dial and timeout failures: the server is not
	// reachable at all.
	ErrConnection = errors.New("tensorboard unreachable")
	// ErrAPI wraps non-2xx responses from a reachable server.
	ErrAPI = errors.New("tensorboard api error")
)

// Client fetches data from a running TensorBoard server over its web API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the server at baseURL. A zero timeout
// falls back to 10 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the server URL the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// Close releases idle connections. The client must not be used afterwards.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// get performs a GET against an API endpoint and decodes the JSON body
// into out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	u := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", endpoint, err)
	}

	log.Debug("tensorboard request", "url", u)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConnection, c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s returned %s", ErrAPI, endpoint, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", ErrAPI, endpoint, err)
	}
	return nil
}

// Environment returns the server version and data location.
func (c *Client) Environment(ctx context.Context) (Environment, error) {
	var env Environment
	err := c.get(ctx, "/data/environment", nil, &env)
	return env, err
}

// Logdir returns the log directory the server is reading from.
func (c *Client) Logdir(ctx context.Context) (string, error) {
	var out struct {
		Logdir string `json:"logdir"`
	}
	if err := c.get(ctx, "/data/logdir", nil, &out); err != nil {
		return "", err
	}
	return out.Logdir, nil
}

// Runs returns the names of all runs the server knows about.
func (c *Client) Runs(ctx context.Context) ([]string, error) {
	var runs []string
	if err := c.get(ctx, "/data/runs", nil, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// PluginsListing returns the available plugins and their paths.
func (c *Client) PluginsListing(ctx context.Context) (map[string]string, error) {
	var out map[string]string
	if err := c.get(ctx, "/data/plugins_listing", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ScalarTags returns the scalar tags recorded for a run.
func (c *Client) ScalarTags(ctx context.Context, run string) (map[string]ScalarTagInfo, error) {
	params := url.Values{"run": {run}}
	var out map[string]ScalarTagInfo
	if err := c.get(ctx, "/data/plugin/scalars/tags", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Scalars returns the time series for one run/tag pair.
func (c *Client) Scalars(ctx context.Context, run, tag string) ([]ScalarPoint, error) {
	params := url.Values{"run": {run}, "tag": {tag}, "format": {"JSON"}}
	var out []ScalarPoint
	if err := c.get(ctx, "/data/plugin/scalars/scalars", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ImageTags returns image tags for all runs, keyed by run then tag.
func (c *Client) ImageTags(ctx context.Context) (map[string]map[string]SampledTagInfo, error) {
	var out map[string]map[string]SampledTagInfo
	if err := c.get(ctx, "/data/plugin/images/tags", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Images returns image metadata for one run/tag/sample.
func (c *Client) Images(ctx context.Context, run, tag string, sample int) ([]ImageMetadata, error) {
	params := url.Values{"run": {run}, "tag": {tag}, "sample": {strconv.Itoa(sample)}}
	var out []ImageMetadata
	if err := c.get(ctx, "/data/plugin/images/images", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AudioTags returns audio tags for all runs, keyed by run then tag.
func (c *Client) AudioTags(ctx context.Context) (map[string]map[string]SampledTagInfo, error) {
	var out map[string]map[string]SampledTagInfo
	if err := c.get(ctx, "/data/plugin/audio/tags", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Audio returns audio metadata for one run/tag/sample.
func (c *Client) Audio(ctx context.Context, run, tag string, sample int) ([]AudioMetadata, error) {
	params := url.Values{"run": {run}, "tag": {tag}, "sample": {strconv.Itoa(sample)}}
	var out []AudioMetadata
	if err := c.get(ctx, "/data/plugin/audio/audio", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DistributionTags returns distribution tags for all runs.
func (c *Client) DistributionTags(ctx context.Context) (map[string]map[string]json.RawMessage, error) {
	var out map[string]map[string]json.RawMessage
	if err := c.get(ctx, "/data/plugin/distributions/tags", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Distributions returns the histogram series for one run/tag pair.
func (c *Client) Distributions(ctx context.Context, run, tag string) ([]DistributionPoint, error) {
	params := url.Values{"run": {run}, "tag": {tag}}
	var out []DistributionPoint
	if err := c.get(ctx, "/data/plugin/distributions/distributions", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TextTags returns text tags for all runs, keyed by run then tag.
func (c *Client) TextTags(ctx context.Context) (map[string]map[string]SampledTagInfo, error) {
	var out map[string]map[string]SampledTagInfo
	if err := c.get(ctx, "/data/plugin/text/tags", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Texts returns the text series for one run/tag pair.
func (c *Client) Texts(ctx context.Context, run, tag string) ([]TextPoint, error) {
	params := url.Values{"run": {run}, "tag": {tag}}
	var out []TextPoint
	if err := c.get(ctx, "/data/plugin/text/text", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}
