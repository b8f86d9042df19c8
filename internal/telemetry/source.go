package telemetry

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/minerator/viewerator/internal/errors"
)

const (
	// DefaultRequestTimeout bounds one status request.
	DefaultRequestTimeout = 5 * time.Second
	statusPath            = "/api/status"
	maxPayloadBytes       = 16 << 20
)

// Source produces raw status payloads.
type Source interface {
	// Fetch returns the current payload.
	Fetch(ctx context.Context) ([]byte, error)
	// Live reports whether the payload comes from a running minerator, in
	// which case its log is worth tailing.
	Live() bool
	// Describe names the source for log lines.
	Describe() string
}

// HTTPSource polls the minerator status endpoint.
type HTTPSource struct {
	url        string
	httpClient *http.Client
	timeout    time.Duration
}

// HTTPOption mutates an HTTPSource during construction.
type HTTPOption func(*HTTPSource)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// WithTimeout bounds each request. Non-positive values keep the default.
func WithTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewHTTPSource builds a source for the minerator at host. A host without a
// scheme is taken as plain HTTP.
func NewHTTPSource(host string, opts ...HTTPOption) (*HTTPSource, error) {
	u, err := statusURL(host)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid minerator host %q", host),
			"Use a URL such as http://localhost or http://10.0.0.5:8080.")
	}

	s := &HTTPSource{url: u, timeout: DefaultRequestTimeout}
	for _, opt := range opts {
		opt(s)
	}
	if s.httpClient == nil {
		s.httpClient = &http.Client{}
	}
	return s, nil
}

// Live is always true for the HTTP source.
func (s *HTTPSource) Live() bool {
	return true
}

// Describe returns the endpoint URL.
func (s *HTTPSource) Describe() string {
	return s.url
}

// Fetch performs one GET of the status endpoint.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to build status request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fetchError(s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		cause := fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(snippet)))
		return nil, errors.WrapWithCode(cause, errors.ErrFetch,
			"Minerator status request failed",
			"Check the minerator is running and serves "+statusPath+".")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			"Failed to read minerator status", "")
	}
	return body, nil
}

func fetchError(u string, err error) *errors.Error {
	suggestion := "Check the host setting and that the minerator is reachable."
	if isRedirectError(err) {
		suggestion = "The server is redirecting too many times or in a loop; point --host at the minerator itself."
	} else if stderrors.Is(err, context.DeadlineExceeded) {
		suggestion = "The minerator did not answer in time; raise request_timeout if it is busy."
	}
	return errors.WrapWithCode(err, errors.ErrFetch,
		"Could not reach "+u, suggestion)
}

// isRedirectError matches the error net/http returns once its redirect
// policy gives up.
func isRedirectError(err error) bool {
	var uerr *url.Error
	if !stderrors.As(err, &uerr) {
		return false
	}
	return strings.Contains(uerr.Err.Error(), "redirects")
}

func statusURL(host string) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", fmt.Errorf("host is empty")
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	u, err := url.Parse(host)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", fmt.Errorf("no host in %q", host)
	}
	u.Path = path.Join("/", u.Path, statusPath)
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// FileSource replays a captured status payload. The file is re-read on every
// fetch so it can be edited while the dashboard runs.
type FileSource struct {
	path string
}

// NewFileSource returns a source reading path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads the whole file.
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "Status read cancelled")
		}
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			"Failed to read status file "+s.path,
			"Check the --input-file path.")
	}
	return data, nil
}

// Live is false: a captured payload has no running minerator behind it.
func (s *FileSource) Live() bool {
	return false
}

// Describe returns the file path.
func (s *FileSource) Describe() string {
	return s.path
}
