package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	relayDTO "github.com/joy-dx/relay/dto"
	"github.com/walacor/walacor-go/config"
	"github.com/walacor/walacor-go/dto"
	"github.com/walacor/walacor-go/relays"
	"golang.org/x/time/rate"
)

// HTTPClient is the authenticated transport shared by every service.
//
// It logs in lazily, attaches the session token to each call and
// re-authenticates once when the platform answers 401. Token, base URL and
// credentials are guarded by one RWMutex so concurrent callers see a
// consistent triple and at most one login runs at a time.
type HTTPClient struct {
	cfg     *HTTPClientConfig
	netCfg  *config.Config
	relay   relayDTO.RelayInterface
	client  *http.Client
	limiter *rate.Limiter
	// middlewares configured ones, preceded by the static extra headers
	middlewares []Middleware

	tokenMu  sync.RWMutex
	token    dto.TokenInfo
	baseURL  string
	username string
	password string
}

func NewHTTPClient(netCfg *config.Config, cfg *HTTPClientConfig) *HTTPClient {
	if cfg == nil {
		def := DefaultHTTPClientConfig()
		cfg = &def
	}
	c := &HTTPClient{
		cfg:      cfg,
		netCfg:   netCfg,
		relay:    netCfg.Relay(),
		baseURL:  strings.TrimRight(netCfg.BaseURL, "/"),
		username: netCfg.Username,
		password: netCfg.Password,
		client: &http.Client{
			// Per-call deadlines travel on the context so streams are not cut short
			Transport: &http.Transport{
				MaxIdleConns:          50,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: netCfg.RequestTimeout,
				DisableKeepAlives:     false,
				Proxy:                 http.ProxyFromEnvironment,
			},
		},
	}
	if len(netCfg.ExtraHeaders) > 0 {
		c.middlewares = append(c.middlewares, StaticHeaderMiddleware(netCfg.ExtraHeaders))
	}
	c.middlewares = append(c.middlewares, cfg.Middlewares...)
	if netCfg.RateLimit > 0 {
		burst := netCfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(netCfg.RateLimit), burst)
	}
	return c
}

// BaseURL returns the server root the client currently targets.
func (c *HTTPClient) BaseURL() string {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()
	return c.baseURL
}

// SetBaseURL retargets the client and drops the session.
func (c *HTTPClient) SetBaseURL(server string) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	c.baseURL = strings.TrimRight(server, "/")
	c.token = dto.TokenInfo{}
}

// SetCredentials replaces the login credentials and drops the session.
func (c *HTTPClient) SetCredentials(username, password string) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	c.username = username
	c.password = password
	c.token = dto.TokenInfo{}
}

// Request executes one authenticated, middleware-wrapped platform call.
//
// Non-2xx statuses are mapped onto the dto error types, except 422 which is
// returned as a normal response for the caller to interpret. The response is
// returned alongside the error whenever one was received.
func (c *HTTPClient) Request(ctx context.Context, inCfg *dto.RequestConfig) (dto.Response, error) {
	if inCfg == nil {
		return dto.Response{}, dto.ErrNilReqConfig
	}
	req := newHTTPRequest(inCfg)

	for _, mw := range c.middlewares {
		if err := mw(ctx, req); err != nil {
			return dto.Response{}, fmt.Errorf("middleware aborted: %w", err)
		}
	}

	if err := req.FinalizeBody(); err != nil {
		return dto.Response{}, err
	}

	if err := c.ensureToken(ctx); err != nil {
		return dto.Response{}, err
	}

	resp, used, err := c.do(ctx, req, 1)
	if err != nil {
		return resp, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.relay.Warn(relays.RlyTransport{
			RequestID: req.ID,
			Method:    req.Method,
			Path:      req.Path,
			Status:    resp.StatusCode,
			Attempt:   1,
			Msg:       "session rejected, re-authenticating",
		})
		if err := c.refreshToken(ctx, used); err != nil {
			return dto.Response{}, err
		}
		resp, _, err = c.do(ctx, req, 2)
		if err != nil {
			return resp, err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return resp, &dto.AuthenticationError{
				StatusCode: http.StatusUnauthorized,
				Reason:     "request rejected after re-authentication",
			}
		}
	}

	if err := statusError(resp); err != nil {
		c.relay.Error(relays.RlyTransport{
			RequestID: req.ID,
			Method:    req.Method,
			Path:      req.Path,
			Status:    resp.StatusCode,
			Msg:       err.Error(),
		})
		return resp, err
	}
	return resp, nil
}

// do sends the finalized request once. It returns the access token that was
// attached so a 401 can be matched against the session that caused it.
func (c *HTTPClient) do(ctx context.Context, req *HTTPRequest, attempt int) (dto.Response, string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return dto.Response{}, "", &dto.APIConnectionError{Err: err}
		}
	}

	c.tokenMu.RLock()
	url := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	token := c.token
	c.tokenMu.RUnlock()

	reqCtx, cancel := ctx, context.CancelFunc(func() {})
	if !req.Stream {
		timeout := c.netCfg.RequestTimeout
		if req.Timeout > 0 {
			timeout = req.Timeout
		}
		if timeout > 0 {
			reqCtx, cancel = context.WithTimeout(ctx, timeout)
		}
	}

	var body io.Reader = http.NoBody
	if len(req.BodyBytes) > 0 {
		body = bytes.NewReader(req.BodyBytes)
	}
	httpReq, err := http.NewRequestWithContext(reqCtx, req.Method, url, body)
	if err != nil {
		cancel()
		return dto.Response{}, token.AccessToken, fmt.Errorf("create request: %w", err)
	}
	c.composeHeaders(httpReq, req, token)

	start := time.Now()
	httpResp, err := c.client.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		cancel()
		c.observe(req, 0, elapsed)
		c.relay.Error(relays.RlyTransport{
			RequestID: req.ID,
			Method:    req.Method,
			Path:      req.Path,
			Attempt:   attempt,
			Elapsed:   elapsed,
			Msg:       "request failed: " + err.Error(),
		})
		return dto.Response{}, token.AccessToken, &dto.APIConnectionError{Err: err}
	}
	c.observe(req, httpResp.StatusCode, elapsed)
	c.relay.Debug(relays.RlyTransport{
		RequestID: req.ID,
		Method:    req.Method,
		Path:      req.Path,
		Status:    httpResp.StatusCode,
		Attempt:   attempt,
		Elapsed:   elapsed,
		Msg:       "response received",
	})

	response := dto.Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header.Clone(),
	}
	if req.Stream && isSuccess(httpResp.StatusCode) {
		response.Stream = httpResp.Body
		return response, token.AccessToken, nil
	}

	defer cancel()
	defer func() {
		io.Copy(io.Discard, httpResp.Body) // drain fully for connection reuse
		httpResp.Body.Close()
	}()
	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return dto.Response{}, token.AccessToken, &dto.APIConnectionError{Err: fmt.Errorf("read body: %w", err)}
	}
	response.Body = bodyBytes
	return response, token.AccessToken, nil
}

func (c *HTTPClient) observe(req *HTTPRequest, status int, elapsed time.Duration) {
	if c.cfg.Observer != nil {
		c.cfg.Observer.ObserveRequest(req.Method, req.Path, status, elapsed)
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
