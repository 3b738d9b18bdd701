package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/walacor/walacor-go/dto"
	"github.com/walacor/walacor-go/relays"
	"github.com/walacor/walacor-go/utils"
)

const loginPath = "auth/login"

type loginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// normalizeAuthType fixes the capitalization of well known schemes.
// An empty type stays empty and the raw token is sent.
func normalizeAuthType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "bearer":
		return "Bearer"
	case "basic":
		return "Basic"
	default:
		return strings.TrimSpace(t)
	}
}

// LoginProvider is the dto.AuthProvider backed by the platform login
// endpoint. The platform has no refresh flow, so Refresh logs in again.
type LoginProvider struct {
	client *HTTPClient
}

// LoginProvider returns the credential login of this client, for callers that
// wrap it in their own AuthProvider.
func (c *HTTPClient) LoginProvider() *LoginProvider {
	return &LoginProvider{client: c}
}

func (p *LoginProvider) Authenticate(ctx context.Context) (dto.TokenInfo, error) {
	return p.client.login(ctx)
}

func (p *LoginProvider) Refresh(ctx context.Context, _ dto.TokenInfo) (dto.TokenInfo, error) {
	return p.client.login(ctx)
}

// login exchanges the configured credentials for a session token.
// Callers hold tokenMu.
func (c *HTTPClient) login(ctx context.Context) (dto.TokenInfo, error) {
	payload, err := json.Marshal(loginRequest{UserName: c.username, Password: c.password})
	if err != nil {
		return dto.TokenInfo{}, &dto.AuthenticationError{Reason: err.Error()}
	}

	if c.netCfg.LoginTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.netCfg.LoginTimeout)
		defer cancel()
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+loginPath, bytes.NewReader(payload))
	if err != nil {
		return dto.TokenInfo{}, &dto.AuthenticationError{Reason: err.Error()}
	}
	httpReq.Header.Set("Content-Type", utils.ContentTypeJSON)
	if c.netCfg.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.netCfg.UserAgent)
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		c.relay.Error(relays.RlyAuth{Username: c.username, Msg: "login failed: " + err.Error()})
		return dto.TokenInfo{}, &dto.APIConnectionError{Err: err}
	}
	defer httpResp.Body.Close()
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return dto.TokenInfo{}, &dto.APIConnectionError{Err: err}
	}

	if httpResp.StatusCode != http.StatusOK {
		c.relay.Error(relays.RlyAuth{Username: c.username, Status: httpResp.StatusCode, Msg: "login rejected"})
		return dto.TokenInfo{}, &dto.AuthenticationError{StatusCode: httpResp.StatusCode}
	}

	token := gjson.GetBytes(body, "api_token")
	if token.Type != gjson.String || token.Str == "" {
		c.relay.Error(relays.RlyAuth{Username: c.username, Status: httpResp.StatusCode, Msg: "login response carries no token"})
		return dto.TokenInfo{}, &dto.AuthenticationError{Reason: "no api_token in response"}
	}

	c.relay.Info(relays.RlyAuth{Username: c.username, Status: httpResp.StatusCode, Msg: "authenticated"})
	return dto.TokenInfo{AccessToken: token.Str}, nil
}

// composeHeaders layers the outgoing headers. Later layers win:
// content type and user agent, the session token, then the headers of the
// call itself including those injected by middlewares.
func (c *HTTPClient) composeHeaders(httpReq *http.Request, req *HTTPRequest, token dto.TokenInfo) {
	httpReq.Header.Set("Content-Type", req.ContentType)
	if c.netCfg.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.netCfg.UserAgent)
	}
	if token.AccessToken != "" {
		httpReq.Header.Set("Authorization", token.AuthorizationValue())
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
}
