package storesdk

import (
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/storefront/pkg/httpx"
	"github.com/aussiebroadwan/storefront/pkg/jwtx"
)

// ErrNoSession is returned by SessionClaims before a successful Login.
var ErrNoSession = errors.New("storesdk: no session cookie")

// Client talks to the storefront API and carries the session cookie between
// calls.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with its own cookie jar.
func NewClient(baseURL string) *Client {
	// cookiejar.New only fails on a bad PublicSuffixList.
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		},
	}
}

// Token returns the raw session token currently held, or "".
func (c *Client) Token() string {
	if c.HTTPClient.Jar == nil {
		return ""
	}
	u, err := url.Parse(c.BaseURL + "/")
	if err != nil {
		return ""
	}
	for _, ck := range c.HTTPClient.Jar.Cookies(u) {
		if ck.Name == httpx.SessionCookieName {
			return ck.Value
		}
	}
	return ""
}

// SessionClaims decodes the held session token without verifying it.
func (c *Client) SessionClaims() (jwtx.Claims, error) {
	token := c.Token()
	if token == "" {
		return jwtx.Claims{}, ErrNoSession
	}
	return jwtx.Decode(token)
}

// SetToken replaces the held session token. Useful for replaying a token
// obtained elsewhere.
func (c *Client) SetToken(token string) error {
	u, err := url.Parse(c.BaseURL + "/")
	if err != nil {
		return err
	}
	c.HTTPClient.Jar.SetCookies(u, []*http.Cookie{{
		Name:  httpx.SessionCookieName,
		Value: token,
		Path:  "/",
	}})
	return nil
}
