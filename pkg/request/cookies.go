package request

import (
	"net/http"
	"net/url"
)

// SessionCookie is the persisted form of a jar cookie.
type SessionCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (c *Client) cookieURL() *url.URL {
	if c.httpClient.Jar == nil || !isAbsolute(c.baseURL) {
		return nil
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil
	}
	return u
}

// Cookies returns the cookies the jar holds for the base URL.
func (c *Client) Cookies() []SessionCookie {
	u := c.cookieURL()
	if u == nil {
		return nil
	}
	var out []SessionCookie
	for _, ck := range c.httpClient.Jar.Cookies(u) {
		out = append(out, SessionCookie{Name: ck.Name, Value: ck.Value})
	}
	return out
}

func (c *Client) RestoreCookies(cookies []SessionCookie) {
	u := c.cookieURL()
	if u == nil || len(cookies) == 0 {
		return
	}
	jarCookies := make([]*http.Cookie, 0, len(cookies))
	for _, ck := range cookies {
		jarCookies = append(jarCookies, &http.Cookie{Name: ck.Name, Value: ck.Value, Path: "/"})
	}
	c.httpClient.Jar.SetCookies(u, jarCookies)
}

func (c *Client) ClearCookies() {
	u := c.cookieURL()
	if u == nil {
		return
	}
	var expired []*http.Cookie
	for _, ck := range c.httpClient.Jar.Cookies(u) {
		expired = append(expired, &http.Cookie{Name: ck.Name, Path: "/", MaxAge: -1})
	}
	if len(expired) > 0 {
		c.httpClient.Jar.SetCookies(u, expired)
	}
}
