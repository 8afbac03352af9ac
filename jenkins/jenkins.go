// Copyright 2021 The go-jenkins AUTHORS. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jenkins is a small HTTP client for the subset of the Jenkins
// remote API needed to list, read, create, reconfigure and delete jobs:
// CSRF crumb issuance, basic/token auth, and job CRUD.
package jenkins

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	crumbURL       = "/crumbIssuer/api/json"
	defaultBaseURL = "http://127.0.0.1:8080"
)

// Crumbs represents a Jenkins CSRF protection crumb.
type Crumbs struct {
	Value        string `json:"crumb"`
	RequestField string `json:"crumbRequestField"`
}

// BasicAuthTransport injects HTTP basic auth credentials into every request.
type BasicAuthTransport struct {
	Username string
	Password string
}

func (bat BasicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(bat.Username, bat.Password)
	return http.DefaultTransport.RoundTrip(req)
}

// Client manages communication with the Jenkins remote API.
type Client struct {
	httpClient *http.Client
	logger     *logrus.Entry

	UserAgent string

	Crumbs *Crumbs

	baseURL  string
	userName string
	password string
	apiToken string
}

// ClientOption configures a Client at construction time.
type ClientOption func(*Client) error

// WithClient overrides the underlying *http.Client.
func WithClient(client *http.Client) ClientOption {
	return func(c *Client) error {
		c.httpClient = client
		return nil
	}
}

// WithBaseURL sets the Jenkins base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) error {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
		return nil
	}
}

// WithUserPassword configures HTTP basic auth with a username/password pair.
// Mutually exclusive with WithUserToken.
func WithUserPassword(userName, password string) ClientOption {
	return func(c *Client) error {
		if c.apiToken != "" {
			return errors.New("jenkins: cannot set both API token and password")
		}
		c.userName = userName
		c.password = password
		return nil
	}
}

// WithUserToken configures HTTP basic auth with a username/API-token pair.
// Mutually exclusive with WithUserPassword.
func WithUserToken(userName, apiToken string) ClientOption {
	return func(c *Client) error {
		if c.password != "" {
			return errors.New("jenkins: cannot set both API token and password")
		}
		c.userName = userName
		c.apiToken = apiToken
		return nil
	}
}

// WithLogger overrides the logger used for per-request diagnostics.
func WithLogger(logger *logrus.Entry) ClientOption {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// DefaultHTTPClient returns an *http.Client with a cookie jar, matching what
// Jenkins' session-based crumb handshake expects.
func DefaultHTTPClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{Jar: jar}
}

// NewClient returns a new Jenkins API client.
func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{baseURL: defaultBaseURL}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.httpClient == nil {
		c.httpClient = DefaultHTTPClient()
	}

	if c.apiToken != "" {
		c.httpClient.Transport = BasicAuthTransport{Username: c.userName, Password: c.apiToken}
	}

	if c.password != "" {
		c.httpClient.Transport = BasicAuthTransport{Username: c.userName, Password: c.password}
	}

	if c.logger == nil {
		c.logger = logrus.NewEntry(logrus.StandardLogger()).WithField("component", "jenkins")
	}

	return c, nil
}

// SetCrumbs fetches a fresh CSRF crumb and stores it on the client, ready to
// be consumed by the next mutating request.
func (c *Client) SetCrumbs(ctx context.Context) error {
	resp, err := c.get(ctx, crumbURL)
	if err != nil {
		// Jenkins instances with CSRF protection disabled return 404 here;
		// that is not fatal, it just means no crumb header is required.
		var httpErr *StatusError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil
		}
		return errors.Wrap(err, "jenkins: fetch crumb")
	}
	defer closeBody(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "jenkins: read crumb response")
	}

	crumbs := &Crumbs{}
	if err := json.Unmarshal(body, crumbs); err != nil {
		return errors.Wrap(err, "jenkins: decode crumb response")
	}

	c.Crumbs = crumbs
	return nil
}

// StatusError is returned when Jenkins responds with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
	Path       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("jenkins: %s returned %d %s", e.Path, e.StatusCode, e.Status)
}

func closeBody(body io.ReadCloser) {
	_ = body.Close()
}

func (c *Client) newRequest(ctx context.Context, method, query string, body io.Reader) (*http.Request, error) {
	query = "/" + strings.TrimPrefix(query, "/")
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+query, body)
	if err != nil {
		return nil, err
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	return req, nil
}

func (c *Client) attachCrumb(req *http.Request) {
	if c.Crumbs != nil {
		req.Header.Add(c.Crumbs.RequestField, c.Crumbs.Value)
		c.Crumbs = nil
	}
}

func (c *Client) storeCookies(req *http.Request, resp *http.Response) {
	if c.httpClient.Jar != nil {
		c.httpClient.Jar.SetCookies(req.URL, resp.Cookies())
	}
}

func (c *Client) do(req *http.Request, path string) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return resp, err
	}

	c.storeCookies(req, resp)

	if resp.StatusCode > 299 {
		defer closeBody(resp.Body)
		return resp, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Path: path}
	}

	return resp, nil
}

// get issues a GET to the specified path.
func (c *Client) get(ctx context.Context, query string) (*http.Response, error) {
	req, err := c.newRequest(ctx, http.MethodGet, query, nil)
	if err != nil {
		return nil, err
	}
	c.logger.WithFields(logrus.Fields{"method": http.MethodGet, "path": query}).Debug("jenkins request")
	return c.do(req, query)
}

// postXML issues a POST with an application/xml body, attaching a freshly
// fetched CSRF crumb beforehand.
func (c *Client) postXML(ctx context.Context, query string, body []byte) (*http.Response, error) {
	if err := c.SetCrumbs(ctx); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, query, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/xml")
	c.attachCrumb(req)

	c.logger.WithFields(logrus.Fields{"method": http.MethodPost, "path": query}).Debug("jenkins request")
	resp, err := c.do(req, query)
	if resp != nil {
		defer closeBody(resp.Body)
	}
	return resp, err
}

// postForm issues a POST with url-encoded form values, attaching a freshly
// fetched CSRF crumb beforehand.
func (c *Client) postForm(ctx context.Context, query string, values url.Values) (*http.Response, error) {
	if err := c.SetCrumbs(ctx); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, query, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.attachCrumb(req)

	c.logger.WithFields(logrus.Fields{"method": http.MethodPost, "path": query}).Debug("jenkins request")
	resp, err := c.do(req, query)
	if resp != nil {
		defer closeBody(resp.Body)
	}
	return resp, err
}
