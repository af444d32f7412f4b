package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bascanada/logexplorer/pkg/log"
	"github.com/bascanada/logexplorer/pkg/ty"
)

// ErrStatus is wrapped by errors for responses with a status >= 400.
var ErrStatus = errors.New("unexpected http status")

type Auth interface {
	Login(req *http.Request) error
}

// HeaderAuth sets fixed headers (like Authorization) on each request.
type HeaderAuth struct {
	Headers ty.MS
}

func (h HeaderAuth) Login(req *http.Request) error {
	for k, v := range h.Headers {
		req.Header.Set(k, v)
	}
	return nil
}

// BasicAuth sets HTTP basic credentials.
type BasicAuth struct {
	Username string
	Password string
}

func (b BasicAuth) Login(req *http.Request) error {
	if b.Username == "" {
		return errors.New("basic auth without username")
	}
	req.SetBasicAuth(b.Username, b.Password)
	return nil
}

type HttpClient struct {
	client http.Client
	url    string
}

// Debug controls whether verbose HTTP-level debug logs are emitted. Tests and
// production code can toggle this to avoid leaking secrets into logs.
var Debug = false

// SetDebug sets the package debug flag.
func SetDebug(d bool) {
	Debug = d
}

// Get sends a GET request to path with the query parameters and decodes
// the JSON response into responseData.
func (c HttpClient) Get(ctx context.Context, path string, queryParams ty.MS, headers ty.MS, responseData interface{}, auth Auth) error {
	path = c.url + path

	q := url.Values{}
	for k, v := range queryParams {
		q.Add(k, v)
	}
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if auth != nil {
		if err = auth.Login(req); err != nil {
			log.Warn("http auth: %s", err.Error())
		}
	}

	if Debug {
		log.Debug("[GET] %s", path)
		log.Debug("[GET-HEADERS] %s", maskHeaderMap(req.Header))
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	// Log a truncated GET response body for debugging (avoid huge output)
	if Debug && len(resBody) > 0 {
		s := string(resBody)
		if len(s) > 2000 {
			s = s[:2000] + "...TRUNCATED"
		}
		log.Debug("[GET-RAW] %s", s)
	}

	if res.StatusCode >= 400 {
		log.Warn("GET %s: %d %s", path, res.StatusCode, string(resBody))
		return fmt.Errorf("%w: %d: %s", ErrStatus, res.StatusCode, strings.TrimSpace(string(resBody)))
	}

	return json.NewDecoder(bytes.NewReader(resBody)).Decode(responseData)
}

// GetClient builds a client for the base url. A missing scheme defaults to
// https and trailing slashes are removed.
func GetClient(url string, insecure bool) HttpClient {
	if url != "" {
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			url = "https://" + url
		}
		for strings.HasSuffix(url, "/") {
			url = strings.TrimSuffix(url, "/")
		}
	}

	return HttpClient{
		client: getSpaceClient(insecure),
		url:    url,
	}
}

// URL is the normalized base url.
func (c HttpClient) URL() string { return c.url }

func getSpaceClient(insecure bool) http.Client {
	switch v := http.DefaultTransport.(type) {
	case *http.Transport:
		if !insecure {
			return http.Client{Transport: v.Clone()}
		}
		customTransport := v.Clone()
		customTransport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in per datasource
		return http.Client{Transport: customTransport}
	default:
		return http.Client{}
	}
}

// maskHeaderMap returns a string representation of headers with sensitive
// values redacted (keeps first 4 chars for debugging).
func maskHeaderMap(h http.Header) string {
	redacted := []string{}
	for k, vals := range h {
		v := ""
		if len(vals) > 0 {
			val := vals[0]
			switch strings.ToLower(k) {
			case "authorization", "cookie", "x-scope-orgid", "x-auth-token":
				if len(val) > 4 {
					v = val[:4] + "...REDACTED"
				} else {
					v = "REDACTED"
				}
			default:
				v = val
			}
		}
		redacted = append(redacted, fmt.Sprintf("%s: %s", k, v))
	}
	return strings.Join(redacted, "; ")
}
