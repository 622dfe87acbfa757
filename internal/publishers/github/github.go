package github

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"akasha/internal/logger"
	"akasha/internal/proxy"
	"akasha/internal/publishers"

	"github.com/cenkalti/backoff/v4"
)

// Publisher commits the payload to a repository file through the contents API.
type Publisher struct {
	retryDelay time.Duration
}

type contentsRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Sha     string `json:"sha,omitempty"`
	Branch  string `json:"branch,omitempty"`
}

type contentsResponse struct {
	Sha string `json:"sha"`
}

type target struct {
	token   string
	apiURL  string
	branch  string
	message string
}

func parseTarget(config map[string]interface{}) (*target, error) {
	token, _ := config["token"].(string)
	owner, _ := config["owner"].(string)
	repo, _ := config["repo"].(string)
	path, _ := config["path"].(string)
	if token == "" || owner == "" || repo == "" || path == "" {
		return nil, fmt.Errorf("github publisher requires token, owner, repo, and path")
	}

	apiBase, _ := config["api_url"].(string)
	if apiBase == "" {
		apiBase = "https://api.github.com"
	}
	t := &target{
		token:  token,
		apiURL: fmt.Sprintf("%s/repos/%s/%s/contents/%s", strings.TrimRight(apiBase, "/"), owner, repo, strings.TrimPrefix(path, "/")),
	}
	t.branch, _ = config["branch"].(string)
	t.message, _ = config["message"].(string)
	if t.message == "" {
		t.message = "Update proxy subscription [akasha]"
	}
	return t, nil
}

func newClient(config map[string]interface{}) *http.Client {
	timeout := 30 * time.Second
	if t, ok := config["_timeout"].(time.Duration); ok && t > 0 {
		timeout = t
	}
	client := &http.Client{Timeout: timeout}

	if proxyStr, ok := config["_proxy_url"].(string); ok && proxyStr != "" {
		if u, err := url.Parse(proxyStr); err == nil {
			client.Transport = &http.Transport{Proxy: http.ProxyURL(u)}
			logger.Log.Debugf("GitHub publisher using proxy: %s", proxyStr)
		}
	}
	return client
}

func (p *Publisher) Publish(proxies []proxy.Proxy, config map[string]interface{}) error {
	payload, err := publishers.GenerateSubscriptionPayload(proxies, config)
	if err != nil {
		return err
	}

	t, err := parseTarget(config)
	if err != nil {
		return err
	}
	retries, _ := config["_retries"].(int)
	client := newClient(config)

	sha, err := p.currentSha(client, t, retries)
	if err != nil {
		return err
	}

	body, err := json.Marshal(contentsRequest{
		Message: t.message,
		Content: base64.StdEncoding.EncodeToString([]byte(payload)),
		Sha:     sha,
		Branch:  t.branch,
	})
	if err != nil {
		return err
	}

	resp, err := p.do(client, retries, "upload", func() (*http.Request, error) {
		req, err := t.request(http.MethodPut, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, func(code int) bool { return code >= 200 && code < 300 })
	if err != nil {
		return fmt.Errorf("github upload failed after retries: %w", err)
	}
	resp.Body.Close()
	return nil
}

// currentSha returns the blob sha of the existing file, or "" when the file
// does not exist yet.
func (p *Publisher) currentSha(client *http.Client, t *target, retries int) (string, error) {
	resp, err := p.do(client, retries, "fetch", func() (*http.Request, error) {
		req, err := t.request(http.MethodGet, nil)
		if err != nil {
			return nil, err
		}
		if t.branch != "" {
			q := req.URL.Query()
			q.Add("ref", t.branch)
			req.URL.RawQuery = q.Encode()
		}
		return req, nil
	}, func(code int) bool { return code == http.StatusOK || code == http.StatusNotFound })
	if err != nil {
		return "", fmt.Errorf("github fetch failed after retries: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		logger.Log.Debugf("GitHub: file not found, creating new...")
		return "", nil
	}
	var existing contentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&existing); err != nil {
		return "", fmt.Errorf("failed to parse github response: %w", err)
	}
	logger.Log.Debugf("GitHub: file exists (SHA: %s), updating...", existing.Sha)
	return existing.Sha, nil
}

func (t *target) request(method string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequest(method, t.apiURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	return req, nil
}

// do sends the request built by build up to retries+1 times, backing off
// exponentially, until accept reports the status as final.
func (p *Publisher) do(client *http.Client, retries int, step string, build func() (*http.Request, error), accept func(int) bool) (*http.Response, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	if p.retryDelay > 0 {
		b.InitialInterval = p.retryDelay
	}
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0

	attempt := 0
	var resp *http.Response
	op := func() error {
		attempt++
		req, err := build()
		if err != nil {
			return backoff.Permanent(err)
		}

		logger.Log.Debugf("GitHub: %s (attempt %d/%d)", step, attempt, retries+1)
		r, err := client.Do(req)
		if err != nil {
			return err
		}
		if !accept(r.StatusCode) {
			msg, _ := io.ReadAll(io.LimitReader(r.Body, 4096))
			r.Body.Close()
			return fmt.Errorf("status %d: %s", r.StatusCode, strings.TrimSpace(string(msg)))
		}
		resp = r
		return nil
	}

	if err := backoff.Retry(op, backoff.WithMaxRetries(b, uint64(max(retries, 0)))); err != nil {
		return nil, err
	}
	return resp, nil
}

func init() {
	publishers.Register("github", func() publishers.Publisher { return &Publisher{} })
}
