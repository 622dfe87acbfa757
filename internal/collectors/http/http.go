package http

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"akasha/internal/collectors"
	"akasha/internal/logger"
	"akasha/internal/model"

	"github.com/cenkalti/backoff/v4"
)

const maxPayloadSize = 16 << 20

var retryInterval = time.Second

type URLCollector struct{}

func (c *URLCollector) Collect(config map[string]interface{}) (*collectors.Payload, error) {
	targetURL := collectors.StringParam(config, "url")
	if targetURL == "" {
		return nil, fmt.Errorf("missing 'url' in collector config")
	}

	userAgent := collectors.StringParam(config, "user_agent")
	if userAgent == "" {
		userAgent = collectors.StringParam(config, "_user_agent")
	}
	if userAgent == "" {
		userAgent = "clash.meta"
	}

	timeout := 120 * time.Second
	if t, ok := config["_timeout"].(time.Duration); ok && t > 0 {
		timeout = t
	}
	client := &http.Client{Timeout: timeout}

	// Internal proxy injection (http:// or socks5://)
	if proxyStr := collectors.StringParam(config, "_proxy_url"); proxyStr != "" {
		pURL, err := url.Parse(proxyStr)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url: %w", err)
		}
		client.Transport = &http.Transport{
			Proxy: http.ProxyURL(pURL),
		}
		logger.Log.Debugf("HTTP Collector using proxy: %s", proxyStr)
	}

	retries, _ := config["retries"].(int)
	if retries == 0 {
		retries, _ = config["_retries"].(int)
	}

	var resp *http.Response
	fetch := func() error {
		req, err := http.NewRequest(http.MethodGet, targetURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
		}
		// Providers pick the document format from the User-Agent
		req.Header.Set("User-Agent", userAgent)

		logger.Log.Debugf("Fetching URL: %s", targetURL)
		r, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to fetch url: %w", err)
		}
		if r.StatusCode != http.StatusOK {
			r.Body.Close()
			err := fmt.Errorf("non-200 status code: %d", r.StatusCode)
			if r.StatusCode < 500 && r.StatusCode != http.StatusTooManyRequests {
				return backoff.Permanent(err)
			}
			return err
		}
		resp = r
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInterval
	b.MaxElapsedTime = 0
	err := backoff.RetryNotify(fetch, backoff.WithMaxRetries(b, uint64(max(retries, 0))), func(err error, wait time.Duration) {
		logger.Log.Debugf("Fetch of %s failed (%v), retrying in %s", targetURL, err, wait)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	payload := &collectors.Payload{Data: body, Source: targetURL}
	if header := resp.Header.Get(model.UserinfoHeader); header != "" {
		info, err := model.ParseUserinfo(header)
		if err != nil {
			logger.Log.Warnf("Ignoring malformed %s header from %s: %v", model.UserinfoHeader, targetURL, err)
		} else {
			payload.Userinfo = &info
		}
	}
	return payload, nil
}

func init() {
	collectors.Register("http", func() collectors.Collector {
		return &URLCollector{}
	})
}
