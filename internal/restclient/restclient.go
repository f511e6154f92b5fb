package restclient

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
)

const (
	headerAuthToken = "X-Auth-Token"
	headerRequestID = "X-Request-ID"
	userAgent       = "CertMaker-Submitter"
)

type RestClient struct {
	client *http.Client
	caHost *url.URL
	apiKey string
}

// New builds a client for the issuance service at caHost. A zero timeout
// leaves requests unbounded.
func New(caHost, apiKey string, skipVerify bool, timeout time.Duration) (*RestClient, error) {
	var (
		hostUrl *url.URL
		err     error
	)
	if caHost != "" {
		hostUrl, err = url.ParseRequestURI(caHost)
		if err != nil {
			return nil, err
		}
	}

	transport := cleanhttp.DefaultPooledTransport()
	transport.TLSClientConfig = &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: skipVerify,
	}

	return &RestClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		caHost: hostUrl,
		apiKey: apiKey,
	}, nil
}

// Do sends r. Relative request URLs are resolved against the configured host.
func (rc *RestClient) Do(r *http.Request) (*http.Response, error) {
	if r.URL.Host == "" && rc.caHost != nil {
		r.URL.Host = rc.caHost.Host
		r.URL.Scheme = rc.caHost.Scheme
	}

	if rc.apiKey != "" {
		r.Header.Set(headerAuthToken, rc.apiKey)
	}
	if r.Header.Get(headerRequestID) == "" {
		r.Header.Set(headerRequestID, uuid.NewString())
	}
	r.Header.Set("User-Agent", userAgent)

	return rc.client.Do(r)
}
