package webclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/net/publicsuffix"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/failures"
)

const (
	// DefaultUserAgentConstant is sent with every request unless configured otherwise.
	DefaultUserAgentConstant = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	defaultRequestTimeoutConstant     = 10 * time.Second
	defaultMaxBodyBytesConstant       = 20 << 20
	defaultMaxRedirectsConstant       = 10
	dialTimeoutConstant               = 10 * time.Second
	dialKeepAliveConstant             = 30 * time.Second
	idleConnectionTimeoutConstant     = 90 * time.Second
	maxIdleConnectionsConstant        = 100
	maxIdleConnectionsPerHostConstant = 10

	userAgentHeaderConstant      = "User-Agent"
	acceptHeaderConstant         = "Accept"
	acceptLanguageHeaderConstant = "Accept-Language"
	contentTypeHeaderConstant    = "Content-Type"
	acceptHeaderValueConstant    = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptLanguageValueConstant  = "en-US,en;q=0.9"

	httpSchemePrefixConstant  = "http://"
	httpsSchemePrefixConstant = "https://"

	fetchOperationConstant               = "fetch"
	probeOperationConstant               = "probe"
	tooManyRedirectsTemplateConstant     = "stopped after %d redirects"
	cookieJarErrorTemplateConstant       = "unable to create cookie jar: %w"
	requestCreationErrorTemplateConstant = "unable to create request: %w"
	emptyTargetMessageConstant           = "target URL is empty"
)

// Configuration describes the shared HTTP behavior.
type Configuration struct {
	UserAgent      string        `mapstructure:"user_agent"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
	MaxRedirects   int           `mapstructure:"max_redirects"`
}

// DefaultConfiguration returns the baseline HTTP settings.
func DefaultConfiguration() Configuration {
	return Configuration{
		UserAgent:      DefaultUserAgentConstant,
		RequestTimeout: defaultRequestTimeoutConstant,
		MaxBodyBytes:   defaultMaxBodyBytesConstant,
		MaxRedirects:   defaultMaxRedirectsConstant,
	}
}

// Sanitize replaces unset values with defaults.
func (configuration Configuration) Sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := configuration
	sanitized.UserAgent = strings.TrimSpace(configuration.UserAgent)
	if len(sanitized.UserAgent) == 0 {
		sanitized.UserAgent = defaults.UserAgent
	}
	if sanitized.RequestTimeout <= 0 {
		sanitized.RequestTimeout = defaults.RequestTimeout
	}
	if sanitized.MaxBodyBytes <= 0 {
		sanitized.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if sanitized.MaxRedirects <= 0 {
		sanitized.MaxRedirects = defaults.MaxRedirects
	}
	return sanitized
}

// Page is the outcome of a completed GET request.
type Page struct {
	RequestedURL string
	FinalURL     string
	StatusCode   int
	ContentType  string
	RawLength    int
	Body         []byte
	Elapsed      time.Duration
}

// OK reports whether the response carried status 200.
func (page Page) OK() bool {
	return page.StatusCode == http.StatusOK
}

// Client issues requests with the shared configuration.
type Client struct {
	httpClient    *http.Client
	configuration Configuration
}

// NewClient constructs a Client with its own transport and cookie jar.
func NewClient(configuration Configuration) (*Client, error) {
	sanitizedConfiguration := configuration.Sanitize()

	cookieJar, cookieJarError := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if cookieJarError != nil {
		return nil, fmt.Errorf(cookieJarErrorTemplateConstant, cookieJarError)
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeoutConstant,
			KeepAlive: dialKeepAliveConstant,
		}).DialContext,
		MaxIdleConns:        maxIdleConnectionsConstant,
		MaxIdleConnsPerHost: maxIdleConnectionsPerHostConstant,
		IdleConnTimeout:     idleConnectionTimeoutConstant,
	}

	maxRedirects := sanitizedConfiguration.MaxRedirects
	httpClient := &http.Client{
		Transport: transport,
		Jar:       cookieJar,
		CheckRedirect: func(request *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf(tooManyRedirectsTemplateConstant, maxRedirects)
			}
			return nil
		},
	}

	return &Client{httpClient: httpClient, configuration: sanitizedConfiguration}, nil
}

// Configuration returns the settings the client was built with.
func (client *Client) Configuration() Configuration {
	return client.configuration
}

// Fetch performs a GET bounded by timeout. Non-success statuses are returned
// in Page; only transport failures produce an error.
func (client *Client) Fetch(executionContext context.Context, targetURL string, timeout time.Duration) (Page, error) {
	normalizedURL := NormalizeURL(targetURL)
	if len(normalizedURL) == 0 {
		return Page{}, failures.NetworkError{Operation: fetchOperationConstant, Target: targetURL, Cause: errors.New(emptyTargetMessageConstant)}
	}

	requestContext, cancel := context.WithTimeout(executionContext, client.resolveTimeout(timeout))
	defer cancel()

	request, requestError := http.NewRequestWithContext(requestContext, http.MethodGet, normalizedURL, nil)
	if requestError != nil {
		return Page{}, failures.NetworkError{Operation: fetchOperationConstant, Target: normalizedURL, Cause: fmt.Errorf(requestCreationErrorTemplateConstant, requestError)}
	}
	client.applyHeaders(request)

	startedAt := time.Now()
	response, responseError := client.httpClient.Do(request)
	if responseError != nil {
		return Page{}, failures.NetworkError{Operation: fetchOperationConstant, Target: normalizedURL, Cause: responseError}
	}
	defer response.Body.Close()

	rawBody, readError := io.ReadAll(io.LimitReader(response.Body, client.configuration.MaxBodyBytes))
	elapsed := time.Since(startedAt)
	if readError != nil {
		return Page{}, failures.NetworkError{Operation: fetchOperationConstant, Target: normalizedURL, Cause: readError}
	}

	contentType := response.Header.Get(contentTypeHeaderConstant)
	page := Page{
		RequestedURL: normalizedURL,
		FinalURL:     response.Request.URL.String(),
		StatusCode:   response.StatusCode,
		ContentType:  contentType,
		RawLength:    len(rawBody),
		Body:         decodeToUTF8(rawBody, contentType),
		Elapsed:      elapsed,
	}
	return page, nil
}

// Probe issues a HEAD request and returns the status code.
func (client *Client) Probe(executionContext context.Context, targetURL string, timeout time.Duration) (int, error) {
	normalizedURL := NormalizeURL(targetURL)
	requestContext, cancel := context.WithTimeout(executionContext, client.resolveTimeout(timeout))
	defer cancel()

	request, requestError := http.NewRequestWithContext(requestContext, http.MethodHead, normalizedURL, nil)
	if requestError != nil {
		return 0, failures.NetworkError{Operation: probeOperationConstant, Target: normalizedURL, Cause: fmt.Errorf(requestCreationErrorTemplateConstant, requestError)}
	}
	client.applyHeaders(request)

	response, responseError := client.httpClient.Do(request)
	if responseError != nil {
		return 0, failures.NetworkError{Operation: probeOperationConstant, Target: normalizedURL, Cause: responseError}
	}
	_, _ = io.Copy(io.Discard, response.Body)
	response.Body.Close()

	return response.StatusCode, nil
}

func (client *Client) applyHeaders(request *http.Request) {
	request.Header.Set(userAgentHeaderConstant, client.configuration.UserAgent)
	request.Header.Set(acceptHeaderConstant, acceptHeaderValueConstant)
	request.Header.Set(acceptLanguageHeaderConstant, acceptLanguageValueConstant)
}

func (client *Client) resolveTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return client.configuration.RequestTimeout
	}
	return timeout
}

// NormalizeURL trims the input and prefixes http:// when no scheme is present.
func NormalizeURL(rawURL string) string {
	trimmedURL := strings.TrimSpace(rawURL)
	if len(trimmedURL) == 0 {
		return ""
	}
	if IsHTTPURL(trimmedURL) {
		return trimmedURL
	}
	return httpSchemePrefixConstant + strings.TrimPrefix(trimmedURL, "//")
}

// IsHTTPURL reports whether the value already carries an http or https scheme.
func IsHTTPURL(rawURL string) bool {
	lowered := strings.ToLower(strings.TrimSpace(rawURL))
	return strings.HasPrefix(lowered, httpSchemePrefixConstant) || strings.HasPrefix(lowered, httpsSchemePrefixConstant)
}

func decodeToUTF8(rawBody []byte, contentType string) []byte {
	if len(rawBody) == 0 {
		return rawBody
	}
	utf8Reader, readerError := charset.NewReader(bytes.NewReader(rawBody), contentType)
	if readerError != nil {
		return rawBody
	}
	decodedBody, decodeError := io.ReadAll(utf8Reader)
	if decodeError != nil {
		return rawBody
	}
	return decodedBody
}
