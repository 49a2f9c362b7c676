package acquisition_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/acquisition"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/webclient"
)

const (
	resolverTestTimeout = 2 * time.Second
)

func newTestFetcher(testInstance *testing.T) *webclient.Client {
	testInstance.Helper()
	client, clientError := webclient.NewClient(webclient.DefaultConfiguration())
	require.NoError(testInstance, clientError)
	return client
}

func TestEmailResolverResolve(testInstance *testing.T) {
	testCases := []struct {
		name          string
		status        int
		body          string
		expectedEmail string
		expectedFound bool
	}{
		{
			name:          "text_match_wins",
			status:        http.StatusOK,
			body:          `<html><body><p>Write to hello@dentalcare.in today</p><a href="mailto:other@dentalcare.in">mail</a></body></html>`,
			expectedEmail: "hello@dentalcare.in",
			expectedFound: true,
		},
		{
			name:          "image_names_and_placeholders_rejected",
			status:        http.StatusOK,
			body:          `<html><body><img src="photo@2x.png"><p>photo@2x.png contact@example.com logo@3x.jpg</p></body></html>`,
			expectedEmail: "",
			expectedFound: false,
		},
		{
			name:          "mailto_fallback_strips_query",
			status:        http.StatusOK,
			body:          `<html><body><a href="mailto:desk@clinic.org?subject=Hi">Mail us</a></body></html>`,
			expectedEmail: "desk@clinic.org",
			expectedFound: true,
		},
		{
			name:          "script_text_ignored",
			status:        http.StatusOK,
			body:          `<html><head><script>var a = "tracker@analytics.io";</script></head><body>No contact</body></html>`,
			expectedEmail: "",
			expectedFound: false,
		},
		{
			name:          "non_success_status",
			status:        http.StatusNotFound,
			body:          `<p>owner@shop.com</p>`,
			expectedEmail: "",
			expectedFound: false,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(testInstance *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, _ *http.Request) {
				responseWriter.Header().Set("Content-Type", "text/html; charset=utf-8")
				responseWriter.WriteHeader(testCase.status)
				_, _ = responseWriter.Write([]byte(testCase.body))
			}))
			testInstance.Cleanup(server.Close)

			resolver := acquisition.NewEmailResolver(newTestFetcher(testInstance), resolverTestTimeout, zap.NewNop())
			email, found := resolver.Resolve(context.Background(), server.URL)
			require.Equal(testInstance, testCase.expectedFound, found)
			require.Equal(testInstance, testCase.expectedEmail, email)
		})
	}
}

func TestEmailResolverUnreachableHost(testInstance *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	serverURL := server.URL
	server.Close()

	resolver := acquisition.NewEmailResolver(newTestFetcher(testInstance), resolverTestTimeout, nil)
	email, found := resolver.Resolve(context.Background(), serverURL)
	require.False(testInstance, found)
	require.Empty(testInstance, email)
}

func TestAcceptableEmail(testInstance *testing.T) {
	testCases := []struct {
		candidate string
		expected  bool
	}{
		{candidate: "owner@shop.com", expected: true},
		{candidate: "banner@2x.PNG", expected: false},
		{candidate: "hero@1x.jpeg", expected: false},
		{candidate: "icon@sprite.gif", expected: false},
		{candidate: "you@example.com", expected: false},
		{candidate: "  ", expected: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.candidate, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, acquisition.AcceptableEmail(testCase.candidate))
		})
	}
}
