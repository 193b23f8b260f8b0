package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/app-sre/overpass/internal/test"
	"github.com/app-sre/overpass/pkg/version"
)

func TestNew(t *testing.T) {
	t.Parallel()

	cases := []struct {
		description string
		given       []Option
		defaults    bool
		timeout     time.Duration
	}{
		{
			"using default HTTP client set internally",
			[]Option{},
			true,
			0,
		},
		{
			"using custom HTTP client",
			[]Option{WithHTTPClient(http.DefaultClient)},
			false,
			0,
		},
		{
			"using timeout",
			[]Option{WithTimeout(time.Minute)},
			true,
			time.Minute,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()

			actual := New("https://overpass.example.com", tc.given...)

			require.NotNil(t, actual)
			assert.IsType(t, &Client{}, actual)
			assert.NotNil(t, actual.logger)
			assert.Equal(t, tc.timeout, actual.timeout)

			if tc.defaults {
				assert.NotNil(t, actual.client.Transport)
			} else {
				assert.Nil(t, actual.client.Transport)
			}
		})
	}
}

func TestEndpoint(t *testing.T) {
	t.Parallel()

	cases := []struct {
		description string
		given       string
		want        string
	}{
		{
			"server without trailing slash",
			"https://overpass-api.de",
			"https://overpass-api.de/api/interpreter",
		},
		{
			"server with trailing slash",
			"https://overpass-api.de/",
			"https://overpass-api.de/api/interpreter",
		},
		{
			"server with a path prefix",
			"https://example.com/overpass",
			"https://example.com/overpass/api/interpreter",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, New(tc.given).Endpoint())
		})
	}
}

func TestInterpret(t *testing.T) {
	t.Parallel()

	cases := []struct {
		description string
		code        int
		contentType string
		body        string
		error       bool
		message     string
		wantType    string
		wantBody    string
	}{
		{
			"JSON response",
			http.StatusOK,
			"application/json",
			`{"elements":[]}`,
			false,
			``,
			"application/json",
			`{"elements":[]}`,
		},
		{
			"XML response with parameters in content type",
			http.StatusOK,
			"application/osm3s+xml; charset=utf-8",
			`<osm version="0.6"/>`,
			false,
			``,
			"application/osm3s+xml",
			`<osm version="0.6"/>`,
		},
		{
			"upper case content type",
			http.StatusOK,
			"Application/JSON",
			`{}`,
			false,
			``,
			"application/json",
			`{}`,
		},
		{
			"query error reported by the server",
			http.StatusBadRequest,
			"text/html; charset=utf-8",
			"<p><strong>Error</strong>:\n  line 1: parse error: ';' expected</p>\n",
			true,
			`server responded with 400 Bad Request: <p><strong>Error</strong>: line 1: parse error: ';' expected</p>`,
			``,
			``,
		},
		{
			"rate limited by the server",
			http.StatusTooManyRequests,
			"text/plain",
			``,
			true,
			`server responded with 429 Too Many Requests`,
			``,
			``,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()

			var captured test.Request
			server := test.NewInterpreter(t, test.Reply(tc.code, tc.contentType, tc.body, &captured))

			c := New(server.URL, WithHTTPClient(server.Client()))
			resp, err := c.Interpret(context.Background(), "node(1);\nout body;")

			if tc.error {
				require.Error(t, err)
				assert.Nil(t, resp)
				assert.Contains(t, err.Error(), tc.message)

				var statusErr *StatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, tc.code, statusErr.Code)
			} else {
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)

				assert.Equal(t, tc.wantType, resp.ContentType)
				assert.Equal(t, tc.wantBody, string(body))
			}

			assert.Equal(t, http.MethodPost, captured.Method)
			assert.Equal(t, "node(1);\nout body;", captured.Data)
			assert.Equal(t, "application/x-www-form-urlencoded", captured.Header.Get("Content-Type"))
			assert.Equal(t, fmt.Sprintf("overpass/%s", version.Version()), captured.Header.Get("User-Agent"))
		})
	}
}

func TestInterpretLargeErrorBody(t *testing.T) {
	t.Parallel()

	server := test.NewInterpreter(t, test.Reply(http.StatusGatewayTimeout, "text/plain", strings.Repeat("x", 4*maxErrorBody), nil))

	_, err := New(server.URL, WithHTTPClient(server.Client())).Interpret(context.Background(), "node(1);")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Len(t, statusErr.Body, maxErrorBody)
}

func TestInterpretUnreachable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		description string
		server      string
		message     string
	}{
		{
			"no server configured",
			"",
			`unable to send request to Overpass API`,
		},
		{
			"server not listening",
			"http://127.0.0.1:1",
			`unable to send request to Overpass API`,
		},
		{
			"invalid server URL",
			"http://[::1",
			`unable to create request to Overpass API`,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()

			resp, err := New(tc.server).Interpret(context.Background(), "node(1);")

			require.Error(t, err)
			assert.Nil(t, resp)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestInterpretTimeout(t *testing.T) {
	t.Parallel()

	server := test.NewInterpreter(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})

	var output bytes.Buffer
	logger := test.DummyLogger(&output).Sugar()

	c := New(server.URL, WithHTTPClient(server.Client()), WithTimeout(50*time.Millisecond), WithLogger(logger))
	_, err := c.Interpret(context.Background(), "node(1);")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, output.String(), "Sending query to: "+server.URL+"/api/interpreter")
}
