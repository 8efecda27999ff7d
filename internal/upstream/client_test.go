package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coozgan/acad-sub-staff-loaner-form/config"
	"github.com/coozgan/acad-sub-staff-loaner-form/internal/model"
)

func newTestClient(readURL, writeURL string) *Client {
	return NewClient(&config.UpstreamConfig{
		ReadURL:        readURL,
		WriteURL:       writeURL,
		TimeoutSeconds: 5,
	})
}

func TestFetchDevices_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Empty(t, r.URL.RawQuery, "the read endpoint takes no query parameters")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"AssetID":"C001","DeviceType":"Charger","Name":"","Email":"","Borrowed":""},
			{"AssetID":"L002","DeviceType":"Laptop","Name":"Ann","Email":"ann@x.com","Borrowed":"yes"}
		]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	devices, err := client.FetchDevices(context.Background())

	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, model.Device{AssetID: "C001", DeviceType: "Charger"}, devices[0])
	assert.Equal(t, "ann@x.com", devices[1].Email)
	assert.Equal(t, "yes", devices[1].Borrowed)
}

func TestFetchDevices_HTTPErrorMessageExtraction(t *testing.T) {
	testCases := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{name: "json message field", status: 500, body: `{"message":"sheet is locked"}`, wantMessage: "sheet is locked"},
		{name: "json error field", status: 403, body: `{"error":"forbidden"}`, wantMessage: "forbidden"},
		{name: "plain text body", status: 502, body: "bad gateway", wantMessage: "bad gateway"},
		{name: "empty body", status: 404, body: "", wantMessage: "request failed with status 404"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := newTestClient(server.URL, "")
			_, err := client.FetchDevices(context.Background())

			var httpErr *HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tc.status, httpErr.StatusCode)
			assert.Equal(t, tc.wantMessage, httpErr.Message)
		})
	}
}

func TestFetchDevices_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing is listening any more

	client := newTestClient(server.URL, "")
	_, err := client.FetchDevices(context.Background())

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, server.URL, netErr.URL)
	assert.NotNil(t, netErr.Unwrap())
}

func TestFetchDevices_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	_, err := client.FetchDevices(context.Background())

	require.Error(t, err)
	var netErr *NetworkError
	var httpErr *HTTPError
	assert.False(t, errors.As(err, &netErr))
	assert.False(t, errors.As(err, &httpErr))
}

func TestBorrow_PayloadShape(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient("http://unused.invalid", server.URL)
	device := model.Device{AssetID: "L002", DeviceType: "Laptop"}
	err := client.Borrow(context.Background(), device, "Ann", "ann@x.com")

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"AssetID":    "L002",
		"DeviceType": "Laptop",
		"Email":      "ann@x.com",
		"Name":       "Ann",
		"Reason":     "",
	}, got)
}

// A return clears ownership by sending empty identity fields alongside
// the asset ID; the upstream depends on this exact shape.
func TestReturn_PayloadShape(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient("http://unused.invalid", server.URL)
	err := client.Return(context.Background(), "L002")

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"AssetID":    "L002",
		"DeviceType": "",
		"Email":      "",
		"Name":       "",
		"Reason":     "",
	}, got)
}

func TestPostTransaction_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"already borrowed"}`))
	}))
	defer server.Close()

	client := newTestClient("http://unused.invalid", server.URL)
	err := client.Return(context.Background(), "L002")

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.StatusCode)
	assert.Equal(t, "already borrowed", httpErr.Message)
}

// The write endpoint defaults to the read endpoint when not configured.
func TestNewClient_WriteURLDefaultsToReadURL(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(&config.UpstreamConfig{ReadURL: server.URL, TimeoutSeconds: 5})
	require.NoError(t, client.Return(context.Background(), "C001"))
	assert.Equal(t, 1, requests)
}

func TestClient_ExtraHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(&config.UpstreamConfig{
		ReadURL:        server.URL,
		Headers:        map[string]string{"X-Api-Key": "secret"},
		TimeoutSeconds: 5,
	})

	_, err := client.FetchDevices(context.Background())
	require.NoError(t, err)
}
