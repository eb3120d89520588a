package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	c, err := NewWithBaseURL(ts.URL+"/api/v1", time.Second)
	require.NoError(t, err)
	return c
}

func TestDoJSON_DecodesAndSendsToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/dogs/d-1", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"d-1","name":"Bonnie"}`))
	})
	c.SetToken("tok")

	var out struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, c.DoJSON(context.Background(), http.MethodGet, "dogs/d-1", nil, &out))
	assert.Equal(t, "Bonnie", out.Name)
}

func TestDoJSON_NoContentIsEmptySuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	out := map[string]any{"untouched": true}
	require.NoError(t, c.DoJSON(context.Background(), http.MethodDelete, "/bookings/b-1", nil, &out))
	assert.Equal(t, true, out["untouched"])
}

func TestDoJSON_ApplicationError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"booking is already checked in"}`))
	})

	err := c.DoJSON(context.Background(), http.MethodPost, "/bookings/b-1/check-in", nil, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "booking is already checked in", apiErr.Message)
	assert.JSONEq(t, `{"message":"booking is already checked in"}`, string(apiErr.Data))
	assert.False(t, apiErr.IsTransport())
	assert.Equal(t, http.StatusConflict, StatusOf(err))
}

func TestDoJSON_PlainTextError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := c.DoJSON(context.Background(), http.MethodGet, "/users", nil, nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "boom", apiErr.Message)
}

func TestDoJSON_TransportFailureHasStatusZero(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	base := ts.URL
	ts.Close()

	c, err := NewWithBaseURL(base, time.Second)
	require.NoError(t, err)

	err = c.DoJSON(context.Background(), http.MethodGet, "/bookings", nil, nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 0, apiErr.Status)
	assert.True(t, apiErr.IsTransport())
	assert.Equal(t, -1, StatusOf(errors.New("other")))
}

func TestResolveURL_RequiresBase(t *testing.T) {
	c := New(0)
	err := c.DoJSON(context.Background(), http.MethodGet, "/bookings", nil, nil)
	assert.Equal(t, 0, StatusOf(err))
}

func TestDownload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("date") == "bad" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"invalid date"}`))
			return
		}
		_, _ = w.Write([]byte("PK\x03\x04"))
	})

	var buf bytes.Buffer
	require.NoError(t, c.Download(context.Background(), "/attendance/week/export?date=2024-06-12", &buf))
	assert.Equal(t, "PK\x03\x04", buf.String())

	err := c.Download(context.Background(), "/attendance/week/export?date=bad", &buf)
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))
}

func TestDoJSON_LargeBodyIsNotTruncated(t *testing.T) {
	const n = 20000
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("["))
		for i := 0; i < n; i++ {
			if i > 0 {
				_, _ = w.Write([]byte(","))
			}
			_, _ = fmt.Fprintf(w, `{"id":"b-%05d","notes":%q}`, i, strings.Repeat("n", 60))
		}
		_, _ = w.Write([]byte("]"))
	})

	var out []struct {
		ID string `json:"id"`
	}
	require.NoError(t, c.DoJSON(context.Background(), http.MethodGet, "/bookings", nil, &out))
	require.Len(t, out, n)
	assert.Equal(t, "b-19999", out[n-1].ID)
}

func TestDoJSON_DecodeErrorKeepsCause(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":`))
	})

	var out struct {
		ID string `json:"id"`
	}
	err := c.DoJSON(context.Background(), http.MethodGet, "/dogs/d-1", nil, &out)
	require.Error(t, err)
	assert.Equal(t, http.StatusOK, StatusOf(err))
	assert.Contains(t, err.Error(), "decode json")
}

func TestDoJSON_EmptySuccessBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	var out map[string]any
	require.NoError(t, c.DoJSON(context.Background(), http.MethodPost, "/auth/logout", nil, &out))
	assert.Nil(t, out)
}
