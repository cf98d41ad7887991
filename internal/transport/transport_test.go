package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCreds struct {
	token string
}

func (s staticCreds) Token() (string, bool) {
	return s.token, s.token != ""
}

func TestSend(t *testing.T) {
	ctx := context.Background()

	t.Run("attaches bearer token and unwraps data key", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data":{"id":7},"message":"created"}`))
		}))
		defer srv.Close()

		client := New(srv.URL, staticCreds{token: "tok-123"})
		res := client.Send(ctx, http.MethodPost, "/posts", map[string]string{"content": "hi"}, nil)

		require.True(t, res.Success)
		assert.Equal(t, KindNone, res.Kind)
		assert.Equal(t, "created", res.Message)

		var payload struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, res.Decode(&payload))
		assert.Equal(t, int64(7), payload.ID)
	})

	t.Run("no authorization header without credential", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		client := New(srv.URL, staticCreds{})
		res := client.Send(ctx, http.MethodGet, "/posts", nil, nil)
		assert.True(t, res.Success)
	})

	t.Run("accepts payload without data wrapper", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id":3,"content":"plain"}`))
		}))
		defer srv.Close()

		client := New(srv.URL, nil)
		res := client.Send(ctx, http.MethodGet, "/posts/3", nil, nil)

		require.True(t, res.Success)
		var payload struct {
			ID      int64  `json:"id"`
			Content string `json:"content"`
		}
		require.NoError(t, res.Decode(&payload))
		assert.Equal(t, int64(3), payload.ID)
		assert.Equal(t, "plain", payload.Content)
	})

	t.Run("accepts array payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[1,2,3]`))
		}))
		defer srv.Close()

		client := New(srv.URL, nil)
		res := client.Send(ctx, http.MethodGet, "/ids", nil, nil)

		require.True(t, res.Success)
		var ids []int
		require.NoError(t, res.Decode(&ids))
		assert.Equal(t, []int{1, 2, 3}, ids)
	})

	t.Run("non-2xx becomes application failure with field errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"message":"The given data was invalid.","errors":{"email":["The email has already been taken."]}}`))
		}))
		defer srv.Close()

		client := New(srv.URL, nil)
		res := client.Send(ctx, http.MethodPost, "/register", map[string]string{}, nil)

		require.False(t, res.Success)
		assert.Equal(t, KindApplication, res.Kind)
		assert.Equal(t, "The given data was invalid.", res.Message)
		assert.Equal(t, []string{"The email has already been taken."}, res.Errors["email"])
	})

	t.Run("non-JSON error body falls back to generic message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("boom"))
		}))
		defer srv.Close()

		client := New(srv.URL, nil)
		res := client.Send(ctx, http.MethodGet, "/posts", nil, nil)

		require.False(t, res.Success)
		assert.Equal(t, "An error occurred", res.Message)
	})

	t.Run("malformed 2xx body is a transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not-json{{"))
		}))
		defer srv.Close()

		client := New(srv.URL, nil)
		res := client.Send(ctx, http.MethodPost, "/posts/42/like", nil, nil)

		require.False(t, res.Success, "garbage body must not confirm the call")
		assert.Equal(t, KindTransport, res.Kind)
		assert.Equal(t, "Invalid response from server.", res.Message)
		assert.Empty(t, res.Data)
	})

	t.Run("empty 2xx body stays a success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		client := New(srv.URL, nil)
		res := client.Send(ctx, http.MethodDelete, "/posts/42/like", nil, nil)

		require.True(t, res.Success)
		assert.Empty(t, res.Data)
	})

	t.Run("timeout aborts the request", func(t *testing.T) {
		aborted := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
				close(aborted)
			case <-time.After(5 * time.Second):
			}
		}))
		defer srv.Close()

		client := New(srv.URL, nil, WithTimeout(50*time.Millisecond))
		res := client.Send(ctx, http.MethodGet, "/slow", nil, nil)

		require.False(t, res.Success)
		assert.Equal(t, KindTimeout, res.Kind)
		assert.Equal(t, "Request timeout. Please try again.", res.Message)

		select {
		case <-aborted:
		case <-time.After(time.Second):
			t.Fatal("in-flight request was not aborted")
		}
	})

	t.Run("connection failure becomes transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		client := New(srv.URL, nil)
		res := client.Send(ctx, http.MethodGet, "/posts", nil, nil)

		require.False(t, res.Success)
		assert.Equal(t, KindTransport, res.Kind)
		assert.Equal(t, "Network error. Please check your connection.", res.Message)
	})
}

func TestSendMultipart(t *testing.T) {
	ctx := context.Background()

	t.Run("sends fields and file without JSON content type", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "with image", r.FormValue("content"))

			file, header, err := r.FormFile("image")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "pic.png", header.Filename)
			raw, err := io.ReadAll(file)
			require.NoError(t, err)
			assert.Equal(t, "fake-png-bytes", string(raw))

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"data":{"id":11}}`))
		}))
		defer srv.Close()

		client := New(srv.URL, nil)
		res := client.SendMultipart(ctx, http.MethodPost, "/posts",
			map[string]string{"content": "with image"},
			[]FileUpload{{Field: "image", Name: "pic.png", Content: strings.NewReader("fake-png-bytes")}},
			nil,
		)

		require.True(t, res.Success)
		var payload struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, res.Decode(&payload))
		assert.Equal(t, int64(11), payload.ID)
	})

	t.Run("error handling matches Send", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"message":"Image too large"}`))
		}))
		defer srv.Close()

		client := New(srv.URL, nil)
		res := client.SendMultipart(ctx, http.MethodPost, "/posts", nil,
			[]FileUpload{{Field: "image", Name: "big.png", Content: strings.NewReader("x")}}, nil)

		require.False(t, res.Success)
		assert.Equal(t, "Image too large", res.Message)
	})
}
