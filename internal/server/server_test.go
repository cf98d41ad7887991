package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type testEnvelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(testSecret).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, testEnvelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env testEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func registerUser(t *testing.T, base, name, email string) string {
	t.Helper()
	resp, env := doJSON(t, http.MethodPost, base+"/api/register", "", map[string]string{
		"name":                  name,
		"email":                 email,
		"password":              "secret123",
		"password_confirmation": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var auth struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	require.NotEmpty(t, auth.Token)
	return auth.Token
}

func TestAuthEndpoints(t *testing.T) {
	t.Run("register, login, me", func(t *testing.T) {
		srv := startServer(t)
		registerUser(t, srv.URL, "Ana", "ana@example.com")

		resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/login", "", map[string]string{
			"email":    "ana@example.com",
			"password": "secret123",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.True(t, env.Success)

		var auth struct {
			Token string `json:"token"`
			User  struct {
				Name string `json:"name"`
			} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &auth))
		assert.Equal(t, "Ana", auth.User.Name)

		resp, env = doJSON(t, http.MethodGet, srv.URL+"/api/me", auth.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var me struct {
			Email string `json:"email"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &me))
		assert.Equal(t, "ana@example.com", me.Email)
	})

	t.Run("duplicate email is a validation error", func(t *testing.T) {
		srv := startServer(t)
		registerUser(t, srv.URL, "Ana", "ana@example.com")

		resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/register", "", map[string]string{
			"name":                  "Imposter",
			"email":                 "ana@example.com",
			"password":              "secret123",
			"password_confirmation": "secret123",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.False(t, env.Success)
		assert.NotEmpty(t, env.Errors["email"])
	})

	t.Run("invalid payload returns field errors", func(t *testing.T) {
		srv := startServer(t)

		resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/register", "", map[string]string{
			"name":  "A",
			"email": "nope",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.False(t, env.Success)
		assert.NotEmpty(t, env.Errors["email"])
		assert.NotEmpty(t, env.Errors["password"])
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		srv := startServer(t)
		registerUser(t, srv.URL, "Ana", "ana@example.com")

		resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/login", "", map[string]string{
			"email":    "ana@example.com",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid email or password", env.Message)
	})

	t.Run("protected routes require a token", func(t *testing.T) {
		srv := startServer(t)

		resp, env := doJSON(t, http.MethodGet, srv.URL+"/api/posts", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.False(t, env.Success)

		resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/posts", "garbage-token", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestPostEndpoints(t *testing.T) {
	t.Run("create and paginate newest first", func(t *testing.T) {
		srv := startServer(t)
		token := registerUser(t, srv.URL, "Ana", "ana@example.com")

		for i := 1; i <= 5; i++ {
			resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/posts", token, map[string]string{
				"content": fmt.Sprintf("post %d", i),
			})
			require.Equal(t, http.StatusCreated, resp.StatusCode)
		}

		resp, env := doJSON(t, http.MethodGet, srv.URL+"/api/posts?page=1&per_page=2", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var page struct {
			Data []struct {
				Content string `json:"content"`
			} `json:"data"`
			CurrentPage int `json:"current_page"`
			PerPage     int `json:"per_page"`
			Total       int `json:"total"`
			LastPage    int `json:"last_page"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Equal(t, 1, page.CurrentPage)
		assert.Equal(t, 2, page.PerPage)
		assert.Equal(t, 5, page.Total)
		assert.Equal(t, 3, page.LastPage)
		require.Len(t, page.Data, 2)
		assert.Equal(t, "post 5", page.Data[0].Content)
		assert.Equal(t, "post 4", page.Data[1].Content)
	})

	t.Run("like is reflected per viewer and rejected twice", func(t *testing.T) {
		srv := startServer(t)
		ana := registerUser(t, srv.URL, "Ana", "ana@example.com")
		bo := registerUser(t, srv.URL, "Bo", "bo@example.com")

		resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/posts", ana, map[string]string{"content": "like me"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var post struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &post))

		likeURL := fmt.Sprintf("%s/api/posts/%d/like", srv.URL, post.ID)
		resp, _ = doJSON(t, http.MethodPost, likeURL, bo, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, _ = doJSON(t, http.MethodPost, likeURL, bo, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		// Bo sees is_liked, Ana does not
		checkLiked := func(token string, want bool, wantCount int) {
			_, env := doJSON(t, http.MethodGet, srv.URL+"/api/posts?page=1&per_page=10", token, nil)
			var page struct {
				Data []struct {
					IsLiked    bool `json:"is_liked"`
					LikesCount int  `json:"likes_count"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(env.Data, &page))
			require.Len(t, page.Data, 1)
			assert.Equal(t, want, page.Data[0].IsLiked)
			assert.Equal(t, wantCount, page.Data[0].LikesCount)
		}
		checkLiked(bo, true, 1)
		checkLiked(ana, false, 1)

		resp, _ = doJSON(t, http.MethodDelete, likeURL, bo, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		checkLiked(bo, false, 0)
	})

	t.Run("comments are stored in order with their author", func(t *testing.T) {
		srv := startServer(t)
		token := registerUser(t, srv.URL, "Ana", "ana@example.com")

		_, env := doJSON(t, http.MethodPost, srv.URL+"/api/posts", token, map[string]string{"content": "discuss"})
		var post struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &post))

		commentURL := fmt.Sprintf("%s/api/posts/%d/comment", srv.URL, post.ID)
		for _, text := range []string{"first", "second"} {
			resp, _ := doJSON(t, http.MethodPost, commentURL, token, map[string]string{"content": text})
			require.Equal(t, http.StatusCreated, resp.StatusCode)
		}

		_, env = doJSON(t, http.MethodGet, commentURL, token, nil)
		var comments []struct {
			Content string `json:"content"`
			User    struct {
				Name string `json:"name"`
			} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &comments))
		require.Len(t, comments, 2)
		assert.Equal(t, "first", comments[0].Content)
		assert.Equal(t, "Ana", comments[1].User.Name)
	})

	t.Run("comment on a missing post is a 404", func(t *testing.T) {
		srv := startServer(t)
		token := registerUser(t, srv.URL, "Ana", "ana@example.com")

		resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/posts/9999/comment", token, map[string]string{"content": "void"})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Post not found", env.Message)
	})
}
