package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-firestore-portfolio/internal/config"
	ierr "go-firestore-portfolio/internal/errors"
	"go-firestore-portfolio/internal/handler/httpx"
	"go-firestore-portfolio/internal/model"
	"go-firestore-portfolio/internal/portfolio"
	"go-firestore-portfolio/internal/portfolio/portfoliotest"
	"go-firestore-portfolio/internal/session"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenProvider map[string]*session.User

func (p tokenProvider) Verify(_ context.Context, token string) (*session.User, error) {
	if u, ok := p[token]; ok {
		return u, nil
	}
	return nil, ierr.Unauthenticatedf("invalid token")
}

func (p tokenProvider) Revoke(context.Context, string) error { return nil }

type client struct {
	t   *testing.T
	url string
}

func (c client) do(method, path, token string, body interface{}) *http.Response {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.url+path, reader)
	require.NoError(c.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func newTestServer(t *testing.T) client {
	t.Helper()

	store := portfoliotest.NewStore()
	svc := portfolio.New(store.Products(), store.Feedback(), store.UserInfo(), store.Tags(), store.Likes())
	provider := tokenProvider{
		"alice-token": {Uid: "alice", DisplayName: "Alice"},
		"bob-token":   {Uid: "bob", DisplayName: "Bob"},
	}

	srv := New(config.Http{}, svc, provider, prometheus.NewRegistry())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return client{t: t, url: ts.URL}
}

func productInput(tags ...string) model.ProductInput {
	return model.ProductInput{
		ProductTitle:    gofakeit.AppName(),
		ProductAbstract: gofakeit.Sentence(6),
		Tags:            tags,
		MainText:        "# " + gofakeit.HipsterSentence(4),
	}
}

func TestHealthAndMetrics(t *testing.T) {
	c := newTestServer(t)

	resp := c.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = c.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "portfolio_http_requests_total")
}

func TestProductLifecycle(t *testing.T) {
	c := newTestServer(t)

	resp := c.do(http.MethodPost, "/api/products", "", productInput())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	in := productInput("Go", "chi")
	resp = c.do(http.MethodPost, "/api/products", "alice-token", in)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := decode[httpx.IdResponse](t, resp).Id
	require.NotEmpty(t, id)

	resp = c.do(http.MethodGet, "/api/products/"+id, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p := decode[model.Product](t, resp)
	assert.Equal(t, in.ProductTitle, p.ProductTitle)
	assert.Equal(t, "alice", p.UserUid)

	resp = c.do(http.MethodPut, "/api/products/"+id, "bob-token", productInput())
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "forbidden", decode[httpx.ErrorResponse](t, resp).Error)

	edit := productInput("Go")
	resp = c.do(http.MethodPut, "/api/products/"+id, "alice-token", edit)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = c.do(http.MethodGet, "/api/products?sort=new&dir=desc", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]model.Product](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, edit.ProductTitle, list[0].ProductTitle)

	resp = c.do(http.MethodDelete, "/api/products/"+id, "bob-token", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = c.do(http.MethodDelete, "/api/products/"+id, "alice-token", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = c.do(http.MethodGet, "/api/products/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInvalidRequests(t *testing.T) {
	c := newTestServer(t)

	resp := c.do(http.MethodGet, "/api/products?sort=oldest", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "sort", decode[httpx.ErrorResponse](t, resp).Field)

	resp = c.do(http.MethodGet, "/api/users/alice/products?mode=followed", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	in := productInput()
	in.ProductTitle = ""
	resp = c.do(http.MethodPost, "/api/products", "alice-token", in)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = c.do(http.MethodPost, "/api/products/missing/like?dir=up", "alice-token", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = c.do(http.MethodPost, "/api/products/missing/like?dir=sideways", "alice-token", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLikesAndFeedback(t *testing.T) {
	c := newTestServer(t)

	resp := c.do(http.MethodPost, "/api/products", "alice-token", productInput())
	id := decode[httpx.IdResponse](t, resp).Id

	resp = c.do(http.MethodPost, "/api/products/"+id+"/like?dir=up", "bob-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, decode[map[string]int64](t, resp)["sumLike"])

	resp = c.do(http.MethodPost, "/api/products/"+id+"/like?dir=down", "bob-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, decode[map[string]int64](t, resp)["sumLike"])

	resp = c.do(http.MethodPost, "/api/products/"+id+"/feedback", "bob-token", map[string]string{"feedbackText": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = c.do(http.MethodPost, "/api/products/"+id+"/feedback", "bob-token", map[string]string{"feedbackText": "Great README"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	fid := decode[httpx.IdResponse](t, resp).Id

	resp = c.do(http.MethodPost, "/api/feedback/"+fid+"/like", "alice-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, decode[map[string]int64](t, resp)["sumLike"])

	resp = c.do(http.MethodGet, "/api/products/"+id+"/feedback", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fbs := decode[[]model.Feedback](t, resp)
	require.Len(t, fbs, 1)
	assert.Equal(t, "Great README", fbs[0].FeedbackText)
	assert.EqualValues(t, 1, fbs[0].SumLike)

	resp = c.do(http.MethodGet, "/api/users/bob/products?mode=feedback", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	products := decode[[]model.Product](t, resp)
	require.Len(t, products, 1)
	assert.Equal(t, id, products[0].Id)
}

func TestUsersAndSession(t *testing.T) {
	c := newTestServer(t)

	resp := c.do(http.MethodGet, "/api/session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = c.do(http.MethodGet, "/api/session", "alice-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	before := decode[map[string]interface{}](t, resp)
	assert.Equal(t, false, before["registered"])

	resp = c.do(http.MethodPut, "/api/users/me", "alice-token", model.Profile{Name: "Alice", Comment: "gopher"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = c.do(http.MethodGet, "/api/session", "alice-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	after := decode[map[string]interface{}](t, resp)
	assert.Equal(t, true, after["registered"])

	resp = c.do(http.MethodGet, "/api/users/alice", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	info := decode[model.UserInfo](t, resp)
	assert.Equal(t, "Alice", info.Name)
	assert.Equal(t, "gopher", info.Comment)

	resp = c.do(http.MethodGet, "/api/users/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTags(t *testing.T) {
	c := newTestServer(t)

	c.do(http.MethodPost, "/api/products", "alice-token", productInput("React", "TypeScript"))
	c.do(http.MethodPost, "/api/products", "bob-token", productInput("React"))

	resp := c.do(http.MethodGet, "/api/tags?q=re", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"React"}, decode[[]string](t, resp))

	resp = c.do(http.MethodGet, "/api/tags?q=SCRIPT", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"TypeScript"}, decode[[]string](t, resp))
}

func TestFeedbackStream(t *testing.T) {
	c := newTestServer(t)

	resp := c.do(http.MethodPost, "/api/products", "alice-token", productInput())
	id := decode[httpx.IdResponse](t, resp).Id
	c.do(http.MethodPost, "/api/products/"+id+"/feedback", "bob-token", map[string]string{"feedbackText": "first"})

	resp = c.do(http.MethodGet, "/api/products/missing/feedback/stream", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/api/products/"+id+"/feedback/stream", nil)
	require.NoError(t, err)
	stream, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer stream.Body.Close()

	require.Equal(t, http.StatusOK, stream.StatusCode)
	assert.Equal(t, "text/event-stream", stream.Header.Get("Content-Type"))

	events := make(chan model.Feedback)
	go func() {
		defer close(events)
		scanner := bufio.NewScanner(stream.Body)
		for scanner.Scan() {
			data, ok := strings.CutPrefix(scanner.Text(), "data: ")
			if !ok {
				continue
			}
			var fb model.Feedback
			if json.Unmarshal([]byte(data), &fb) == nil {
				events <- fb
			}
		}
	}()

	first := <-events
	assert.Equal(t, "first", first.FeedbackText)

	c.do(http.MethodPost, "/api/products/"+id+"/feedback", "bob-token", map[string]string{"feedbackText": "second"})
	select {
	case second := <-events:
		assert.Equal(t, "second", second.FeedbackText)
	case <-ctx.Done():
		t.Fatal("no event for the new feedback")
	}
}
