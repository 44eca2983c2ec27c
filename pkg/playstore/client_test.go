package playstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// detailsPage renders a minimal details page with an embedded ds:5 dataset.
func detailsPage(t *testing.T, dataset any) string {
	t.Helper()
	blob, err := json.Marshal(dataset)
	require.NoError(t, err)
	return fmt.Sprintf(`<!doctype html>
<html>
<head><meta property="og:title" content="Example App"></head>
<body>
<h1 itemprop="name">Example App</h1>
<img itemprop="image" src="https://img.example/icon.png">
<script nonce="x">AF_initDataCallback({key: 'ds:3', hash: '1', data:[], sideChannel: {}});</script>
<script nonce="x">AF_initDataCallback({key: 'ds:5', hash: '2', data:%s, sideChannel: {}});</script>
</body>
</html>`, blob)
}

// fullDataset builds a ds:5 blob carrying every optional field.
func fullDataset() any {
	root := make([]any, 150)
	root[0] = []any{"Example App"}
	root[13] = []any{"1,000,000+"}
	root[19] = []any{1}
	root[51] = []any{
		[]any{nil, 4.3},
		nil,
		[]any{nil, float64(12345)},
	}
	root[57] = []any{[]any{[]any{[]any{[]any{nil, []any{[]any{float64(1990000), nil, "$1.99"}}}}}}}
	root[145] = []any{[]any{nil, []any{float64(1717200000)}}}
	return []any{nil, []any{nil, nil, root}}
}

// sparseDataset leaves every optional field absent.
func sparseDataset() any {
	root := make([]any, 150)
	return []any{nil, []any{nil, nil, root}}
}

func testClient(srv *httptest.Server) *Client {
	c := NewClient(srv.Client())
	c.baseURL = srv.URL
	return c
}

func TestAppDetails(t *testing.T) {
	page := detailsPage(t, fullDataset())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/store/apps/details", r.URL.Path)
		require.Equal(t, "com.example.app", r.URL.Query().Get("id"))
		require.Equal(t, "en", r.URL.Query().Get("hl"))
		require.Equal(t, "us", r.URL.Query().Get("gl"))
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	app, err := testClient(srv).AppDetails(context.Background(), "com.example.app", "us", "en")
	require.NoError(t, err)
	require.Equal(t, "Example App", app.Title)
	require.Equal(t, "https://img.example/icon.png", app.Icon)
	require.Equal(t, "1717200000000", app.Updated)
	require.Equal(t, "1,000,000+", app.Installs)
	require.InDelta(t, 4.3, app.Score, 0.001)
	require.Equal(t, 12345, app.Ratings)
	require.Equal(t, "$1.99", app.Price)
	require.False(t, app.Free)
	require.True(t, app.OffersIAP)
}

func TestAppDetailsDefaults(t *testing.T) {
	page := detailsPage(t, sparseDataset())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	app, err := testClient(srv).AppDetails(context.Background(), "com.example.app", "us", "en")
	require.NoError(t, err)
	require.Equal(t, "Unknown", app.Installs)
	require.Equal(t, "Unknown", app.Updated)
	require.Equal(t, "Free", app.Price)
	require.True(t, app.Free)
	require.Zero(t, app.Score)
	require.Zero(t, app.Ratings)
	require.False(t, app.OffersIAP)
}

func TestAppDetailsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := testClient(srv).AppDetails(context.Background(), "com.missing", "us", "en")
	require.ErrorIs(t, err, ErrAppNotFound)
}

func TestAppDetailsEmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>nothing here</body></html>")
	}))
	defer srv.Close()

	_, err := testClient(srv).AppDetails(context.Background(), "com.missing", "us", "en")
	require.ErrorIs(t, err, ErrAppNotFound)
}

// reviewEntry builds one review array in the batchexecute payload shape.
func reviewEntry(name, avatar string, score int, text string, ts int64) any {
	return []any{
		"review-id",
		[]any{name, []any{nil, nil, nil, []any{nil, nil, avatar}}},
		score,
		nil,
		text,
		[]any{ts},
	}
}

func reviewsBody(t *testing.T, entries ...any) string {
	t.Helper()
	payload, err := json.Marshal([]any{entries})
	require.NoError(t, err)
	outer, err := json.Marshal([]any{[]any{"wrb.fr", "UsvDTd", string(payload)}})
	require.NoError(t, err)
	return ")]}'\n\n" + string(outer)
}

func TestNegativeReviews(t *testing.T) {
	body := reviewsBody(t,
		reviewEntry("Alice", "https://img.example/a.png", 1, "crashes constantly", 1717200000),
		reviewEntry("Bob", "", 5, "love it", 1717100000),
		reviewEntry("Carol", "", 3, "too many ads", 1717000000),
		reviewEntry("Dave", "", 2, "   ", 1716900000),
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/_/PlayStoreUi/data/batchexecute", r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Contains(t, r.PostForm.Get("f.req"), reviewsRPC)
		require.Contains(t, r.PostForm.Get("f.req"), "com.example.app")
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	reviews, err := testClient(srv).NegativeReviews(context.Background(), "com.example.app", "us", "en")
	require.NoError(t, err)
	require.Len(t, reviews, 2)

	require.Equal(t, "Alice", reviews[0].UserName)
	require.Equal(t, "https://img.example/a.png", reviews[0].UserImage)
	require.Equal(t, 1, reviews[0].Score)
	require.Equal(t, "crashes constantly", reviews[0].Text)
	require.Equal(t, "1717200000000", reviews[0].Date)

	require.Equal(t, "Carol", reviews[1].UserName)
}

func TestNegativeReviewsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv).NegativeReviews(context.Background(), "com.example.app", "us", "en")
	require.ErrorIs(t, err, ErrReviewsUnavailable)
}

func TestNegativeReviewsBadEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, ")]}'\n\n[]")
	}))
	defer srv.Close()

	_, err := testClient(srv).NegativeReviews(context.Background(), "com.example.app", "us", "en")
	require.ErrorIs(t, err, ErrReviewsUnavailable)
}

func TestFilterNegative(t *testing.T) {
	in := []Review{
		{Score: 4, Text: "fine"},
		{Score: 3, Text: "meh"},
		{Score: 1, Text: ""},
	}
	out := FilterNegative(in)
	require.Len(t, out, 1)
	require.Equal(t, "meh", out[0].Text)
}
