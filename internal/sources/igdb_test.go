package sources_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gameshelf/internal/sources"
	"gameshelf/pkg/models"
)

// newTestIGDB wires an adapter against fake token and API servers.
func newTestIGDB(t *testing.T, tokenExchanges *int64, apiHandler http.HandlerFunc) (*sources.IGDB, func()) {
	t.Helper()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		atomic.AddInt64(tokenExchanges, 1)
		_, _ = w.Write([]byte(`{"access_token": "tok-1", "expires_in": 3600}`))
	}))
	apiSrv := httptest.NewServer(apiHandler)

	s := sources.NewIGDB("client-id", "client-secret")
	s.BaseURL = apiSrv.URL
	s.TokenURL = tokenSrv.URL
	s.Client = http.DefaultClient

	return s, func() {
		tokenSrv.Close()
		apiSrv.Close()
	}
}

func TestIGDBSearch(t *testing.T) {
	var exchanges int64
	s, done := newTestIGDB(t, &exchanges, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/games", r.URL.Path)
		assert.Equal(t, "client-id", r.Header.Get("Client-ID"))
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		_, _ = w.Write([]byte(`[
			{
				"id": 1025,
				"name": "Zelda-like",
				"cover": {"url": "//images.igdb.com/t_thumb/co1wyy.jpg"},
				"summary": "An adventure.",
				"genres": [{"name": "Adventure"}, {"name": "RPG"}],
				"release_dates": [{"date": 1488326400}],
				"platforms": [{"name": "Nintendo Switch"}],
				"involved_companies": [
					{"company": {"name": "PubCo"}, "developer": false, "publisher": true},
					{"company": {"name": "DevCo"}, "developer": true, "publisher": false}
				]
			},
			{"id": 2, "name": "Bare Entry"}
		]`))
	})
	defer done()

	got, err := s.Search(context.Background(), "zelda", 5)
	require.NoError(t, err)
	require.Len(t, got, 2)

	g := got[0]
	assert.Equal(t, "Zelda-like", g.Title)
	// thumbnail upgraded to the big cover variant with an https scheme
	assert.Equal(t, "https://images.igdb.com/t_cover_big/co1wyy.jpg", g.CoverURL)
	assert.Equal(t, "An adventure.", g.Description)
	assert.Equal(t, []string{"Adventure", "RPG"}, g.Genres)
	// 1488326400 = 2017-03-01 UTC
	assert.Equal(t, "Mar 1, 2017", g.ReleaseDate)
	assert.Equal(t, []string{"Nintendo Switch"}, g.Platforms)
	assert.Equal(t, "DevCo", g.Developer)
	assert.Equal(t, "PubCo", g.Publisher)
	assert.Equal(t, models.SourceIGDB, g.Source)
	assert.Equal(t, "1025", g.ExternalID)

	bare := got[1]
	assert.Equal(t, sources.PlaceholderCover, bare.CoverURL)
	assert.Nil(t, bare.Genres)
	assert.Empty(t, bare.ReleaseDate)
}

func TestIGDBTokenReused(t *testing.T) {
	var exchanges int64
	s, done := newTestIGDB(t, &exchanges, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	defer done()

	for i := 0; i < 3; i++ {
		_, err := s.Search(context.Background(), "zelda", 5)
		require.NoError(t, err)
	}

	assert.EqualValues(t, 1, atomic.LoadInt64(&exchanges), "token should be cached across calls")
}

func TestIGDBMissingCredentials(t *testing.T) {
	s := sources.NewIGDB("", "")

	_, err := s.Search(context.Background(), "zelda", 5)
	assert.ErrorIs(t, err, sources.ErrUnavailable)
}

func TestIGDBTokenExchangeRejected(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer tokenSrv.Close()

	s := sources.NewIGDB("client-id", "bad-secret")
	s.TokenURL = tokenSrv.URL
	s.Client = http.DefaultClient

	_, err := s.Search(context.Background(), "zelda", 5)
	assert.ErrorIs(t, err, sources.ErrAuthFailed)
}

func TestIGDBGetByID(t *testing.T) {
	var exchanges int64
	s, done := newTestIGDB(t, &exchanges, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 7346, "name": "Breath of the Wild"}]`))
	})
	defer done()

	got, err := s.GetByID(context.Background(), "7346")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Breath of the Wild", got.Title)
	assert.Equal(t, "7346", got.ExternalID)
}

func TestIGDBGetByIDAbsent(t *testing.T) {
	var exchanges int64
	s, done := newTestIGDB(t, &exchanges, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	defer done()

	got, err := s.GetByID(context.Background(), "424242")
	require.NoError(t, err)
	assert.Nil(t, got)

	// a non-numeric id never reaches the API
	got, err = s.GetByID(context.Background(), "abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIGDBUpstreamFailure(t *testing.T) {
	var exchanges int64
	s, done := newTestIGDB(t, &exchanges, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer done()

	_, err := s.Search(context.Background(), "zelda", 5)
	assert.ErrorIs(t, err, sources.ErrUnavailable)
}
