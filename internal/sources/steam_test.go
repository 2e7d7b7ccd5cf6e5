package sources_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gameshelf/internal/sources"
	"gameshelf/pkg/models"
)

func newTestSteam(ts *httptest.Server) *sources.Steam {
	s := sources.NewSteam()
	s.BaseURL = ts.URL
	s.Client = ts.Client()
	return s
}

func TestSteamSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/storesearch/", r.URL.Path)
		assert.Equal(t, "half-life", r.URL.Query().Get("term"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [
				{"id": 70, "name": "Half-Life", "tiny_image": "https://cdn.example/70.jpg"},
				{"id": 220, "name": "Half-Life 2", "tiny_image": ""}
			]
		}`))
	}))
	defer ts.Close()

	got, err := newTestSteam(ts).Search(context.Background(), "half-life", 5)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Half-Life", got[0].Title)
	assert.Equal(t, "https://cdn.example/70.jpg", got[0].CoverURL)
	assert.Equal(t, models.SourceSteam, got[0].Source)
	assert.Equal(t, "70", got[0].ExternalID)
	assert.Nil(t, got[0].Genres, "store search carries no genre data")

	// missing cover falls back to the placeholder
	assert.Equal(t, sources.PlaceholderCover, got[1].CoverURL)
}

func TestSteamSearchHonorsLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items": [
			{"id": 1, "name": "a"}, {"id": 2, "name": "b"}, {"id": 3, "name": "c"}
		]}`))
	}))
	defer ts.Close()

	got, err := newTestSteam(ts).Search(context.Background(), "x", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSteamSearchUpstreamFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := newTestSteam(ts).Search(context.Background(), "x", 5)
	assert.ErrorIs(t, err, sources.ErrUnavailable)
}

func TestSteamGetByID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/appdetails", r.URL.Path)
		assert.Equal(t, "440", r.URL.Query().Get("appids"))

		_, _ = w.Write([]byte(`{
			"440": {
				"success": true,
				"data": {
					"steam_appid": 440,
					"name": "Team Fortress 2",
					"header_image": "https://cdn.example/440/header.jpg",
					"short_description": "Nine distinct classes.",
					"genres": [{"description": "Action"}, {"description": "Free To Play"}],
					"release_date": {"date": "10 Oct, 2007"},
					"platforms": {"windows": true, "mac": true, "linux": false},
					"developers": ["Valve", "Valve South"],
					"publishers": ["Valve"]
				}
			}
		}`))
	}))
	defer ts.Close()

	got, err := newTestSteam(ts).GetByID(context.Background(), "440")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Team Fortress 2", got.Title)
	assert.Equal(t, "https://cdn.example/440/header.jpg", got.CoverURL)
	assert.Equal(t, "Nine distinct classes.", got.Description)
	assert.Equal(t, []string{"Action", "Free To Play"}, got.Genres)
	assert.Equal(t, "10 Oct, 2007", got.ReleaseDate)
	// only the enabled platform flags survive
	assert.Equal(t, []string{"windows", "mac"}, got.Platforms)
	// first entry of each flat array
	assert.Equal(t, "Valve", got.Developer)
	assert.Equal(t, "Valve", got.Publisher)
	assert.Equal(t, models.SourceSteam, got.Source)
	assert.Equal(t, "440", got.ExternalID)
}

func TestSteamGetByIDNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"999": {"success": false}}`))
	}))
	defer ts.Close()

	got, err := newTestSteam(ts).GetByID(context.Background(), "999")
	require.NoError(t, err)
	assert.Nil(t, got)
}
