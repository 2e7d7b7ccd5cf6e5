package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"gameshelf/pkg/models"
)

const (
	igdbAPIBase   = "https://api.igdb.com/v4"
	igdbTokenURL  = "https://id.twitch.tv/oauth2/token"
	igdbQueryFields = "name,cover.url,summary,genres.name,release_dates.date,rating,platforms.name," +
		"involved_companies.company.name,involved_companies.developer,involved_companies.publisher"

	// refresh the bearer token this long before its stated expiry
	tokenExpirySlack = 5 * time.Minute
)

// IGDB queries the IGDB v4 API. Access goes through Twitch's OAuth
// client-credentials flow; the bearer token is cached on the adapter and
// reused until shortly before expiry.
type IGDB struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	TokenURL     string
	Client       *http.Client

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

func NewIGDB(clientID, clientSecret string) *IGDB {
	return &IGDB{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		BaseURL:      igdbAPIBase,
		TokenURL:     igdbTokenURL,
		Client:       &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *IGDB) Name() string { return models.SourceIGDB }

// accessToken returns the cached bearer token, exchanging credentials with
// Twitch when no valid token is held.
func (s *IGDB) accessToken(ctx context.Context) (string, error) {
	if s.ClientID == "" || s.ClientSecret == "" {
		return "", fmt.Errorf("igdb: client id or secret not configured: %w", ErrUnavailable)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Now().Before(s.tokenExp) {
		return s.token, nil
	}

	u := fmt.Sprintf("%s?client_id=%s&client_secret=%s&grant_type=client_credentials",
		s.TokenURL, s.ClientID, s.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return "", fmt.Errorf("igdb: build token request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("igdb: token request: %w", ErrAuthFailed)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("igdb: token status %d: %w", resp.StatusCode, ErrAuthFailed)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tok); err != nil || tok.AccessToken == "" {
		return "", fmt.Errorf("igdb: decode token: %w", ErrAuthFailed)
	}

	s.token = tok.AccessToken
	s.tokenExp = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - tokenExpirySlack)
	return s.token, nil
}

type igdbGame struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Cover *struct {
		URL string `json:"url"`
	} `json:"cover"`
	Summary string `json:"summary"`
	Genres  []struct {
		Name string `json:"name"`
	} `json:"genres"`
	ReleaseDates []struct {
		Date int64 `json:"date"`
	} `json:"release_dates"`
	Platforms []struct {
		Name string `json:"name"`
	} `json:"platforms"`
	InvolvedCompanies []struct {
		Company struct {
			Name string `json:"name"`
		} `json:"company"`
		Developer bool `json:"developer"`
		Publisher bool `json:"publisher"`
	} `json:"involved_companies"`
}

// query posts an Apicalypse body to /games and decodes the result list.
func (s *IGDB) query(ctx context.Context, body string) ([]igdbGame, error) {
	token, err := s.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/games", strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("igdb: build request: %w", err)
	}
	req.Header.Set("Client-ID", s.ClientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "text/plain")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("igdb: request: %w", ErrUnavailable)
	}
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("igdb: status %d: %w", resp.StatusCode, ErrUnavailable)
	}

	var games []igdbGame
	if err := json.Unmarshal(raw, &games); err != nil {
		return nil, fmt.Errorf("igdb: decode: %w", err)
	}
	return games, nil
}

func (s *IGDB) Search(ctx context.Context, query string, limit int) ([]models.ExternalGameData, error) {
	escaped := strings.ReplaceAll(query, `"`, `\"`)
	body := fmt.Sprintf(`search "%s"; fields %s; limit %d;`, escaped, igdbQueryFields, limit)

	games, err := s.query(ctx, body)
	if err != nil {
		return nil, err
	}

	out := make([]models.ExternalGameData, 0, len(games))
	for _, g := range games {
		if g.Name == "" {
			continue
		}
		out = append(out, *mapIGDBGame(g))
	}
	return out, nil
}

func (s *IGDB) GetByID(ctx context.Context, externalID string) (*models.ExternalGameData, error) {
	// ids are numeric; reject anything else before it reaches the query body
	id, err := strconv.ParseInt(externalID, 10, 64)
	if err != nil {
		return nil, nil
	}
	body := fmt.Sprintf(`where id = %d; fields %s;`, id, igdbQueryFields)

	games, err := s.query(ctx, body)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, nil
	}
	return mapIGDBGame(games[0]), nil
}

func mapIGDBGame(g igdbGame) *models.ExternalGameData {
	// IGDB hands out protocol-relative thumbnail URLs; upgrade to the
	// big cover variant.
	cover := PlaceholderCover
	if g.Cover != nil && g.Cover.URL != "" {
		cover = "https:" + strings.Replace(g.Cover.URL, "t_thumb", "t_cover_big", 1)
	}

	var genres []string
	for _, ge := range g.Genres {
		if ge.Name != "" {
			genres = append(genres, ge.Name)
		}
	}

	var platforms []string
	for _, p := range g.Platforms {
		if p.Name != "" {
			platforms = append(platforms, p.Name)
		}
	}

	// release_dates[0].date is Unix seconds
	releaseDate := ""
	if len(g.ReleaseDates) > 0 && g.ReleaseDates[0].Date > 0 {
		releaseDate = time.Unix(g.ReleaseDates[0].Date, 0).UTC().Format("Jan 2, 2006")
	}

	// first company flagged as developer, first flagged as publisher
	var developer, publisher string
	for _, ic := range g.InvolvedCompanies {
		if ic.Developer && developer == "" {
			developer = ic.Company.Name
		}
		if ic.Publisher && publisher == "" {
			publisher = ic.Company.Name
		}
	}

	return &models.ExternalGameData{
		Title:       g.Name,
		CoverURL:    cover,
		Description: g.Summary,
		Genres:      genres,
		ReleaseDate: releaseDate,
		Platforms:   platforms,
		Developer:   developer,
		Publisher:   publisher,
		Source:      models.SourceIGDB,
		ExternalID:  fmt.Sprintf("%d", g.ID),
	}
}
