package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"gameshelf/pkg/models"
)

const steamStoreBase = "https://store.steampowered.com/api"

// Steam queries the Steam storefront API. Store search and app details are
// public endpoints, so this source needs no credentials.
type Steam struct {
	BaseURL string
	Client  *http.Client
}

func NewSteam() *Steam {
	return &Steam{
		BaseURL: steamStoreBase,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *Steam) Name() string { return models.SourceSteam }

type steamSearchResponse struct {
	Items []struct {
		ID        int    `json:"id"`
		Name      string `json:"name"`
		TinyImage string `json:"tiny_image"`
	} `json:"items"`
}

func (s *Steam) Search(ctx context.Context, query string, limit int) ([]models.ExternalGameData, error) {
	u := fmt.Sprintf("%s/storesearch/?term=%s&l=english&cc=US", s.BaseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("steam: build request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("steam: request: %w", ErrUnavailable)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("steam: status %d: %w", resp.StatusCode, ErrUnavailable)
	}

	var sr steamSearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("steam: decode: %w", err)
	}

	out := make([]models.ExternalGameData, 0, limit)
	for _, item := range sr.Items {
		if len(out) >= limit {
			break
		}
		if item.Name == "" {
			continue
		}

		cover := item.TinyImage
		if cover == "" {
			cover = PlaceholderCover
		}

		out = append(out, models.ExternalGameData{
			Title:      item.Name,
			CoverURL:   cover,
			Source:     models.SourceSteam,
			ExternalID: strconv.Itoa(item.ID),
		})
	}
	return out, nil
}

// appdetails responds with a map keyed by the requested app id.
type steamAppEntry struct {
	Success bool         `json:"success"`
	Data    steamAppData `json:"data"`
}

type steamAppData struct {
	SteamAppID       int    `json:"steam_appid"`
	Name             string `json:"name"`
	HeaderImage      string `json:"header_image"`
	ShortDescription string `json:"short_description"`
	Genres           []struct {
		Description string `json:"description"`
	} `json:"genres"`
	ReleaseDate struct {
		Date string `json:"date"`
	} `json:"release_date"`
	Platforms  map[string]bool `json:"platforms"`
	Developers []string        `json:"developers"`
	Publishers []string        `json:"publishers"`
}

func (s *Steam) GetByID(ctx context.Context, externalID string) (*models.ExternalGameData, error) {
	u := fmt.Sprintf("%s/appdetails?appids=%s", s.BaseURL, url.QueryEscape(externalID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("steam: build request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("steam: request: %w", ErrUnavailable)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("steam: status %d: %w", resp.StatusCode, ErrUnavailable)
	}

	var entries map[string]steamAppEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("steam: decode: %w", err)
	}

	entry, ok := entries[externalID]
	if !ok || !entry.Success {
		return nil, nil
	}

	return mapSteamApp(entry.Data), nil
}

func mapSteamApp(d steamAppData) *models.ExternalGameData {
	cover := d.HeaderImage
	if cover == "" {
		cover = PlaceholderCover
	}

	var genres []string
	for _, g := range d.Genres {
		if g.Description != "" {
			genres = append(genres, g.Description)
		}
	}

	// platform flags come as {"windows": true, "mac": false, ...}
	var platforms []string
	for _, name := range []string{"windows", "mac", "linux"} {
		if d.Platforms[name] {
			platforms = append(platforms, name)
		}
	}

	var developer, publisher string
	if len(d.Developers) > 0 {
		developer = d.Developers[0]
	}
	if len(d.Publishers) > 0 {
		publisher = d.Publishers[0]
	}

	return &models.ExternalGameData{
		Title:       d.Name,
		CoverURL:    cover,
		Description: d.ShortDescription,
		Genres:      genres,
		ReleaseDate: d.ReleaseDate.Date,
		Platforms:   platforms,
		Developer:   developer,
		Publisher:   publisher,
		Source:      models.SourceSteam,
		ExternalID:  strconv.Itoa(d.SteamAppID),
	}
}
