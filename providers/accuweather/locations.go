package accuweather

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"forecast-service/models"
)

// CitySearchResult is one candidate returned by the City Search API
type CitySearchResult struct {
	Key                string `json:"Key"`
	EnglishName        string `json:"EnglishName"`
	AdministrativeArea struct {
		EnglishName string `json:"EnglishName"`
	} `json:"AdministrativeArea"`
}

// ResolveLocation calls the City Search API and returns its first candidate.
// The provider ranks candidates by relevance, so no further disambiguation is done.
func (p *Provider) ResolveLocation(ctx context.Context, query string) (models.Location, bool, error) {
	params := url.Values{}
	params.Set("q", query)

	body, ue := p.get(ctx, CitySearchAPI, "/locations/v1/cities/search", params)
	if ue != nil {
		return models.Location{}, false, ue
	}

	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return models.Location{}, false, p.parseFailure(CitySearchAPI, body, errors.New("null candidate list"))
	}

	var candidates []CitySearchResult
	if err := json.Unmarshal(body, &candidates); err != nil {
		return models.Location{}, false, p.parseFailure(CitySearchAPI, body, err)
	}

	if len(candidates) == 0 {
		p.logger.Warn().
			Str("api", CitySearchAPI).
			Str("location", query).
			Msg("No location key was returned by AccuWeather City Search API")
		return models.Location{}, false, nil
	}

	best := candidates[0]
	if best.Key == "" {
		return models.Location{}, false, p.parseFailure(CitySearchAPI, body, errors.New("first candidate has no Key"))
	}

	return models.Location{
		Key:                    best.Key,
		EnglishName:            best.EnglishName,
		AdministrativeAreaName: best.AdministrativeArea.EnglishName,
	}, true, nil
}
