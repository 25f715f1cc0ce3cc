package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const (
	skyscannerBaseURL = "https://partners.api.skyscanner.net/apiservices/v3"

	pollAttempts = 10
	pollInterval = 2 * time.Second
)

// GeoClient resolves the nearest airport for a joining player's
// coordinates. Failures are join failures, never silently defaulted.
type GeoClient interface {
	NearestAirport(ctx context.Context, lat, lng float64) (string, error)
}

// SkyscannerClient implements GeoClient and FlightClient against the
// Skyscanner partner API.
type SkyscannerClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewSkyscannerClient(apiKey string) *SkyscannerClient {
	return &SkyscannerClient{
		apiKey:  apiKey,
		baseURL: skyscannerBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type skyscannerPlace struct {
	EntityID    string `json:"entityId"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Iata        string `json:"iata"`
	Coordinates struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"coordinates"`
}

// NearestAirport queries the geo hierarchy for the airport closest to the
// given coordinates and returns its IATA code.
func (s *SkyscannerClient) NearestAirport(ctx context.Context, lat, lng float64) (string, error) {
	body := map[string]any{
		"locale": "en-GB",
		"locator": map[string]any{
			"coordinates": map[string]float64{"latitude": lat, "longitude": lng},
		},
	}

	var response struct {
		Places map[string]skyscannerPlace `json:"places"`
	}
	if err := s.post(ctx, s.baseURL+"/geo/hierarchy/flights/nearest", body, &response); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExternalLookup, err)
	}

	for _, place := range response.Places {
		if place.Type == "PLACE_TYPE_AIRPORT" && place.Iata != "" {
			return place.Iata, nil
		}
	}
	return "", fmt.Errorf("%w: no airport near (%.4f, %.4f)", ErrExternalLookup, lat, lng)
}

type liveSearchResponse struct {
	SessionToken string `json:"sessionToken"`
	Status       string `json:"status"`
	Content      struct {
		Results struct {
			Itineraries map[string]struct {
				PricingOptions []struct {
					Price struct {
						Amount string `json:"amount"`
					} `json:"price"`
				} `json:"pricingOptions"`
			} `json:"itineraries"`
		} `json:"results"`
	} `json:"content"`
}

// PriceRoundTrip runs a live flight search for an out-and-back trip and
// returns the cheapest total fare in EUR, or nil when no fare is found.
func (s *SkyscannerClient) PriceRoundTrip(ctx context.Context, originIata, destinationIata string, dates TripConstraints) (*float64, error) {
	outbound, err := searchDate(dates.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", dates.StartDate, err)
	}
	inbound, err := searchDate(dates.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", dates.EndDate, err)
	}

	body := map[string]any{
		"query": map[string]any{
			"market":   "ES",
			"locale":   "es-ES",
			"currency": "EUR",
			"query_legs": []map[string]any{
				{
					"origin_place_id":      map[string]string{"iata": originIata},
					"destination_place_id": map[string]string{"iata": destinationIata},
					"date":                 outbound,
				},
				{
					"origin_place_id":      map[string]string{"iata": destinationIata},
					"destination_place_id": map[string]string{"iata": originIata},
					"date":                 inbound,
				},
			},
			"cabinClass": "CABIN_CLASS_ECONOMY",
			"adults":     1,
		},
	}

	var session liveSearchResponse
	if err := s.post(ctx, s.baseURL+"/flights/live/search/create", body, &session); err != nil {
		return nil, fmt.Errorf("creating search session: %w", err)
	}

	results := session
	for attempt := 0; attempt < pollAttempts; attempt++ {
		if results.Status == "RESULT_STATUS_COMPLETE" || len(results.Content.Results.Itineraries) > 0 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
		if err := s.post(ctx, s.baseURL+"/flights/live/search/poll/"+session.SessionToken, map[string]any{}, &results); err != nil {
			return nil, fmt.Errorf("polling search session: %w", err)
		}
	}

	return cheapestFare(&results), nil
}

// cheapestFare picks the lowest itinerary price. Amounts arrive in
// thousandths of a currency unit.
func cheapestFare(results *liveSearchResponse) *float64 {
	var cheapest *float64
	for _, itinerary := range results.Content.Results.Itineraries {
		if len(itinerary.PricingOptions) == 0 {
			continue
		}
		amount, err := strconv.ParseFloat(itinerary.PricingOptions[0].Price.Amount, 64)
		if err != nil {
			continue
		}
		price := amount / 1000
		if cheapest == nil || price < *cheapest {
			cheapest = &price
		}
	}
	return cheapest
}

func searchDate(value string) (map[string]int, error) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return map[string]int{"year": date.Year(), "month": int(date.Month()), "day": date.Day()}, nil
}

func (s *SkyscannerClient) post(ctx context.Context, url string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned %d: %s", url, resp.StatusCode, detail)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
