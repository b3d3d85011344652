package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Place résume un lieu retourné par l'API Google Places.
type Place struct {
	PlaceID          string
	Name             string
	FormattedAddress string
	Rating           float64
	UserRatingsTotal int
	Phone            string
	Website          string
}

// Client appelle l'API Google Places (Text Search + Details).
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient crée un client Places. baseURL est paramétrable pour les tests.
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type textSearchResponse struct {
	Results []struct {
		PlaceID          string  `json:"place_id"`
		Name             string  `json:"name"`
		FormattedAddress string  `json:"formatted_address"`
		Rating           float64 `json:"rating"`
		UserRatingsTotal int     `json:"user_ratings_total"`
	} `json:"results"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

type detailsResponse struct {
	Result struct {
		PlaceID              string  `json:"place_id"`
		Name                 string  `json:"name"`
		FormattedAddress     string  `json:"formatted_address"`
		Rating               float64 `json:"rating"`
		UserRatingsTotal     int     `json:"user_ratings_total"`
		FormattedPhoneNumber string  `json:"formatted_phone_number"`
		Website              string  `json:"website"`
	} `json:"result"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// FindPlace cherche un lieu par nom et ville. Retourne nil si aucun résultat.
func (c *Client) FindPlace(ctx context.Context, name, city string) (*Place, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("google Places API key is not configured")
	}

	params := url.Values{}
	params.Add("query", fmt.Sprintf("%s %s Québec", name, city))
	params.Add("key", c.apiKey)
	params.Add("language", "fr")
	requestURL := fmt.Sprintf("%s/textsearch/json?%s", c.baseURL, params.Encode())

	var parsed textSearchResponse
	if err := c.get(ctx, requestURL, &parsed); err != nil {
		return nil, err
	}

	if parsed.Status == "ZERO_RESULTS" || len(parsed.Results) == 0 {
		return nil, nil
	}
	if parsed.Status != "OK" {
		return nil, fmt.Errorf("places API error: %s (%s)", parsed.Status, parsed.ErrorMessage)
	}

	r := parsed.Results[0]
	return &Place{
		PlaceID:          r.PlaceID,
		Name:             r.Name,
		FormattedAddress: r.FormattedAddress,
		Rating:           r.Rating,
		UserRatingsTotal: r.UserRatingsTotal,
	}, nil
}

// GetDetails récupère les détails d'un lieu par son place_id.
func (c *Client) GetDetails(ctx context.Context, placeID string) (*Place, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("google Places API key is not configured")
	}

	params := url.Values{}
	params.Add("place_id", placeID)
	params.Add("fields", "place_id,name,formatted_address,rating,user_ratings_total,formatted_phone_number,website")
	params.Add("key", c.apiKey)
	params.Add("language", "fr")
	requestURL := fmt.Sprintf("%s/details/json?%s", c.baseURL, params.Encode())

	var parsed detailsResponse
	if err := c.get(ctx, requestURL, &parsed); err != nil {
		return nil, err
	}

	if parsed.Status != "OK" {
		return nil, fmt.Errorf("places API error: %s (%s)", parsed.Status, parsed.ErrorMessage)
	}

	r := parsed.Result
	return &Place{
		PlaceID:          r.PlaceID,
		Name:             r.Name,
		FormattedAddress: r.FormattedAddress,
		Rating:           r.Rating,
		UserRatingsTotal: r.UserRatingsTotal,
		Phone:            r.FormattedPhoneNumber,
		Website:          r.Website,
	}, nil
}

func (c *Client) get(ctx context.Context, requestURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("places API returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %v", err)
	}

	return nil
}
