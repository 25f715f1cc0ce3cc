package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	unsplashBaseURL = "https://api.unsplash.com"

	// Served when no image can be found, so callers always get a URL.
	placeholderImageURL = "https://http.cat/images/202.jpg"

	imageCacheTTL = 24 * time.Hour
)

// UnsplashClient looks up a landscape photo for a destination. Lookups
// are cached by query; failures fall back to the placeholder.
type UnsplashClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	cache   *redis.Client
}

func NewUnsplashClient(apiKey string, cache *redis.Client) *UnsplashClient {
	return &UnsplashClient{
		apiKey:  apiKey,
		baseURL: unsplashBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		cache:   cache,
	}
}

func (u *UnsplashClient) ImageURL(ctx context.Context, query string) string {
	key := "image:" + query
	if u.cache != nil {
		if cached, err := u.cache.Get(ctx, key).Result(); err == nil {
			return cached
		}
	}

	imageURL := u.search(ctx, query)

	if u.cache != nil {
		if err := u.cache.Set(ctx, key, imageURL, imageCacheTTL).Err(); err != nil {
			log.Printf("image cache write failed for %q: %v", query, err)
		}
	}
	return imageURL
}

func (u *UnsplashClient) search(ctx context.Context, query string) string {
	endpoint := fmt.Sprintf("%s/search/photos?query=%s&page=1&per_page=1&orientation=landscape",
		u.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return placeholderImageURL
	}
	req.Header.Set("Authorization", "Client-ID "+u.apiKey)

	resp, err := u.client.Do(req)
	if err != nil {
		log.Printf("unsplash lookup failed for %q: %v", query, err)
		return placeholderImageURL
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("unsplash lookup for %q returned %d", query, resp.StatusCode)
		return placeholderImageURL
	}

	var decoded struct {
		Results []struct {
			Urls struct {
				Regular string `json:"regular"`
			} `json:"urls"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return placeholderImageURL
	}
	if len(decoded.Results) == 0 || decoded.Results[0].Urls.Regular == "" {
		return placeholderImageURL
	}
	return decoded.Results[0].Urls.Regular
}
