package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Suggestion is one destination candidate returned by the suggestion
// service.
type Suggestion struct {
	Destination string `json:"destination"`
	Reasoning   string `json:"reasoning"`
	Iata        string `json:"iata"`
}

// SuggestionClient produces destination candidates from an aggregated
// preference summary. An empty list is a valid answer; output that cannot
// be parsed is reported as ErrMalformedSuggestions.
type SuggestionClient interface {
	Destinations(ctx context.Context, prompt string) ([]Suggestion, error)
}

// FlightClient prices a round trip. A nil price means no fare was found.
type FlightClient interface {
	PriceRoundTrip(ctx context.Context, originIata, destinationIata string, dates TripConstraints) (*float64, error)
}

// ImageClient resolves a representative image for a destination. It never
// fails; on any problem it returns a placeholder URL.
type ImageClient interface {
	ImageURL(ctx context.Context, query string) string
}

// OptionTally counts the players who picked one option.
type OptionTally struct {
	OptionText string `json:"optionText"`
	Count      int    `json:"count"`
}

type QuestionTally struct {
	QuestionText string              `json:"questionText"`
	Options      map[int]OptionTally `json:"options"`
}

// DestinationResult is a suggestion that survived the budget filter,
// decorated with an image and each player's cheapest round-trip fare.
// Fares are keyed by connection id, matching GameResults.Players, since
// display names are not unique.
type DestinationResult struct {
	Destination string             `json:"destination"`
	Reasoning   string             `json:"reasoning"`
	Iata        string             `json:"iata"`
	ImageURL    string             `json:"imageUrl"`
	Fares       map[string]float64 `json:"fares"`
}

// GameResults is the terminal payload broadcast as gameFinished.
type GameResults struct {
	Players           map[string]Player     `json:"players"`
	AggregatedResults map[int]QuestionTally `json:"aggregatedResults"`
	Suggestions       []DestinationResult   `json:"suggestions"`
	Message           string                `json:"message,omitempty"`
	ProcessingError   string                `json:"processingError,omitempty"`
}

const fareCacheTTL = 30 * time.Minute

// ResultsService aggregates a finished room's votes and turns them into
// destination suggestions via the external pipeline. It only reads room
// state through a snapshot, so it can fan out freely.
type ResultsService struct {
	suggestions SuggestionClient
	flights     FlightClient
	images      ImageClient
	cache       *redis.Client
	countryPool []string
}

func NewResultsService(suggestions SuggestionClient, flights FlightClient, images ImageClient, cache *redis.Client, countryPool []string) *ResultsService {
	return &ResultsService{
		suggestions: suggestions,
		flights:     flights,
		images:      images,
		cache:       cache,
		countryPool: countryPool,
	}
}

// Compute runs the full pipeline: tally, suggestion generation, per-player
// affordability filtering, image decoration. External failures degrade the
// payload instead of aborting it; only malformed suggestion output is
// surfaced as a processing error.
func (s *ResultsService) Compute(ctx context.Context, room RoomSnapshot) *GameResults {
	results := &GameResults{
		Players:           room.Players,
		AggregatedResults: Tally(room),
		Suggestions:       []DestinationResult{},
	}

	if len(room.Players) == 0 {
		results.Message = "Game finished, but no players participated."
		return results
	}

	prompt := buildPrompt(len(room.Players), room.Catalog, results.AggregatedResults, s.countryPool)

	suggestions, err := s.suggestions.Destinations(ctx, prompt)
	if err != nil {
		log.Printf("suggestion generation failed for room %s: %v", room.ID, err)
		if errors.Is(err, ErrMalformedSuggestions) {
			results.ProcessingError = "AI response format was invalid."
		}
		return results
	}
	if len(suggestions) == 0 {
		return results
	}

	fares := s.priceAll(ctx, room, suggestions)

	// A destination unaffordable for any single player is out for the
	// whole group. Missing fares count as unaffordable.
	affordable := lo.Filter(suggestions, func(sg Suggestion, _ int) bool {
		for _, player := range room.Players {
			fare, ok := fares[farePair{player.OriginIata, sg.Iata}]
			if !ok || fare == nil || *fare > player.MaxBudget {
				return false
			}
		}
		return true
	})

	results.Suggestions = s.decorate(ctx, room, affordable, fares)
	return results
}

// Tally counts, per question and option, how many players chose it.
// Every catalog entry appears in the result even with zero votes.
func Tally(room RoomSnapshot) map[int]QuestionTally {
	tally := make(map[int]QuestionTally, len(room.Catalog))
	for _, question := range room.Catalog {
		options := make(map[int]OptionTally, len(question.Options))
		for _, option := range question.Options {
			options[option.ID] = OptionTally{OptionText: option.Text}
		}
		tally[question.ID] = QuestionTally{QuestionText: question.Text, Options: options}
	}

	for _, player := range room.Players {
		for _, answer := range player.Answers {
			question, ok := tally[answer.QuestionID]
			if !ok {
				continue
			}
			for _, optionID := range answer.SelectedOptionIDs {
				if option, ok := question.Options[optionID]; ok {
					option.Count++
					question.Options[optionID] = option
				}
			}
		}
	}
	return tally
}

type farePair struct {
	origin      string
	destination string
}

// priceAll resolves the cheapest round trip for every distinct
// (origin, destination) pair with unbounded fan-out, joining all calls
// before returning. A failed call leaves its pair absent, which the
// budget filter treats as unaffordable.
func (s *ResultsService) priceAll(ctx context.Context, room RoomSnapshot, suggestions []Suggestion) map[farePair]*float64 {
	pairs := make(map[farePair]bool)
	for _, player := range room.Players {
		for _, sg := range suggestions {
			pairs[farePair{player.OriginIata, sg.Iata}] = true
		}
	}

	fares := make(map[farePair]*float64, len(pairs))
	var mu sync.Mutex
	var group errgroup.Group
	for pair := range pairs {
		pair := pair
		group.Go(func() error {
			fare, err := s.priceCached(ctx, pair, room.Constraints)
			if err != nil {
				log.Printf("flight pricing failed for %s -> %s: %v", pair.origin, pair.destination, err)
				return nil
			}
			mu.Lock()
			fares[pair] = fare
			mu.Unlock()
			return nil
		})
	}
	group.Wait()
	return fares
}

// priceCached consults the shared fare cache before calling the pricing
// service. Cache errors are treated as misses.
func (s *ResultsService) priceCached(ctx context.Context, pair farePair, dates TripConstraints) (*float64, error) {
	key := fmt.Sprintf("fare:%s:%s:%s:%s", pair.origin, pair.destination, dates.StartDate, dates.EndDate)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			if fare, err := strconv.ParseFloat(cached, 64); err == nil {
				return &fare, nil
			}
		} else if err != redis.Nil {
			log.Printf("fare cache read failed for %s: %v", key, err)
		}
	}

	fare, err := s.flights.PriceRoundTrip(ctx, pair.origin, pair.destination, dates)
	if err != nil {
		return nil, err
	}
	if fare != nil && s.cache != nil {
		if err := s.cache.Set(ctx, key, strconv.FormatFloat(*fare, 'f', 2, 64), fareCacheTTL).Err(); err != nil {
			log.Printf("fare cache write failed for %s: %v", key, err)
		}
	}
	return fare, nil
}

// decorate attaches images and per-player fares to the surviving
// destinations. Image lookups run concurrently and never fail.
func (s *ResultsService) decorate(ctx context.Context, room RoomSnapshot, suggestions []Suggestion, fares map[farePair]*float64) []DestinationResult {
	decorated := make([]DestinationResult, len(suggestions))
	var group errgroup.Group
	for i, sg := range suggestions {
		i, sg := i, sg
		group.Go(func() error {
			playerFares := make(map[string]float64, len(room.Players))
			for id, player := range room.Players {
				if fare := fares[farePair{player.OriginIata, sg.Iata}]; fare != nil {
					playerFares[id] = *fare
				}
			}
			decorated[i] = DestinationResult{
				Destination: sg.Destination,
				Reasoning:   sg.Reasoning,
				Iata:        sg.Iata,
				ImageURL:    s.images.ImageURL(ctx, sg.Destination),
				Fares:       playerFares,
			}
			return nil
		})
	}
	group.Wait()
	return decorated
}

// buildPrompt formats the vote tally into the natural-language preference
// summary handed to the suggestion service.
func buildPrompt(playerCount int, catalog []Question, tally map[int]QuestionTally, countryPool []string) string {
	var summary strings.Builder
	for _, question := range catalog {
		result := tally[question.ID]
		summary.WriteString(fmt.Sprintf("\nQuestion: %q\n", result.QuestionText))

		optionIDs := lo.Keys(result.Options)
		sort.Ints(optionIDs)

		hasVotes := false
		for _, optionID := range optionIDs {
			option := result.Options[optionID]
			if option.Count > 0 {
				summary.WriteString(fmt.Sprintf("  - %q: %d vote(s)\n", option.OptionText, option.Count))
				hasVotes = true
			}
		}
		if !hasVotes {
			summary.WriteString("  (No votes recorded for this question's options)\n")
		}
	}

	return fmt.Sprintf(`
We asked %d friends the following questions to choose a travel destination, and these were the aggregated results of their choices:
%s

You can only return destinations in countries within Europe and in the following list:
%s

Based *only* on these preferences, suggest a list of 5 specific travel destinations (city or specific region/park). For each destination, briefly explain why it matches the group's preferences according to the answers provided. Return the suggestions *only* as a valid JSON array, where each object has 'destination' (string), 'reasoning' (string) and 'iata' (the IATA code of the destination's main airport) properties. Do not include any other text, markdown formatting (like %s), or explanations outside the JSON structure. Example format: [{"destination": "City, Country", "reasoning": "Explanation...", "iata": "XXX"}, ...]
`, playerCount, summary.String(), strings.Join(countryPool, ", "), "```json")
}
