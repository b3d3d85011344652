package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/registreqc/registreqc-backend/config"
	"github.com/registreqc/registreqc-backend/internal/app/model"
	"github.com/registreqc/registreqc-backend/internal/app/repository"
	"github.com/registreqc/registreqc-backend/internal/pipeline"
	"github.com/registreqc/registreqc-backend/pkg/logger"
	"github.com/registreqc/registreqc-backend/pkg/places"
)

// PlacesClient is the subset of the Google Places client the enrichment
// pass needs. Satisfied by *places.Client.
type PlacesClient interface {
	FindPlace(ctx context.Context, name, city string) (*places.Place, error)
	GetDetails(ctx context.Context, placeID string) (*places.Place, error)
}

// EnrichmentService fills in listing data the registry file does not carry:
// a short French description (OpenAI) and Google Places identifiers/ratings.
type EnrichmentService interface {
	GenerateDescription(business *model.Business) (string, error)
	EnrichDescriptions(ctx context.Context, opts CleanupOptions) (*pipeline.Summary, error)
	EnrichPlaces(ctx context.Context, opts CleanupOptions) (*pipeline.Summary, error)
}

type enrichmentService struct {
	config       *config.Config
	businessRepo repository.BusinessRepository
	categoryRepo repository.CategoryRepository
	placesClient PlacesClient
	httpClient   *http.Client
	requestDelay time.Duration
}

// NewEnrichmentService creates the enrichment service. placesClient may be
// nil when the Places key is not configured; EnrichPlaces then returns an
// error instead of paging.
func NewEnrichmentService(
	cfg *config.Config,
	businessRepo repository.BusinessRepository,
	categoryRepo repository.CategoryRepository,
	placesClient PlacesClient,
) EnrichmentService {
	return &enrichmentService{
		config:       cfg,
		businessRepo: businessRepo,
		categoryRepo: categoryRepo,
		placesClient: placesClient,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		requestDelay: cfg.Batch.RequestDelay,
	}
}

// OpenAI API request/response structures.
type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// GenerateDescription produces a short French description for a listing.
func (s *enrichmentService) GenerateDescription(business *model.Business) (string, error) {
	if s.config.OpenAI.APIKey == "" {
		return "", fmt.Errorf("OpenAI API key is not configured")
	}

	prompt := s.buildPrompt(business)

	content, err := s.callOpenAI(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to call OpenAI API: %v", err)
	}

	return content, nil
}

func (s *enrichmentService) buildPrompt(business *model.Business) string {
	var prompt strings.Builder

	prompt.WriteString(
		"Tu rédiges la fiche d'un annuaire d'entreprises québécoises.\n" +
			"Écris une courte description en français (2 à 3 phrases) de l'entreprise ci-dessous.\n\n" +
			"- Ton: factuel et neutre, sans superlatifs publicitaires.\n" +
			"- N'invente aucune information qui ne figure pas dans les données fournies.\n" +
			"- Ne mentionne pas les champs absents.\n" +
			"- N'utilise pas de formules méta comme «voici» ou «ci-dessous».\n\n",
	)

	prompt.WriteString(fmt.Sprintf("Nom: %s\n", business.Name))

	if business.City != "" {
		prompt.WriteString(fmt.Sprintf("Ville: %s\n", business.City))
	}
	if business.Region != "" {
		prompt.WriteString(fmt.Sprintf("Région: %s\n", business.Region))
	}
	if business.Category != nil {
		prompt.WriteString(fmt.Sprintf("Secteur: %s\n", business.Category.LabelFR))
	} else if business.CategoryID != nil {
		if cat, err := s.categoryRepo.FindByID(*business.CategoryID); err == nil {
			prompt.WriteString(fmt.Sprintf("Secteur: %s\n", cat.LabelFR))
		}
	}
	if business.Website != "" {
		prompt.WriteString(fmt.Sprintf("Site web: %s\n", business.Website))
	}

	prompt.WriteString("\nRéponds uniquement avec le texte de la description, sans titre ni commentaire.")

	return prompt.String()
}

func (s *enrichmentService) callOpenAI(prompt string) (string, error) {
	reqData := openAIRequest{
		Model: s.config.OpenAI.Model,
		Messages: []openAIMessage{
			{
				Role:    "user",
				Content: prompt,
			},
		},
	}

	jsonData, err := json.Marshal(reqData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	url := fmt.Sprintf("%s/chat/completions", s.config.OpenAI.BaseURL)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.config.OpenAI.APIKey))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %v", err)
	}

	var openAIResp openAIResponse
	if err := json.Unmarshal(body, &openAIResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %v", err)
	}

	if openAIResp.Error != nil {
		return "", fmt.Errorf("OpenAI API error: %s", openAIResp.Error.Message)
	}

	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return strings.TrimSpace(openAIResp.Choices[0].Message.Content), nil
}

// EnrichDescriptions pages over approved listings without a description and
// fills them in one by one. Each record is an independent API call; failures
// are counted and never abort the pass.
func (s *enrichmentService) EnrichDescriptions(ctx context.Context, opts CleanupOptions) (*pipeline.Summary, error) {
	if s.config.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is not configured")
	}

	runner := &pipeline.Runner{
		PageSize: opts.PageSize,
		Limit:    opts.Limit,
		Progress: opts.progress(),
	}

	// Updated rows leave the missing-description predicate; the cursor only
	// advances past rows that stay in it.
	scanOffset := 0
	summary := runner.Run("enrich-descriptions", func(_, limit int) (int, []pipeline.Result, error) {
		rows, err := s.businessRepo.PageRowsMissingDescription(scanOffset, limit)
		if err != nil {
			return 0, nil, err
		}

		results := make([]pipeline.Result, 0, len(rows))
		for i := range rows {
			if opts.DryRun {
				scanOffset++
				results = append(results, pipeline.Result{ID: rows[i].ID, Status: pipeline.StatusUpdated})
				continue
			}
			res := s.writeDescription(&rows[i])
			if res.Status == pipeline.StatusFailed {
				scanOffset++
			}
			results = append(results, res)
			s.throttle(ctx)
		}
		return len(rows), results, nil
	})

	return summary, nil
}

func (s *enrichmentService) writeDescription(business *model.Business) pipeline.Result {
	description, err := s.GenerateDescription(business)
	if err != nil {
		return pipeline.Result{ID: business.ID, Status: pipeline.StatusFailed, Reason: err.Error()}
	}

	if err := s.businessRepo.UpdateFields(business.ID, map[string]interface{}{
		"description": description,
	}); err != nil {
		return pipeline.Result{ID: business.ID, Status: pipeline.StatusFailed, Reason: err.Error()}
	}

	return pipeline.Result{ID: business.ID, Status: pipeline.StatusUpdated}
}

// EnrichPlaces matches approved listings to Google Places and stores the
// place id, rating and missing contact fields. A listing with no match is
// skipped, not failed.
func (s *enrichmentService) EnrichPlaces(ctx context.Context, opts CleanupOptions) (*pipeline.Summary, error) {
	if s.placesClient == nil {
		return nil, fmt.Errorf("google Places client is not configured")
	}

	runner := &pipeline.Runner{
		PageSize: opts.PageSize,
		Limit:    opts.Limit,
		Progress: opts.progress(),
	}

	scanOffset := 0
	summary := runner.Run("enrich-places", func(_, limit int) (int, []pipeline.Result, error) {
		rows, err := s.businessRepo.PageRowsMissingPlace(scanOffset, limit)
		if err != nil {
			return 0, nil, err
		}

		results := make([]pipeline.Result, 0, len(rows))
		for i := range rows {
			if opts.DryRun {
				scanOffset++
				results = append(results, pipeline.Result{ID: rows[i].ID, Status: pipeline.StatusUpdated})
				continue
			}
			res := s.writePlace(ctx, &rows[i])
			if res.Status != pipeline.StatusUpdated {
				scanOffset++
			}
			results = append(results, res)
			s.throttle(ctx)
		}
		return len(rows), results, nil
	})

	return summary, nil
}

func (s *enrichmentService) writePlace(ctx context.Context, business *model.Business) pipeline.Result {
	place, err := s.placesClient.FindPlace(ctx, business.Name, business.City)
	if err != nil {
		return pipeline.Result{ID: business.ID, Status: pipeline.StatusFailed, Reason: err.Error()}
	}
	if place == nil {
		return pipeline.Result{ID: business.ID, Status: pipeline.StatusSkipped, Reason: "aucun résultat Places"}
	}

	// Text search does not return contact fields; a second call does.
	if details, err := s.placesClient.GetDetails(ctx, place.PlaceID); err == nil && details != nil {
		place = details
	}

	fields := map[string]interface{}{
		"google_place_id": place.PlaceID,
	}
	if place.Rating > 0 {
		fields["rating"] = place.Rating
	}
	// Contact fields from Places never overwrite registry data.
	if business.Phone == "" && place.Phone != "" {
		fields["phone"] = place.Phone
	}
	if business.Website == "" && place.Website != "" {
		fields["website"] = place.Website
	}

	if err := s.businessRepo.UpdateFields(business.ID, fields); err != nil {
		return pipeline.Result{ID: business.ID, Status: pipeline.StatusFailed, Reason: err.Error()}
	}

	logger.Debug("Listing matched to Google Places", map[string]interface{}{
		"business_id": business.ID,
		"place_id":    place.PlaceID,
	})

	return pipeline.Result{ID: business.ID, Status: pipeline.StatusUpdated}
}

func (s *enrichmentService) throttle(ctx context.Context) {
	if s.requestDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(s.requestDelay):
	}
}
