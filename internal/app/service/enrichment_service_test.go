package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/registreqc/registreqc-backend/config"
	"github.com/registreqc/registreqc-backend/internal/app/model"
	"github.com/registreqc/registreqc-backend/internal/app/repository"
	"github.com/registreqc/registreqc-backend/internal/db"
	"github.com/registreqc/registreqc-backend/pkg/places"
)

// fakePlacesClient returns canned results keyed by business name.
type fakePlacesClient struct {
	results map[string]*places.Place
	err     error
}

func (f *fakePlacesClient) FindPlace(_ context.Context, name, _ string) (*places.Place, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results[name], nil
}

func (f *fakePlacesClient) GetDetails(_ context.Context, placeID string) (*places.Place, error) {
	for _, p := range f.results {
		if p != nil && p.PlaceID == placeID {
			return p, nil
		}
	}
	return nil, nil
}

func fakeOpenAIServer(t *testing.T, reply string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-openai-key", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req openAIRequest
		require.NoError(t, json.Unmarshal(body, &req))
		require.NotEmpty(t, req.Messages)

		resp := openAIResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message openAIMessage `json:"message"`
		}{Message: openAIMessage{Role: "assistant", Content: reply}})
		json.NewEncoder(w).Encode(resp)
	}))
}

func setupEnrichmentTest(t *testing.T, placesClient PlacesClient, openAIBaseURL string) (EnrichmentService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	cfg := &config.Config{}
	cfg.OpenAI.APIKey = "test-openai-key"
	cfg.OpenAI.Model = "gpt-4o-mini"
	cfg.OpenAI.BaseURL = openAIBaseURL

	businessRepo := repository.NewBusinessRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)

	return NewEnrichmentService(cfg, businessRepo, categoryRepo, placesClient), testDB
}

func TestEnrichmentService_EnrichDescriptions(t *testing.T) {
	server := fakeOpenAIServer(t, "Entreprise familiale établie à Montréal depuis 1987.")
	defer server.Close()

	svc, testDB := setupEnrichmentTest(t, nil, server.URL)

	businesses := []model.Business{
		{Name: "Garage Bélanger", Slug: strPtr("garage-belanger"), Status: model.BusinessStatusApproved},
		{Name: "Déjà décrite", Slug: strPtr("deja-decrite"), Status: model.BusinessStatusApproved, Description: "Une description."},
		{Name: "Pas approuvée", Slug: strPtr("pas-approuvee"), Status: model.BusinessStatusPending},
	}
	require.NoError(t, testDB.Create(&businesses).Error)

	summary, err := svc.EnrichDescriptions(context.Background(), testOpts())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Updated)

	var got model.Business
	require.NoError(t, testDB.First(&got, businesses[0].ID).Error)
	assert.Equal(t, "Entreprise familiale établie à Montréal depuis 1987.", got.Description)

	// Nothing left to describe.
	summary, err = svc.EnrichDescriptions(context.Background(), testOpts())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Processed)
}

func TestEnrichmentService_EnrichDescriptions_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"error": {"message": "rate limit exceeded", "type": "rate_limit"}}`)
	}))
	defer server.Close()

	svc, testDB := setupEnrichmentTest(t, nil, server.URL)

	business := model.Business{Name: "Garage", Slug: strPtr("garage"), Status: model.BusinessStatusApproved}
	require.NoError(t, testDB.Create(&business).Error)

	summary, err := svc.EnrichDescriptions(context.Background(), testOpts())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 0, summary.Updated)

	var got model.Business
	require.NoError(t, testDB.First(&got, business.ID).Error)
	assert.Empty(t, got.Description)
}

func TestEnrichmentService_EnrichDescriptions_MissingKey(t *testing.T) {
	svc, _ := setupEnrichmentTest(t, nil, "http://localhost:0")

	noKey := svc.(*enrichmentService)
	noKey.config.OpenAI.APIKey = ""

	_, err := svc.EnrichDescriptions(context.Background(), testOpts())
	assert.Error(t, err)
}

func TestEnrichmentService_EnrichPlaces(t *testing.T) {
	placesClient := &fakePlacesClient{results: map[string]*places.Place{
		"Garage Bélanger": {
			PlaceID: "ChIJgarage",
			Rating:  4.4,
			Phone:   "514-555-0100",
			Website: "https://garagebelanger.ca",
		},
	}}

	svc, testDB := setupEnrichmentTest(t, placesClient, "")

	businesses := []model.Business{
		{Name: "Garage Bélanger", Slug: strPtr("garage-belanger"), Status: model.BusinessStatusApproved, Phone: "450-555-0000"},
		{Name: "Introuvable", Slug: strPtr("introuvable"), Status: model.BusinessStatusApproved},
	}
	require.NoError(t, testDB.Create(&businesses).Error)

	summary, err := svc.EnrichPlaces(context.Background(), testOpts())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 1, summary.Skipped)

	var got model.Business
	require.NoError(t, testDB.First(&got, businesses[0].ID).Error)
	require.NotNil(t, got.GooglePlaceID)
	assert.Equal(t, "ChIJgarage", *got.GooglePlaceID)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 4.4, *got.Rating, 0.001)
	assert.Equal(t, "https://garagebelanger.ca", got.Website)
	// Registry phone wins over the Places phone.
	assert.Equal(t, "450-555-0000", got.Phone)

	var unmatched model.Business
	require.NoError(t, testDB.First(&unmatched, businesses[1].ID).Error)
	assert.Nil(t, unmatched.GooglePlaceID)
}

func TestEnrichmentService_EnrichPlaces_NoClient(t *testing.T) {
	svc, _ := setupEnrichmentTest(t, nil, "")

	_, err := svc.EnrichPlaces(context.Background(), testOpts())
	assert.Error(t, err)
}

func TestEnrichmentService_GenerateDescription_Prompt(t *testing.T) {
	var prompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req openAIRequest
		require.NoError(t, json.Unmarshal(body, &req))
		prompt = req.Messages[0].Content

		resp := openAIResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message openAIMessage `json:"message"`
		}{Message: openAIMessage{Role: "assistant", Content: "ok"}})
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc, testDB := setupEnrichmentTest(t, nil, server.URL)

	category := model.Category{Slug: "restauration", LabelFR: "Restauration", LabelEN: "Restaurants"}
	require.NoError(t, testDB.Create(&category).Error)

	business := &model.Business{
		Name:       "Café du Coin",
		City:       "Montréal",
		Region:     "Montréal",
		CategoryID: &category.ID,
	}

	_, err := svc.GenerateDescription(business)
	require.NoError(t, err)

	assert.Contains(t, prompt, "Nom: Café du Coin")
	assert.Contains(t, prompt, "Ville: Montréal")
	assert.Contains(t, prompt, "Secteur: Restauration")
	assert.NotContains(t, prompt, "Site web")
}
