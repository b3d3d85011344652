package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/registreqc/registreqc-backend/internal/app/model"
	"github.com/registreqc/registreqc-backend/internal/app/repository"
	"github.com/registreqc/registreqc-backend/internal/db"
)

func setupBusinessTest(t *testing.T) (BusinessService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	businessRepo := repository.NewBusinessRepository(testDB)
	return NewBusinessService(businessRepo, nil), testDB
}

func TestBusinessService_Submit(t *testing.T) {
	svc, _ := setupBusinessTest(t)

	business, err := svc.Submit(7, BusinessSubmission{
		Name:   "Café Déjà Vu",
		Street: "12 rue Principale",
		City:   "Montréal",
		Region: "Montréal",
	})
	require.NoError(t, err)

	assert.NotZero(t, business.ID)
	assert.Equal(t, model.BusinessStatusPending, business.Status)
	assert.Equal(t, model.SourceManual, business.Source)
	require.NotNil(t, business.Slug)
	assert.Equal(t, "cafe-deja-vu", *business.Slug)
}

func TestBusinessService_Submit_SlugConflict(t *testing.T) {
	svc, _ := setupBusinessTest(t)

	first, err := svc.Submit(7, BusinessSubmission{Name: "Café Déjà Vu", City: "Montréal"})
	require.NoError(t, err)

	second, err := svc.Submit(8, BusinessSubmission{Name: "Café Déjà Vu", City: "Québec"})
	require.NoError(t, err)

	require.NotNil(t, second.Slug)
	assert.NotEqual(t, *first.Slug, *second.Slug)
	assert.Contains(t, *second.Slug, "cafe-deja-vu-")
}

func TestBusinessService_GetBySlug(t *testing.T) {
	svc, _ := setupBusinessTest(t)

	created, err := svc.Submit(7, BusinessSubmission{Name: "Boulangerie St-Jean", City: "Lévis"})
	require.NoError(t, err)

	found, err := svc.GetBySlug(*created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetBySlug("n-existe-pas")
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestBusinessService_ListApproved(t *testing.T) {
	svc, testDB := setupBusinessTest(t)

	businesses := []model.Business{
		{Name: "Approuvée", Slug: strPtr("approuvee"), City: "Montréal", Status: model.BusinessStatusApproved},
		{Name: "En attente", Slug: strPtr("en-attente"), City: "Montréal", Status: model.BusinessStatusPending},
		{Name: "Ailleurs", Slug: strPtr("ailleurs"), City: "Gatineau", Status: model.BusinessStatusApproved},
	}
	require.NoError(t, testDB.Create(&businesses).Error)

	result, err := svc.ListApproved(BusinessListOptions{City: "Montréal"})
	require.NoError(t, err)
	require.Len(t, result.Businesses, 1)
	assert.Equal(t, "Approuvée", result.Businesses[0].Name)
	assert.EqualValues(t, 1, result.Total)
}

func TestBusinessService_ListApproved_Search(t *testing.T) {
	svc, testDB := setupBusinessTest(t)

	businesses := []model.Business{
		{Name: "Garage Bélanger", Slug: strPtr("garage-belanger"), Status: model.BusinessStatusApproved},
		{Name: "Café du Coin", Slug: strPtr("cafe-du-coin"), Status: model.BusinessStatusApproved},
	}
	require.NoError(t, testDB.Create(&businesses).Error)

	result, err := svc.ListApproved(BusinessListOptions{Search: "garage"})
	require.NoError(t, err)
	require.Len(t, result.Businesses, 1)
	assert.Equal(t, "Garage Bélanger", result.Businesses[0].Name)
}

func TestBusinessService_UpdateOwned(t *testing.T) {
	svc, testDB := setupBusinessTest(t)

	ownerID := uint(7)
	business := model.Business{
		Name:      "Garage Bélanger",
		Slug:      strPtr("garage-belanger"),
		Status:    model.BusinessStatusApproved,
		IsClaimed: true,
		OwnerID:   &ownerID,
	}
	require.NoError(t, testDB.Create(&business).Error)

	updated, err := svc.UpdateOwned(ownerID, business.ID, BusinessMutation{
		Phone:   strPtr("514-555-0199"),
		Website: strPtr("https://garagebelanger.ca"),
	})
	require.NoError(t, err)
	assert.Equal(t, "514-555-0199", updated.Phone)
	assert.Equal(t, "https://garagebelanger.ca", updated.Website)
	assert.Equal(t, "Garage Bélanger", updated.Name)
}

func TestBusinessService_UpdateOwned_NotOwner(t *testing.T) {
	svc, testDB := setupBusinessTest(t)

	ownerID := uint(7)
	business := model.Business{Name: "Garage", Slug: strPtr("garage"), OwnerID: &ownerID, IsClaimed: true}
	require.NoError(t, testDB.Create(&business).Error)

	_, err := svc.UpdateOwned(99, business.ID, BusinessMutation{Phone: strPtr("x")})
	assert.ErrorIs(t, err, ErrBusinessNotOwned)

	unclaimed := model.Business{Name: "Libre", Slug: strPtr("libre")}
	require.NoError(t, testDB.Create(&unclaimed).Error)

	_, err = svc.UpdateOwned(7, unclaimed.ID, BusinessMutation{Phone: strPtr("x")})
	assert.ErrorIs(t, err, ErrBusinessNotOwned)
}

func TestBusinessService_Moderation(t *testing.T) {
	svc, testDB := setupBusinessTest(t)

	pending := model.Business{Name: "En attente", Slug: strPtr("en-attente"), Status: model.BusinessStatusPending}
	require.NoError(t, testDB.Create(&pending).Error)

	listed, err := svc.ListPending()
	require.NoError(t, err)
	require.Len(t, listed, 1)

	approved, err := svc.Approve(1, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BusinessStatusApproved, approved.Status)

	// Already moderated; a second decision is refused.
	_, err = svc.Reject(1, pending.ID, "doublon")
	assert.ErrorIs(t, err, ErrBusinessNotPending)
}

func TestBusinessService_Reject(t *testing.T) {
	svc, testDB := setupBusinessTest(t)

	pending := model.Business{Name: "Suspecte", Slug: strPtr("suspecte"), Status: model.BusinessStatusPending}
	require.NoError(t, testDB.Create(&pending).Error)

	rejected, err := svc.Reject(1, pending.ID, "informations invérifiables")
	require.NoError(t, err)
	assert.Equal(t, model.BusinessStatusRejected, rejected.Status)
}

func TestBusinessService_Stats(t *testing.T) {
	svc, testDB := setupBusinessTest(t)

	businesses := []model.Business{
		{Name: "A", Slug: strPtr("a"), Status: model.BusinessStatusApproved},
		{Name: "B", Slug: strPtr("b"), Status: model.BusinessStatusApproved},
		{Name: "C", Slug: strPtr("c"), Status: model.BusinessStatusPending},
	}
	require.NoError(t, testDB.Create(&businesses).Error)

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats["approved"])
	assert.EqualValues(t, 1, stats["pending"])
	assert.EqualValues(t, 0, stats["rejected"])
}
