package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/registreqc/registreqc-backend/internal/app/model"
	"github.com/registreqc/registreqc-backend/internal/db"
)

func setupBusinessRepoTest(t *testing.T) (BusinessRepository, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return NewBusinessRepository(testDB), testDB
}

func sPtr(s string) *string { return &s }

func TestBusinessRepository_CreateAndFind(t *testing.T) {
	repo, _ := setupBusinessRepoTest(t)

	business := &model.Business{
		Name:   "Café du Coin",
		NEQ:    sPtr("1140000001"),
		Slug:   sPtr("cafe-du-coin"),
		City:   "Montréal",
		Status: model.BusinessStatusApproved,
	}
	require.NoError(t, repo.Create(business))
	require.NotZero(t, business.ID)

	found, err := repo.FindBySlug("cafe-du-coin")
	require.NoError(t, err)
	assert.Equal(t, business.ID, found.ID)

	_, err = repo.FindBySlug("absent")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBusinessRepository_Create_DuplicateSlug(t *testing.T) {
	repo, _ := setupBusinessRepoTest(t)

	require.NoError(t, repo.Create(&model.Business{Name: "A", Slug: sPtr("meme-slug")}))

	err := repo.Create(&model.Business{Name: "B", Slug: sPtr("meme-slug")})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestBusinessRepository_Create_NullSlugsDoNotCollide(t *testing.T) {
	repo, _ := setupBusinessRepoTest(t)

	// Imported rows await slug generation; several NULL slugs must coexist.
	require.NoError(t, repo.Create(&model.Business{Name: "A", NEQ: sPtr("1140000001")}))
	require.NoError(t, repo.Create(&model.Business{Name: "B", NEQ: sPtr("1140000002")}))
}

func TestBusinessRepository_PageRows(t *testing.T) {
	repo, testDB := setupBusinessRepoTest(t)

	var created []model.Business
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		created = append(created, model.Business{Name: name})
	}
	require.NoError(t, testDB.Create(&created).Error)

	rows, err := repo.PageRows(0, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].Name)

	rows, err = repo.PageRows(4, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 1) // short page signals the end

	rows, err = repo.PageRows(10, 2)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestBusinessRepository_PageRowsMissingSlug(t *testing.T) {
	repo, testDB := setupBusinessRepoTest(t)

	businesses := []model.Business{
		{Name: "Avec slug", Slug: sPtr("avec-slug")},
		{Name: "Sans slug"},
		{Name: "Sans slug non plus"},
	}
	require.NoError(t, testDB.Create(&businesses).Error)

	rows, err := repo.PageRowsMissingSlug(0, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestBusinessRepository_BulkSetCategory(t *testing.T) {
	repo, testDB := setupBusinessRepoTest(t)

	category := model.Category{Slug: "restauration", LabelFR: "Restauration", LabelEN: "Restaurants"}
	require.NoError(t, testDB.Create(&category).Error)

	businesses := []model.Business{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	require.NoError(t, testDB.Create(&businesses).Error)

	require.NoError(t, repo.BulkSetCategory([]uint{businesses[0].ID, businesses[1].ID}, &category.ID))

	var count int64
	require.NoError(t, testDB.Model(&model.Business{}).Where("category_id = ?", category.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	// Clearing sets the column back to NULL.
	require.NoError(t, repo.BulkSetCategory([]uint{businesses[0].ID}, nil))
	require.NoError(t, testDB.Model(&model.Business{}).Where("category_id IS NULL").Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestBusinessRepository_BulkHardDelete(t *testing.T) {
	repo, testDB := setupBusinessRepoTest(t)

	businesses := []model.Business{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	require.NoError(t, testDB.Create(&businesses).Error)

	require.NoError(t, repo.BulkHardDelete([]uint{businesses[0].ID, businesses[2].ID}))

	// Hard delete: the rows are gone even for unscoped queries.
	var count int64
	require.NoError(t, testDB.Unscoped().Model(&model.Business{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestBusinessRepository_UpdateSlug(t *testing.T) {
	repo, testDB := setupBusinessRepoTest(t)

	businesses := []model.Business{
		{Name: "Propriétaire", Slug: sPtr("pris")},
		{Name: "Sans slug"},
	}
	require.NoError(t, testDB.Create(&businesses).Error)

	err := repo.UpdateSlug(businesses[1].ID, "pris")
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	require.NoError(t, repo.UpdateSlug(businesses[1].ID, "libre"))

	var got model.Business
	require.NoError(t, testDB.First(&got, businesses[1].ID).Error)
	require.NotNil(t, got.Slug)
	assert.Equal(t, "libre", *got.Slug)
}

func TestBusinessRepository_AllRowsWithNEQ(t *testing.T) {
	repo, testDB := setupBusinessRepoTest(t)

	businesses := []model.Business{
		{Name: "Avec NEQ", NEQ: sPtr("1140000001")},
		{Name: "Soumise à la main"}, // manual submissions have no NEQ
	}
	require.NoError(t, testDB.Create(&businesses).Error)

	rows, err := repo.AllRowsWithNEQ()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Avec NEQ", rows[0].Name)
}

func TestBusinessRepository_BulkCreate(t *testing.T) {
	repo, testDB := setupBusinessRepoTest(t)

	var businesses []model.Business
	for i := 0; i < 7; i++ {
		businesses = append(businesses, model.Business{Name: "E" + string(rune('A'+i))})
	}
	require.NoError(t, repo.BulkCreate(businesses, 3))

	var count int64
	require.NoError(t, testDB.Model(&model.Business{}).Count(&count).Error)
	assert.EqualValues(t, 7, count)
}

func TestBusinessRepository_CountByStatus(t *testing.T) {
	repo, testDB := setupBusinessRepoTest(t)

	businesses := []model.Business{
		{Name: "A", Status: model.BusinessStatusApproved},
		{Name: "B", Status: model.BusinessStatusApproved},
		{Name: "C", Status: model.BusinessStatusPending},
	}
	require.NoError(t, testDB.Create(&businesses).Error)

	count, err := repo.CountByStatus(model.BusinessStatusApproved)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
