package db

import (
	"github.com/registreqc/registreqc-backend/internal/app/model"
	"github.com/registreqc/registreqc-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Category{},
		&model.SubCategory{},
		&model.CodeMapping{},
		&model.Business{},
		&model.Claim{},
		&model.Review{},
		&model.Notification{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedReferenceData(); err != nil {
		logger.Error("Failed to seed reference data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds reference data to the database (optional)
func Seed() error {
	return seedReferenceData()
}

func seedReferenceData() error {
	logger.Info("Seeding reference data...")

	if err := seedCategories(); err != nil {
		logger.Error("Failed to seed categories", err)
		return err
	}
	if err := seedCodeMappings(); err != nil {
		logger.Error("Failed to seed code mappings", err)
		return err
	}

	logger.Info("Reference data seeded successfully")
	return nil
}

// seedCategories populates the main categories when the table is empty.
func seedCategories() error {
	var count int64
	if err := DB.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Categories already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding category data...")

	categories := []model.Category{
		{Slug: "agriculture", LabelFR: "Agriculture et élevage", LabelEN: "Agriculture and Farming"},
		{Slug: "construction", LabelFR: "Construction", LabelEN: "Construction"},
		{Slug: "restauration", LabelFR: "Restauration", LabelEN: "Restaurants"},
		{Slug: "commerce-detail", LabelFR: "Commerce de détail", LabelEN: "Retail"},
		{Slug: "services-professionnels", LabelFR: "Services professionnels", LabelEN: "Professional Services"},
		{Slug: "sante", LabelFR: "Santé et bien-être", LabelEN: "Health and Wellness"},
		{Slug: "transport", LabelFR: "Transport et logistique", LabelEN: "Transportation and Logistics"},
		{Slug: "immobilier", LabelFR: "Immobilier", LabelEN: "Real Estate"},
		{Slug: "technologie", LabelFR: "Technologie", LabelEN: "Technology"},
		{Slug: "autres", LabelFR: "Autres", LabelEN: "Other", IsDefault: true},
	}

	for i := range categories {
		if err := DB.Create(&categories[i]).Error; err != nil {
			logger.Error("Failed to create category", err, map[string]interface{}{
				"slug": categories[i].Slug,
			})
			return err
		}
	}

	logger.Info("Categories seeded successfully", map[string]interface{}{
		"total_categories": len(categories),
	})
	return nil
}

// seedCodeMappings installs a starter ACT_ECON mapping table. The curated
// production table is loaded separately; these rows cover the major classes.
func seedCodeMappings() error {
	var count int64
	if err := DB.Model(&model.CodeMapping{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Code mappings already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	byCategorySlug := map[string][]string{
		"agriculture":             {"0100", "0110", "0130", "0171"},
		"construction":            {"4000", "4200", "4210", "4217"},
		"restauration":            {"5800", "5810", "5812"},
		"commerce-detail":         {"6000", "6200", "6500"},
		"services-professionnels": {"7700", "7710", "7720"},
		"sante":                   {"8600", "8610", "8650"},
		"transport":               {"4500", "4510", "4560"},
		"immobilier":              {"7500", "7510"},
		"technologie":             {"7770", "8500"},
	}

	total := 0
	for slug, codes := range byCategorySlug {
		var category model.Category
		if err := DB.Where("slug = ?", slug).First(&category).Error; err != nil {
			return err
		}
		for _, code := range codes {
			mapping := model.CodeMapping{
				Code:       code,
				CategoryID: category.ID,
				Confidence: 1,
			}
			if err := DB.Create(&mapping).Error; err != nil {
				logger.Error("Failed to create code mapping", err, map[string]interface{}{
					"code": code,
				})
				return err
			}
			total++
		}
	}

	logger.Info("Code mappings seeded successfully", map[string]interface{}{
		"total_mappings": total,
	})
	return nil
}
