package migration

import (
	"github.com/lingora/lingora-backend/internal/domain"
	"github.com/lingora/lingora-backend/pkg/logger"
	"gorm.io/gorm"
)

// Run applies the schema. Order matters: parents before children so foreign
// keys resolve.
func Run(db *gorm.DB) error {
	models := []interface{}{
		&domain.User{},
		&domain.Content{},
		&domain.ArticleTranslation{},
		&domain.ArticleTranslationVersion{},
		&domain.Tag{},
		&domain.TagLabel{},
		&domain.ContentTag{},
		&domain.MediaContent{},
		&domain.Transcript{},
		&domain.Webhook{},
		&domain.WebhookDelivery{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return err
	}

	logger.GetLogger().Info().Int("models", len(models)).Msg("schema migrated")
	return nil
}
