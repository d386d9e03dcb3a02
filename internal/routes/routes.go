package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lingora/lingora-backend/internal/handler"
	"github.com/lingora/lingora-backend/internal/middleware"
	"github.com/lingora/lingora-backend/pkg/jwt"
)

// Handlers bundles every handler wired by Register
type Handlers struct {
	Auth        *handler.AuthHandler
	Content     *handler.ContentHandler
	Translation *handler.TranslationHandler
	Tag         *handler.TagHandler
	Media       *handler.MediaHandler
	Search      *handler.SearchHandler
	Webhook     *handler.WebhookHandler
	Upload      *handler.UploadHandler
}

// Register mounts the /api/v1 surface. Reads accept an optional token so
// attribution works when present; writes require one. Webhook management is
// admin-only.
func Register(r *gin.Engine, h *Handlers, jwtManager *jwt.Manager, readOnly bool) {
	v1 := r.Group("/api/v1")
	v1.Use(middleware.ReadOnly(readOnly))

	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.GET("/me", middleware.JWTAuth(jwtManager), h.Auth.Me)
	}

	read := v1.Group("")
	read.Use(middleware.OptionalJWTAuth(jwtManager))
	{
		read.GET("/contents", h.Content.List)
		read.GET("/contents/:id", h.Content.Get)
		read.GET("/contents/:id/translations/:lang", h.Translation.Get)
		read.GET("/contents/:id/translations/:lang/versions", h.Translation.ListVersions)
		read.GET("/contents/:id/translations/:lang/versions/:versionId", h.Translation.GetVersion)
		read.GET("/contents/:id/media", h.Media.Get)
		read.GET("/contents/:id/media/download", h.Media.GetDownloadURL)
		read.GET("/tags", h.Tag.List)
		read.GET("/tags/:id", h.Tag.Get)
		read.GET("/search", h.Search.Search)
	}

	write := v1.Group("")
	write.Use(middleware.JWTAuth(jwtManager))
	{
		write.POST("/contents", h.Content.Create)
		write.POST("/contents/render", h.Content.Render)
		write.PUT("/contents/:id", h.Content.Update)
		write.DELETE("/contents/:id", h.Content.Delete)
		write.POST("/contents/:id/tags", h.Content.ManageTags)

		write.POST("/contents/:id/translations", h.Translation.Create)
		write.PUT("/contents/:id/translations/:lang", h.Translation.Update)
		write.DELETE("/contents/:id/translations/:lang", h.Translation.Delete)
		write.POST("/contents/:id/translations/:lang/versions/:versionId/revert", h.Translation.Revert)

		write.POST("/contents/:id/media", h.Media.Upload)
		write.DELETE("/contents/:id/media", h.Media.Delete)
		write.PUT("/contents/:id/media/transcripts", h.Media.UpsertTranscript)
		write.DELETE("/contents/:id/media/transcripts/:lang", h.Media.DeleteTranscript)

		write.POST("/tags", h.Tag.Create)
		write.PUT("/tags/:id", h.Tag.Update)
		write.DELETE("/tags/:id", h.Tag.Delete)
		write.PUT("/tags/:id/labels", h.Tag.UpsertLabel)

		write.POST("/uploads/image", h.Upload.UploadImage)
		write.POST("/uploads/file", h.Upload.UploadFile)
	}

	admin := v1.Group("/webhooks")
	admin.Use(middleware.JWTAuth(jwtManager), middleware.RequireAdmin())
	{
		admin.POST("", h.Webhook.Create)
		admin.GET("", h.Webhook.List)
		admin.GET("/:id", h.Webhook.Get)
		admin.PUT("/:id", h.Webhook.Update)
		admin.DELETE("/:id", h.Webhook.Delete)
		admin.GET("/:id/deliveries", h.Webhook.ListDeliveries)
	}
}
