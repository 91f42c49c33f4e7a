// Package router provides user module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/useradmin/internal/user/handler"
	"github.com/festy23/useradmin/internal/user/repository"
	"github.com/festy23/useradmin/internal/user/service"
)

// RegisterRoutes registers user module routes.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, logger *zap.SugaredLogger) {
	repo := repository.New(db, logger)
	svc := service.New(repo, logger)
	h := handler.New(svc)

	r.GET("/users", h.List)
	r.GET("/users/:id", h.Get)
	r.PATCH("/users/:id", h.Patch)
	r.DELETE("/users/:id", h.Delete)
}
