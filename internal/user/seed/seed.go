// Package seed provides the development dataset for the users API.
package seed

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/useradmin/internal/user/model"
)

// Users returns the development fixture dataset.
func Users() []model.User {
	return []model.User{
		{
			ID: 1, Name: "Olivia Rhye", Email: "olivia@untitledui.com",
			AvatarURL: "https://i.pravatar.cc/150?img=1", Title: "Product Designer",
			JoinedAt: "2023-01-16", Status: model.StatusActive,
			Project: model.Project{Name: "Untitled UI", LogoURL: "https://logo.clearbit.com/untitledui.com", Subtitle: "Design system"},
			Documents: []model.Document{
				{ID: 101, Name: "Contract.pdf", SizeMB: 1.2, Type: "pdf"},
				{ID: 102, Name: "Portfolio.doc", SizeMB: 4.5, Type: "doc"},
			},
		},
		{
			ID: 2, Name: "Phoenix Baker", Email: "phoenix@untitledui.com",
			AvatarURL: "https://i.pravatar.cc/150?img=2", Title: "Product Manager",
			JoinedAt: "2023-02-04", Status: model.StatusInactive,
			Project: model.Project{Name: "Sisyphus", LogoURL: "https://logo.clearbit.com/sisyphus.com", Subtitle: "Ventures"},
			Documents: []model.Document{
				{ID: 103, Name: "Roadmap.pdf", SizeMB: 0.8, Type: "pdf"},
			},
		},
		{
			ID: 3, Name: "Lana Steiner", Email: "lana@untitledui.com",
			AvatarURL: "https://i.pravatar.cc/150?img=3", Title: "Frontend Developer",
			JoinedAt: "2023-03-21", Status: model.StatusActive,
			Project: model.Project{Name: "Catalog", LogoURL: "https://logo.clearbit.com/catalogapp.io", Subtitle: "Web app"},
			Documents: []model.Document{
				{ID: 104, Name: "Avatar.png", SizeMB: 2.1, Type: "image"},
			},
		},
		{
			ID: 4, Name: "Demi Wilkinson", Email: "demi@untitledui.com",
			AvatarURL: "https://i.pravatar.cc/150?img=4", Title: "Backend Developer",
			JoinedAt: "2023-04-02", Status: model.StatusPending,
			Project: model.Project{Name: "Quotient", LogoURL: "https://logo.clearbit.com/quotient.co", Subtitle: "Sales CRM"},
			Documents: []model.Document{
				{ID: 105, Name: "Spec.doc", SizeMB: 1.7, Type: "doc"},
			},
		},
		{
			ID: 5, Name: "Candice Wu", Email: "candice@untitledui.com",
			AvatarURL: "https://i.pravatar.cc/150?img=5", Title: "Fullstack Developer",
			JoinedAt: "2023-05-18", Status: model.StatusActive,
			Project: model.Project{Name: "Hourglass", LogoURL: "https://logo.clearbit.com/hourglass.app", Subtitle: "Time tracking"},
			Documents: []model.Document{
				{ID: 106, Name: "Notes.pdf", SizeMB: 0.3, Type: "pdf"},
				{ID: 107, Name: "Cover.png", SizeMB: 3.9, Type: "image"},
			},
		},
		{
			ID: 6, Name: "Natali Craig", Email: "natali@untitledui.com",
			AvatarURL: "https://i.pravatar.cc/150?img=6", Title: "UX Designer",
			JoinedAt: "2023-06-07", Status: model.StatusInactive,
			Project: model.Project{Name: "Command+R", LogoURL: "https://logo.clearbit.com/cmdr.ai", Subtitle: "Dev tools"},
			Documents: []model.Document{
				{ID: 108, Name: "Research.pdf", SizeMB: 5.4, Type: "pdf"},
			},
		},
	}
}

// Apply inserts the fixture dataset when the users table is empty.
func Apply(ctx context.Context, db *gorm.DB, logger *zap.SugaredLogger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Debugw("seed skipped, table not empty", "count", count)
		return nil
	}

	users := Users()
	if err := db.WithContext(ctx).Create(&users).Error; err != nil {
		logger.Errorw("seed failed", "error", err)
		return err
	}

	logger.Infow("seed applied", "users", len(users))
	return nil
}
