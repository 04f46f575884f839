package app

import (
	"gorm.io/gorm"

	"github.com/dowhat/dowhat-backend/internal/data/repos/activities"
	"github.com/dowhat/dowhat-backend/internal/data/repos/attendance"
	"github.com/dowhat/dowhat-backend/internal/data/repos/places"
	"github.com/dowhat/dowhat-backend/internal/pkg/logger"
)

type Repos struct {
	Activities activities.Repo
	PlaceCache places.CacheRepo
	Attendance attendance.Repo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Activities: activities.NewRepo(db, log),
		PlaceCache: places.NewCacheRepo(db, log),
		Attendance: attendance.NewRepo(db, log),
	}
}
