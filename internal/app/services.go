package app

import (
	"github.com/dowhat/dowhat-backend/internal/discovery"
	"github.com/dowhat/dowhat-backend/internal/pkg/logger"
	"github.com/dowhat/dowhat-backend/internal/reliability"
)

type Services struct {
	Discovery   *discovery.Engine
	Reliability *reliability.Service
}

func wireServices(log *logger.Logger, repos Repos, clients Clients) Services {
	log.Info("Wiring services...")
	return Services{
		Discovery:   discovery.NewEngine(log, repos.Activities, clients.ResultCache),
		Reliability: reliability.NewService(log, repos.Attendance),
	}
}
