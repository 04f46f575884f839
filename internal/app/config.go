package app

import (
	"github.com/dowhat/dowhat-backend/internal/pkg/logger"
	"github.com/dowhat/dowhat-backend/internal/utils"
)

type Config struct {
	Port string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port: utils.GetEnv("PORT", "8080", log),
	}
}
