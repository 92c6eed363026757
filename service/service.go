package service

import (
	"sync"

	"github.com/chiedu/wayfarer/config"
	"github.com/chiedu/wayfarer/internal/jsonlog"
	"github.com/chiedu/wayfarer/repository"
)

type Service interface {
	ratings
	reviews
	completions
	users
	tokens
}

// service defines the service layer.
type service struct {
	config config.Config
	wg     *sync.WaitGroup
	logger *jsonlog.Logger
	repo   repository.Repository
}

// New creates a new instance of Service. The waitgroup is shared with the
// server so that graceful shutdown waits for background tasks.
func New(cfg config.Config, wg *sync.WaitGroup, logger *jsonlog.Logger, repo repository.Repository) *service {
	return &service{
		config: cfg,
		wg:     wg,
		logger: logger,
		repo:   repo,
	}
}
