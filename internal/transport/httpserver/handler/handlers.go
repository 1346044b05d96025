package handler

import (
	clubdomain "clubhub/internal/domain/club"
	scheduledomain "clubhub/internal/domain/schedule"
	userdomain "clubhub/internal/domain/user"
	"clubhub/internal/storage/oss"
	"clubhub/pkg/logger"
	"github.com/go-playground/validator/v10"
)

type Handlers struct {
	Users     *userdomain.Service
	Clubs     *clubdomain.Service
	Schedules *scheduledomain.Service

	uploads   oss.Uploader
	maxUpload int64
	validate  *validator.Validate
	log       logger.Logger
}

func New(users *userdomain.Service, clubs *clubdomain.Service, schedules *scheduledomain.Service, uploads oss.Uploader, maxUpload int64, log logger.Logger) *Handlers {
	return &Handlers{
		Users:     users,
		Clubs:     clubs,
		Schedules: schedules,
		uploads:   uploads,
		maxUpload: maxUpload,
		validate:  validator.New(),
		log:       log,
	}
}
