package space_types

import (
	"context"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/internal/service/spaces/models"
)

type SpaceService interface {
	ListSpaceTypes(ctx context.Context) (*models.SpaceTypeListResponse, error)
	CreateSpaceType(ctx context.Context, actor domain.Actor, req *models.CreateSpaceTypeRequest) (*models.SpaceTypeResponse, error)
	UpdatePricing(ctx context.Context, actor domain.Actor, spaceTypeID int64, req *models.UpdatePricingRequest) (*models.SpaceTypeResponse, error)
	AddSpace(ctx context.Context, actor domain.Actor, spaceTypeID int64, req *models.AddSpaceRequest) (*models.SpaceResponse, error)
	RemoveSpace(ctx context.Context, actor domain.Actor, spaceID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
