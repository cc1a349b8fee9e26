package controller

import (
	"context"
	"net/http"

	"climate-server/internal/modules/climate/types"
)

// ClimateService is the subset of service.Service the handlers call.
type ClimateService interface {
	Stations(ctx context.Context) ([]types.Station, error)
	DateRange(ctx context.Context) (types.DateRange, error)
	PrecipitationLastYear(ctx context.Context) ([]types.Precipitation, error)
	BusiestStation(ctx context.Context) (string, error)
	BusiestStationTemperaturesLastYear(ctx context.Context) ([]types.TemperatureObservation, error)
	StatsFrom(ctx context.Context, start string) (types.TemperatureStats, error)
	StatsBetween(ctx context.Context, start, end string) (types.TemperatureStats, error)
}

type ClimateController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type climateControllerImpl struct {
	service ClimateService
}

func NewClimateController(service ClimateService) ClimateController {
	return &climateControllerImpl{service: service}
}

func (c *climateControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.handleIndex)
	mux.HandleFunc("GET /api/v1.0/precipitation", c.handlePrecipitation)
	mux.HandleFunc("GET /api/v1.0/stations", c.handleStations)
	mux.HandleFunc("GET /api/v1.0/tobs", c.handleTobs)
	mux.HandleFunc("GET /api/v1.0/{start}", c.handleStatsFrom)
	mux.HandleFunc("GET /api/v1.0/{start}/{end}", c.handleStatsBetween)
}
