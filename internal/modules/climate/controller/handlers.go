package controller

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"climate-server/internal/modules/climate/service"
	"climate-server/internal/modules/climate/types"
	"climate-server/internal/modules/climate/views"
	"climate-server/internal/utils"
)

func (c *climateControllerImpl) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := views.IndexData{}

	span, err := c.service.DateRange(r.Context())
	switch {
	case err == nil:
		data.HasData = true
		data.Earliest = span.Earliest
		data.Latest = span.Latest
	case !errors.Is(err, service.ErrEmptyDataset):
		slog.Error("index: date range failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load date range")
		return
	}

	if data.HasData {
		station, err := c.service.BusiestStation(r.Context())
		if err != nil {
			slog.Error("index: busiest station failed", "error", err)
			utils.WriteError(w, http.StatusInternalServerError, "failed to load busiest station")
			return
		}
		data.BusiestStation = station
	}

	var buf bytes.Buffer
	if err := views.RenderIndex(&buf, &data); err != nil {
		slog.Error("index template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	utils.WriteHTML(w, http.StatusOK, buf.Bytes())
}

func (c *climateControllerImpl) handlePrecipitation(w http.ResponseWriter, r *http.Request) {
	out, err := c.service.PrecipitationLastYear(r.Context())
	if errors.Is(err, service.ErrEmptyDataset) {
		out = []types.Precipitation{}
	} else if err != nil {
		slog.Error("precipitation failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load precipitation")
		return
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (c *climateControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := c.service.Stations(r.Context())
	if err != nil {
		slog.Error("stations failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load stations")
		return
	}
	utils.WriteJSON(w, http.StatusOK, stations)
}

func (c *climateControllerImpl) handleTobs(w http.ResponseWriter, r *http.Request) {
	out, err := c.service.BusiestStationTemperaturesLastYear(r.Context())
	if errors.Is(err, service.ErrEmptyDataset) {
		out = []types.TemperatureObservation{}
	} else if err != nil {
		slog.Error("tobs failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load temperatures")
		return
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (c *climateControllerImpl) handleStatsFrom(w http.ResponseWriter, r *http.Request) {
	start := r.PathValue("start")
	stats, err := c.service.StatsFrom(r.Context(), start)
	writeStats(w, "stats from", stats, err, "start", start)
}

func (c *climateControllerImpl) handleStatsBetween(w http.ResponseWriter, r *http.Request) {
	start, end := r.PathValue("start"), r.PathValue("end")
	stats, err := c.service.StatsBetween(r.Context(), start, end)
	writeStats(w, "stats between", stats, err, "start", start, "end", end)
}

// writeStats renders stats, or the message for a user-facing error. Both
// are sent with status 200.
func writeStats(w http.ResponseWriter, route string, stats types.TemperatureStats, err error, logArgs ...any) {
	var buf bytes.Buffer
	if err != nil {
		msg, ok := userMessage(err)
		if !ok {
			slog.Error(route+" failed", append(logArgs, "error", err)...)
			utils.WriteError(w, http.StatusInternalServerError, "failed to compute temperature statistics")
			return
		}
		slog.Debug(route+" rejected", append(logArgs, "reason", err)...)
		err = views.RenderMessage(&buf, &msg)
	} else {
		err = views.RenderStats(&buf, &stats)
	}
	if err != nil {
		slog.Error(route+": template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render")
		return
	}
	utils.WriteHTML(w, http.StatusOK, buf.Bytes())
}
