package leaderboardhandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	leaderboardservice "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/application"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *LeaderboardHandlers) HandleHTTPStandings(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.GetStandings(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, r, toStandingsDTO(st))
}

func (h *LeaderboardHandlers) HandleHTTPPosition(w http.ResponseWriter, r *http.Request) {
	pos, err := h.service.GetPosition(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, r, toPositionDTO(pos))
}

func (h *LeaderboardHandlers) HandleHTTPMatchSheet(w http.ResponseWriter, r *http.Request) {
	sheet, err := h.service.GetMatchSheet(r.Context(), chi.URLParam(r, "matchID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, r, toTipSheetDTO(sheet))
}

func (h *LeaderboardHandlers) HandleHTTPBonuses(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.GetBonuses(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, r, toBonusesDTO(b))
}

func (h *LeaderboardHandlers) HandleHTTPPayouts(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetPayouts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, r, toPayoutsDTO(p))
}

func (h *LeaderboardHandlers) HandleHTTPStatistics(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.GetStatistics(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, r, toStatisticsDTO(s))
}

// HandleHTTPHistory returns the rank history of everyone, or of one user when
// the user query parameter is set.
func (h *LeaderboardHandlers) HandleHTTPHistory(w http.ResponseWriter, r *http.Request) {
	hist, err := h.service.GetRankHistory(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, r, toHistoryDTO(hist, r.URL.Query().Get("user")))
}

func (h *LeaderboardHandlers) HandleHTTPHistoryChart(w http.ResponseWriter, r *http.Request) {
	png, err := h.service.RankHistoryChart(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *LeaderboardHandlers) HandleHTTPExport(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.ExportStandings(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="poradi.xlsx"`)
	w.Write(data)
}

func (h *LeaderboardHandlers) HandleHTTPDailyBest(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.YesterdayDailyBest(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, r, toDailyBestDTO(report))
}

func (h *LeaderboardHandlers) writeJSON(w http.ResponseWriter, r *http.Request, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to encode response", slog.Any("error", err))
	}
}

func (h *LeaderboardHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, leaderboardservice.ErrMatchNotFound), errors.Is(err, leaderboardservice.ErrUserNotRanked):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.logger.ErrorContext(r.Context(), "HTTP request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Routes mounts the read API under /api/leaderboard.
func Routes(router chi.Router, h Handlers, limiter *IPRateLimiter, allowedOrigins []string) {
	router.Route("/api/leaderboard", func(r chi.Router) {
		r.Use(CORSMiddleware(allowedOrigins))
		r.Use(RateLimitMiddleware(limiter))

		r.Get("/", h.HandleHTTPStandings)
		r.Get("/bonuses", h.HandleHTTPBonuses)
		r.Get("/payouts", h.HandleHTTPPayouts)
		r.Get("/statistics", h.HandleHTTPStatistics)
		r.Get("/history", h.HandleHTTPHistory)
		r.Get("/daily-best", h.HandleHTTPDailyBest)
		r.Get("/export.xlsx", h.HandleHTTPExport)
		r.Get("/users/{userID}", h.HandleHTTPPosition)
		r.Get("/users/{userID}/history.png", h.HandleHTTPHistoryChart)
		r.Get("/matches/{matchID}/tips", h.HandleHTTPMatchSheet)
	})
}
