package leaderboardhandlers

import (
	"context"
	"net/http"

	tournamentevents "github.com/tipovacka-hokej/tipovacka/app/modules/tournament/events"
	"github.com/tipovacka-hokej/tipovacka/internal/handlerwrapper"
)

// Handlers defines the leaderboard event and HTTP handlers.
type Handlers interface {
	// --- EVENTS: every tournament change triggers a recompute ---

	HandlePredictionsSaved(ctx context.Context, payload *tournamentevents.PredictionsSavedPayloadV1) ([]handlerwrapper.Result, error)
	HandleLongTermBetSaved(ctx context.Context, payload *tournamentevents.LongTermBetSavedPayloadV1) ([]handlerwrapper.Result, error)
	HandleResultRecorded(ctx context.Context, payload *tournamentevents.ResultRecordedPayloadV1) ([]handlerwrapper.Result, error)
	HandleOfficialResultsSet(ctx context.Context, payload *tournamentevents.OfficialResultsSetPayloadV1) ([]handlerwrapper.Result, error)
	HandlePaymentStatusChanged(ctx context.Context, payload *tournamentevents.PaymentStatusChangedPayloadV1) ([]handlerwrapper.Result, error)
	HandleSnapshotImported(ctx context.Context, payload *tournamentevents.SnapshotImportedPayloadV1) ([]handlerwrapper.Result, error)

	// --- HTTP ---

	HandleHTTPStandings(w http.ResponseWriter, r *http.Request)
	HandleHTTPPosition(w http.ResponseWriter, r *http.Request)
	HandleHTTPMatchSheet(w http.ResponseWriter, r *http.Request)
	HandleHTTPBonuses(w http.ResponseWriter, r *http.Request)
	HandleHTTPPayouts(w http.ResponseWriter, r *http.Request)
	HandleHTTPStatistics(w http.ResponseWriter, r *http.Request)
	HandleHTTPHistory(w http.ResponseWriter, r *http.Request)
	HandleHTTPHistoryChart(w http.ResponseWriter, r *http.Request)
	HandleHTTPExport(w http.ResponseWriter, r *http.Request)
	HandleHTTPDailyBest(w http.ResponseWriter, r *http.Request)
}

var _ Handlers = (*LeaderboardHandlers)(nil)
