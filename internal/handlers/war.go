package handlers

import (
	"net/http"

	"github.com/cocstats/stats-api/internal/models"
	"github.com/cocstats/stats-api/internal/worker"
)

// GetClanHitrate returns hitrates of every player who fought for the given clans
// @Summary Clan Hitrate
// @Description Aggregate attack results of one or more clans by townhall matchup
// @Tags War
// @Produce json
// @Param clan_tags query string true "Comma-separated clan tags"
// @Param start query string false "Window start (RFC3339, YYYY-MM-DD or unix seconds)" default(90 days ago)
// @Param end query string false "Window end"
// @Param season query string false "League season (YYYY-MM)"
// @Param war_type query string false "all, cwl or regular" default(all)
// @Param townhall query string false "Townhall filter (e.g. 14v14, *v15, =v=)" default(*v*)
// @Param fresh query bool false "Only first hits on each base"
// @Param min_attacks query int false "Drop players with fewer attacks"
// @Success 200 {object} models.HitrateReport
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Error"
// @Router /v1/war/hitrate [get]
func (h *Handler) GetClanHitrate(w http.ResponseWriter, r *http.Request) {
	q, ok := h.hitrateQuery(w, r, "clan_tags")
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	report, err := h.warStats.GetClanHitrate(ctx, q)
	if err != nil {
		h.serviceError(w, r, err, "Failed to compute clan hitrate")
		return
	}
	h.jsonResponse(w, http.StatusOK, report)
}

// GetPlayerHitrate returns hitrates of the given players across all their clans
// @Summary Player Hitrate
// @Tags War
// @Produce json
// @Param player_tags query string true "Comma-separated player tags"
// @Param townhall query string false "Townhall filter" default(*v*)
// @Success 200 {object} models.HitrateReport
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /v1/war/player-hitrate [get]
func (h *Handler) GetPlayerHitrate(w http.ResponseWriter, r *http.Request) {
	q, ok := h.hitrateQuery(w, r, "player_tags")
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	report, err := h.warStats.GetPlayerHitrate(ctx, q)
	if err != nil {
		h.serviceError(w, r, err, "Failed to compute player hitrate")
		return
	}
	h.jsonResponse(w, http.StatusOK, report)
}

func (h *Handler) hitrateQuery(w http.ResponseWriter, r *http.Request, tagsKey string) (models.HitrateQuery, bool) {
	tags := tagsParam(r, tagsKey)
	q := worker.DefaultHitrateQuery("")
	q.Tags = tags

	start, err := timeParam(r, "start")
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return q, false
	}
	end, err := timeParam(r, "end")
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return q, false
	}
	if !start.IsZero() {
		q.Start = start
	}
	if !end.IsZero() {
		q.End = end
	}
	if q.End.Before(q.Start) {
		h.errorResponse(w, http.StatusBadRequest, "end must not be before start")
		return q, false
	}

	query := r.URL.Query()
	q.Season = query.Get("season")
	if wt := query.Get("war_type"); wt != "" {
		q.WarType = wt
	}
	if th := query.Get("townhall"); th != "" {
		q.TownhallFilter = th
	}
	if q.FreshOnly, err = boolParam(r, "fresh"); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return q, false
	}
	if q.MinAttacks, err = intParam(r, "min_attacks", 0); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return q, false
	}

	if err := h.validator.Struct(q); err != nil {
		h.validationError(w, err)
		return q, false
	}
	return q, true
}
