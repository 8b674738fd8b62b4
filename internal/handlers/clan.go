package handlers

import (
	"net/http"

	"github.com/cocstats/stats-api/internal/logic"
	"github.com/cocstats/stats-api/internal/models"
	"github.com/cocstats/stats-api/internal/worker"
)

// GetJoinLeave returns membership events of clans with churn statistics
// @Summary Clan Join/Leave
// @Tags Clan
// @Produce json
// @Param clan_tags query string true "Comma-separated clan tags"
// @Param start query string false "Window start"
// @Param end query string false "Window end"
// @Param limit query int false "Events per clan" default(250)
// @Param filter_leave_join query bool false "Drop leaves quickly followed by a rejoin"
// @Param filter_join_leave query bool false "Drop joins quickly followed by a leave"
// @Param filter_time query int false "Pair window in seconds" default(172800)
// @Param only_type query string false "join or leave"
// @Param townhall query int false "Only this townhall level"
// @Param name_contains query string false "Case-insensitive name filter"
// @Success 200 {object} models.JoinLeaveResponse
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /v1/clan/join-leave [get]
func (h *Handler) GetJoinLeave(w http.ResponseWriter, r *http.Request) {
	q, ok := h.joinLeaveQuery(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	resp, err := h.joinLeave.GetJoinLeave(ctx, q)
	if err != nil {
		h.serviceError(w, r, err, "Failed to analyze join/leave events")
		return
	}
	h.jsonResponse(w, http.StatusOK, resp)
}

// GetJoinLeavePairs returns only the events that form a quick round trip
// @Summary Join/Leave Pairs
// @Tags Clan
// @Produce json
// @Param clan_tags query string true "Comma-separated clan tags"
// @Param direction query string false "join_leave or leave_join" default(leave_join)
// @Param filter_time query int false "Pair window in seconds" default(172800)
// @Success 200 {array} models.JoinLeaveEvent
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /v1/clan/join-leave/pairs [get]
func (h *Handler) GetJoinLeavePairs(w http.ResponseWriter, r *http.Request) {
	q, ok := h.joinLeaveQuery(w, r)
	if !ok {
		return
	}
	direction := r.URL.Query().Get("direction")
	if direction == "" {
		direction = logic.DirectionLeaveJoin
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	pairs, err := h.joinLeave.GetJoinLeavePairs(ctx, q, direction)
	if err != nil {
		h.serviceError(w, r, err, "Failed to extract join/leave pairs")
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"direction": direction,
		"items":     pairs,
	})
}

func (h *Handler) joinLeaveQuery(w http.ResponseWriter, r *http.Request) (models.JoinLeaveQuery, bool) {
	q := worker.DefaultJoinLeaveQuery("")
	q.Tags = tagsParam(r, "clan_tags")

	var err error
	bad := func(err error) (models.JoinLeaveQuery, bool) {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return q, false
	}

	if q.Start, err = timeParam(r, "start"); err != nil {
		return bad(err)
	}
	if q.End, err = timeParam(r, "end"); err != nil {
		return bad(err)
	}
	if q.Limit, err = intParam(r, "limit", worker.DefaultEventLimit); err != nil {
		return bad(err)
	}
	if q.FilterLeaveJoin, err = boolParam(r, "filter_leave_join"); err != nil {
		return bad(err)
	}
	if q.FilterJoinLeave, err = boolParam(r, "filter_join_leave"); err != nil {
		return bad(err)
	}
	filterTime, err := intParam(r, "filter_time", 0)
	if err != nil {
		return bad(err)
	}
	q.FilterSeconds = int64(filterTime)
	if q.Townhall, err = intParam(r, "townhall", 0); err != nil {
		return bad(err)
	}

	query := r.URL.Query()
	q.OnlyType = query.Get("only_type")
	q.NameContains = query.Get("name_contains")

	if err := h.validator.Struct(q); err != nil {
		h.validationError(w, err)
		return q, false
	}
	return q, true
}

// GetClanRaids returns a clan's raid weekends with predicted rewards and totals
// @Summary Clan Capital Raids
// @Tags Clan
// @Produce json
// @Param clanTag path string true "Clan tag, # optional"
// @Param limit query int false "Weekends" default(10)
// @Success 200 {object} models.RaidHistoryResponse
// @Failure 404 {object} map[string]string "No raid data"
// @Router /v1/clan/{clanTag}/raids [get]
func (h *Handler) GetClanRaids(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", worker.DefaultRaidLimit)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	q := models.RaidQuery{ClanTag: clanTagParam(r, "clanTag"), Limit: limit}
	if err := h.validator.Struct(q); err != nil {
		h.validationError(w, err)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	resp, err := h.raids.GetClanRaids(ctx, q)
	if err != nil {
		h.serviceError(w, r, err, "Failed to load raid history")
		return
	}
	h.jsonResponse(w, http.StatusOK, resp)
}

// RefreshClan queues a background recompute of every cached view of a clan
// @Summary Refresh Clan
// @Tags Clan
// @Produce json
// @Param clanTag path string true "Clan tag, # optional"
// @Success 202 {object} map[string]interface{}
// @Failure 503 {object} map[string]string "Queue full"
// @Router /v1/clans/{clanTag}/refresh [post]
func (h *Handler) RefreshClan(w http.ResponseWriter, r *http.Request) {
	clanTag := clanTagParam(r, "clanTag")
	if clanTag == "" {
		h.errorResponse(w, http.StatusBadRequest, "missing clan tag")
		return
	}

	id, ok := h.pool.Enqueue(clanTag)
	if !ok {
		h.errorResponse(w, http.StatusServiceUnavailable, "Refresh queue is full")
		return
	}
	h.jsonResponse(w, http.StatusAccepted, map[string]interface{}{
		"job_id":   id,
		"clan_tag": clanTag,
		"status":   "queued",
	})
}
