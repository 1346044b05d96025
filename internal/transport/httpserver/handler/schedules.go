package handler

import (
	"errors"
	"net/http"
	"time"

	scheduledomain "clubhub/internal/domain/schedule"
	"clubhub/internal/transport/httpserver/middleware"
)

type scheduleResponse struct {
	ID        int64     `json:"id"`
	ClubID    int64     `json:"clubId"`
	Name      string    `json:"name"`
	Content   string    `json:"content,omitempty"`
	Location  string    `json:"location,omitempty"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	CreatorID int64     `json:"creatorId"`
}

func toScheduleResponse(s *scheduledomain.Schedule) scheduleResponse {
	return scheduleResponse{
		ID:        s.ID,
		ClubID:    s.ClubID,
		Name:      s.Name,
		Content:   s.Content,
		Location:  s.Location,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		CreatorID: s.CreatorID,
	}
}

func (h *Handlers) ListClubSchedules(w http.ResponseWriter, r *http.Request) {
	clubID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	schedules, err := h.Schedules.List(r.Context(), clubID)
	if err != nil {
		h.log.InternalError("schedules.list: list failed", err, "club_id", clubID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	response := make([]scheduleResponse, 0, len(schedules))
	for i := range schedules {
		response = append(response, toScheduleResponse(&schedules[i]))
	}

	writeOK(w, http.StatusOK, response)
}

type scheduleCreateRequest struct {
	ClubID    int64     `json:"clubId" validate:"required,gt=0"`
	Name      string    `json:"name" validate:"required,max=120"`
	Content   string    `json:"content" validate:"max=2000"`
	Location  string    `json:"location" validate:"max=200"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
}

func (h *Handlers) CreateClubSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req scheduleCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := h.Schedules.Create(r.Context(), userID, scheduledomain.CreateInput{
		ClubID:    req.ClubID,
		Name:      req.Name,
		Content:   req.Content,
		Location:  req.Location,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, scheduledomain.ErrNotAMember):
			h.log.BusinessError("schedules.create: not a member", err, "user_id", userID, "club_id", req.ClubID)
			writeError(w, http.StatusForbidden, "not an approved club member")
		case errors.Is(err, scheduledomain.ErrInvalidTimeRange):
			writeError(w, http.StatusBadRequest, "end date precedes start date")
		default:
			h.log.InternalError("schedules.create: create failed", err, "user_id", userID, "club_id", req.ClubID)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeOK(w, http.StatusCreated, toScheduleResponse(result))
}

type scheduleUpdateRequest struct {
	Name      *string    `json:"name" validate:"omitempty,min=1,max=120"`
	Content   *string    `json:"content" validate:"omitempty,max=2000"`
	Location  *string    `json:"location" validate:"omitempty,max=200"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

func (h *Handlers) UpdateClubSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req scheduleUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := h.Schedules.Update(r.Context(), scheduleID, scheduledomain.UpdateInput{
		Name:      req.Name,
		Content:   req.Content,
		Location:  req.Location,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, scheduledomain.ErrScheduleNotFound):
			h.log.BusinessError("schedules.update: schedule not found", err, "schedule_id", scheduleID)
			writeError(w, http.StatusNotFound, "schedule not found")
		case errors.Is(err, scheduledomain.ErrInvalidTimeRange):
			writeError(w, http.StatusBadRequest, "end date precedes start date")
		default:
			h.log.InternalError("schedules.update: update failed", err, "schedule_id", scheduleID)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeOK(w, http.StatusOK, toScheduleResponse(result))
}

type registrationResponse struct {
	UserID     int64 `json:"userId"`
	ScheduleID int64 `json:"clubScheduleId"`
}

func (h *Handlers) RegisterClubSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	result, err := h.Schedules.Register(r.Context(), scheduleID, userID)
	if err != nil {
		switch {
		case errors.Is(err, scheduledomain.ErrScheduleNotFound):
			h.log.BusinessError("schedules.register: schedule not found", err, "schedule_id", scheduleID)
			writeError(w, http.StatusNotFound, "schedule not found")
		case errors.Is(err, scheduledomain.ErrNotAMember):
			h.log.BusinessError("schedules.register: not a member", err, "user_id", userID, "schedule_id", scheduleID)
			writeError(w, http.StatusForbidden, "not an approved club member")
		case errors.Is(err, scheduledomain.ErrAlreadyRegistered):
			h.log.BusinessError("schedules.register: already registered", err, "user_id", userID, "schedule_id", scheduleID)
			writeError(w, http.StatusConflict, "already registered for schedule")
		default:
			h.log.InternalError("schedules.register: register failed", err, "user_id", userID, "schedule_id", scheduleID)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeOK(w, http.StatusCreated, registrationResponse{UserID: result.UserID, ScheduleID: result.ScheduleID})
}

func (h *Handlers) CancelClubScheduleRegistration(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	if err := h.Schedules.Cancel(r.Context(), scheduleID, userID); err != nil {
		if errors.Is(err, scheduledomain.ErrRegistrationNotFound) {
			h.log.BusinessError("schedules.cancel: registration not found", err, "user_id", userID, "schedule_id", scheduleID)
			writeError(w, http.StatusNotFound, "registration not found")
			return
		}
		h.log.InternalError("schedules.cancel: cancel failed", err, "user_id", userID, "schedule_id", scheduleID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeOK(w, http.StatusOK, nil)
}
