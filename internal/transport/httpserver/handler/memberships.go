package handler

import (
	"errors"
	"net/http"
	"time"

	clubdomain "clubhub/internal/domain/club"
	"clubhub/internal/transport/httpserver/middleware"
)

type membershipResponse struct {
	UserID      int64                  `json:"userId"`
	ClubID      int64                  `json:"clubId"`
	ApplyStatus clubdomain.ApplyStatus `json:"applyStatus"`
	Role        *clubdomain.Role       `json:"role,omitempty"`
	ApplyDate   time.Time              `json:"applyDate"`
	ApproveDate *time.Time             `json:"approveDate,omitempty"`
}

func toMembershipResponse(m *clubdomain.Membership) membershipResponse {
	return membershipResponse{
		UserID:      m.UserID,
		ClubID:      m.ClubID,
		ApplyStatus: m.ApplyStatus,
		Role:        m.Role,
		ApplyDate:   m.ApplyDate,
		ApproveDate: m.ApproveDate,
	}
}

func (h *Handlers) ApplyClub(w http.ResponseWriter, r *http.Request) {
	clubID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	result, err := h.Clubs.Apply(r.Context(), userID, clubID)
	if err != nil {
		switch {
		case errors.Is(err, clubdomain.ErrClubNotFound):
			h.log.BusinessError("clubs.apply: club not found", err, "club_id", clubID)
			writeError(w, http.StatusNotFound, "club not found")
		case errors.Is(err, clubdomain.ErrAlreadyApplied):
			h.log.BusinessError("clubs.apply: already applied", err, "user_id", userID, "club_id", clubID)
			writeError(w, http.StatusConflict, "already applied to club")
		default:
			h.log.InternalError("clubs.apply: apply failed", err, "user_id", userID, "club_id", clubID)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeOK(w, http.StatusCreated, toMembershipResponse(result))
}

type clubApproveRequest struct {
	ApprovedUserID int64   `json:"approvedUserId" validate:"required,gt=0"`
	Role           *string `json:"role"`
}

func (h *Handlers) ApproveClub(w http.ResponseWriter, r *http.Request) {
	clubID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	approverID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req clubApproveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	var role *clubdomain.Role
	if req.Role != nil {
		r := clubdomain.Role(*req.Role)
		role = &r
	}

	result, err := h.Clubs.Approve(r.Context(), approverID, req.ApprovedUserID, clubID, role)
	if err != nil {
		switch {
		case errors.Is(err, clubdomain.ErrNotAuthorized):
			h.log.BusinessError("clubs.approve: not authorized", err, "approver_id", approverID, "club_id", clubID)
			writeError(w, http.StatusForbidden, "not authorized")
		case errors.Is(err, clubdomain.ErrNoSuchApplication):
			h.log.BusinessError("clubs.approve: no pending application", err, "user_id", req.ApprovedUserID, "club_id", clubID)
			writeError(w, http.StatusNotFound, "no pending application")
		case errors.Is(err, clubdomain.ErrInvalidRole):
			writeError(w, http.StatusBadRequest, "invalid role")
		default:
			h.log.InternalError("clubs.approve: approve failed", err, "club_id", clubID)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeOK(w, http.StatusOK, toMembershipResponse(result))
}

type clubAllocateRequest struct {
	UserID int64  `json:"userId" validate:"required,gt=0"`
	Role   string `json:"role" validate:"required"`
}

func (h *Handlers) AllocateClubRole(w http.ResponseWriter, r *http.Request) {
	clubID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req clubAllocateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := h.Clubs.AllocateRole(r.Context(), callerID, clubID, req.UserID, clubdomain.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, clubdomain.ErrInvalidRole):
			writeError(w, http.StatusBadRequest, "invalid role")
		case errors.Is(err, clubdomain.ErrNotAuthorized):
			h.log.BusinessError("clubs.allocate: not authorized", err, "caller_id", callerID, "club_id", clubID)
			writeError(w, http.StatusForbidden, "not authorized")
		case errors.Is(err, clubdomain.ErrNoSuchMembership):
			h.log.BusinessError("clubs.allocate: no membership", err, "user_id", req.UserID, "club_id", clubID)
			writeError(w, http.StatusNotFound, "no membership for user and club")
		default:
			h.log.InternalError("clubs.allocate: allocate role failed", err, "club_id", clubID)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeOK(w, http.StatusOK, toMembershipResponse(result))
}

type likeResponse struct {
	ClubID int64 `json:"clubId"`
	Liked  bool  `json:"liked"`
}

func (h *Handlers) ToggleClubLike(w http.ResponseWriter, r *http.Request) {
	clubID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	liked, err := h.Clubs.ToggleLike(r.Context(), userID, clubID)
	if err != nil {
		if errors.Is(err, clubdomain.ErrClubNotFound) {
			h.log.BusinessError("clubs.like: club not found", err, "club_id", clubID)
			writeError(w, http.StatusNotFound, "club not found")
			return
		}
		h.log.InternalError("clubs.like: toggle like failed", err, "user_id", userID, "club_id", clubID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeOK(w, http.StatusOK, likeResponse{ClubID: clubID, Liked: liked})
}

type clubRoleResponse struct {
	ClubID      int64                   `json:"clubId"`
	UserID      int64                   `json:"userId"`
	Role        *clubdomain.Role        `json:"role"`
	ApplyStatus *clubdomain.ApplyStatus `json:"applyStatus"`
}

// GetClubRole reports the caller's relationship to the club. No
// relationship is a normal answer with null role and status.
func (h *Handlers) GetClubRole(w http.ResponseWriter, r *http.Request) {
	clubID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	membership, err := h.Clubs.GetRole(r.Context(), userID, clubID)
	if err != nil {
		if errors.Is(err, clubdomain.ErrClubNotFound) {
			h.log.BusinessError("clubs.role: club not found", err, "club_id", clubID)
			writeError(w, http.StatusNotFound, "club not found")
			return
		}
		h.log.InternalError("clubs.role: get role failed", err, "user_id", userID, "club_id", clubID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	response := clubRoleResponse{ClubID: clubID, UserID: userID}
	if membership != nil {
		response.Role = membership.Role
		status := membership.ApplyStatus
		response.ApplyStatus = &status
	}

	writeOK(w, http.StatusOK, response)
}
