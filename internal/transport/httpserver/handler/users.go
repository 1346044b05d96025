package handler

import (
	"errors"
	"net/http"
	"time"

	userdomain "clubhub/internal/domain/user"
	"clubhub/internal/transport/httpserver/middleware"
)

type userResponse struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	OrganizationName string     `json:"organizationName,omitempty"`
	Birthday         *time.Time `json:"birthday,omitempty"`
	Sex              string     `json:"sex,omitempty"`
	Email            string     `json:"email,omitempty"`
	ThumbnailURL     string     `json:"thumbnailUrl,omitempty"`
	PhoneNumber      string     `json:"phoneNumber,omitempty"`
	Interests        []string   `json:"interests,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

func toUserResponse(p *userdomain.Profile) userResponse {
	return userResponse{
		ID:               p.ID,
		Name:             p.Name,
		OrganizationName: p.OrganizationName,
		Birthday:         p.Birthday,
		Sex:              p.Sex,
		Email:            p.Email,
		ThumbnailURL:     p.ThumbnailURL,
		PhoneNumber:      p.PhoneNumber,
		Interests:        p.Interests,
		CreatedAt:        p.CreatedAt,
	}
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.Users.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			h.log.BusinessError("users.get: user not found", err, "user_id", userID)
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		h.log.InternalError("users.get: get user failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeOK(w, http.StatusOK, toUserResponse(profile))
}

type userUpdateRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=80"`
	Birthday    *time.Time `json:"birthday"`
	Email       *string    `json:"email" validate:"omitempty,email"`
	PhoneNumber *string    `json:"phoneNumber" validate:"omitempty,max=20"`
	Interests   []string   `json:"interests" validate:"omitempty,dive,min=1,max=60"`
}

func (h *Handlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req userUpdateRequest
	file, err := h.decodeMultipart(r, "userUpdateRequest", &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	in := userdomain.UpdateProfileInput{
		Name:        req.Name,
		Birthday:    req.Birthday,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Interests:   req.Interests,
	}

	if file != nil {
		url, err := h.uploads.Upload(r.Context(), file.Filename, file.Data)
		if err != nil {
			h.log.InternalError("users.update: thumbnail upload failed", err, "user_id", userID)
			writeError(w, http.StatusBadGateway, "upload failed")
			return
		}
		in.ThumbnailURL = &url
	}

	profile, err := h.Users.UpdateProfile(r.Context(), userID, in)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			h.log.BusinessError("users.update: user not found", err, "user_id", userID)
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		h.log.InternalError("users.update: update profile failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeOK(w, http.StatusOK, toUserResponse(profile))
}
