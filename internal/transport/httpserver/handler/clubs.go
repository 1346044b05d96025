package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	clubdomain "clubhub/internal/domain/club"
	"clubhub/internal/transport/httpserver/middleware"
)

type clubResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Category1ID  *int64    `json:"category1Id,omitempty"`
	Category2ID  *int64    `json:"category2Id,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	CreatorID    int64     `json:"creatorId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type clubDetailResponse struct {
	clubResponse
	MemberCount int64 `json:"memberCount"`
	LikeCount   int64 `json:"likeCount"`
}

type clubPageResponse struct {
	Values     []clubResponse `json:"values"`
	HasNext    bool           `json:"hasNext"`
	NextCursor int64          `json:"nextCursor,omitempty"`
}

func toClubResponse(c *clubdomain.Club) clubResponse {
	return clubResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Category1ID:  c.Category1ID,
		Category2ID:  c.Category2ID,
		ThumbnailURL: c.ThumbnailURL,
		CreatorID:    c.CreatorID,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (h *Handlers) GetClub(w http.ResponseWriter, r *http.Request) {
	clubID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := h.Clubs.GetClub(r.Context(), clubID)
	if err != nil {
		if errors.Is(err, clubdomain.ErrClubNotFound) {
			h.log.BusinessError("clubs.get: club not found", err, "club_id", clubID)
			writeError(w, http.StatusNotFound, "club not found")
			return
		}
		h.log.InternalError("clubs.get: get club failed", err, "club_id", clubID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeOK(w, http.StatusOK, clubDetailResponse{
		clubResponse: toClubResponse(&detail.Club),
		MemberCount:  detail.MemberCount,
		LikeCount:    detail.LikeCount,
	})
}

func (h *Handlers) ListClubs(w http.ResponseWriter, r *http.Request) {
	var filter clubdomain.ListFilter
	filter.PageSize = clubdomain.DefaultPageSize
	filter.Keyword = strings.TrimSpace(r.URL.Query().Get("searchKeyword"))

	cursorID, err := parseInt64Query(r, "cursorId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if cursorID != nil {
		filter.CursorID = *cursorID
	}

	if filter.Category1ID, err = parseInt64Query(r, "category1Id"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.Category2ID, err = parseInt64Query(r, "category2Id"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.Clubs.ListClubs(r.Context(), filter)
	if err != nil {
		h.log.InternalError("clubs.list: list clubs failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	response := clubPageResponse{
		Values:     make([]clubResponse, 0, len(page.Clubs)),
		HasNext:    page.HasNext,
		NextCursor: page.NextCursor,
	}
	for i := range page.Clubs {
		response.Values = append(response.Values, toClubResponse(&page.Clubs[i]))
	}

	writeOK(w, http.StatusOK, response)
}

type clubCreateRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=2000"`
	Category1ID *int64 `json:"category1Id"`
	Category2ID *int64 `json:"category2Id"`
}

func (h *Handlers) CreateClub(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req clubCreateRequest
	file, err := h.decodeMultipart(r, "clubCreateRequest", &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	in := clubdomain.CreateClubInput{
		Name:        req.Name,
		Description: req.Description,
		Category1ID: req.Category1ID,
		Category2ID: req.Category2ID,
	}

	// The thumbnail must be stored before the row referencing its URL
	// is written; upload failure aborts the whole request.
	if file != nil {
		url, err := h.uploads.Upload(r.Context(), file.Filename, file.Data)
		if err != nil {
			h.log.InternalError("clubs.create: thumbnail upload failed", err, "user_id", userID)
			writeError(w, http.StatusBadGateway, "upload failed")
			return
		}
		in.ThumbnailURL = url
	}

	result, err := h.Clubs.CreateClub(r.Context(), userID, in)
	if err != nil {
		h.log.InternalError("clubs.create: create club failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeOK(w, http.StatusCreated, toClubResponse(result))
}

type clubUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Category1ID *int64  `json:"category1Id"`
	Category2ID *int64  `json:"category2Id"`
}

func (h *Handlers) UpdateClub(w http.ResponseWriter, r *http.Request) {
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

	var req clubUpdateRequest
	file, err := h.decodeMultipart(r, "clubUpdateRequest", &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	in := clubdomain.UpdateClubInput{
		Name:        req.Name,
		Description: req.Description,
		Category1ID: req.Category1ID,
		Category2ID: req.Category2ID,
	}

	if file != nil {
		url, err := h.uploads.Upload(r.Context(), file.Filename, file.Data)
		if err != nil {
			h.log.InternalError("clubs.update: thumbnail upload failed", err, "user_id", userID, "club_id", clubID)
			writeError(w, http.StatusBadGateway, "upload failed")
			return
		}
		in.ThumbnailURL = &url
	}

	result, err := h.Clubs.UpdateClub(r.Context(), clubID, in)
	if err != nil {
		if errors.Is(err, clubdomain.ErrClubNotFound) {
			h.log.BusinessError("clubs.update: club not found", err, "club_id", clubID)
			writeError(w, http.StatusNotFound, "club not found")
			return
		}
		h.log.InternalError("clubs.update: update club failed", err, "club_id", clubID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeOK(w, http.StatusOK, toClubResponse(result))
}
