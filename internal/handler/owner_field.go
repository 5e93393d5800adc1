package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clubreserva/field-booking-api/internal/repository"
)

type fieldReq struct {
	Name        string `json:"name"`
	SportType   string `json:"sport_type"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	IsAvailable *bool  `json:"is_available"` // only honored on update
}

func fieldResp(f *repository.Field) echo.Map {
	m := echo.Map{
		"id":           f.ID,
		"club_id":      f.ClubID,
		"name":         f.Name,
		"sport_type":   f.SportType,
		"is_available": f.IsAvailable,
	}
	if f.Description.Valid {
		m["description"] = f.Description.String
	}
	if f.ImageURL.Valid {
		m["image_url"] = f.ImageURL.String
	}
	return m
}

// CreateField handles POST /v1/owner/clubs/:id/fields. The field inherits
// the owner from its club; ownership of the club is checked first.
func (h *OwnerHandler) CreateField(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	clubID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid club id"})
	}
	var req fieldReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.SportType = strings.TrimSpace(req.SportType)
	if req.Name == "" || req.SportType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and sport_type are required"})
	}

	ctx := c.Request().Context()
	if _, err := h.ClubRepo.GetByIDAndOwner(ctx, clubID, ownerID); err != nil {
		if errors.Is(err, repository.ErrClubNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "club not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	f := repository.Field{
		ClubID:      clubID,
		OwnerID:     ownerID,
		Name:        req.Name,
		SportType:   req.SportType,
		Description: nullStr(req.Description),
		ImageURL:    nullStr(req.ImageURL),
	}
	if err := h.FieldRepo.Create(ctx, &f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create field failed"})
	}
	return c.JSON(http.StatusCreated, fieldResp(&f))
}

// ListClubFields handles GET /v1/owner/clubs/:id/fields. Owners see every
// field of their club including the unavailable ones.
func (h *OwnerHandler) ListClubFields(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	clubID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid club id"})
	}
	ctx := c.Request().Context()
	if _, err := h.ClubRepo.GetByIDAndOwner(ctx, clubID, ownerID); err != nil {
		if errors.Is(err, repository.ErrClubNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "club not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	fields, err := h.FieldRepo.ListByClub(ctx, clubID, false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list fields failed"})
	}
	items := make([]echo.Map, 0, len(fields))
	for _, f := range fields {
		items = append(items, fieldResp(f))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateField handles PUT /v1/owner/fields/:id.
func (h *OwnerHandler) UpdateField(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	fieldID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid field id"})
	}
	var req fieldReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	f, err := h.FieldRepo.GetByIDAndOwner(ctx, fieldID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrFieldNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "field not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		f.Name = name
	}
	if st := strings.TrimSpace(req.SportType); st != "" {
		f.SportType = st
	}
	if req.Description != "" {
		f.Description = nullStr(req.Description)
	}
	if req.ImageURL != "" {
		f.ImageURL = nullStr(req.ImageURL)
	}
	if req.IsAvailable != nil {
		f.IsAvailable = *req.IsAvailable
	}

	if err := h.FieldRepo.Update(ctx, f, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "field not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update field failed"})
	}
	return c.JSON(http.StatusOK, fieldResp(f))
}

// DeleteField handles DELETE /v1/owner/fields/:id. Schedules and their
// reservations go with it in one transaction.
func (h *OwnerHandler) DeleteField(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	fieldID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid field id"})
	}
	if err := h.FieldRepo.DeleteByIDAndOwner(c.Request().Context(), fieldID, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "field not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete field failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
