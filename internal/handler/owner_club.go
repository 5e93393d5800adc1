package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clubreserva/field-booking-api/internal/repository"
)

type clubReq struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func clubResp(cl *repository.Club) echo.Map {
	m := echo.Map{
		"id":      cl.ID,
		"name":    cl.Name,
		"address": cl.Address,
		"phone":   cl.Phone,
	}
	if cl.Description.Valid {
		m["description"] = cl.Description.String
	}
	if cl.ImageURL.Valid {
		m["image_url"] = cl.ImageURL.String
	}
	return m
}

// CreateClub handles POST /v1/owner/clubs.
func (h *OwnerHandler) CreateClub(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req clubReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || strings.TrimSpace(req.Address) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and address are required"})
	}

	cl := repository.Club{
		OwnerID:     ownerID,
		Name:        req.Name,
		Address:     strings.TrimSpace(req.Address),
		Phone:       strings.TrimSpace(req.Phone),
		Description: nullStr(req.Description),
		ImageURL:    nullStr(req.ImageURL),
	}
	if err := h.ClubRepo.Create(c.Request().Context(), &cl); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create club failed"})
	}
	return c.JSON(http.StatusCreated, clubResp(&cl))
}

// ListMyClubs handles GET /v1/owner/clubs.
func (h *OwnerHandler) ListMyClubs(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	clubs, err := h.ClubRepo.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list clubs failed"})
	}
	items := make([]echo.Map, 0, len(clubs))
	for _, cl := range clubs {
		items = append(items, clubResp(cl))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateClub handles PUT /v1/owner/clubs/:id. Only the owner may update.
func (h *OwnerHandler) UpdateClub(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	clubID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid club id"})
	}
	var req clubReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || strings.TrimSpace(req.Address) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and address are required"})
	}

	cl := repository.Club{
		ID:          clubID,
		Name:        req.Name,
		Address:     strings.TrimSpace(req.Address),
		Phone:       strings.TrimSpace(req.Phone),
		Description: nullStr(req.Description),
		ImageURL:    nullStr(req.ImageURL),
	}
	if err := h.ClubRepo.Update(c.Request().Context(), &cl, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "club not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update club failed"})
	}
	return c.JSON(http.StatusOK, clubResp(&cl))
}

// DeleteClub handles DELETE /v1/owner/clubs/:id. Deleting a club cascades
// over its fields, schedules and reservations inside one transaction.
func (h *OwnerHandler) DeleteClub(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	clubID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid club id"})
	}
	if err := h.ClubRepo.DeleteByIDAndOwner(c.Request().Context(), clubID, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "club not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete club failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
