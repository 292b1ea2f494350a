package clinic

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/healthque/api/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Reading hours is open to any authenticated role; writes are restricted
	// to admins and the doctor who owns the schedule.
	api.GET("/doctors/:id/schedule", h.Get)

	g := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor))
	g.PUT("/doctors/:id/schedule", h.Put)
	g.DELETE("/doctors/:id/schedule", h.Delete)
}

func doctorPathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	return id, nil
}

func httpError(err error) error {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "schedule not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) Get(c echo.Context) error {
	id, err := doctorPathID(c)
	if err != nil {
		return err
	}
	sched, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sched)
}

func (h *Handler) Put(c echo.Context) error {
	id, err := doctorPathID(c)
	if err != nil {
		return err
	}
	if !auth.CanActForDoctor(c.Request().Context(), id) {
		return echo.NewHTTPError(http.StatusForbidden, "cannot modify another doctor's schedule")
	}
	var hours json.RawMessage
	if err := c.Bind(&hours); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sched, err := h.svc.Put(c.Request().Context(), id, hours)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sched)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := doctorPathID(c)
	if err != nil {
		return err
	}
	if !auth.CanActForDoctor(c.Request().Context(), id) {
		return echo.NewHTTPError(http.StatusForbidden, "cannot modify another doctor's schedule")
	}
	if err := h.svc.Remove(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
