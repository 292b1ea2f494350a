package availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/healthque/api/internal/platform/auth"
	"github.com/healthque/api/pkg/dates"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor))
	g.GET("/doctors/:id/offdays", h.ListOffDays)
	g.POST("/doctors/:id/offdays", h.AddOffDay)
	g.POST("/doctors/:id/offdays/by-date", h.SetByDate)
	g.GET("/doctors/:id/availability", h.GetAvailability)
	g.PATCH("/offdays/:id/status", h.SetStatus)
	g.DELETE("/offdays/:id", h.RemoveOffDay)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func httpError(err error) error {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "off-day record not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) ListOffDays(c echo.Context) error {
	doctorID, err := pathID(c)
	if err != nil {
		return err
	}
	if !auth.CanActForDoctor(c.Request().Context(), doctorID) {
		return echo.NewHTTPError(http.StatusForbidden, "not allowed for this doctor")
	}

	var f Filter
	if v := c.QueryParam("from"); v != "" {
		d, err := dates.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		f.From = &d
	}
	if v := c.QueryParam("to"); v != "" {
		d, err := dates.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
		f.To = &d
	}
	f.Type = Type(c.QueryParam("type"))

	items, err := h.svc.ListOffDays(c.Request().Context(), doctorID, f)
	if err != nil {
		return httpError(err)
	}
	if items == nil {
		items = []*OffDay{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) AddOffDay(c echo.Context) error {
	doctorID, err := pathID(c)
	if err != nil {
		return err
	}
	if !auth.CanActForDoctor(c.Request().Context(), doctorID) {
		return echo.NewHTTPError(http.StatusForbidden, "not allowed for this doctor")
	}

	var o OffDay
	if err := c.Bind(&o); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	o.DoctorID = doctorID

	if err := h.svc.AddOffDay(c.Request().Context(), &o); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, o)
}

type byDateRequest struct {
	Date   dates.Date   `json:"date"`
	Action ByDateAction `json:"action"`
	Type   Type         `json:"type,omitempty"`
	Reason *string      `json:"reason,omitempty"`
}

func (h *Handler) SetByDate(c echo.Context) error {
	doctorID, err := pathID(c)
	if err != nil {
		return err
	}
	if !auth.CanActForDoctor(c.Request().Context(), doctorID) {
		return echo.NewHTTPError(http.StatusForbidden, "not allowed for this doctor")
	}

	var req byDateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.svc.SetByDate(c.Request().Context(), doctorID, req.Date, req.Action, req.Type, req.Reason)
	if err != nil {
		// Partial failures still touched some records; surface both.
		if result != nil && len(result.Records) > 0 {
			return c.JSON(http.StatusMultiStatus, map[string]interface{}{
				"result": result,
				"error":  err.Error(),
			})
		}
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) GetAvailability(c echo.Context) error {
	doctorID, err := pathID(c)
	if err != nil {
		return err
	}
	if !auth.CanActForDoctor(c.Request().Context(), doctorID) {
		return echo.NewHTTPError(http.StatusForbidden, "not allowed for this doctor")
	}

	from, err := dates.Parse(c.QueryParam("from"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
	}
	to, err := dates.Parse(c.QueryParam("to"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
	}

	days, err := h.svc.ResolveRange(c.Request().Context(), doctorID, from, to)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, days)
}

type statusRequest struct {
	Status *Status `json:"status,omitempty"`
}

func (h *Handler) SetStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.authorizeRecord(c, id); err != nil {
		return err
	}

	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.svc.ToggleStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) RemoveOffDay(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.authorizeRecord(c, id); err != nil {
		return err
	}

	updated, err := h.svc.SoftRemove(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// authorizeRecord checks that the caller may manage the record's doctor.
func (h *Handler) authorizeRecord(c echo.Context, id int64) error {
	rec, err := h.svc.GetOffDay(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	if !auth.CanActForDoctor(c.Request().Context(), rec.DoctorID) {
		return echo.NewHTTPError(http.StatusForbidden, "not allowed for this doctor")
	}
	return nil
}
