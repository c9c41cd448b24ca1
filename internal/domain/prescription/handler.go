package prescription

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sankatmochan/rx/internal/platform/auth"
	"github.com/sankatmochan/rx/pkg/pagination"
)

// MIMEApplicationPDF is the media type of rendered prescriptions.
const MIMEApplicationPDF = "application/pdf"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	write := api.Group("", auth.RequireRole(auth.RolePhysician))
	write.POST("/prescriptions", h.CreatePrescription)

	read := api.Group("", auth.RequireRole(auth.RolePhysician, auth.RoleStaff))
	read.GET("/prescriptions", h.SearchPrescriptions)
	read.GET("/prescriptions/patient/:name", h.PatientHistory)
	read.GET("/prescriptions/:id", h.GetPrescription)
	read.GET("/prescriptions/:id/download", h.DownloadPrescription)
}

func (h *Handler) CreatePrescription(c echo.Context) error {
	var p Prescription
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreatePrescription(c.Request().Context(), &p); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPrescription(c echo.Context) error {
	p, err := h.svc.GetPrescription(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DownloadPrescription(c echo.Context) error {
	p, doc, err := h.svc.RenderPrescription(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", p.Filename()))
	return c.Blob(http.StatusOK, MIMEApplicationPDF, doc)
}

func (h *Handler) PatientHistory(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.PatientHistory(c.Request().Context(), c.Param("name"), pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page(c, pg, items, total))
}

func (h *Handler) SearchPrescriptions(c echo.Context) error {
	term := c.QueryParam("diagnosis")
	if term == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "diagnosis query parameter is required")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.SearchByDiagnosis(c.Request().Context(), term, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page(c, pg, items, total))
}

func page(c echo.Context, pg pagination.Params, items []*Prescription, total int) *pagination.Response {
	if items == nil {
		items = []*Prescription{}
	}
	resp := pagination.NewResponse(items, total, pg.Limit, pg.Offset)
	resp.Links = pg.Links(c.Request().URL, total)
	return resp
}

// httpError maps service errors to client-visible statuses so that a missing
// record and an unprintable record stay distinguishable.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "prescription not found")
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrIncomplete):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}
}
