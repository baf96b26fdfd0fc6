package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/engine"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type timetableService interface {
	Validate(ctx context.Context, schoolID string) (*engine.Report, error)
	Generate(ctx context.Context, schoolID string, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error)
	ClassTimetable(ctx context.Context, schoolID, classID, sectionID string) (*dto.TimetableView, error)
	TeacherTimetable(ctx context.Context, schoolID, teacherID string) (*dto.TimetableView, error)
}

// TimetableHandler exposes timetable validation, generation and lookup endpoints.
type TimetableHandler struct {
	service timetableService
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Register mounts the timetable routes on group.
func (h *TimetableHandler) Register(group *gin.RouterGroup) {
	group.GET("/validate/school/:schoolId", h.Validate)
	group.POST("/generate/school/:schoolId", h.Generate)
	group.GET("/class/:schoolId/:classId/:sectionId", h.ClassTimetable)
	group.GET("/teacher/:schoolId/:teacherId", h.TeacherTimetable)
}

// Validate godoc
// @Summary Check whether a school's data can produce a timetable
// @Tags Timetable
// @Produce json
// @Param schoolId path string true "School ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/validate/school/{schoolId} [get]
func (h *TimetableHandler) Validate(c *gin.Context) {
	report, err := h.service.Validate(c.Request.Context(), c.Param("schoolId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// Generate godoc
// @Summary Generate and store the timetable of a school
// @Description Replaces the stored timetable. Feasibility and scheduling failures return 422 with the diagnostic payload in data.
// @Tags Timetable
// @Accept json
// @Produce json
// @Param schoolId path string true "School ID"
// @Param payload body dto.GenerateTimetableRequest false "Generation options"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /timetable/generate/school/{schoolId} [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}

	result, err := h.service.Generate(c.Request.Context(), c.Param("schoolId"), req)
	if err != nil {
		var failure *engine.Failure
		if errors.As(err, &failure) {
			response.ErrorWithData(c, err, failure)
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// ClassTimetable godoc
// @Summary Get the stored timetable of a class section grouped by day
// @Tags Timetable
// @Produce json
// @Param schoolId path string true "School ID"
// @Param classId path string true "Class ID"
// @Param sectionId path string true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/class/{schoolId}/{classId}/{sectionId} [get]
func (h *TimetableHandler) ClassTimetable(c *gin.Context) {
	view, err := h.service.ClassTimetable(c.Request.Context(), c.Param("schoolId"), c.Param("classId"), c.Param("sectionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// TeacherTimetable godoc
// @Summary Get the stored timetable of a teacher grouped by day
// @Tags Timetable
// @Produce json
// @Param schoolId path string true "School ID"
// @Param teacherId path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/teacher/{schoolId}/{teacherId} [get]
func (h *TimetableHandler) TeacherTimetable(c *gin.Context) {
	view, err := h.service.TeacherTimetable(c.Request.Context(), c.Param("schoolId"), c.Param("teacherId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}
