package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/app/services"
	"github.com/yigit/schoolms/internal/middleware"
)

// LecturerController handles lecturer endpoints
type LecturerController struct {
	lecturerService services.LecturerService
}

// NewLecturerController creates a new LecturerController
func NewLecturerController(lecturerService services.LecturerService) *LecturerController {
	return &LecturerController{lecturerService: lecturerService}
}

// CreateLecturer handles lecturer creation
// @Summary Create a lecturer
// @Tags lecturers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LecturerRequest true "Lecturer information"
// @Success 201 {object} dto.LecturerResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid data or duplicate email"
// @Router /lecturers/ [post]
func (c *LecturerController) CreateLecturer(ctx *gin.Context) {
	var req dto.LecturerRequest
	if !bindJSON(ctx, &req) {
		return
	}

	lecturer, err := c.lecturerService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewLecturerResponse(lecturer))
}

// ListLecturers returns all lecturers
// @Summary List lecturers
// @Tags lecturers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.LecturerResponse
// @Router /lecturers/ [get]
func (c *LecturerController) ListLecturers(ctx *gin.Context) {
	lecturers, err := c.lecturerService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewLecturerResponses(lecturers))
}

// GetLecturer returns a lecturer with subjects and the courses they teach in
// @Summary Get lecturer details
// @Tags lecturers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecturer ID"
// @Success 200 {object} dto.LecturerDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /lecturers/{id}/ [get]
func (c *LecturerController) GetLecturer(ctx *gin.Context) {
	id, ok := parseID(ctx, "lecturer")
	if !ok {
		return
	}

	detail, err := c.lecturerService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewLecturerDetailResponse(detail))
}

// UpdateLecturer handles PUT and PATCH
// @Summary Update a lecturer
// @Tags lecturers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecturer ID"
// @Param request body dto.LecturerRequest true "Lecturer information"
// @Success 200 {object} dto.LecturerResponse
// @Router /lecturers/{id}/ [put]
// @Router /lecturers/{id}/ [patch]
func (c *LecturerController) UpdateLecturer(ctx *gin.Context) {
	id, ok := parseID(ctx, "lecturer")
	if !ok {
		return
	}
	var req dto.LecturerRequest
	if !bindJSON(ctx, &req) {
		return
	}

	lecturer, err := c.lecturerService.Update(ctx.Request.Context(), id, &req, writeMode(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewLecturerResponse(lecturer))
}

// DeleteLecturer deletes a lecturer without subjects
// @Summary Delete a lecturer
// @Tags lecturers
// @Security BearerAuth
// @Param id path int true "Lecturer ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse "Lecturer still teaches subjects"
// @Router /lecturers/{id}/ [delete]
func (c *LecturerController) DeleteLecturer(ctx *gin.Context) {
	id, ok := parseID(ctx, "lecturer")
	if !ok {
		return
	}

	if err := c.lecturerService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
