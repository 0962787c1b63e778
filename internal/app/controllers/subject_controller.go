package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/app/services"
	"github.com/yigit/schoolms/internal/middleware"
)

// SubjectController handles subject endpoints
type SubjectController struct {
	subjectService services.SubjectService
}

// NewSubjectController creates a new SubjectController
func NewSubjectController(subjectService services.SubjectService) *SubjectController {
	return &SubjectController{subjectService: subjectService}
}

// CreateSubject handles subject creation
// @Summary Create a subject
// @Description Course and lecturer are required. Every listed student must belong to the subject's course.
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubjectRequest true "Subject information"
// @Success 201 {object} dto.SubjectResponse
// @Failure 400 {object} dto.ErrorResponse "Missing course or lecturer, or cross-course students"
// @Router /subjects/ [post]
func (c *SubjectController) CreateSubject(ctx *gin.Context) {
	var req dto.SubjectRequest
	if !bindJSON(ctx, &req) {
		return
	}

	subject, err := c.subjectService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSubjectResponse(subject))
}

// ListSubjects returns all subjects
// @Summary List subjects
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.SubjectResponse
// @Router /subjects/ [get]
func (c *SubjectController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.subjectService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSubjectResponses(subjects))
}

// GetSubject returns a subject with course, lecturer and students
// @Summary Get subject details
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Success 200 {object} dto.SubjectDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /subjects/{id}/ [get]
func (c *SubjectController) GetSubject(ctx *gin.Context) {
	id, ok := parseID(ctx, "subject")
	if !ok {
		return
	}

	detail, err := c.subjectService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSubjectDetailResponse(detail))
}

// UpdateSubject handles PUT and PATCH. An absent students field keeps the
// current enrollment.
// @Summary Update a subject
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Param request body dto.SubjectRequest true "Subject information"
// @Success 200 {object} dto.SubjectResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /subjects/{id}/ [put]
// @Router /subjects/{id}/ [patch]
func (c *SubjectController) UpdateSubject(ctx *gin.Context) {
	id, ok := parseID(ctx, "subject")
	if !ok {
		return
	}
	var req dto.SubjectRequest
	if !bindJSON(ctx, &req) {
		return
	}

	subject, err := c.subjectService.Update(ctx.Request.Context(), id, &req, writeMode(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSubjectResponse(subject))
}

// DeleteSubject deletes a subject; its students are kept
// @Summary Delete a subject
// @Tags subjects
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Success 204
// @Router /subjects/{id}/ [delete]
func (c *SubjectController) DeleteSubject(ctx *gin.Context) {
	id, ok := parseID(ctx, "subject")
	if !ok {
		return
	}

	if err := c.subjectService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
