// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolms/internal/app/models/dto"
)

// parseID reads the :id path parameter, answering 400 when it is not a number
func parseID(ctx *gin.Context, entity string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+entity+" ID")
		errorDetail = errorDetail.WithDetails(entity + " ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// bindJSON decodes and validates the request body into req
func bindJSON(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}

// writeMode maps PUT to a full update and PATCH to a partial one
func writeMode(ctx *gin.Context) dto.WriteMode {
	if ctx.Request.Method == http.MethodPatch {
		return dto.ModePatch
	}
	return dto.ModeReplace
}
