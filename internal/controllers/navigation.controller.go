package controllers

import (
	"errors"
	"io"
	"io/fs"
	"net/http"

	"fsgraph/internal/models"
	"fsgraph/internal/services"

	"github.com/gin-gonic/gin"
)

// HandleLoadRoot crawls the requested root, or the home directory
func HandleLoadRoot(nav *services.NavigationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoadRootRequest
		if !bindOptionalJSON(c, &req) {
			return
		}

		result, err := nav.LoadRoot(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"rootPath": result.Path,
			"graph":    result.Graph,
			"skipped":  len(result.Skips),
		})
	}
}

// HandleExpand crawls one level below the requested path
func HandleExpand(nav *services.NavigationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.PathRequest
		if !bindOptionalJSON(c, &req) {
			return
		}

		result, err := nav.ExpandNode(c.Request.Context(), req.Path)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"expandedPath": result.Path,
			"graph":        result.Graph,
			"skipped":      len(result.Skips),
		})
	}
}

// HandleParent crawls the parent of the requested path
func HandleParent(nav *services.NavigationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.PathRequest
		if !bindOptionalJSON(c, &req) {
			return
		}

		result, err := nav.Ascend(c.Request.Context(), req.Path)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"parentPath": result.Path,
			"graph":      result.Graph,
			"skipped":    len(result.Skips),
		})
	}
}

// bindOptionalJSON decodes the body into obj; an empty body leaves obj zero
func bindOptionalJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// respondError maps service errors to status codes. The message is the
// error text unmodified.
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"success": false, "error": err.Error()})
}

func statusFor(err error) int {
	var accessErr *services.AccessError
	switch {
	case errors.Is(err, services.ErrMissingPath), errors.Is(err, services.ErrInvalidDepth):
		return http.StatusBadRequest
	case !errors.As(err, &accessErr):
		return http.StatusInternalServerError
	case errors.Is(err, services.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, fs.ErrPermission):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
