package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/kanban-api/internal/authz"
	apierrors "github.com/yukikurage/kanban-api/internal/errors"
	"github.com/yukikurage/kanban-api/internal/middleware"
	"github.com/yukikurage/kanban-api/internal/services"
)

// respondError writes the response for a service error.
func respondError(c *gin.Context, err error) {
	message := err.Error()
	var details apierrors.FieldErrors
	var fieldErr *services.FieldError
	if errors.As(err, &fieldErr) {
		message = fieldErr.Err.Error()
		details = apierrors.FieldErrors{fieldErr.Field: {message}}
	}

	switch services.Kind(err) {
	case services.KindNotFound:
		apierrors.RespondWithError(c, http.StatusNotFound, apiError(apierrors.ErrCodeNotFound, message, details))
	case services.KindPermissionDenied:
		apierrors.Forbidden(c, message)
	case services.KindPolicyViolation:
		apierrors.PolicyViolation(c, message)
	case services.KindValidation:
		apierrors.BadRequestWithDetails(c, message, details)
	case services.KindConflict:
		apierrors.RespondWithError(c, http.StatusConflict, apiError(apierrors.ErrCodeConflict, message, details))
	case services.KindUnauthenticated:
		apierrors.InvalidCredentials(c, message)
	case services.KindUnavailable:
		apierrors.ServiceUnavailable(c, message)
	default:
		_ = c.Error(err)
		logrus.WithError(err).WithField("route", c.FullPath()).Error("request failed")
		apierrors.InternalError(c, "")
	}
}

func apiError(code, message string, details apierrors.FieldErrors) *apierrors.APIError {
	if details == nil {
		return apierrors.NewAPIError(code, message)
	}
	return apierrors.NewAPIErrorWithDetails(code, message, details)
}

// requireAccess returns the access resolved by the route's middleware.
func requireAccess(c *gin.Context) (*authz.Access, bool) {
	access, ok := middleware.GetAccess(c)
	if !ok {
		apierrors.InternalError(c, "Access context missing")
		return nil, false
	}
	return access, true
}

func requireUserID(c *gin.Context) (uint64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return 0, false
	}
	return userID, true
}

func parseIDParam(c *gin.Context, name, label string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+label+" ID")
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return false
	}
	return true
}
