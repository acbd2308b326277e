package controllers

import (
	"log/slog"
	"net/http"

	"clubmanagement/internal/delivery/http/helpers"
	"clubmanagement/internal/delivery/http/middleware"
	"clubmanagement/internal/domain"
)

type CertificateController struct {
	Logger  *slog.Logger
	Service domain.CertificateService
}

func NewCertificateController(logger *slog.Logger, svc domain.CertificateService) *CertificateController {
	return &CertificateController{
		Logger:  logger,
		Service: svc,
	}
}

// ListMyCertificatesSuccessResponse is the success response envelope for GET /students/me/certificates (200).
type ListMyCertificatesSuccessResponse struct {
	Data  []*domain.StudentCertificate `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

// ListMyCertificates godoc
// @Summary Get the current user's certificates
// @Description Returns all certificates issued to the authenticated user, newest first, with the event title.
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListMyCertificatesSuccessResponse "data is an array of certificates"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /students/me/certificates [get]
func (c *CertificateController) ListMyCertificates(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	certs, err := c.Service.ListMyCertificates(r.Context(), requester.ID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, certs)
}
