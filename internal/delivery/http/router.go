package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"clubmanagement/internal/delivery/http/controllers"
	"clubmanagement/internal/delivery/http/middleware"
	"clubmanagement/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	attendanceController *controllers.AttendanceController,
	registrationController *controllers.RegistrationController,
	certificateController *controllers.CertificateController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Attendance (coordinator/admin)
	mux.HandleFunc("GET /events/{eventID}/attendees", auth(attendanceController.Roster))
	mux.HandleFunc("POST /events/{eventID}/attendance/save", auth(attendanceController.SaveProgress))
	mux.HandleFunc("GET /events/{eventID}/attendance/saved", auth(attendanceController.LoadProgress))
	mux.HandleFunc("POST /events/{eventID}/attendance/submit", auth(attendanceController.Submit))
	mux.HandleFunc("POST /events/{eventID}/attendance/{studentID}", auth(attendanceController.MarkOne))

	// Registration (student)
	mux.HandleFunc("POST /events/{eventID}/register", auth(registrationController.Register))
	mux.HandleFunc("GET /events/{eventID}/registration-status", auth(registrationController.RegistrationStatus))
	mux.HandleFunc("GET /events/{eventID}/registrations", auth(registrationController.ListRegistrants))

	// Certificates
	mux.HandleFunc("GET /students/me/certificates", auth(certificateController.ListMyCertificates))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
