package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"

	"terraUrbBack/internal/models"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleUser))
	staffMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleCityHall))
	adminMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleAdmin))

	mux := pat.New()

	// Auth
	mux.Post("/auth/register", standardMiddleware.ThenFunc(app.userHandler.Register))
	mux.Post("/auth/verify-email", standardMiddleware.ThenFunc(app.userHandler.VerifyEmail))
	mux.Post("/auth/login", standardMiddleware.ThenFunc(app.userHandler.Login))
	mux.Post("/auth/logout", standardMiddleware.ThenFunc(app.userHandler.Logout))
	mux.Get("/auth/sessions", authMiddleware.ThenFunc(app.userHandler.GetSessions))
	mux.Del("/auth/sessions/:id", authMiddleware.ThenFunc(app.userHandler.RevokeSession))
	mux.Post("/auth/request-reset", standardMiddleware.ThenFunc(app.userHandler.RequestPasswordReset))
	mux.Post("/auth/verify-reset", standardMiddleware.ThenFunc(app.userHandler.VerifyResetCode))
	mux.Post("/auth/reset-password", standardMiddleware.ThenFunc(app.userHandler.ResetPassword))

	// Profile
	mux.Get("/me", authMiddleware.ThenFunc(app.userHandler.GetProfile))
	mux.Put("/me", authMiddleware.ThenFunc(app.userHandler.UpdateProfile))

	// Complaints
	mux.Post("/complaints", authMiddleware.ThenFunc(app.complaintHandler.CreateComplaint))
	mux.Get("/complaints", standardMiddleware.ThenFunc(app.complaintHandler.GetComplaints))
	mux.Get("/complaints/:id", standardMiddleware.ThenFunc(app.complaintHandler.GetComplaintByID))
	mux.Put("/complaints/:id", authMiddleware.ThenFunc(app.complaintHandler.UpdateComplaint))
	mux.Del("/complaints/:id", authMiddleware.ThenFunc(app.complaintHandler.DeleteComplaint))
	mux.Add("PATCH", "/complaints/:id/status", staffMiddleware.ThenFunc(app.complaintHandler.ChangeStatus))
	mux.Get("/complaints/:id/logs", standardMiddleware.ThenFunc(app.complaintHandler.GetHistory))
	mux.Post("/complaints/:id/images", authMiddleware.ThenFunc(app.complaintHandler.UploadImages))

	// Complaint tag associations
	mux.Put("/complaints/:id/tags", authMiddleware.ThenFunc(app.tagHandler.SetComplaintTags))
	mux.Post("/complaints/:id/tags", authMiddleware.ThenFunc(app.tagHandler.AddComplaintTags))
	mux.Del("/complaints/:id/tags", authMiddleware.ThenFunc(app.tagHandler.RemoveComplaintTags))

	// Comments
	mux.Post("/complaints/:id/comments", authMiddleware.ThenFunc(app.commentHandler.CreateComment))
	mux.Get("/complaints/:id/comments", standardMiddleware.ThenFunc(app.commentHandler.GetCommentsByComplaint))
	mux.Put("/comments/:id", authMiddleware.ThenFunc(app.commentHandler.UpdateComment))
	mux.Del("/comments/:id", authMiddleware.ThenFunc(app.commentHandler.DeleteComment))

	// Tags
	mux.Post("/tags", adminMiddleware.ThenFunc(app.tagHandler.CreateTag))
	mux.Get("/tags", standardMiddleware.ThenFunc(app.tagHandler.GetTags))
	mux.Put("/tags/:id", adminMiddleware.ThenFunc(app.tagHandler.RenameTag))
	mux.Del("/tags/:id", adminMiddleware.ThenFunc(app.tagHandler.DeleteTag))

	// Abuse reports
	mux.Post("/reports", authMiddleware.ThenFunc(app.reportHandler.SubmitReport))
	mux.Get("/reports", adminMiddleware.ThenFunc(app.reportHandler.GetReports))
	mux.Put("/reports/:id", adminMiddleware.ThenFunc(app.reportHandler.ResolveReport))
	mux.Add("PATCH", "/reports/:id", adminMiddleware.ThenFunc(app.reportHandler.ResolveReport))
	mux.Del("/reports/:id", adminMiddleware.ThenFunc(app.reportHandler.DeleteReport))
	mux.Del("/moderation/:type/:target_id", adminMiddleware.ThenFunc(app.reportHandler.DeleteReportedContent))

	// Admin users
	mux.Get("/admin/users", adminMiddleware.ThenFunc(app.userHandler.GetAllUsers))
	mux.Add("PATCH", "/admin/users/:id/role", adminMiddleware.ThenFunc(app.userHandler.UpdateUserRole))
	mux.Del("/admin/users/:id", adminMiddleware.ThenFunc(app.userHandler.DeleteUser))

	// Stats
	mux.Get("/stats", staffMiddleware.ThenFunc(app.statsHandler.GetStats))
	mux.Get("/stats/activity", staffMiddleware.ThenFunc(app.statsHandler.GetRecentActivity))

	return mux
}
