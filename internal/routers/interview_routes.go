package routers

import (
	"interviewai/interview/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func InterviewRoutes(r *chi.Mux, interviewHandler *handlers.InterviewHandler, feedbackHandler *handlers.FeedbackHandler, healthHandler *handlers.HealthHandler) {
	r.Route("/api/v1/interviews", func(r chi.Router) {
		r.Post("/", interviewHandler.CreateInterviewHandler)
		r.Get("/", interviewHandler.ListInterviewsHandler)
		r.Get("/{id}", interviewHandler.GetInterviewHandler)
		r.Delete("/{id}", interviewHandler.DeleteInterviewHandler)
		r.Get("/{id}/candidates", interviewHandler.ListCandidatesHandler)
		r.Post("/{id}/complete", interviewHandler.CompleteInterviewHandler)
		r.Post("/{id}/feedback", feedbackHandler.SubmitFeedbackHandler)
		r.Get("/{id}/feedback", feedbackHandler.GetFeedbackHandler)

		r.Get("/healthz", healthHandler.HealthzHandler)
		r.Get("/readyz", healthHandler.ReadyzHandler)
	})
}
