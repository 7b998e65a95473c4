package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// InterviewsCompleted counts finished interviews by final decision.
	InterviewsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "supplier_verify_interviews_completed_total",
		Help: "Completed supplier interviews by decision.",
	}, []string{"decision"})

	// InterviewFailures counts fatally aborted interviews by phase.
	InterviewFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "supplier_verify_interview_failures_total",
		Help: "Fatally aborted supplier interviews by phase.",
	}, []string{"phase"})

	// CollaboratorErrors counts failed calls to external model services.
	CollaboratorErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "supplier_verify_collaborator_errors_total",
		Help: "Failed external collaborator calls by service.",
	}, []string{"service"})
)
