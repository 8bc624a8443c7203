package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"threadsched/src/dispatch"
	"threadsched/src/model"
	"threadsched/src/sched"
	"threadsched/src/server/task"
)

// HTTP front end of the simulation service. Runs go through the same task
// scheduler as QUIC requests.
type API struct {
	router    chi.Router
	tasks     task.TaskScheduler
	logger    *slog.Logger
	startTime time.Time
}

func New(tasks task.TaskScheduler, logger *slog.Logger) *API {
	a := &API{
		router:    chi.NewRouter(),
		tasks:     tasks,
		logger:    logger.With("component", "http"),
		startTime: time.Now(),
	}
	a.routes()
	return a
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *API) routes() {
	r := a.router

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(a.logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", a.handleHealth)
		r.Get("/policies", a.handlePolicies)
		r.Post("/simulate", a.handleSimulate)
	})
}

type healthResponse struct {
	Status    string `json:"status"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Pending   int    `json:"pending"`
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondOK(w, RequestIDFromContext(r.Context()), healthResponse{
		Status:    "healthy",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(a.startTime).Round(time.Second).String(),
		Pending:   a.tasks.Pending(),
	})
}

type policiesResponse struct {
	Policies []string `json:"policies"`
	Default  string   `json:"default"`
}

func (a *API) handlePolicies(w http.ResponseWriter, r *http.Request) {
	respondOK(w, RequestIDFromContext(r.Context()), policiesResponse{
		Policies: sched.Names(),
		Default:  sched.DefaultPolicy,
	})
}

type simulateResult struct {
	report *dispatch.Report
	err    error
}

// POST /api/v1/simulate?policy=&priority=high|low&trace=true|false
// with a YAML workload as the body.
func (a *API) handleSimulate(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	q := r.URL.Query()

	policy := q.Get("policy")
	if policy != "" {
		if _, err := sched.New(policy); err != nil {
			respondError(w, reqID, http.StatusBadRequest, ErrCodeValidation, err.Error())
			return
		}
	}

	priority, err := parsePriority(q.Get("priority"))
	if err != nil {
		respondError(w, reqID, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}

	omitTrace := false
	if v := q.Get("trace"); v != "" {
		keep, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, reqID, http.StatusBadRequest, ErrCodeValidation, "trace must be a boolean")
			return
		}
		omitTrace = !keep
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, model.MaxContentLength))
	if err != nil {
		respondError(w, reqID, http.StatusRequestEntityTooLarge, ErrCodeValidation, err.Error())
		return
	}
	workload, err := model.ParseWorkload(body)
	if err != nil {
		respondError(w, reqID, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}

	ctx := r.Context()
	done := make(chan simulateResult, 1)
	err = a.tasks.Enqueue(priority, func() {
		if ctx.Err() != nil {
			done <- simulateResult{err: ctx.Err()}
			return
		}
		report, err := dispatch.Simulate(ctx, workload, dispatch.SimulateOptions{
			Policy:    policy,
			Logger:    a.logger.With("request_id", reqID),
			OmitTrace: omitTrace,
		})
		done <- simulateResult{report: report, err: err}
	})
	if err != nil {
		respondError(w, reqID, http.StatusServiceUnavailable, ErrCodeUnavailable, err.Error())
		return
	}

	select {
	case res := <-done:
		switch {
		case errors.Is(res.err, context.Canceled), errors.Is(res.err, context.DeadlineExceeded):
			respondError(w, reqID, http.StatusServiceUnavailable, ErrCodeCancelled, res.err.Error())
		case res.err != nil:
			respondError(w, reqID, http.StatusInternalServerError, ErrCodeInternal, res.err.Error())
		default:
			respondOK(w, reqID, res.report)
		}
	case <-ctx.Done():
		respondError(w, reqID, http.StatusServiceUnavailable, ErrCodeCancelled, ctx.Err().Error())
	}
}

func parsePriority(s string) (model.Priority, error) {
	switch s {
	case "", "high":
		return model.HIGH_PRIORITY, nil
	case "low":
		return model.LOW_PRIORITY, nil
	default:
		return 0, fmt.Errorf("priority must be high or low, got %q", s)
	}
}
