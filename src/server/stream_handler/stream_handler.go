package stream_handler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"threadsched/src/dispatch"
	"threadsched/src/model"
	"threadsched/src/server/stream"
	"threadsched/src/server/task"
)

// Time a client has to send its request once the stream is open.
const requestReadTimeout = 10 * time.Second

// Reads simulation requests from incoming streams and hands them to the task
// scheduler, which runs them one at a time in admission order.
type StreamHandler struct {
	tasks  task.TaskScheduler
	logger *slog.Logger
}

func NewStreamHandler(tasks task.TaskScheduler, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{
		tasks:  tasks,
		logger: logger,
	}
}

func (h *StreamHandler) HandleStream(ctx context.Context, s *stream.Stream) {
	_ = s.SetDeadline(time.Now().Add(requestReadTimeout))
	req, err := s.ReadRequest()
	if err != nil {
		h.logger.Warn("invalid request", "error", err)
		s.Close()
		return
	}
	_ = s.SetDeadline(time.Time{})

	log := h.logger.With("request", req.ID, "priority", req.Priority)
	log.Debug("request received", "bytes", len(req.Workload))

	enqueued := time.Now()
	err = h.tasks.Enqueue(req.Priority, func() {
		h.handleRequest(ctx, s, req, enqueued, log)
	})
	if err != nil {
		log.Warn("task enqueue failed", "error", err)
		h.respond(s, errorResponse(req, err), log)
	}
}

func (h *StreamHandler) handleRequest(ctx context.Context, s *stream.Stream,
	req *model.SimulationRequest, enqueued time.Time, log *slog.Logger) {
	waited := time.Since(enqueued)
	if req.Timeout > 0 && waited > time.Duration(req.Timeout)*time.Millisecond {
		log.Warn("request expired before admission", "waited", waited)
		h.respond(s, errorResponse(req, fmt.Errorf("expired after waiting %v for admission", waited)), log)
		return
	}
	if ctx.Err() != nil {
		h.respond(s, errorResponse(req, ctx.Err()), log)
		return
	}

	report, err := dispatch.SimulateYAML(ctx, req.Workload, dispatch.SimulateOptions{
		Policy: req.Policy,
		Logger: log,
	})
	if err != nil {
		log.Info("simulation failed", "error", err)
		h.respond(s, errorResponse(req, err), log)
		return
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		h.respond(s, errorResponse(req, err), log)
		return
	}

	log.Info("simulation done", "policy", report.Policy, "waited", waited,
		"completed", report.Summary.Completed, "misses", report.Summary.DeadlineMisses)
	h.respond(s, &model.SimulationResponse{ID: req.ID, Status: model.StatusOK, Report: data}, log)
}

func (h *StreamHandler) respond(s *stream.Stream, res *model.SimulationResponse, log *slog.Logger) {
	defer s.Close()
	if err := s.WriteResponse(res); err != nil {
		log.Warn("response write failed", "error", err)
	}
}

func errorResponse(req *model.SimulationRequest, err error) *model.SimulationResponse {
	return &model.SimulationResponse{ID: req.ID, Status: model.StatusError, Error: err.Error()}
}
