package client

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/quic-go/quic-go"

	"threadsched/src/client/netstats"
	"threadsched/src/model"
	"threadsched/src/transport"
)

var ErrNotConnected = errors.New("client not connected")

type Options struct {
	// Server address, host:port.
	Addr string
	// Requests in flight at once.
	Concurrency int
	// Per-request deadline; zero waits forever.
	Timeout time.Duration
}

// Outcome of one request sent by RequestAll.
type Result struct {
	Request  *model.SimulationRequest
	Response *model.SimulationResponse
	Latency  time.Duration
	Err      error
}

// Submits simulation requests to a server over one QUIC connection, one
// stream per request.
type Client struct {
	options Options
	logger  *slog.Logger

	connection     *quic.Conn
	statsCollector *netstats.StatsCollector
}

func NewClient(options Options, logger *slog.Logger) *Client {
	if options.Concurrency < 1 {
		options.Concurrency = 1
	}
	return &Client{
		options:        options,
		logger:         logger,
		statsCollector: netstats.New(100),
	}
}

func (c *Client) Connect(ctx context.Context) (err error) {
	c.logger.Debug("connecting", "addr", c.options.Addr)
	c.connection, err = quic.DialAddr(ctx, c.options.Addr, transport.ClientTLSConfig(), transport.ClientQUICConfig())
	if err != nil {
		return err
	}
	c.logger.Debug("connected", "addr", c.options.Addr)
	return nil
}

func (c *Client) Close() error {
	if c.connection == nil {
		return nil
	}
	return c.connection.CloseWithError(0, "")
}

func (c *Client) Stats() *netstats.StatsCollector {
	return c.statsCollector
}

// Sends one request on a fresh stream and waits for its response.
func (c *Client) Request(ctx context.Context, r *model.SimulationRequest) (*model.SimulationResponse, error) {
	if c.connection == nil {
		return nil, ErrNotConnected
	}
	if c.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.options.Timeout)
		defer cancel()
	}

	stream, err := c.connection.OpenStreamSync(ctx)
	if err != nil {
		return nil, err
	}
	defer stream.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = stream.SetDeadline(deadline)
	}

	c.statsCollector.RecordSend(r.ID)
	if err := r.Write(stream); err != nil {
		c.statsCollector.Forget(r.ID)
		return nil, err
	}

	response, err := model.ReadSimulationResponse(bufio.NewReader(stream))
	if err != nil {
		c.statsCollector.Forget(r.ID)
		return nil, err
	}
	c.statsCollector.RecordRecv(r.ID, len(response.Report))
	return response, nil
}

// Sends every request, at most Concurrency at a time. Results come back in
// request order.
func (c *Client) RequestAll(ctx context.Context, requests []*model.SimulationRequest) []Result {
	results := make([]Result, len(requests))
	semaphore := NewSemaphore(c.options.Concurrency)

	var waitGroup sync.WaitGroup
	for i, r := range requests {
		waitGroup.Add(1)
		semaphore.Acquire()
		go func() {
			defer func() {
				semaphore.Release()
				waitGroup.Done()
			}()

			start := time.Now()
			response, err := c.Request(ctx, r)
			results[i] = Result{
				Request:  r,
				Response: response,
				Latency:  time.Since(start),
				Err:      err,
			}
			if err != nil {
				c.logger.Warn("request failed", "request", r.ID, "error", err)
			}
		}()
	}
	waitGroup.Wait()

	return results
}
