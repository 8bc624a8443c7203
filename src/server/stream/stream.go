package stream

import (
	"bufio"
	"io"
	"time"

	"threadsched/src/model"
)

// The part of a transport stream the handler uses. *quic.Stream and
// net.Conn both provide it.
type Conn interface {
	io.Reader
	io.Writer
	io.Closer
	SetDeadline(t time.Time) error
}

// One request/response exchange. A client opens a stream, writes a single
// SimulationRequest and reads back a single SimulationResponse.
type Stream struct {
	inner    Conn
	reader   *bufio.Reader
	isClosed bool
	// Admission priority of the request read from this stream.
	Priority model.Priority
}

func New(inner Conn) *Stream {
	return &Stream{
		inner:  inner,
		reader: bufio.NewReader(inner),
	}
}

func (s *Stream) ReadRequest() (*model.SimulationRequest, error) {
	req, err := model.ReadSimulationRequest(s.reader)
	if err != nil {
		return nil, err
	}
	s.Priority = req.Priority
	return req, nil
}

func (s *Stream) WriteResponse(res *model.SimulationResponse) error {
	return res.Write(s.inner)
}

func (s *Stream) SetDeadline(t time.Time) error {
	return s.inner.SetDeadline(t)
}

// Closes the stream once; later calls are no-ops.
func (s *Stream) Close() error {
	if s.isClosed {
		return nil
	}
	s.isClosed = true
	return s.inner.Close()
}

func (s *Stream) IsClosed() bool {
	return s.isClosed
}
