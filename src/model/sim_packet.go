package model

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Upper bound for a packet body.
const MaxContentLength = 16 << 20

type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

type SimulationRequest struct {
	ID       uuid.UUID
	Priority Priority
	// Overrides the policy named in the workload when set.
	Policy string
	// [milliseconds] If this timeout elapses before the run starts, the
	// request is answered with an error.
	Timeout int
	// YAML workload.
	Workload []byte
}

type SimulationResponse struct {
	ID     uuid.UUID
	Status Status
	Error  string
	// YAML report.
	Report []byte
}

// Write a SimulationRequest.
func (r *SimulationRequest) Write(writer io.Writer) (err error) {
	// Format mimics HTTP:
	// Headers - "Key: Value" separated by \n
	// Followed by empty line
	// Followed by Content-Length bytes of data
	w := bufio.NewWriter(writer)
	_, err = fmt.Fprintf(w,
		"ID: %s\nPriority: %d\nPolicy: %s\nTimeout: %d\nContent-Length: %d\n\n",
		r.ID, r.Priority, r.Policy, r.Timeout, len(r.Workload))
	if err != nil {
		return err
	}
	if _, err = w.Write(r.Workload); err != nil {
		return err
	}
	return w.Flush()
}

// Read a SimulationRequest.
func ReadSimulationRequest(reader *bufio.Reader) (req *SimulationRequest, err error) {
	request := &SimulationRequest{}

	body, err := readPacket(reader, func(key, value string) (err error) {
		switch key {
		case "ID":
			request.ID, err = uuid.Parse(value)
		case "Priority":
			var intValue int
			if intValue, err = strconv.Atoi(value); err != nil {
				return
			}
			if intValue < 0 || intValue >= PRIORITY_LEVEL_COUNT {
				return fmt.Errorf("priority %d out of range", intValue)
			}
			request.Priority = Priority(intValue)
		case "Policy":
			request.Policy = value
		case "Timeout":
			request.Timeout, err = strconv.Atoi(value)
		}
		return
	})
	if err != nil {
		return nil, err
	}

	request.Workload = body
	return request, nil
}

// Write a SimulationResponse.
func (r *SimulationResponse) Write(writer io.Writer) (err error) {
	w := bufio.NewWriter(writer)
	// Error text is kept on one line so it cannot break the header block.
	errText := strings.ReplaceAll(r.Error, "\n", " ")
	_, err = fmt.Fprintf(w,
		"ID: %s\nStatus: %s\nError: %s\nContent-Length: %d\n\n",
		r.ID, r.Status, errText, len(r.Report))
	if err != nil {
		return err
	}
	if _, err = w.Write(r.Report); err != nil {
		return err
	}
	return w.Flush()
}

// Read a SimulationResponse.
func ReadSimulationResponse(reader *bufio.Reader) (res *SimulationResponse, err error) {
	response := &SimulationResponse{}

	body, err := readPacket(reader, func(key, value string) (err error) {
		switch key {
		case "ID":
			response.ID, err = uuid.Parse(value)
		case "Status":
			response.Status = Status(value)
		case "Error":
			response.Error = value
		}
		return
	})
	if err != nil {
		return nil, err
	}

	response.Report = body
	return response, nil
}

// Reads the header block, handing each pair to onHeader, then the body.
func readPacket(reader *bufio.Reader, onHeader func(key, value string) error) (body []byte, err error) {
	contentLength := 0

	for {
		var line string
		if line, err = reader.ReadString('\n'); err != nil {
			return
		}

		line = line[:len(line)-1] // Removes the \n
		if len(line) == 0 {
			body = make([]byte, contentLength)
			_, err = io.ReadFull(reader, body)
			return
		}

		kv := strings.SplitN(line, ":", 2)
		if len(kv) != 2 {
			err = errors.New("not a key value pair")
			return
		}

		key := strings.TrimSpace(kv[0])
		value := strings.TrimSpace(kv[1])

		if key == "Content-Length" {
			if contentLength, err = strconv.Atoi(value); err != nil {
				return
			}
			if contentLength < 0 || contentLength > MaxContentLength {
				err = fmt.Errorf("content length %d out of range", contentLength)
				return
			}
			continue
		}
		if err = onHeader(key, value); err != nil {
			return
		}
	}
}
