package model_test

import (
	"bufio"
	"bytes"
	"testing"

	"threadsched/src/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testID = uuid.MustParse("7f0c6c43-2d6e-4c53-9d1b-6a0f3f7b2a10")

func TestWriteRequest(t *testing.T) {
	buf := &bytes.Buffer{}
	err := (&model.SimulationRequest{
		ID:       testID,
		Priority: model.LOW_PRIORITY,
		Policy:   "dm",
		Timeout:  250,
		Workload: []byte("threads: []\n"),
	}).Write(buf)
	expected := []byte(`ID: 7f0c6c43-2d6e-4c53-9d1b-6a0f3f7b2a10
Priority: 1
Policy: dm
Timeout: 250
Content-Length: 12

threads: []
`)

	assert.Nil(t, err)
	assert.Equal(t, expected, buf.Bytes())
}

func TestReadRequest(t *testing.T) {
	buf := bytes.NewBuffer([]byte(`ID: 7f0c6c43-2d6e-4c53-9d1b-6a0f3f7b2a10
Priority: 0
Policy: hrrn
Timeout: 10
Content-Length: 3

abc`))
	req, err := model.ReadSimulationRequest(bufio.NewReader(buf))

	require.Nil(t, err)
	require.NotNil(t, req)

	assert.Equal(t, testID, req.ID)
	assert.Equal(t, model.HIGH_PRIORITY, req.Priority)
	assert.Equal(t, "hrrn", req.Policy)
	assert.Equal(t, 10, req.Timeout)
	assert.Equal(t, []byte("abc"), req.Workload)
}

// An empty policy header is valid and means "use the workload's policy".
func TestRequestRoundTripEmptyPolicy(t *testing.T) {
	buf := &bytes.Buffer{}
	in := &model.SimulationRequest{ID: testID, Workload: []byte{0x00, 0x01}}
	require.Nil(t, in.Write(buf))

	out, err := model.ReadSimulationRequest(bufio.NewReader(buf))
	require.Nil(t, err)
	assert.Equal(t, "", out.Policy)
	assert.Equal(t, in.Workload, out.Workload)
}

func TestReadRequestFail(t *testing.T) {
	buf := bytes.NewBuffer([]byte(`Priority: 1`))
	res, err := model.ReadSimulationRequest(bufio.NewReader(buf))

	assert.Nil(t, res)
	assert.NotNil(t, err)
}

func TestReadRequestBadPriority(t *testing.T) {
	buf := bytes.NewBuffer([]byte("Priority: 7\n\n"))
	res, err := model.ReadSimulationRequest(bufio.NewReader(buf))

	assert.Nil(t, res)
	assert.NotNil(t, err)
}

func TestReadRequestTruncatedBody(t *testing.T) {
	buf := bytes.NewBuffer([]byte("Content-Length: 10\n\nabc"))
	res, err := model.ReadSimulationRequest(bufio.NewReader(buf))

	assert.Nil(t, res)
	assert.NotNil(t, err)
}

func TestWriteResponse(t *testing.T) {
	buf := &bytes.Buffer{}
	(&model.SimulationResponse{
		ID:     testID,
		Status: model.StatusError,
		Error:  "line one\nline two",
	}).Write(buf)
	expected := []byte(`ID: 7f0c6c43-2d6e-4c53-9d1b-6a0f3f7b2a10
Status: error
Error: line one line two
Content-Length: 0

`)

	assert.Equal(t, expected, buf.Bytes())
}

func TestReadResponse(t *testing.T) {
	buf := bytes.NewBuffer(append([]byte(`ID: 7f0c6c43-2d6e-4c53-9d1b-6a0f3f7b2a10
Status: ok
Error: 
Content-Length: 3

`), 0x00, 0x01, 0x02))
	res, err := model.ReadSimulationResponse(bufio.NewReader(buf))

	require.Nil(t, err)
	require.NotNil(t, res)

	assert.Equal(t, testID, res.ID)
	assert.Equal(t, model.StatusOK, res.Status)
	assert.Equal(t, "", res.Error)
	assert.Equal(t, []byte{0x00, 0x01, 0x02}, res.Report)
}

func TestReadResponseFail(t *testing.T) {
	buf := bytes.NewBuffer([]byte(`Status: ok`))
	res, err := model.ReadSimulationResponse(bufio.NewReader(buf))

	assert.Nil(t, res)
	assert.NotNil(t, err)
}
