package client

import (
	"bufio"
	"fmt"
	"os"
	"time"
)

// Writes one CSV row per request with its latency.
type StatisticsLogger struct {
	fileWriter *bufio.Writer
	file       *os.File
	start      time.Time
}

func NewStatisticsLogger(path string) (*StatisticsLogger, error) {
	const header string = "time_ns,request,priority,status,latency_ns\n"

	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	fileWriter := bufio.NewWriter(file)

	if _, err := fileWriter.WriteString(header); err != nil {
		file.Close()
		return nil, err
	}

	return &StatisticsLogger{
		fileWriter: fileWriter,
		file:       file,
		start:      time.Now(),
	}, nil
}

func (s *StatisticsLogger) Log(r Result) error {
	status := "failed"
	if r.Err == nil && r.Response != nil {
		status = string(r.Response.Status)
	}
	row := fmt.Sprintf("%d,%s,%d,%s,%d\n", time.Since(s.start).Nanoseconds(),
		r.Request.ID, r.Request.Priority, status, r.Latency.Nanoseconds())

	_, err := s.fileWriter.WriteString(row)
	return err
}

func (s *StatisticsLogger) Close() error {
	if err := s.fileWriter.Flush(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
