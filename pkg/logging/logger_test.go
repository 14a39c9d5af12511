package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger()
	if logger == nil {
		t.Fatal("expected logger instance")
	}
	if _, ok := logger.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("expected JSON formatter, got %T", logger.Formatter)
	}
}

func TestNewLoggerWithService(t *testing.T) {
	logger := NewLoggerWithService("gatekeeper")
	if logger == nil {
		t.Fatal("expected logger instance")
	}
}
