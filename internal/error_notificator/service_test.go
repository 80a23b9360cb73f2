package error_notificator

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingInfra struct {
	errs    []error
	details []string
}

func (r *recordingInfra) Notify(_ context.Context, err error, details string) error {
	r.errs = append(r.errs, err)
	r.details = append(r.details, details)
	return nil
}

func TestServiceForwards(t *testing.T) {
	infra := &recordingInfra{}
	svc := NewService(infra)

	boom := errors.New("boom")
	if err := svc.Notify(context.Background(), boom, "save recording"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(infra.errs) != 1 || infra.errs[0] != boom || infra.details[0] != "save recording" {
		t.Errorf("forwarded %v %v", infra.errs, infra.details)
	}
}

func TestNilServiceIsNoop(t *testing.T) {
	var svc *Service
	if err := svc.Notify(context.Background(), errors.New("x"), "y"); err != nil {
		t.Errorf("nil service returned %v", err)
	}
}

func TestLogInfra(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	infra := NewLogInfra(zap.New(core))

	if err := infra.Notify(context.Background(), errors.New("disk full"), "save recording"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if logs.Len() != 1 {
		t.Fatalf("got %d log entries, want 1", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "[error_notificator] save recording" {
		t.Errorf("message = %q", entry.Message)
	}
}
