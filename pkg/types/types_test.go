package types_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/spectral/spectral/pkg/types"
)

func TestSchedule_Validate(t *testing.T) {
	tests := []struct {
		name     string
		schedule types.Schedule
		wantErr  bool
	}{
		{"empty", types.Schedule{}, true},
		{"single entry", types.Schedule{time.Second}, false},
		{"increasing", types.Schedule{time.Second, 2 * time.Second, 5 * time.Second}, false},
		{"plateau allowed", types.Schedule{time.Second, time.Second, 2 * time.Second}, false},
		{"decreasing", types.Schedule{2 * time.Second, time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schedule.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSchedule_Terminal(t *testing.T) {
	s := types.Schedule{time.Second, 2 * time.Second, 10 * time.Second}
	if s.Terminal() != 10*time.Second {
		t.Errorf("expected terminal 10s, got %s", s.Terminal())
	}
}

func TestTimeoutError_Message(t *testing.T) {
	err := types.NewTimeoutError(types.TimeoutKindWaitFor, "selector #main", 5*time.Second)
	msg := err.Error()
	if !strings.Contains(msg, "5s") || !strings.Contains(msg, "selector #main") {
		t.Errorf("unexpected message: %s", msg)
	}

	bare := types.NewTimeoutError(types.TimeoutKindWaitUntil, "", time.Second)
	if strings.Contains(bare.Error(), ": ") {
		t.Errorf("detail-less message should not have a trailing detail: %s", bare.Error())
	}
}

func TestIsTimeout(t *testing.T) {
	timeout := types.NewTimeoutError(types.TimeoutKindWaitFor, "x", time.Second)

	if !types.IsTimeout(timeout) {
		t.Error("direct timeout error not recognized")
	}
	if !types.IsTimeout(fmt.Errorf("annotated: %w", timeout)) {
		t.Error("wrapped timeout error not recognized")
	}
	if types.IsTimeout(errors.New("session died")) {
		t.Error("plain error misclassified as timeout")
	}
	if types.IsTimeout(nil) {
		t.Error("nil misclassified as timeout")
	}
}
