package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestSend_FallsBackToStdout(t *testing.T) {
	t.Setenv("PATH", t.TempDir()) // no notify-send here

	var out bytes.Buffer
	n := New(nil)
	n.out = &out

	n.Send(context.Background(), "Key Light", "turned on")

	got := out.String()
	if !strings.Contains(got, "Key Light") || !strings.Contains(got, "turned on") {
		t.Errorf("fallback output = %q, want summary and body present", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Errorf("fallback output %q should end with a newline", got)
	}
}

func TestSend_NeverPanicsWithoutNotifier(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	n := New(nil)
	n.out = &bytes.Buffer{}

	// Best effort delivery must tolerate repeated calls
	for i := 0; i < 3; i++ {
		n.Send(context.Background(), "Key Light", "brightness 50%")
	}
}
