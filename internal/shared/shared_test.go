package shared

import (
	"bytes"
	"testing"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{60, "1:00"},
		{187, "3:07"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
		{-10, "0:00"},
	}

	for _, tc := range cases {
		if got := FormatDuration(tc.seconds); got != tc.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == "" || b == "" {
		t.Fatal("expected non-empty ids")
	}
	if a == b {
		t.Error("expected distinct ids")
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("writes to the provided writer", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(buf)

		logger.Info("hello")
		if buf.Len() == 0 {
			t.Error("expected log output in buffer")
		}
	})

	t.Run("nil writer defaults without panicking", func(t *testing.T) {
		if logger := NewLogger(nil); logger == nil {
			t.Fatal("expected a logger")
		}
	})

	t.Run("WithLogger attaches fields", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := WithLogger(NewLogger(buf), "component", "test")

		logger.Info("hello")
		if !bytes.Contains(buf.Bytes(), []byte("component")) {
			t.Errorf("expected component field in output, got %s", buf.String())
		}
	})
}
