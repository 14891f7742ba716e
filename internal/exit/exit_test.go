package exit

import (
	"bytes"
	"os"
	"testing"
)

func TestConstructors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		result   *Result
		wantCode int
		wantOut  *os.File
	}{
		{name: "success", result: Success("ok"), wantCode: 0, wantOut: os.Stdout},
		{name: "errorf", result: Errorf("bad %d", 1), wantCode: 1, wantOut: os.Stderr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.result.ExitCode != tt.wantCode {
				t.Fatalf("ExitCode = %d, want %d", tt.result.ExitCode, tt.wantCode)
			}
			if tt.result.Output != tt.wantOut {
				t.Fatalf("Output = %v, want %v", tt.result.Output, tt.wantOut)
			}
		})
	}
}

func TestErrorf(t *testing.T) {
	t.Parallel()

	result := Errorf("Error: %v\n\n%s", "no such file", "usage")
	if want := "Error: no such file\n\nusage"; result.Message != want {
		t.Fatalf("Errorf() Message = %q, want %q", result.Message, want)
	}
}

func TestPrint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	result := &Result{
		Output:   &buf,
		ExitCode: 0,
		Message:  "test output",
	}

	result.Print()

	if buf.String() != "test output" {
		t.Errorf("Print() output = %q, want %q", buf.String(), "test output")
	}
}
