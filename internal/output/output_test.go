package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestPrinter_JSON_Success(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, true, false)

	if err := printer.Success(map[string]any{"destination": "inbox", "sink": "stdout"}); err != nil {
		t.Fatalf("Success() error = %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v\nOutput: %s", err, buf.String())
	}
	if result["destination"] != "inbox" {
		t.Errorf("destination = %v, want inbox", result["destination"])
	}
}

func TestPrinter_Human_SuccessMessage(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	if err := printer.Success(map[string]any{"message": "Delivered to inbox"}); err != nil {
		t.Fatalf("Success() error = %v", err)
	}
	if buf.String() != "Delivered to inbox\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrinter_Human_SuccessSortedKeys(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	_ = printer.Success(map[string]any{"sink": "file", "destination": "inbox"})
	want := "destination: inbox\nsink: file\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrinter_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"user", NewUserError("template has no <<destination>> marker"), ExitUserError},
		{"cancelled", NewCancelledError("cancelled", nil), ExitCancelled},
		{"plain", errors.New("something odd"), ExitUserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf, true, false).Error(tt.err)

			var result map[string]any
			if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
				t.Fatalf("Failed to parse JSON: %v\nOutput: %s", err, buf.String())
			}
			if result["error"] != tt.err.Error() {
				t.Errorf("error = %v, want %q", result["error"], tt.err.Error())
			}
			if code, ok := result["code"].(float64); !ok || int(code) != tt.wantCode {
				t.Errorf("code = %v, want %d", result["code"], tt.wantCode)
			}
		})
	}
}

func TestPrinter_Human_ErrorGoesToStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	printer := NewPrinter(&out, false, false).WithStderr(&errOut)

	printer.Error(NewUserError("unknown template \"nope\""))

	if out.Len() != 0 {
		t.Errorf("stdout = %q, want empty", out.String())
	}
	if got := errOut.String(); got != "Error: unknown template \"nope\"\n" {
		t.Errorf("stderr = %q", got)
	}
}

func TestPrinter_Warn(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false, false).Warn("template %s shadows a built-in", "sample")
	if !strings.Contains(buf.String(), "Warning: template sample shadows a built-in") {
		t.Errorf("output = %q", buf.String())
	}

	buf.Reset()
	NewPrinter(&buf, true, false).Warn("shadowed")
	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if result["warning"] != "shadowed" {
		t.Errorf("warning = %v", result["warning"])
	}
}

func TestPrinter_StderrSilentInJSON(t *testing.T) {
	var out, errOut bytes.Buffer
	NewPrinter(&out, true, false).WithStderr(&errOut).Stderr("hint\n")
	if errOut.Len() != 0 || out.Len() != 0 {
		t.Errorf("Stderr() wrote in JSON mode: out=%q err=%q", out.String(), errOut.String())
	}
}

func TestPrinter_PlainTable(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	printer.Table([]string{"NAME", "SOURCE"}, [][]string{
		{"sample", "built-in"},
		{"weekly-review", "global"},
	})

	want := "NAME           SOURCE\n" +
		"sample         built-in\n" +
		"weekly-review  global\n"
	if buf.String() != want {
		t.Errorf("Table() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestPrinter_StyledTable(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false, true).Table([]string{"NAME"}, [][]string{{"sample"}})
	out := buf.String()
	if !strings.Contains(out, "sample") || !strings.Contains(out, "╭") {
		t.Errorf("styled table missing content or border: %q", out)
	}
}

func TestPrinter_TableNoHeaders(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false, false).Table(nil, [][]string{{"x"}})
	if buf.Len() != 0 {
		t.Errorf("Table() without headers wrote %q", buf.String())
	}
}

func TestPrinter_PlainBox(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false, false).Box("inbox", "My Project\nTask Y")
	if buf.String() != "inbox\n\nMy Project\nTask Y\n" {
		t.Errorf("Box() = %q", buf.String())
	}
}

func TestPrinter_SectionAndKeyValue(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)
	printer.Section("Context")
	printer.KeyValue("key", "Home,Weekday,Fri,am,Morning,09")

	want := "\nContext\n───────\nkey: Home,Weekday,Fri,am,Morning,09\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrinter_PrintAndPrintln(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)
	printer.Print("%s:", "DATE")
	printer.Println(" 03 October 2018")
	if buf.String() != "DATE: 03 October 2018\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestErrorJSON_Format(t *testing.T) {
	var parsed struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	if err := json.Unmarshal(ErrorJSON("cancelled", ExitCancelled), &parsed); err != nil {
		t.Fatalf("Failed to parse ErrorJSON output: %v", err)
	}
	if parsed.Error != "cancelled" || parsed.Code != ExitCancelled {
		t.Errorf("ErrorJSON = %+v", parsed)
	}
}
