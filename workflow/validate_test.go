package workflow

import (
	"strings"
	"testing"
)

func TestValidateTask(t *testing.T) {
	tests := []struct {
		name       string
		task       Task
		wantFields []string
	}{
		{
			name:       "valid",
			task:       Task{Prompt: "p", ImplementIn: []string{"a.go", "pkg/b.go"}, ReadOnly: []string{"./c.go"}, Retries: 2},
			wantFields: nil,
		},
		{
			name:       "blank prompt",
			task:       Task{Prompt: "   "},
			wantFields: []string{"prompt"},
		},
		{
			name:       "negative retries",
			task:       Task{Prompt: "p", Retries: -3},
			wantFields: []string{"retries"},
		},
		{
			name:       "bad paths",
			task:       Task{Prompt: "p", ImplementIn: []string{"", "../x.go"}, ReadOnly: []string{"/abs.go", ".."}},
			wantFields: []string{"implement_in[0]", "implement_in[1]", "read_only[0]", "read_only[1]"},
		},
		{
			name:       "empty hook",
			task:       Task{Prompt: "p", After: []HookConfig{{Run: "make"}, {Run: " "}}},
			wantFields: []string{"after[1].run"},
		},
		{
			name:       "everything wrong",
			task:       Task{Retries: -1, After: []HookConfig{{}}},
			wantFields: []string{"prompt", "retries", "after[0].run"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateTask(&tt.task)

			var fields []string
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			if strings.Join(fields, ",") != strings.Join(tt.wantFields, ",") {
				t.Errorf("ValidateTask() fields = %v, want %v (errors: %v)", fields, tt.wantFields, errs)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	e := ValidationError{Field: "retries", Message: "must not be negative"}
	if got := e.Error(); got != "retries: must not be negative" {
		t.Errorf("Error() = %q", got)
	}
}
