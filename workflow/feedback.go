package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Feedback failure types with a dedicated section in the retry prompt.
const (
	FailureTypeTest   = "test_failure"
	FailureTypeReview = "review_issues"
)

// researchAttempt is the attempt that carries the research block.
const researchAttempt = 2

// RetryPrompt is the result of RetryWithFeedback.
type RetryPrompt struct {
	Prompt         string `json:"prompt"`
	ShouldEscalate bool   `json:"shouldEscalate"`
}

// RetryWithFeedback composes the prompt for retry attempt (1-based) out of
// maxRetries from the original task and structured feedback about the failed
// attempt. Past maxRetries it returns an empty prompt and ShouldEscalate.
//
// feedback["failure_type"] picks the failure section: "test_failure" prints
// feedback["test_output"], "review_issues" prints feedback["review_issues"],
// anything else prints the whole feedback as indented JSON. Section values
// that are not strings are printed as indented JSON; null, false and zero
// print nothing. The output is
// deterministic for a given input.
func RetryWithFeedback(originalPrompt string, feedback map[string]any, attempt, maxRetries int) RetryPrompt {
	if attempt > maxRetries {
		return RetryPrompt{ShouldEscalate: true}
	}

	params := NewParamHelper(feedback)

	var b strings.Builder
	fmt.Fprintf(&b, "RETRY ATTEMPT %d of %d\n\n", attempt, maxRetries)
	fmt.Fprintf(&b, "Original Task:\n%s\n\n", originalPrompt)
	b.WriteString("Previous Attempt Failed:\n")

	switch params.String("failure_type", "") {
	case FailureTypeTest:
		fmt.Fprintf(&b, "Test Output:\n%s\n\n", sectionText(feedback["test_output"]))
	case FailureTypeReview:
		fmt.Fprintf(&b, "Review Issues:\n%s\n\n", sectionText(feedback["review_issues"]))
	default:
		fmt.Fprintf(&b, "%s\n\n", formatFeedback(feedback))
	}

	if attempt == researchAttempt {
		b.WriteString("IMPORTANT - Research Required:\n")
		b.WriteString("Before implementing, research:\n")
		b.WriteString("- Latest API documentation and parameter signatures\n")
		b.WriteString("- Recent breaking changes or deprecations\n")
		b.WriteString("- Updated official examples\n")
		b.WriteString("- Version compatibility issues\n\n")
	}

	b.WriteString("Please fix the issues and try again.\n")
	if attempt == maxRetries {
		b.WriteString("This is your FINAL attempt.\n")
	}

	return RetryPrompt{Prompt: b.String()}
}

// sectionText renders a single feedback value. Strings are printed as-is;
// absent, null, false and zero values print as "".
func sectionText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if !val {
			return ""
		}
	case float64:
		if val == 0 {
			return ""
		}
	case int:
		if val == 0 {
			return ""
		}
	}
	return encodeIndented(v)
}

// formatFeedback renders feedback as JSON indented by two spaces, with map
// keys sorted. Nil feedback renders as {}.
func formatFeedback(feedback map[string]any) string {
	if feedback == nil {
		feedback = map[string]any{}
	}
	return encodeIndented(feedback)
}

func encodeIndented(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
