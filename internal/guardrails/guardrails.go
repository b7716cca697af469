// Package guardrails screens prompts before they reach the generator
package guardrails

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxPromptLength is the longest accepted prompt, in characters
const MaxPromptLength = 1000

// Validation failures, surfaced verbatim to API clients
var (
	ErrEmptyPrompt       = errors.New("Prompt cannot be empty")
	ErrPromptTooLong     = fmt.Errorf("Prompt exceeds maximum length of %d characters", MaxPromptLength)
	ErrRestrictedPattern = errors.New("Request contains restricted patterns. Please modify your request.")
)

// Patterns are matched against the lowercased prompt
var Patterns = compile(
	`drop\s+table`,
	`delete\s+from`,
	`truncate\s+table`,
	`exec\s*\(`,
	`eval\s*\(`,
	`system\s*\(`,
	`os\.system`,
	`subprocess`,
	`__import__`,
	`base64\s*decode`,
	`password\s*=`,
	`api[_-]?key`,
	`secret\s*=`,
	`rm\s+-rf`,
	`chmod\s+777`,
	`sudo`,
	`curl.*exec`,
	`wget.*exec`,
)

// Descriptions summarize the applied guardrails for clients
var Descriptions = []string{
	"No SQL injection patterns",
	"No malicious code execution",
	"No buffer overflow attempts",
	"No credential exposure",
	"No system command injection",
	"No privilege escalation",
	"No command chaining",
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// Violation describes which restricted pattern a prompt matched
type Violation struct {
	Pattern string
}

func (v *Violation) Error() string {
	return ErrRestrictedPattern.Error()
}

func (v *Violation) Unwrap() error {
	return ErrRestrictedPattern
}

// ValidatePrompt returns nil when the prompt may be sent to the generator
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrEmptyPrompt
	}
	if utf8.RuneCountInString(prompt) > MaxPromptLength {
		return ErrPromptTooLong
	}

	lower := strings.ToLower(prompt)
	for _, p := range Patterns {
		if p.MatchString(lower) {
			return &Violation{Pattern: p.String()}
		}
	}
	return nil
}
