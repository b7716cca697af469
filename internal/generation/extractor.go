package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/codewizard/api/internal/registry"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// MinCodeLength is the shortest extraction that is kept, in characters
const MinCodeLength = 15

// Extraction rejections. They are normal filtering outcomes, not failures.
var (
	ErrNoCode      = errors.New("no code-opening line")
	ErrTooShort    = errors.New("extracted code too short")
	ErrPlaceholder = errors.New("placeholder marker present")
	ErrSyntax      = errors.New("syntax check failed")
)

const fence = "```"

// SyntaxChecker validates a candidate in one language's grammar
type SyntaxChecker interface {
	Check(ctx context.Context, code string) error
}

// Extractor pulls code out of free-form completions
type Extractor struct {
	checkers map[string]SyntaxChecker
}

// NewExtractor returns an extractor with the python grammar registered for
// languages using the parse strategy.
func NewExtractor() *Extractor {
	return &Extractor{
		checkers: map[string]SyntaxChecker{
			"python": PythonChecker{},
		},
	}
}

// WithChecker registers a syntax checker for a language id
func (e *Extractor) WithChecker(languageID string, c SyntaxChecker) *Extractor {
	e.checkers[languageID] = c
	return e
}

// Extract returns the cleaned code, or "" and the rejection reason
func (e *Extractor) Extract(ctx context.Context, raw string, lang registry.Language) (string, error) {
	lines := strings.Split(stripFence(raw), "\n")

	start := -1
	for i, line := range lines {
		if opensCode(strings.TrimSpace(line)) {
			start = i
			break
		}
	}
	if start < 0 {
		return "", ErrNoCode
	}

	code := strings.TrimSpace(strings.Join(lines[start:], "\n"))
	if utf8.RuneCountInString(code) < MinCodeLength {
		return "", ErrTooShort
	}

	lower := strings.ToLower(code)
	for _, marker := range PlaceholderMarkers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return "", fmt.Errorf("%w: %q", ErrPlaceholder, marker)
		}
	}

	if lang.SyntaxCheck == registry.SyntaxCheckParse {
		if checker, ok := e.checkers[lang.ID]; ok {
			if err := checker.Check(ctx, code); err != nil {
				return "", fmt.Errorf("%w: %v", ErrSyntax, err)
			}
		}
	}

	return code, nil
}

// stripFence slices the body of the first fenced block. Without a closing
// fence the text is returned unchanged.
func stripFence(text string) string {
	open := strings.Index(text, fence)
	if open < 0 {
		return text
	}

	body := text[open+len(fence):]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && isFenceTag(body[:nl]) {
		body = body[nl+1:]
	}

	end := strings.Index(body, fence)
	if end < 0 {
		return text
	}
	return body[:end]
}

func isFenceTag(s string) bool {
	for _, r := range strings.TrimSpace(s) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune("+#-_", r) {
			return false
		}
	}
	return true
}

func opensCode(trimmed string) bool {
	for _, kw := range CodeOpeningKeywords {
		if strings.HasPrefix(trimmed, kw) {
			return true
		}
	}
	return false
}

// PythonChecker parses candidates with the tree-sitter python grammar
type PythonChecker struct{}

// Check reports an error if the parse tree contains any error node
func (PythonChecker) Check(ctx context.Context, code string) error {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, []byte(code))
	if err != nil {
		return err
	}
	defer tree.Close()

	if tree.RootNode().HasError() {
		return errors.New("python parse error")
	}
	return nil
}
