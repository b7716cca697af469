package generation

// Keyword sets shared by the extractor and scorer. They are deliberately
// cross-language: a line opening with any language's definition keyword marks
// the start of code regardless of the target language.
var (
	// CodeOpeningKeywords mark the first line of real code in a completion
	CodeOpeningKeywords = []string{
		"def ", "class ", "function", "import ", "from ",
		"public ", "#include", "SELECT", "CREATE",
	}

	// PlaceholderMarkers reject a candidate outright (matched case-insensitively)
	PlaceholderMarkers = []string{"TODO", "FIXME", "placeholder", "implement", "pass  #"}

	// StructuralMarkers introduce a function or class
	StructuralMarkers = []string{"def ", "function", "class "}

	// ReturnMarkers indicate the candidate produces a value
	ReturnMarkers = []string{"return "}

	// CommentMarkers open a docstring or comment
	CommentMarkers = []string{`"""`, "'''", "//", "--"}

	// LogicKeywords cover conditionals, loops, exception scope and queries
	LogicKeywords = []string{"if ", "for ", "while ", "try:", "with ", "SELECT", "WHERE"}

	// PenaltyPatterns each cost a fixed amount when present (case-sensitive)
	PenaltyPatterns = []string{"TODO", "FIXME", "pass\n", "..."}
)
