package scanner

// Candidate is a syntactically balanced invocation of a recognized loader
// function located by lexical scanning. RawArgs holds the text between the
// outer parentheses, exclusive, including any embedded newlines.
type Candidate struct {
	Function string
	File     string
	Line     int
	RawArgs  string
}

// Issue captures non-fatal diagnostics encountered while scanning files.
type Issue struct {
	File     string `json:"file"`
	Line     int    `json:"line,omitempty"`
	Severity string `json:"severity"` // warning | error
	Message  string `json:"message"`
}
