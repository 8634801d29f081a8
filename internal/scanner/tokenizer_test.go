package scanner

import "testing"

func newTestTokenizer() *Tokenizer {
	return New([]string{"from_pretrained", "load_dataset", "hf_hub_download", "snapshot_download"})
}

func TestScanFindsQualifiedCall(t *testing.T) {
	src := []byte(`from transformers import AutoModel
model = AutoModel.from_pretrained("org/model", revision="main")
`)
	candidates, issues := newTestTokenizer().Scan("train.py", src)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %#v", issues)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	c := candidates[0]
	if c.Function != "from_pretrained" {
		t.Fatalf("expected from_pretrained, got %q", c.Function)
	}
	if c.Line != 2 {
		t.Fatalf("expected line 2, got %d", c.Line)
	}
	if c.RawArgs != `"org/model", revision="main"` {
		t.Fatalf("unexpected raw args %q", c.RawArgs)
	}
}

func TestScanMultiLineCallWithNestedParensAndTrickyString(t *testing.T) {
	src := []byte(`ds = load_dataset(
    "org/data",
    split=pick("train", "test"),
    name="weird, name with ) inside",
)
`)
	candidates, issues := newTestTokenizer().Scan("data.py", src)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %#v", issues)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	want := `
    "org/data",
    split=pick("train", "test"),
    name="weird, name with ) inside",
`
	if candidates[0].RawArgs != want {
		t.Fatalf("unexpected raw args %q", candidates[0].RawArgs)
	}
}

func TestScanIgnoresCallsInsideStringsAndComments(t *testing.T) {
	src := []byte(`# load_dataset("org/data")
doc = "губы load_dataset('org/data') not a call"
block = """
from_pretrained("also/not-real")
"""
real = load_dataset("org/data")
`)
	candidates, _ := newTestTokenizer().Scan("doc.py", src)
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d: %#v", len(candidates), candidates)
	}
	if candidates[0].RawArgs != `"org/data"` {
		t.Fatalf("unexpected raw args %q", candidates[0].RawArgs)
	}
	if candidates[0].Line != 6 {
		t.Fatalf("expected line 6, got %d", candidates[0].Line)
	}
}

func TestScanRequiresTrailingIdentifierBoundary(t *testing.T) {
	src := []byte(`not_from_pretrained("x")
my_load_dataset("y")
hub.snapshot_download("org/model")
`)
	candidates, _ := newTestTokenizer().Scan("mixed.py", src)
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d: %#v", len(candidates), candidates)
	}
	if candidates[0].Function != "snapshot_download" {
		t.Fatalf("expected snapshot_download, got %q", candidates[0].Function)
	}
}

func TestScanUnterminatedCallDiscardedWithIssue(t *testing.T) {
	src := []byte(`model = from_pretrained("org/model",
    revision="main"
`)
	candidates, issues := newTestTokenizer().Scan("broken.py", src)
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates, got %#v", candidates)
	}
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %#v", issues)
	}
	if issues[0].Severity != "warning" || issues[0].Line != 1 {
		t.Fatalf("unexpected issue %#v", issues[0])
	}
}

func TestScanEscapedQuotesDoNotBreakCapture(t *testing.T) {
	src := []byte(`call = hf_hub_download("org/model", filename="say \"hi\" (loudly)")`)
	candidates, issues := newTestTokenizer().Scan("esc.py", src)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %#v", issues)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].RawArgs != `"org/model", filename="say \"hi\" (loudly)"` {
		t.Fatalf("unexpected raw args %q", candidates[0].RawArgs)
	}
}

func TestScanIsRestartable(t *testing.T) {
	src := []byte(`a = load_dataset("one/a")
b = from_pretrained("two/b", revision="dev")
`)
	tok := newTestTokenizer()
	first, _ := tok.Scan("same.py", src)
	second, _ := tok.Scan("same.py", src)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 candidates on both passes, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("pass mismatch at %d: %#v vs %#v", i, first[i], second[i])
		}
	}
}

func TestScanWhitespaceBeforeParen(t *testing.T) {
	src := []byte(`m = AutoModel.from_pretrained ("org/model")`)
	candidates, _ := newTestTokenizer().Scan("space.py", src)
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
}

func TestScanNameWithoutCallIsNotACandidate(t *testing.T) {
	src := []byte(`fn = from_pretrained
value = load_dataset
`)
	candidates, issues := newTestTokenizer().Scan("ref.py", src)
	if len(candidates) != 0 || len(issues) != 0 {
		t.Fatalf("expected nothing, got %#v %#v", candidates, issues)
	}
}
