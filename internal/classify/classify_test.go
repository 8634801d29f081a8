package classify

import (
	"testing"

	"github.com/revscan-dev/revscan/internal/pyargs"
)

func classifyRaw(t *testing.T, raw string) Classification {
	t.Helper()
	return DefaultRules().Classify(pyargs.Parse(raw))
}

func TestClassifyPinnedHashIsSafe(t *testing.T) {
	got := classifyRaw(t, `"org/model", revision="a1b2c3d4e5f60718293a4b5c6d7e8f9012345678"`)
	if got != Safe {
		t.Fatalf("expected safe, got %v", got)
	}
}

func TestClassifyUppercaseHashIsSafe(t *testing.T) {
	got := classifyRaw(t, `"org/model", revision="A1B2C3D4E5F60718293A4B5C6D7E8F9012345678"`)
	if got != Safe {
		t.Fatalf("expected safe, got %v", got)
	}
}

func TestClassifyBranchNameRevisionIsUnsafe(t *testing.T) {
	got := classifyRaw(t, `"org/model", revision="main"`)
	if got != Unsafe {
		t.Fatalf("expected unsafe, got %v", got)
	}
}

func TestClassifyShortHashIsUnsafe(t *testing.T) {
	got := classifyRaw(t, `"org/model", revision="a1b2c3d"`)
	if got != Unsafe {
		t.Fatalf("expected unsafe, got %v", got)
	}
}

func TestClassifyNonLiteralRevisionIsPartial(t *testing.T) {
	for _, raw := range []string{
		`"org/model", revision=branch_var`,
		`"org/model", revision=f"v{n}"`,
		`"org/model", revision="a" + "b"`,
		`"org/model", revision=get_revision()`,
	} {
		if got := classifyRaw(t, raw); got != Partial {
			t.Fatalf("%s: expected partial, got %v", raw, got)
		}
	}
}

func TestClassifyNoRevisionIsUnsafe(t *testing.T) {
	got := classifyRaw(t, `"org/model"`)
	if got != Unsafe {
		t.Fatalf("expected unsafe, got %v", got)
	}
}

func TestClassifyAuthWithoutRevisionIsPartial(t *testing.T) {
	for _, raw := range []string{
		`"org/model", use_auth_token=True`,
		`"org/model", token=my_token`,
	} {
		if got := classifyRaw(t, raw); got != Partial {
			t.Fatalf("%s: expected partial, got %v", raw, got)
		}
	}
}

func TestClassifyLocalFilesOnlyWinsOverRevision(t *testing.T) {
	got := classifyRaw(t, `"org/model", revision="main", local_files_only=True`)
	if got != Safe {
		t.Fatalf("expected safe, got %v", got)
	}
}

func TestClassifyLocalFlagMustBeLiteralTrue(t *testing.T) {
	cases := map[string]Classification{
		`"org/model", local_files_only=False`:   Unsafe,
		`"org/model", local_files_only=offline`: Unsafe,
	}
	for raw, want := range cases {
		if got := classifyRaw(t, raw); got != want {
			t.Fatalf("%s: expected %v, got %v", raw, want, got)
		}
	}
}

func TestClassifyLocalPathIdentifierIsSafe(t *testing.T) {
	for _, raw := range []string{
		`"/opt/models/bert"`,
		`"./checkpoints/latest"`,
		`"~/models/bert"`,
		`"models/bert/v2", revision="main"`,
		`"C:\\models\\bert"`,
	} {
		if got := classifyRaw(t, raw); got != Safe {
			t.Fatalf("%s: expected safe, got %v", raw, got)
		}
	}
}

func TestClassifyHubIdentifierIsNotLocal(t *testing.T) {
	for _, raw := range []string{
		`"org/model"`,
		`"bert-base-uncased"`,
	} {
		if got := classifyRaw(t, raw); got != Unsafe {
			t.Fatalf("%s: expected unsafe, got %v", raw, got)
		}
	}
}

func TestClassifyIdentifierKeywordPreferredOverPositional(t *testing.T) {
	got := classifyRaw(t, `something_else, repo_id="/srv/data/corpus/v1"`)
	if got != Safe {
		t.Fatalf("expected safe, got %v", got)
	}
}

func TestClassifyNonLiteralIdentifierIsNotLocal(t *testing.T) {
	got := classifyRaw(t, `model_path, revision="main"`)
	if got != Unsafe {
		t.Fatalf("expected unsafe, got %v", got)
	}
}

func TestIsLocalPath(t *testing.T) {
	cases := map[string]bool{
		"org/model":          false,
		"bert-base-uncased":  false,
		"/abs/path":          true,
		"~/models":           true,
		"./rel":              true,
		"../up":              true,
		"a/b/c":              true,
		"org/":               true,
		"/model":             true,
		`win\path`:           true,
		"org/./model":        true,
		"dotted.org/model.x": false,
	}
	for value, want := range cases {
		if got := isLocalPath(value); got != want {
			t.Fatalf("isLocalPath(%q) = %v, want %v", value, got, want)
		}
	}
}

func TestNewRulesRejectsBadPattern(t *testing.T) {
	if _, err := NewRules("revision", nil, nil, nil, `[`); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func TestNewRulesDefaultsEmptyPattern(t *testing.T) {
	rules, err := NewRules("revision", nil, nil, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	args := pyargs.Parse(`"org/model", revision="a1b2c3d4e5f60718293a4b5c6d7e8f9012345678"`)
	if got := rules.Classify(args); got != Safe {
		t.Fatalf("expected safe, got %v", got)
	}
}
