package models

import (
	"encoding/json"
	"testing"

	vrerrors "github.com/pders01/visreg/internal/errors"
)

func TestDiffBaseConstructors(t *testing.T) {
	if _, err := NewFilePathBase("", false); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := NewPublicURLBase(""); err == nil {
		t.Error("expected error for empty url")
	}
	if _, err := NewGitRevisionBase(GitRevision{Kind: RevisionCommit, GoldenManifestPath: "golden.json"}); err == nil {
		t.Error("expected error for empty commit")
	}
	if _, err := NewGitRevisionBase(GitRevision{Kind: "bogus", Commit: "abc1234", GoldenManifestPath: "golden.json"}); err == nil {
		t.Error("expected error for unknown kind")
	}

	base, err := NewGitRevisionBase(GitRevision{Kind: RevisionLocalBranch, Commit: "abc1234", GoldenManifestPath: "golden.json", Branch: "main"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if base.Kind() != "git_revision" {
		t.Errorf("expected kind git_revision, got %s", base.Kind())
	}
	if base.String() != "main @ abc1234" {
		t.Errorf("unexpected string: %s", base.String())
	}
}

func TestDiffBaseValidateAfterDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"file path", `{"filePath":{"path":"golden.json","isDefaultLocation":true}}`, false},
		{"public url", `{"publicUrl":{"url":"https://x/golden.json"}}`, false},
		{"none", `{}`, true},
		{"two variants", `{"filePath":{"path":"a"},"publicUrl":{"url":"https://x"}}`, true},
		{"revision without commit", `{"gitRevision":{"kind":"commit","goldenManifestPath":"g.json"}}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var base DiffBase
			if err := json.Unmarshal([]byte(tt.input), &base); err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			err := base.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseApprovalIDs(t *testing.T) {
	ids, err := ParseApprovalIDs("pages/a.html:desktop_windows_chrome@latest, pages/b.html:mobile_ios_safari@latest,")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(ids))
	}
	if ids[1].HTMLFilePath != "pages/b.html" || ids[1].UserAgentAlias != "mobile_ios_safari@latest" {
		t.Errorf("unexpected id: %+v", ids[1])
	}
	if ids[0].String() != "pages/a.html:desktop_windows_chrome@latest" {
		t.Errorf("unexpected wire format: %s", ids[0].String())
	}

	// Last colon wins so the page path may contain colons
	ids, err = ParseApprovalIDs("c:/pages/a.html:desktop_mac_safari@latest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids[0].HTMLFilePath != "c:/pages/a.html" {
		t.Errorf("unexpected path: %s", ids[0].HTMLFilePath)
	}

	for _, bad := range []string{"no-colon", ":alias", "page.html:"} {
		_, err := ParseApprovalIDs(bad)
		if !vrerrors.IsConfiguration(err) {
			t.Errorf("expected ConfigurationError for %q, got %v", bad, err)
		}
	}
}

func TestGoldenManifestSetDelete(t *testing.T) {
	g := GoldenManifest{}
	g.Set("a.html", "https://x/a.html", "ua1", "https://x/a-ua1.png")
	g.Set("a.html", "", "ua2", "https://x/a-ua2.png")

	if url, ok := g.ImageURL("a.html", "ua2"); !ok || url != "https://x/a-ua2.png" {
		t.Errorf("unexpected image url: %q %v", url, ok)
	}
	if g["a.html"].PublicURL != "https://x/a.html" {
		t.Error("public url should be kept when set with empty value")
	}

	clone := g.Clone()
	g.Delete("a.html", "ua1")
	if _, ok := clone.ImageURL("a.html", "ua1"); !ok {
		t.Error("clone should not share screenshot maps")
	}

	g.Delete("a.html", "ua2")
	if _, ok := g["a.html"]; ok {
		t.Error("page with no screenshots should be dropped")
	}
	g.Delete("missing.html", "ua1")
}

func TestNewScreenshotSetSharesPointers(t *testing.T) {
	ua := &UserAgent{Alias: "ua1"}
	a := &Screenshot{UserAgent: ua, TestPageFile: &TestFile{RelativePath: "a.html"}}
	b := &Screenshot{UserAgent: ua, TestPageFile: &TestFile{RelativePath: "b.html"}}

	set := NewScreenshotSet([]*Screenshot{a, b})
	if len(set.ByUserAgent["ua1"]) != 2 {
		t.Fatalf("expected 2 screenshots for ua1, got %d", len(set.ByUserAgent["ua1"]))
	}

	a.CaptureState = CaptureCaptured
	if set.ByPage["a.html"][0].CaptureState != CaptureCaptured {
		t.Error("index should reference the listed screenshot, not a copy")
	}
	if set.Find(ScreenshotKey{PagePath: "b.html", Alias: "ua1"}) != b {
		t.Error("Find should return the indexed pointer")
	}
	if set.Find(ScreenshotKey{PagePath: "b.html", Alias: "ua2"}) != nil {
		t.Error("Find should return nil for unknown key")
	}

	empty := NewScreenshotSet(nil)
	if empty.List == nil {
		t.Error("empty set should encode as an empty list")
	}
}
