package shoutout

import (
	"strings"
	"testing"

	"github.com/tbourn/go-shoutout-manager/internal/domain"
)

func TestBuild_SingleName(t *testing.T) {
	tpl := domain.Template{Command: "so", Text: "Check out {streamer}!"}
	got := Build(tpl, []string{"@X"}, english)
	want := Result{Command: "!so Check out @X!", TextOnly: "Check out @X!"}
	if got != want {
		t.Fatalf("Build = %+v; want %+v", got, want)
	}
}

func TestBuild_FirstArgAndAllPlaceholders(t *testing.T) {
	tpl := domain.Template{Command: "raid", FirstArg: "now", Text: "{streamer} go! {Streamer} rocks"}
	got := Build(tpl, []string{"@a", "@b", "@c"}, german)

	wantText := "@a, @b und @c go! @a, @b und @c rocks"
	if got.TextOnly != wantText {
		t.Fatalf("TextOnly = %q", got.TextOnly)
	}
	if got.Command != "!raid now "+wantText {
		t.Fatalf("Command = %q", got.Command)
	}
}

func TestBuild_EmptyNamesRemovesPlaceholder(t *testing.T) {
	tpl := domain.Template{Command: "so", Text: "Hi {STREAMER} and {streamer}"}
	got := Build(tpl, nil, english)
	if strings.Contains(strings.ToLower(got.Command), "{streamer}") {
		t.Fatalf("placeholder left in %q", got.Command)
	}
	if got.TextOnly != "Hi  and " {
		t.Fatalf("TextOnly = %q", got.TextOnly)
	}
}

func TestBuild_ReplacementIsLiteral(t *testing.T) {
	tpl := domain.Template{Command: "so", Text: "{streamer}"}
	got := Build(tpl, []string{"$1", "${0}"}, english)
	if got.TextOnly != "$1 and ${0}" {
		t.Fatalf("TextOnly = %q", got.TextOnly)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	tpl := domain.Template{Command: "so", Text: "{streamer}"}
	names := []string{"@a", "@b", "@c"}
	if Build(tpl, names, english) != Build(tpl, names, english) {
		t.Fatal("Build is not deterministic")
	}
}

func TestPreviewAndHasPlaceholder(t *testing.T) {
	tpl := domain.Template{Command: "so", FirstArg: "x", Text: "see {STREAMER}"}
	if got := Preview(tpl); got != "!so x see {streamer}" {
		t.Fatalf("Preview = %q", got)
	}
	if !HasPlaceholder(tpl.Text) || HasPlaceholder("nothing here") {
		t.Fatal("HasPlaceholder wrong")
	}
}
