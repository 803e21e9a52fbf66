package session

import "testing"

func existsFrom(paths ...string) func(string) bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return func(p string) bool { return set[p] }
}

func TestEncodeProjectPath(t *testing.T) {
	if got := EncodeProjectPath("/home/ilya.levin/dev/devops"); got != "-home-ilya-levin-dev-devops" {
		t.Fatalf("unexpected encoding: %q", got)
	}
}

func TestDecodeProjectDir_SimplePath(t *testing.T) {
	exists := existsFrom("/home", "/home/user", "/home/user/dev")
	path, ambiguous := decodeProjectDir("-home-user-dev", exists)
	if path != "/home/user/dev" {
		t.Fatalf("unexpected path: %q", path)
	}
	if ambiguous {
		t.Fatal("fully confirmed decode must not be ambiguous")
	}
}

func TestDecodeProjectDir_DottedUsername(t *testing.T) {
	exists := existsFrom("/home", "/home/ilya.levin", "/home/ilya.levin/dev")
	path, ambiguous := decodeProjectDir("-home-ilya-levin-dev", exists)
	if path != "/home/ilya.levin/dev" {
		t.Fatalf("expected dotted component join, got %q", path)
	}
	if ambiguous {
		t.Fatal("confirmed decode must not be ambiguous")
	}
}

func TestDecodeProjectDir_HyphenatedDir(t *testing.T) {
	exists := existsFrom("/opt", "/opt/flex-host-agent")
	path, ambiguous := decodeProjectDir("-opt-flex-host-agent", exists)
	if path != "/opt/flex-host-agent" {
		t.Fatalf("expected hyphen join, got %q", path)
	}
	if ambiguous {
		t.Fatal("confirmed decode must not be ambiguous")
	}
}

func TestDecodeProjectDir_UnconfirmedIsAmbiguous(t *testing.T) {
	path, ambiguous := decodeProjectDir("-gone-project", func(string) bool { return false })
	if path != "/gone/project" {
		t.Fatalf("unexpected fallback path: %q", path)
	}
	if !ambiguous {
		t.Fatal("unconfirmed decode must carry the ambiguity flag")
	}
}

func TestDecodeProjectDir_Root(t *testing.T) {
	path, ambiguous := decodeProjectDir("-", func(string) bool { return false })
	if path != "/" || ambiguous {
		t.Fatalf("expected unambiguous root, got %q ambiguous=%v", path, ambiguous)
	}
}
