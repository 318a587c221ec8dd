package manifest

import "testing"

func TestToPascalCase(t *testing.T) {
	tests := map[string]string{
		"intro":      "Intro",
		"my-intro":   "MyIntro",
		"act1/intro": "Act1Intro",
		"myScript":   "MyScript",
		"snake_case": "SnakeCase",
		"v2.final":   "V2Final",
	}
	for in, want := range tests {
		if got := ToPascalCase(in); got != want {
			t.Errorf("ToPascalCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestScriptName(t *testing.T) {
	tests := []struct {
		dir, path, want string
	}{
		{"/p/scripts", "/p/scripts/intro.ink", "intro"},
		{"/p/scripts", "/p/scripts/act1/intro.ink", "act1/intro"},
		{"/p/scripts", "/elsewhere/outro.ink", "outro"},
	}
	for _, tc := range tests {
		if got := ScriptName(tc.dir, tc.path); got != tc.want {
			t.Errorf("ScriptName(%q, %q) = %q, want %q", tc.dir, tc.path, got, tc.want)
		}
	}
}

func TestIsValidPackageName(t *testing.T) {
	for _, name := range []string{"dialogue", "lines2", "vn_script"} {
		if !IsValidPackageName(name) {
			t.Errorf("IsValidPackageName(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"", "func", "2lines", "Dialogue", "my-pkg"} {
		if IsValidPackageName(name) {
			t.Errorf("IsValidPackageName(%q) = true, want false", name)
		}
	}
}
