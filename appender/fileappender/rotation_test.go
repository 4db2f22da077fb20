package fileappender

import (
	"errors"
	"path/filepath"
	"sort"
	"testing"

	"github.com/spf13/afero"
)

func seed(t *testing.T, fs afero.Fs, dir string, files map[string]string) {
	t.Helper()
	if err := fs.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := afero.WriteFile(fs, filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func contents(t *testing.T, fs afero.Fs, dir string) map[string]string {
	t.Helper()
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		t.Fatal(err)
	}
	out := make(map[string]string, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		data, err := afero.ReadFile(fs, filepath.Join(dir, info.Name()))
		if err != nil {
			t.Fatal(err)
		}
		out[info.Name()] = string(data)
	}
	return out
}

func assertContents(t *testing.T, got, want map[string]string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("got files %v, want %v", keys(got), keys(want))
	}
	for name, w := range want {
		g, ok := got[name]
		if !ok {
			t.Errorf("missing %s", name)
			continue
		}
		if g != w {
			t.Errorf("%s = %q, want %q", name, g, w)
		}
	}
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestRotate_ShiftsAndDeletesOldest(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "/data/logs"
	seed(t, fs, dir, map[string]string{
		"log.txt":     "current",
		"log1.txt":    "older",
		"log2.txt":    "oldest",
		"notalog.txt": "unrelated",
	})

	if err := Rotate(fs, dir, "log", ".txt", 3); err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}

	assertContents(t, contents(t, fs, dir), map[string]string{
		"log.txt":     "",
		"log1.txt":    "current",
		"log2.txt":    "older",
		"notalog.txt": "unrelated",
	})
}

func TestRotate_EmptyDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, "/logs", nil)

	if err := Rotate(fs, "/logs", "log", ".txt", 6); err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}
	assertContents(t, contents(t, fs, "/logs"), map[string]string{"log.txt": ""})
}

func TestRotate_MultiDigitIndicesAreOrderedNumerically(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := map[string]string{"log.txt": "0"}
	for i := 1; i <= 10; i++ {
		files[NumberedName("log", ".txt", i)] = NumberedName("", "", i)
	}
	seed(t, fs, "/logs", files)

	// 11 files, keep 11: log10 is the oldest and must be the one dropped.
	if err := Rotate(fs, "/logs", "log", ".txt", 11); err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}

	got := contents(t, fs, "/logs")
	if len(got) != 11 {
		t.Fatalf("got %d files %v, want 11", len(got), keys(got))
	}
	if got["log.txt"] != "" {
		t.Errorf("log.txt = %q, want empty", got["log.txt"])
	}
	if got["log1.txt"] != "0" {
		t.Errorf("log1.txt = %q, want 0", got["log1.txt"])
	}
	if got["log10.txt"] != "9" {
		t.Errorf("log10.txt = %q, want 9", got["log10.txt"])
	}
	if _, ok := got["log11.txt"]; ok {
		t.Error("log11.txt should not exist")
	}
}

func TestRotate_KeepAllWhenBelowLimit(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := map[string]string{"log.txt": "0"}
	for i := 1; i <= 10; i++ {
		files[NumberedName("log", ".txt", i)] = NumberedName("", "", i)
	}
	seed(t, fs, "/logs", files)

	if err := Rotate(fs, "/logs", "log", ".txt", 12); err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}

	got := contents(t, fs, "/logs")
	if len(got) != 12 {
		t.Fatalf("got %d files %v, want 12", len(got), keys(got))
	}
	if got["log11.txt"] != "10" {
		t.Errorf("log11.txt = %q, want 10", got["log11.txt"])
	}
}

func TestRotate_MaxFilesOne(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, "/logs", map[string]string{"log.txt": "a", "log1.txt": "b"})

	if err := Rotate(fs, "/logs", "log", ".txt", 1); err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}
	assertContents(t, contents(t, fs, "/logs"), map[string]string{"log.txt": ""})
}

func TestRotate_InvalidMaxFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, "/logs", nil)

	if err := Rotate(fs, "/logs", "log", ".txt", 0); err == nil {
		t.Error("Rotate(maxFiles=0) should fail")
	}
}

func TestRotate_RenameCollisionIsFatal(t *testing.T) {
	fs := afero.NewMemMapFs()
	// log1.txt and log01.txt share index 1, so both claim log2.txt
	seed(t, fs, "/logs", map[string]string{
		"log.txt":   "current",
		"log1.txt":  "one",
		"log01.txt": "zero-one",
	})

	err := Rotate(fs, "/logs", "log", ".txt", 6)
	if !errors.Is(err, ErrRotate) {
		t.Fatalf("Rotate() error = %v, want ErrRotate", err)
	}

	got := contents(t, fs, "/logs")
	if got["log2.txt"] != "one" {
		t.Errorf("log2.txt = %q, want one (must not be overwritten)", got["log2.txt"])
	}
}

func TestListNumbered_ExactMatchOnly(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, "/logs", map[string]string{
		"log.txt":     "",
		"log3.txt":    "",
		"notlog.txt":  "",
		"lognot.txt":  "",
		"log.txtnot":  "",
		"log.nottxt":  "",
		"log.txt.bak": "",
		"log3.txt~":   "",
		"logtxt":      "",
	})
	if err := fs.MkdirAll("/logs/log7.txt", 0755); err != nil {
		t.Fatal(err)
	}

	files, err := ListNumbered(fs, "/logs", "log", ".txt")
	if err != nil {
		t.Fatal(err)
	}

	want := []NumberedFile{{Name: "log3.txt", Index: 3}, {Name: "log.txt", Index: 0}}
	if len(files) != len(want) {
		t.Fatalf("ListNumbered() = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %v, want %v", i, files[i], want[i])
		}
	}
}

func TestListNumbered_PrefixWithRegexpMetacharacters(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, "/logs", map[string]string{
		"app.log.txt": "",
		"appXlog.txt": "",
	})

	files, err := ListNumbered(fs, "/logs", "app.log", ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Name != "app.log.txt" {
		t.Errorf("ListNumbered() = %v, want only app.log.txt", files)
	}
}

func TestNumberedName(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "log.txt"},
		{1, "log1.txt"},
		{12, "log12.txt"},
	}
	for _, tt := range tests {
		if got := NumberedName("log", ".txt", tt.index); got != tt.want {
			t.Errorf("NumberedName(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}
