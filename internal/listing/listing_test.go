package listing

import (
	"io/fs"
	"reflect"
	"testing"
	"testing/fstest"

	"github.com/cooperbraun13/webserver/internal/fsys"
)

func TestList(t *testing.T) {
	disk := fsys.Mem{Files: fstest.MapFS{
		"www/b.txt":       {Data: []byte("b")},
		"www/A.txt":       {Data: []byte("A")},
		"www/a.txt":       {Data: []byte("a")},
		"www/zeta/x":      {Data: []byte("x")},
		"www/Alpha/y":     {Data: []byte("y")},
		"www/empty":       {Mode: fs.ModeDir},
		"www/sock":        {Mode: fs.ModeSocket},
		"www/dev":         {Mode: fs.ModeDevice},
		"www/to-dir":      {Data: []byte("zeta"), Mode: fs.ModeSymlink},
		"www/to-file":     {Data: []byte("a.txt"), Mode: fs.ModeSymlink},
		"www/dangling":    {Data: []byte("gone"), Mode: fs.ModeSymlink},
		"www/zeta/nested": {Data: []byte("n")},
	}}

	got, err := List(disk, "/www", false)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Alpha/", "empty/", "to-dir/", "zeta/", "A.txt", "a.txt", "b.txt", "to-file"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("List = %q, want %q", got, want)
	}

	got, err = List(disk, "/www/zeta", true)
	if err != nil {
		t.Fatal(err)
	}
	want = []string{Parent, "nested", "x"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("List(zeta) = %q, want %q", got, want)
	}
}

func TestListEmptyAndMissing(t *testing.T) {
	disk := fsys.Mem{Files: fstest.MapFS{"www": {Mode: fs.ModeDir}}}

	got, err := List(disk, "/www", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("List(empty) = %q, want none", got)
	}

	if _, err := List(disk, "/nope", false); err == nil {
		t.Error("List(missing) succeeded, want error")
	}
}
