package pathfs_test

import (
	"errors"
	"testing"

	"github.com/sensorfs/sensorfs/pathfs"
	"github.com/sensorfs/sensorfs/sensorerr"
)

type inner struct {
	Label string
}

type sample struct {
	Name    string `pathfs:"name"`
	Count   int    `pathfs:"count"`
	Secret  string `pathfs:"secret,ro"`
	Hidden  string `pathfs:"hidden,skip"`
	Nested  inner  `pathfs:"nested"`
	Pointer *inner `pathfs:"pointer"`
}

func TestReflectReadStructDirListing(t *testing.T) {
	s := &sample{Name: "x", Count: 1, Nested: inner{Label: "l"}}
	res, err := pathfs.ReflectRead(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsDir {
		t.Fatal("empty path on struct should be a directory")
	}
	want := []string{"name", "count", "secret", "nested", "pointer"}
	if len(res.Listing) != len(want) {
		t.Fatalf("listing = %v, want %v", res.Listing, want)
	}
	for i, w := range want {
		if res.Listing[i] != w {
			t.Errorf("listing[%d] = %q, want %q", i, res.Listing[i], w)
		}
	}
}

func TestReflectReadScalarLeaf(t *testing.T) {
	s := &sample{Count: 42}
	res, err := pathfs.ReflectRead(s, []string{"count"})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsDir || res.Content != "42" {
		t.Errorf("read count = %+v, want file \"42\"", res)
	}
}

func TestReflectReadNotADirectory(t *testing.T) {
	s := &sample{Count: 42}
	_, err := pathfs.ReflectRead(s, []string{"count", "extra"})
	var nd *sensorerr.NotADirectory
	if !errors.As(err, &nd) {
		t.Fatalf("err = %v, want NotADirectory", err)
	}
}

func TestReflectWriteReadOnly(t *testing.T) {
	s := &sample{Secret: "s"}
	err := pathfs.ReflectWrite(s, []string{"secret"}, []byte("new"))
	var ro *sensorerr.ReadOnly
	if !errors.As(err, &ro) {
		t.Fatalf("err = %v, want ReadOnly", err)
	}
}

func TestReflectWriteScalar(t *testing.T) {
	s := &sample{}
	if err := pathfs.ReflectWrite(s, []string{"count"}, []byte("7")); err != nil {
		t.Fatal(err)
	}
	if s.Count != 7 {
		t.Errorf("Count = %d, want 7", s.Count)
	}
}

func TestReflectNilPointerIsNoneLeaf(t *testing.T) {
	s := &sample{}
	res, err := pathfs.ReflectRead(s, []string{"pointer"})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsDir || res.Content != "None" {
		t.Errorf("read nil pointer = %+v, want file \"None\"", res)
	}
}

func TestReflectSkipFieldHidden(t *testing.T) {
	s := &sample{Hidden: "h"}
	res, err := pathfs.ReflectRead(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range res.Listing {
		if name == "hidden" {
			t.Fatal("skip-tagged field appeared in listing")
		}
	}
}
