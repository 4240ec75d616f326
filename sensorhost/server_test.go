package sensorhost_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/GoAethereal/cancel"
	"github.com/sensorfs/sensorfs/pathfs"
	"github.com/sensorfs/sensorfs/sensorhost"
)

type fakeHost struct{}

func (fakeHost) IsDir(path []string) (bool, error) {
	return len(path) == 0, nil
}

func (fakeHost) Read(ctx cancel.Context, path []string) (pathfs.Result, error) {
	if len(path) == 0 {
		return pathfs.Dir([]string{"a", "b"}), nil
	}
	return pathfs.File("hello"), nil
}

func (fakeHost) Write(ctx cancel.Context, path []string, data []byte) error {
	return nil
}

func TestServeRoundTrip(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "sensorfs.sock")
	srv := &sensorhost.Server{}
	ctx, stop := cancel.Promote(cancel.New())
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx, sock, fakeHost{}) }()

	var client *sensorhost.Client
	var err error
	for i := 0; i < 50; i++ {
		client, err = sensorhost.Dial(sock)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	isDir, err := client.IsDir(nil)
	if err != nil || !isDir {
		t.Fatalf("IsDir(nil) = %v, %v, want true, nil", isDir, err)
	}

	res, err := client.Read([]string{"a"})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsDir || res.Content != "hello" {
		t.Errorf("Read = %+v, want file \"hello\"", res)
	}

	if err := client.Write([]string{"a"}, []byte("x")); err != nil {
		t.Fatal(err)
	}
}
