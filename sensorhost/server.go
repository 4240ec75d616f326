package sensorhost

import (
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/GoAethereal/cancel"
	"github.com/sensorfs/sensorfs/pathfs"
)

// Host is the path-addressable object graph a Server exposes.
// sensor.Sensor satisfies it.
type Host interface {
	IsDir(path []string) (bool, error)
	Read(ctx cancel.Context, path []string) (pathfs.Result, error)
	Write(ctx cancel.Context, path []string, data []byte) error
}

// Server listens on a Unix domain socket and serves Host over the
// length-prefixed request/response framing in wire.go: listen, accept
// loop, one goroutine per connection, context-driven shutdown.
type Server struct {
	mu sync.Mutex
}

// Serve listens on socketPath until ctx is canceled. Any pre-existing
// socket file at socketPath is removed first, matching how Unix socket
// servers conventionally reclaim a stale path left by a prior run.
func (s *Server) Serve(ctx cancel.Context, socketPath string, host Host) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	os.Remove(socketPath)
	l, err := net.Listen("unix", socketPath)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		l.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		default:
			conn, err := l.Accept()
			if err != nil {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.handle(ctx, conn, host)
			}()
		}
	}
}

func (s *Server) handle(ctx cancel.Context, conn net.Conn, host Host) {
	defer conn.Close()
	for {
		buf, err := readFrame(conn)
		if err != nil {
			return
		}
		req, err := decodeRequest(buf)
		if err != nil {
			slog.Warn("sensorhost: malformed request", "err", err)
			return
		}
		res := dispatch(ctx, host, req)
		if err := writeFrame(conn, encodeResponse(res)); err != nil {
			return
		}
	}
}

func dispatch(ctx cancel.Context, host Host, req request) response {
	switch req.op {
	case opIsDir:
		isDir, err := host.IsDir(req.path)
		if err != nil {
			return response{err: err.Error()}
		}
		return response{isDir: isDir}
	case opRead:
		result, err := host.Read(ctx, req.path)
		if err != nil {
			return response{err: err.Error()}
		}
		return response{isDir: result.IsDir, listing: result.Listing, content: result.Content}
	case opWrite:
		if err := host.Write(ctx, req.path, req.data); err != nil {
			return response{err: err.Error()}
		}
		return response{content: ""}
	default:
		return response{err: "sensorhost: unknown opcode"}
	}
}
