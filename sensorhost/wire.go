// Package sensorhost exposes a Host's is_dir/read/write operations over
// a Unix domain socket, framed as a length prefix followed by a fixed
// binary layout, decoded with encoding/binary.
package sensorhost

import (
	"encoding/binary"
	"errors"
	"io"
)

// opcode discriminates a request's kind.
type opcode byte

const (
	opIsDir opcode = iota
	opRead
	opWrite
)

// errFrameTooLarge guards against a malformed length prefix turning
// into an unbounded allocation.
var errFrameTooLarge = errors.New("sensorhost: frame exceeds maximum size")

const maxFrame = 1 << 20

// request is one decoded client call.
type request struct {
	op   opcode
	path []string
	data []byte
}

// response is one encoded reply.
type response struct {
	err     string
	isDir   bool
	listing []string
	content string
}

func writeFrame(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func readFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > maxFrame {
		return nil, errFrameTooLarge
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// encodeRequest lays out: [1 op][2 path segment count][for each: 2 len + bytes][4 data len][data].
func encodeRequest(req request) []byte {
	size := 1 + 2
	for _, seg := range req.path {
		size += 2 + len(seg)
	}
	size += 4 + len(req.data)

	buf := make([]byte, size)
	buf[0] = byte(req.op)
	binary.BigEndian.PutUint16(buf[1:], uint16(len(req.path)))
	off := 3
	for _, seg := range req.path {
		binary.BigEndian.PutUint16(buf[off:], uint16(len(seg)))
		off += 2
		off += copy(buf[off:], seg)
	}
	binary.BigEndian.PutUint32(buf[off:], uint32(len(req.data)))
	off += 4
	copy(buf[off:], req.data)
	return buf
}

func decodeRequest(buf []byte) (request, error) {
	if len(buf) < 3 {
		return request{}, errors.New("sensorhost: short request frame")
	}
	req := request{op: opcode(buf[0])}
	count := binary.BigEndian.Uint16(buf[1:])
	off := 3
	for i := 0; i < int(count); i++ {
		if off+2 > len(buf) {
			return request{}, errors.New("sensorhost: truncated path segment header")
		}
		segLen := int(binary.BigEndian.Uint16(buf[off:]))
		off += 2
		if off+segLen > len(buf) {
			return request{}, errors.New("sensorhost: truncated path segment")
		}
		req.path = append(req.path, string(buf[off:off+segLen]))
		off += segLen
	}
	if off+4 > len(buf) {
		return request{}, errors.New("sensorhost: truncated data length")
	}
	dataLen := int(binary.BigEndian.Uint32(buf[off:]))
	off += 4
	if off+dataLen > len(buf) {
		return request{}, errors.New("sensorhost: truncated data")
	}
	req.data = buf[off : off+dataLen]
	return req, nil
}

// encodeResponse lays out an error as [1 status=1][2 errlen + err], and
// a success as [1 status=0][1 isDir]
// [if dir: 2 count + for each 2 len + bytes][else: 4 contentlen + content].
func encodeResponse(res response) []byte {
	if res.err != "" {
		buf := make([]byte, 1+2+len(res.err))
		buf[0] = 1
		binary.BigEndian.PutUint16(buf[1:], uint16(len(res.err)))
		copy(buf[3:], res.err)
		return buf
	}

	size := 1 + 1
	if res.isDir {
		size += 2
		for _, name := range res.listing {
			size += 2 + len(name)
		}
	} else {
		size += 4 + len(res.content)
	}

	buf := make([]byte, size)
	buf[0] = 0
	off := 1
	if res.isDir {
		buf[off] = 1
		off++
		binary.BigEndian.PutUint16(buf[off:], uint16(len(res.listing)))
		off += 2
		for _, name := range res.listing {
			binary.BigEndian.PutUint16(buf[off:], uint16(len(name)))
			off += 2
			off += copy(buf[off:], name)
		}
	} else {
		buf[off] = 0
		off++
		binary.BigEndian.PutUint32(buf[off:], uint32(len(res.content)))
		off += 4
		copy(buf[off:], res.content)
	}
	return buf
}

func decodeResponse(buf []byte) (response, error) {
	if len(buf) < 1 {
		return response{}, errors.New("sensorhost: empty response frame")
	}
	if buf[0] == 1 {
		if len(buf) < 3 {
			return response{}, errors.New("sensorhost: truncated error response")
		}
		n := int(binary.BigEndian.Uint16(buf[1:]))
		if 3+n > len(buf) {
			return response{}, errors.New("sensorhost: truncated error message")
		}
		return response{err: string(buf[3 : 3+n])}, nil
	}
	if len(buf) < 2 {
		return response{}, errors.New("sensorhost: truncated response")
	}
	res := response{isDir: buf[1] == 1}
	off := 2
	if res.isDir {
		if off+2 > len(buf) {
			return response{}, errors.New("sensorhost: truncated listing count")
		}
		count := int(binary.BigEndian.Uint16(buf[off:]))
		off += 2
		for i := 0; i < count; i++ {
			if off+2 > len(buf) {
				return response{}, errors.New("sensorhost: truncated listing entry header")
			}
			n := int(binary.BigEndian.Uint16(buf[off:]))
			off += 2
			if off+n > len(buf) {
				return response{}, errors.New("sensorhost: truncated listing entry")
			}
			res.listing = append(res.listing, string(buf[off:off+n]))
			off += n
		}
	} else {
		if off+4 > len(buf) {
			return response{}, errors.New("sensorhost: truncated content length")
		}
		n := int(binary.BigEndian.Uint32(buf[off:]))
		off += 4
		if off+n > len(buf) {
			return response{}, errors.New("sensorhost: truncated content")
		}
		res.content = string(buf[off : off+n])
	}
	return res, nil
}
