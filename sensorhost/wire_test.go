package sensorhost

import "testing"

func TestRequestRoundTrip(t *testing.T) {
	req := request{op: opWrite, path: []string{"map", "gain", "value"}, data: []byte("0xFF")}
	decoded, err := decodeRequest(encodeRequest(req))
	if err != nil {
		t.Fatal(err)
	}
	if decoded.op != req.op || len(decoded.path) != len(req.path) {
		t.Fatalf("decoded = %+v, want %+v", decoded, req)
	}
	for i := range req.path {
		if decoded.path[i] != req.path[i] {
			t.Errorf("path[%d] = %q, want %q", i, decoded.path[i], req.path[i])
		}
	}
	if string(decoded.data) != string(req.data) {
		t.Errorf("data = %q, want %q", decoded.data, req.data)
	}
}

func TestResponseRoundTripDir(t *testing.T) {
	res := response{isDir: true, listing: []string{"map", "functions"}}
	decoded, err := decodeResponse(encodeResponse(res))
	if err != nil {
		t.Fatal(err)
	}
	if !decoded.isDir || len(decoded.listing) != 2 {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestResponseRoundTripError(t *testing.T) {
	res := response{err: "not found"}
	decoded, err := decodeResponse(encodeResponse(res))
	if err != nil {
		t.Fatal(err)
	}
	if decoded.err != "not found" {
		t.Errorf("err = %q, want \"not found\"", decoded.err)
	}
}
