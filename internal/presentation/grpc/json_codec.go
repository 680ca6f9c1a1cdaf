package grpc

import (
	"bytes"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content-subtype clients select with
// grpc.CallContentSubtype to talk JSON to the lending service.
const CodecName = "json"

func init() {
	encoding.RegisterCodec(strictJSON{})
}

// strictJSON carries the request and response structs as JSON bodies.
// Unknown fields are rejected, matching the REST API.
type strictJSON struct{}

func (strictJSON) Name() string { return CodecName }

func (strictJSON) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json codec: encode %T: %w", v, err)
	}
	return b, nil
}

func (strictJSON) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("json codec: decode %T: %w", v, err)
	}
	return nil
}
