package service

import "encoding/json"

// jsonCodec marshals plain Go message structs. It is registered under the
// name "json" so both the Connect protocol's application/json content type
// and clients configured with it use encoding/json instead of protojson.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
