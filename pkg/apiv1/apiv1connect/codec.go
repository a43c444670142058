// Package apiv1connect wires the settleup.v1 services to Connect.
//
// Messages are plain Go structs, so every handler and client is built with a
// JSON codec registered under the "json" name. Browsers and curl can call the
// API with Content-Type: application/json.
package apiv1connect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// CodecName is the Connect codec name used by every service.
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Name() string { return CodecName }

func (jsonCodec) Marshal(msg any) ([]byte, error) { return json.Marshal(msg) }

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// WithJSON returns the option installing the JSON codec. It is applied by
// every constructor in this package.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{})
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{WithJSON()}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{WithJSON()}, opts...)
}
