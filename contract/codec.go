package contract

import (
	"fmt"

	"google.golang.org/grpc/encoding"
	_ "google.golang.org/grpc/encoding/proto"
	"google.golang.org/grpc/mem"
)

// CodecName is the gRPC content-subtype of every pairchat call.
const CodecName = "proto"

func init() {
	encoding.RegisterCodecV2(wireCodec{fallback: encoding.GetCodecV2(CodecName)})
}

// wireCodec encodes the message types of this package in protobuf wire format
// through their own marshalWire/unmarshalWire methods. Anything else, such as
// generated health or reflection messages, goes to the stock proto codec.
type wireCodec struct {
	fallback encoding.CodecV2
}

func (c wireCodec) Marshal(v any) (mem.BufferSlice, error) {
	m, ok := v.(wireMessage)
	if !ok {
		return c.fallbackCodec(v).Marshal(v)
	}
	return mem.BufferSlice{mem.SliceBuffer(m.marshalWire())}, nil
}

func (c wireCodec) Unmarshal(data mem.BufferSlice, v any) error {
	m, ok := v.(wireMessage)
	if !ok {
		return c.fallbackCodec(v).Unmarshal(data, v)
	}
	return m.unmarshalWire(data.Materialize())
}

func (wireCodec) Name() string {
	return CodecName
}

func (c wireCodec) fallbackCodec(v any) encoding.CodecV2 {
	if c.fallback == nil {
		return unsupportedCodec{}
	}
	return c.fallback
}

type unsupportedCodec struct{}

func (unsupportedCodec) Marshal(v any) (mem.BufferSlice, error) {
	return nil, fmt.Errorf("contract: cannot marshal %T", v)
}

func (unsupportedCodec) Unmarshal(_ mem.BufferSlice, v any) error {
	return fmt.Errorf("contract: cannot unmarshal into %T", v)
}

func (unsupportedCodec) Name() string {
	return CodecName
}
