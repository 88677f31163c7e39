// Package protocol defines the request and response messages exchanged
// between a client and a vault.
package protocol

import (
	"fmt"

	"nathanbeddoewebdev/safecore/internal/codec"
	"nathanbeddoewebdev/safecore/internal/data"
)

// Op is the operation a request asks for.
type Op uint8

const (
	OpPutImmutable Op = iota + 1
	OpGetImmutable
	OpPutMutable
	OpGetMutable
	OpUpdateMutable
)

var opNames = map[Op]string{
	OpPutImmutable:  "put-immutable",
	OpGetImmutable:  "get-immutable",
	OpPutMutable:    "put-mutable",
	OpGetMutable:    "get-mutable",
	OpUpdateMutable: "update-mutable",
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// ResponseType is the shape of a response.
type ResponseType uint8

const (
	// ResponseOK acknowledges a write.
	ResponseOK ResponseType = iota + 1
	// ResponseValue carries Value, and Version for mutable data.
	ResponseValue
	// ResponseError carries ErrCode and ErrMsg.
	ResponseError
)

// Request is sent by the client. ID is echoed in the response.
type Request struct {
	ID      uint64
	Op      Op
	Name    data.Name
	Value   []byte
	Version uint64
}

// Response answers a Request.
type Response struct {
	ID      uint64
	Type    ResponseType
	Value   []byte
	Version uint64
	ErrCode data.Code
	ErrMsg  string
}

// Err returns the data error carried by an error response, or nil.
func (r *Response) Err() *data.Error {
	if r.Type != ResponseError {
		return nil
	}
	return &data.Error{Code: r.ErrCode, Msg: r.ErrMsg}
}

// ErrorResponse builds the response reporting err for request id.
func ErrorResponse(id uint64, err *data.Error) *Response {
	return &Response{ID: id, Type: ResponseError, ErrCode: err.Code, ErrMsg: err.Msg}
}

// Encode serialises the request.
func (r *Request) Encode() []byte { return codec.Marshal(r) }

// Encode serialises the response.
func (r *Response) Encode() []byte { return codec.Marshal(r) }

// DecodeRequest parses a request. Failures are *codec.Error.
func DecodeRequest(b []byte) (*Request, error) {
	var r Request
	if err := codec.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// DecodeResponse parses a response. Failures are *codec.Error.
func DecodeResponse(b []byte) (*Response, error) {
	var r Response
	if err := codec.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Request) MarshalWire(e *codec.Encoder) {
	e.Uint(1, r.ID)
	e.Uint(2, uint64(r.Op))
	e.Bytes(3, r.Name[:])
	e.Bytes(4, r.Value)
	e.Uint(5, r.Version)
}

func (r *Request) UnmarshalField(f codec.Field) error {
	switch f.Num {
	case 1:
		v, err := f.Uint()
		r.ID = v
		return err
	case 2:
		v, err := f.Uint()
		r.Op = Op(v)
		return err
	case 3:
		b, err := f.Bytes()
		if err != nil {
			return err
		}
		r.Name, err = data.NameFromBytes(b)
		return err
	case 4:
		b, err := f.Bytes()
		r.Value = b
		return err
	case 5:
		v, err := f.Uint()
		r.Version = v
		return err
	}
	return nil
}

func (r *Request) Validate() error {
	if _, ok := opNames[r.Op]; !ok {
		return fmt.Errorf("%w: op (got %s)", codec.ErrMissingField, r.Op)
	}
	return nil
}

func (r *Response) MarshalWire(e *codec.Encoder) {
	e.Uint(1, r.ID)
	e.Uint(2, uint64(r.Type))
	e.Bytes(3, r.Value)
	e.Uint(4, r.Version)
	e.Uint(5, uint64(r.ErrCode))
	e.String(6, r.ErrMsg)
}

func (r *Response) UnmarshalField(f codec.Field) error {
	var err error
	switch f.Num {
	case 1:
		r.ID, err = f.Uint()
	case 2:
		var v uint64
		v, err = f.Uint()
		r.Type = ResponseType(v)
	case 3:
		r.Value, err = f.Bytes()
	case 4:
		r.Version, err = f.Uint()
	case 5:
		var v uint64
		v, err = f.Uint()
		r.ErrCode = data.Code(v)
	case 6:
		r.ErrMsg, err = f.String()
	}
	return err
}

func (r *Response) Validate() error {
	if r.Type < ResponseOK || r.Type > ResponseError {
		return fmt.Errorf("%w: type (got %d)", codec.ErrMissingField, r.Type)
	}
	return nil
}
