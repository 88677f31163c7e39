package coreerr

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nathanbeddoewebdev/safecore/internal/chunkstore"
	"nathanbeddoewebdev/safecore/internal/codec"
	"nathanbeddoewebdev/safecore/internal/config"
	"nathanbeddoewebdev/safecore/internal/data"
	"nathanbeddoewebdev/safecore/internal/events"
	"nathanbeddoewebdev/safecore/internal/selfenc"
	"nathanbeddoewebdev/safecore/internal/transport"
)

// sample returns one error of each kind.
func sample(k Kind) *Error {
	switch k {
	case KindEncodeDecode:
		return FromCodec(&codec.Error{Op: "decode tag", Err: errors.New("truncated")})
	case KindUnexpected:
		return Unexpected("state machine out of sync")
	case KindData:
		return FromData(data.Errorf(data.CodeNoSuchData, ""))
	case KindSelfEncryption:
		return FromSelfEncryption(&selfenc.Error[*chunkstore.Error]{Code: selfenc.CodeIntegrity})
	case KindConfig:
		return FromParse(&config.ParseError{Category: config.CategorySyntax, Err: errors.New("bad")})
	case KindIO:
		return FromIO(errors.New("disk full"))
	case KindTransport:
		return FromTransport(&transport.Error{Op: "dial", Err: errors.New("refused")})
	}
	return &Error{kind: k}
}

func TestKinds_Tables(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != 19 {
		t.Fatalf("expected 19 kinds, got %d", len(kinds))
	}
	seen := make(map[string]bool)
	for _, k := range kinds {
		if kindNames[k] == "" || kindText[k] == "" {
			t.Errorf("kind %d has an empty table entry", k)
		}
		if seen[k.String()] {
			t.Errorf("duplicate kind name %q", k)
		}
		seen[k.String()] = true

		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = (%v, %v), want (%v, true)", k, got, ok, k)
		}
	}
	if _, ok := ParseKind("NoSuchKind"); ok {
		t.Error("ParseKind accepted an unknown name")
	}
	if got := numKinds.String(); got != "Kind(19)" {
		t.Errorf("out of range String = %q", got)
	}
	if numKinds.Wraps() {
		t.Error("out of range kind must not wrap")
	}
}

func TestError_DisplayAndDebugNonEmpty(t *testing.T) {
	for _, k := range Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			e := sample(k)
			if e.Kind() != k {
				t.Fatalf("sample kind = %v", e.Kind())
			}
			if e.Error() == "" {
				t.Error("empty display")
			}
			dbg := e.Debug()
			if !strings.Contains(dbg, "coreerr."+k.String()) {
				t.Errorf("debug %q lacks kind identifier", dbg)
			}
			if strings.Contains(e.Error(), "\n") {
				t.Errorf("display %q spans lines", e.Error())
			}
		})
	}
}

func TestError_Display(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{ErrRequestTimeout, "Request has timed out"},
		{ErrOperationAborted, "Blocking operation was cancelled"},
		{ErrVersionCacheMiss, "No such data found in local version cache"},
		{ErrRootDirectoryExists, "Cannot overwrite a root directory if it already exists"},
		{Unexpected(""), "Unexpected error"},
		{Unexpected("line one\nline two"), "Unexpected: line one line two"},
		{FromData(data.Errorf(data.CodeNoSuchData, "")), "Data error -> requested data not found"},
		{FromTransport(&transport.Error{Op: "dial", Err: errors.New("refused")}), "Transport error: " + (&transport.Error{Op: "dial", Err: errors.New("refused")}).Error()},
		{&Error{kind: numKinds}, "Unknown error Kind(19)"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}

	var nilErr *Error
	if got := nilErr.Error(); got != "<nil>" {
		t.Errorf("nil Error() = %q", got)
	}
	if got := nilErr.Debug(); got != "<nil>" {
		t.Errorf("nil Debug() = %q", got)
	}
	if got := nilErr.Kind(); got != KindUnexpected {
		t.Errorf("nil Kind() = %s, want Unexpected", got)
	}
	if nilErr.Message() != "" || nilErr.Unwrap() != nil {
		t.Error("nil Message/Unwrap must be empty")
	}
}

func TestError_Debug(t *testing.T) {
	e := Unexpected("")
	if got, want := e.Debug(), `Unexpected error - coreerr.Unexpected{""}`; got != want {
		t.Errorf("Debug() = %q, want %q", got, want)
	}

	cause := &codec.Error{Op: "decode tag", Err: errors.New("truncated")}
	got := FromCodec(cause).Debug()
	want := "Error while serialising/deserialising: codec: decode tag: truncated - coreerr.EncodeDecodeError" +
		` -> *codec.Error("codec: decode tag: truncated")` +
		` -> *errors.errorString("truncated")`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Debug mismatch (-want +got):\n%s", diff)
	}

	if got := ErrRequestTimeout.Debug(); got != "Request has timed out - coreerr.RequestTimeout" {
		t.Errorf("signal Debug() = %q", got)
	}
}

func TestError_Format(t *testing.T) {
	e := FromIO(errors.New("disk full"))
	tests := []struct {
		format string
		want   string
	}{
		{"%v", "Io error: disk full"},
		{"%s", "Io error: disk full"},
		{"%q", `"Io error: disk full"`},
		{"%+v", e.Debug()},
		{"%#v", e.Debug()},
		{"%d", "%!d(*coreerr.Error=Io error: disk full)"},
	}
	for _, tt := range tests {
		if got := fmt.Sprintf(tt.format, e); got != tt.want {
			t.Errorf("Sprintf(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
	if got := fmt.Errorf("load: %w", e).Error(); got != "load: Io error: disk full" {
		t.Errorf("wrapped = %q", got)
	}
}

func TestError_Is(t *testing.T) {
	wrapped := fmt.Errorf("get: %w", ErrRequestTimeout)
	if !errors.Is(wrapped, ErrRequestTimeout) {
		t.Error("expected wrapped timeout to match")
	}
	if errors.Is(ErrRequestTimeout, ErrOperationAborted) {
		t.Error("different kinds must not match")
	}
	fresh := &Error{kind: KindRequestTimeout}
	if !errors.Is(fresh, ErrRequestTimeout) {
		t.Error("equal signal kinds must match")
	}

	a := FromIO(errors.New("a"))
	b := FromIO(errors.New("b"))
	if errors.Is(a, b) {
		t.Error("wrapping kinds must not match by kind alone")
	}
	if Unexpected("x").Is(Unexpected("x")) {
		t.Error("message kinds must not match by kind alone")
	}
}

func TestConversions_PreserveCause(t *testing.T) {
	codecErr := &codec.Error{Op: "validate", Err: codec.ErrMissingField}
	dataErr := data.Errorf(data.CodeDataExists, "abc")
	selfErr := &selfenc.Error[*chunkstore.Error]{Code: selfenc.CodeStorage, Storage: &chunkstore.Error{Op: "get", Err: chunkstore.ErrChunkNotFound}}
	transportErr := &transport.Error{Op: "roundtrip", Err: errors.New("reset")}
	ioErr := errors.New("broken pipe")
	parseErr := &config.ParseError{Category: config.CategoryData, Err: errors.New("bad value")}

	tests := []struct {
		name  string
		got   *Error
		kind  Kind
		cause error
	}{
		{"codec", FromCodec(codecErr), KindEncodeDecode, codecErr},
		{"data", FromData(dataErr), KindData, dataErr},
		{"selfenc", FromSelfEncryption(selfErr), KindSelfEncryption, selfErr},
		{"transport", FromTransport(transportErr), KindTransport, transportErr},
		{"io", FromIO(ioErr), KindIO, ioErr},
		{"parse", FromParse(parseErr), KindConfig, parseErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.Kind() != tt.kind {
				t.Errorf("kind = %v, want %v", tt.got.Kind(), tt.kind)
			}
			if tt.got.Unwrap() != tt.cause {
				t.Errorf("Unwrap() = %v, want the original cause", tt.got.Unwrap())
			}
			if !errors.Is(tt.got, tt.cause) {
				t.Error("errors.Is does not reach the cause")
			}
			if !tt.got.Kind().Wraps() {
				t.Error("wrapping kind reports Wraps() == false")
			}
		})
	}

	var ce *chunkstore.Error
	if !errors.As(FromSelfEncryption(selfErr), &ce) || !errors.Is(ce, chunkstore.ErrChunkNotFound) {
		t.Error("storage error not reachable through the self-encryption cause")
	}
}

func TestConversions_Nil(t *testing.T) {
	if FromCodec(nil) != nil || FromData(nil) != nil || FromSelfEncryption(nil) != nil ||
		FromTransport(nil) != nil || FromIO(nil) != nil || FromParse(nil) != nil || FromSend(nil) != nil {
		t.Error("conversion of nil returned non-nil")
	}
	if FromContext(nil) != nil {
		t.Error("FromContext(nil) returned non-nil")
	}
}

func TestFromParse_Categories(t *testing.T) {
	tests := []struct {
		category config.Category
		want     Kind
	}{
		{config.CategoryIO, KindIO},
		{config.CategorySyntax, KindConfig},
		{config.CategoryData, KindConfig},
		{config.CategoryEOF, KindConfig},
		{config.Category(200), KindConfig},
	}
	for _, tt := range tests {
		t.Run(tt.category.String(), func(t *testing.T) {
			pe := &config.ParseError{Category: tt.category, Err: errors.New("x")}
			got := FromParse(pe)
			if got.Kind() != tt.want {
				t.Errorf("kind = %v, want %v", got.Kind(), tt.want)
			}
			if got.Unwrap() != pe {
				t.Error("cause is not the parse error")
			}
		})
	}
}

func TestFromSendAndRecv(t *testing.T) {
	sendErr := &events.SendError{Disconnected: true}
	got := FromSend(sendErr)
	if got.Kind() != KindUnexpected {
		t.Fatalf("kind = %v, want Unexpected", got.Kind())
	}
	if !strings.Contains(got.Message(), sendErr.Error()) {
		t.Errorf("message %q lacks send error text", got.Message())
	}

	if got := FromRecv(events.RecvError{}); got != ErrOperationAborted {
		t.Errorf("FromRecv = %v, want OperationAborted", got)
	}
}

func TestUnexpectedf(t *testing.T) {
	e := Unexpectedf("chunk %d of %d", 2, 3)
	if e.Message() != "chunk 2 of 3" || e.Unwrap() != nil {
		t.Errorf("got %#v", e)
	}
	if ErrRequestTimeout.Message() != "" {
		t.Error("signal kinds have no message")
	}
}
