package coreerr

import "fmt"

// Kind is the failure category of an *Error.
type Kind uint8

const (
	// KindEncodeDecode wraps a *codec.Error.
	KindEncodeDecode Kind = iota
	KindAsymmetricDecipher
	KindSymmetricDecipher
	KindReceivedUnexpectedData
	KindReceivedUnexpectedEvent
	KindVersionCacheMiss
	KindRootDirectoryExists
	KindRandomDataGeneration
	KindOperationForbidden
	// KindUnexpected carries a freeform message describing a violated
	// invariant in this client's own code.
	KindUnexpected
	// KindData wraps a *data.Error.
	KindData
	KindUnsupportedSaltSize
	KindUnsuccessfulPwHash
	KindOperationAborted
	// KindSelfEncryption wraps a *selfenc.Error[*chunkstore.Error].
	KindSelfEncryption
	KindRequestTimeout
	// KindConfig wraps a *config.ParseError whose category is not I/O.
	KindConfig
	// KindIO wraps an error from the OS or io layer.
	KindIO
	// KindTransport wraps a *transport.Error.
	KindTransport

	numKinds
)

// shape describes what an *Error of a given kind holds besides its kind.
type shape uint8

const (
	shapeSignal shape = iota
	shapeMessage
	shapeWrapping
)

// kindNames holds the stable identifier of each kind, as used by Debug and
// by the oplog.
var kindNames = [...]string{
	KindEncodeDecode:            "EncodeDecodeError",
	KindAsymmetricDecipher:      "AsymmetricDecipherFailure",
	KindSymmetricDecipher:       "SymmetricDecipherFailure",
	KindReceivedUnexpectedData:  "ReceivedUnexpectedData",
	KindReceivedUnexpectedEvent: "ReceivedUnexpectedEvent",
	KindVersionCacheMiss:        "VersionCacheMiss",
	KindRootDirectoryExists:     "RootDirectoryExists",
	KindRandomDataGeneration:    "RandomDataGenerationFailure",
	KindOperationForbidden:      "OperationForbidden",
	KindUnexpected:              "Unexpected",
	KindData:                    "DataError",
	KindUnsupportedSaltSize:     "UnsupportedSaltSizeForPwHash",
	KindUnsuccessfulPwHash:      "UnsuccessfulPwHash",
	KindOperationAborted:        "OperationAborted",
	KindSelfEncryption:          "SelfEncryption",
	KindRequestTimeout:          "RequestTimeout",
	KindConfig:                  "ConfigError",
	KindIO:                      "IoError",
	KindTransport:               "TransportError",
}

// kindText holds the display sentence of signal kinds and the prefix that
// precedes the payload text of the others.
var kindText = [...]string{
	KindEncodeDecode:            "Error while serialising/deserialising: ",
	KindAsymmetricDecipher:      "Asymmetric decryption failed",
	KindSymmetricDecipher:       "Symmetric decryption failed",
	KindReceivedUnexpectedData:  "Received unexpected data",
	KindReceivedUnexpectedEvent: "Received unexpected event",
	KindVersionCacheMiss:        "No such data found in local version cache",
	KindRootDirectoryExists:     "Cannot overwrite a root directory if it already exists",
	KindRandomDataGeneration:    "Unable to obtain generator for random data",
	KindOperationForbidden:      "Forbidden operation requested",
	KindUnexpected:              "Unexpected: ",
	KindData:                    "Data error -> ",
	KindUnsupportedSaltSize:     "Unable to pack into or operate with size of Salt",
	KindUnsuccessfulPwHash:      "Unable to complete computation for password hashing",
	KindOperationAborted:        "Blocking operation was cancelled",
	KindSelfEncryption:          "Self-encryption error: ",
	KindRequestTimeout:          "Request has timed out",
	KindConfig:                  "Config file error: ",
	KindIO:                      "Io error: ",
	KindTransport:               "Transport error: ",
}

var kindShapes = [...]shape{
	KindEncodeDecode:            shapeWrapping,
	KindAsymmetricDecipher:      shapeSignal,
	KindSymmetricDecipher:       shapeSignal,
	KindReceivedUnexpectedData:  shapeSignal,
	KindReceivedUnexpectedEvent: shapeSignal,
	KindVersionCacheMiss:        shapeSignal,
	KindRootDirectoryExists:     shapeSignal,
	KindRandomDataGeneration:    shapeSignal,
	KindOperationForbidden:      shapeSignal,
	KindUnexpected:              shapeMessage,
	KindData:                    shapeWrapping,
	KindUnsupportedSaltSize:     shapeSignal,
	KindUnsuccessfulPwHash:      shapeSignal,
	KindOperationAborted:        shapeSignal,
	KindSelfEncryption:          shapeWrapping,
	KindRequestTimeout:          shapeSignal,
	KindConfig:                  shapeWrapping,
	KindIO:                      shapeWrapping,
	KindTransport:               shapeWrapping,
}

// Every table above must have exactly one entry per kind. Adding a kind
// without extending them makes one of these indexes out of range.
var (
	_ = [1]struct{}{}[len(kindNames)-int(numKinds)]
	_ = [1]struct{}{}[len(kindText)-int(numKinds)]
	_ = [1]struct{}{}[len(kindShapes)-int(numKinds)]
)

// String returns the stable identifier of k, e.g. "RequestTimeout".
func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Wraps reports whether errors of kind k carry a subsystem error.
func (k Kind) Wraps() bool {
	return k < numKinds && kindShapes[k] == shapeWrapping
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// ParseKind returns the kind whose identifier is name.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}
