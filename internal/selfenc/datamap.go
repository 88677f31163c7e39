package selfenc

import (
	"fmt"

	"nathanbeddoewebdev/safecore/internal/codec"
	"nathanbeddoewebdev/safecore/internal/data"
)

// ChunkInfo describes one encrypted chunk of a file.
type ChunkInfo struct {
	Index uint64
	// PreHash is the hash of the plaintext chunk.
	PreHash data.Name
	// PostHash is the hash of the sealed chunk and its storage name.
	PostHash data.Name
	// Size is the plaintext length.
	Size uint64
}

// DataMap is everything needed to reassemble a file. Small files are kept
// whole in Content and have no chunks.
type DataMap struct {
	Chunks  []ChunkInfo
	Content []byte
}

// Len returns the plaintext length described by the map.
func (m *DataMap) Len() uint64 {
	if len(m.Chunks) == 0 {
		return uint64(len(m.Content))
	}
	var n uint64
	for _, c := range m.Chunks {
		n += c.Size
	}
	return n
}

// Encode serialises the data map.
func (m *DataMap) Encode() []byte {
	return codec.Marshal(m)
}

// DecodeDataMap parses a serialised data map. Failures are *codec.Error.
func DecodeDataMap(b []byte) (*DataMap, error) {
	var m DataMap
	if err := codec.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *DataMap) MarshalWire(e *codec.Encoder) {
	for i := range m.Chunks {
		e.Message(1, &m.Chunks[i])
	}
	e.Bytes(2, m.Content)
}

func (m *DataMap) UnmarshalField(f codec.Field) error {
	switch f.Num {
	case 1:
		var c ChunkInfo
		if err := f.Message(&c); err != nil {
			return err
		}
		m.Chunks = append(m.Chunks, c)
	case 2:
		b, err := f.Bytes()
		if err != nil {
			return err
		}
		m.Content = b
	}
	return nil
}

func (m *DataMap) Validate() error {
	if len(m.Chunks) > 0 && len(m.Content) > 0 {
		return fmt.Errorf("data map has both chunks and inline content")
	}
	if n := len(m.Chunks); n > 0 && n < minChunks {
		return fmt.Errorf("data map has %d chunks, need at least %d", n, minChunks)
	}
	for i, c := range m.Chunks {
		if c.Index != uint64(i) {
			return fmt.Errorf("chunk %d has index %d", i, c.Index)
		}
	}
	return nil
}

func (c *ChunkInfo) MarshalWire(e *codec.Encoder) {
	e.Uint(1, c.Index)
	e.Bytes(2, c.PreHash[:])
	e.Bytes(3, c.PostHash[:])
	e.Uint(4, c.Size)
}

func (c *ChunkInfo) UnmarshalField(f codec.Field) error {
	var err error
	switch f.Num {
	case 1:
		c.Index, err = f.Uint()
	case 2:
		err = readName(f, &c.PreHash)
	case 3:
		err = readName(f, &c.PostHash)
	case 4:
		c.Size, err = f.Uint()
	}
	return err
}

func readName(f codec.Field, dst *data.Name) error {
	b, err := f.Bytes()
	if err != nil {
		return err
	}
	n, err := data.NameFromBytes(b)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}
