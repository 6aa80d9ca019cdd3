package environment

import (
	"encoding/binary"
	"fmt"

	"github.com/bastiangx/wordsolve/pkg/words"
)

// Byte layout, all integers big-endian:
//
//	0        strategy id (1)
//	1        starting guess id (2)
//	3        word count W (2)
//	5        target count K (2)
//	7        W records: 5 uppercase letters + 2-byte target rank (0xFFFF = none)
//	7+7W     K target ids
//	7+7W+2K  W*K pattern bytes, row = guess id, column = target rank
const (
	HeaderSize = 7
	RecordSize = words.Length + 2
)

// Header is the fixed prefix of an encoded dataset.
type Header struct {
	Strategy      Strategy
	StartingGuess words.WordID
	Words         int
	Targets       int
}

// EncodedSize is the exact length of a dataset with w words and k targets.
func EncodedSize(w, k int) int {
	return HeaderSize + w*RecordSize + k*2 + w*k
}

// ParseHeader reads the header fields without validating the body.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes is shorter than the %d byte header", ErrDataRead, len(data), HeaderSize)
	}
	return Header{
		Strategy:      Strategy(data[0]),
		StartingGuess: words.WordID(binary.BigEndian.Uint16(data[1:3])),
		Words:         int(binary.BigEndian.Uint16(data[3:5])),
		Targets:       int(binary.BigEndian.Uint16(data[5:7])),
	}, nil
}

// MarshalBinary encodes e in the persisted layout.
func (e *Environment) MarshalBinary() ([]byte, error) {
	w, k := len(e.words), len(e.targets)
	data := make([]byte, 0, EncodedSize(w, k))
	data = append(data, byte(e.strategy))
	data = binary.BigEndian.AppendUint16(data, uint16(e.start))
	data = binary.BigEndian.AppendUint16(data, uint16(w))
	data = binary.BigEndian.AppendUint16(data, uint16(k))
	for _, info := range e.words {
		b := info.Word.Bytes()
		data = append(data, b[:]...)
		data = binary.BigEndian.AppendUint16(data, info.RawRank())
	}
	for _, id := range e.targets {
		data = binary.BigEndian.AppendUint16(data, uint16(id))
	}
	for _, p := range e.patterns {
		data = append(data, byte(p))
	}
	return data, nil
}

// Decode parses and validates an encoded dataset. Any malformed input yields
// an error wrapping ErrDataRead; it never panics.
func Decode(data []byte) (*Environment, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if want := EncodedSize(h.Words, h.Targets); len(data) != want {
		return nil, fmt.Errorf("%w: length %d, header implies %d", ErrDataRead, len(data), want)
	}

	off := HeaderSize
	infos := make([]words.WordInfo, h.Words)
	for i := range infos {
		rec := data[off : off+RecordSize]
		var w words.Word
		for j := 0; j < words.Length; j++ {
			w[j] = words.Letter(rec[j])
		}
		rank := binary.BigEndian.Uint16(rec[words.Length:])
		if rank == words.NoRank {
			infos[i] = words.NewWordInfo(w, -1)
		} else {
			infos[i] = words.NewWordInfo(w, int(rank))
		}
		off += RecordSize
	}

	targets := make([]words.WordID, h.Targets)
	for i := range targets {
		targets[i] = words.WordID(binary.BigEndian.Uint16(data[off : off+2]))
		off += 2
	}

	patterns := make([]words.Pattern, len(data)-off)
	for i, b := range data[off:] {
		patterns[i] = words.Pattern(b)
	}

	e, err := New(infos, targets, patterns, h.Strategy, h.StartingGuess)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataRead, err)
	}
	return e, nil
}
