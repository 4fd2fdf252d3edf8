package intern

import (
	"bytes"
	"encoding/binary"

	"github.com/pierrec/lz4/v4"
)

// uint32ByteSize is the number of bytes in a uint32.
const uint32ByteSize = 4

// hibernatedTable holds the compressed form of a hibernated table: the
// concatenation of all canonical strings and their lengths, compressed
// independently. A zero count means the table is live.
type hibernatedTable struct {
	blob    []byte
	lengths []byte
	count   int
	blobLen int

	// LZ4 reports incompressible input as a zero-length block; such
	// buffers are kept raw and flagged.
	blobRaw    bool
	lengthsRaw bool
}

// Hibernate compresses the string storage with LZ4 and drops the
// forward index. Call Boot before using the table again; interning or
// resolving against a hibernated table panics.
//
// Tables smaller than HibernationThreshold are left untouched.
func (t *Table) Hibernate() {
	if t.hibernated.count > 0 {
		panic("intern: cannot hibernate an already hibernated Table")
	}

	if len(t.strings) == 0 || len(t.strings) < t.HibernationThreshold {
		return
	}

	blob := make([]byte, 0, t.bytes)
	lengths := make([]uint32, len(t.strings))

	for idx, s := range t.strings {
		blob = append(blob, s...)
		lengths[idx] = uint32(len(s))
	}

	t.hibernated.count = len(t.strings)
	t.hibernated.blobLen = len(blob)
	t.hibernated.blob, t.hibernated.blobRaw = compressBlock(blob)
	t.hibernated.lengths, t.hibernated.lengthsRaw = compressBlock(uint32sToBytes(lengths))

	t.lookup = nil
	t.strings = nil
}

// Boot restores a hibernated table, rebuilding the forward index from
// the decompressed string storage. Booting a live table is a no-op.
func (t *Table) Boot() {
	if t.hibernated.count == 0 {
		return
	}

	blob := uncompressBlock(t.hibernated.blob, t.hibernated.blobLen, t.hibernated.blobRaw)
	lengths := bytesToUint32s(uncompressBlock(
		t.hibernated.lengths,
		t.hibernated.count*uint32ByteSize,
		t.hibernated.lengthsRaw,
	))

	t.strings = make([]string, 0, t.hibernated.count)
	t.lookup = make(map[string]Symbol, t.hibernated.count)

	offset := 0

	for idx, length := range lengths {
		s := string(blob[offset : offset+int(length)])
		offset += int(length)

		t.lookup[s] = Symbol(idx)
		t.strings = append(t.strings, s)
	}

	t.hibernated = hibernatedTable{}
}

// Hibernated reports whether the table is currently hibernated.
func (t *Table) Hibernated() bool {
	return t.hibernated.count > 0
}

// compressBlock compresses data with LZ4, returning the raw input and
// true when the input does not compress.
func compressBlock(data []byte) (compressed []byte, raw bool) {
	buf := make([]byte, lz4.CompressBlockBound(len(data)))

	written, err := lz4.CompressBlock(data, buf, nil)
	if err != nil || written == 0 {
		return data, true
	}

	return buf[:written], false
}

// uncompressBlock reverses compressBlock. originalLen must be the
// uncompressed length recorded at hibernation time.
func uncompressBlock(data []byte, originalLen int, raw bool) []byte {
	if raw {
		return data
	}

	decompressed := make([]byte, originalLen)

	_, err := lz4.UncompressBlock(data, decompressed)
	if err != nil {
		panic("intern: corrupt hibernated Table: " + err.Error())
	}

	return decompressed
}

// uint32sToBytes encodes a uint32 slice as little-endian bytes.
func uint32sToBytes(data []uint32) []byte {
	buf := new(bytes.Buffer)
	buf.Grow(len(data) * uint32ByteSize)

	// Write to a bytes.Buffer cannot fail.
	_ = binary.Write(buf, binary.LittleEndian, data)

	return buf.Bytes()
}

// bytesToUint32s decodes little-endian bytes into a uint32 slice.
func bytesToUint32s(data []byte) []uint32 {
	result := make([]uint32, len(data)/uint32ByteSize)

	_ = binary.Read(bytes.NewReader(data), binary.LittleEndian, result)

	return result
}
