package voice

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/klauspost/compress/gzip"

	platformerrors "kokorod/internal/platform/errors"
)

// Pack file layout, little-endian throughout:
//
//	magic   [4]byte "KVP1"
//	version uint16
//	count   uint32
//	directory, count entries of:
//	    nameLen uint16
//	    name    [nameLen]byte
//	    offset  uint64  (into the blob, in bytes)
//	    length  uint64  (must equal TensorLen*4)
//	blob    count*TensorLen float32
const (
	packMagic   = "KVP1"
	packVersion = 1
)

const tensorBytes = TensorLen * 4

// Pack is the immutable set of voices loaded from one pack file.
type Pack struct {
	path   string
	voices map[string]*Voice
	ids    []string

	unknownHits atomic.Int64
}

// LoadPack reads a voice pack from disk. Paths ending in .gz are
// decompressed transparently.
func LoadPack(path string) (*Pack, error) {
	const op = "voice.LoadPack"

	file, err := os.Open(path)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindResourceMissing, op, "open voice pack", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindPackCorrupt, op, "open gzip stream", err)
		}
		defer gz.Close()
		reader = gz
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindPackCorrupt, op, "read voice pack", err)
	}

	pack, err := parsePack(data)
	if err != nil {
		return nil, err
	}
	pack.path = path
	return pack, nil
}

func parsePack(data []byte) (*Pack, error) {
	const op = "voice.LoadPack"

	if len(data) < 10 {
		return nil, platformerrors.New(platformerrors.KindPackCorrupt, op, "pack shorter than header")
	}
	if string(data[:4]) != packMagic {
		return nil, platformerrors.New(platformerrors.KindPackCorrupt, op, "bad magic")
	}
	version := binary.LittleEndian.Uint16(data[4:6])
	if version != packVersion {
		return nil, platformerrors.Newf(platformerrors.KindPackUnknownVersion, op, "unsupported pack version %d", version)
	}
	count := binary.LittleEndian.Uint32(data[6:10])

	type entry struct {
		name   string
		offset uint64
	}
	entries := make([]entry, 0, count)

	pos := uint64(10)
	for i := uint32(0); i < count; i++ {
		if uint64(len(data)) < pos+2 {
			return nil, platformerrors.New(platformerrors.KindPackCorrupt, op, "truncated directory")
		}
		nameLen := uint64(binary.LittleEndian.Uint16(data[pos : pos+2]))
		pos += 2
		if nameLen == 0 || uint64(len(data)) < pos+nameLen+16 {
			return nil, platformerrors.New(platformerrors.KindPackCorrupt, op, "truncated directory entry")
		}
		name := string(data[pos : pos+nameLen])
		pos += nameLen
		offset := binary.LittleEndian.Uint64(data[pos : pos+8])
		length := binary.LittleEndian.Uint64(data[pos+8 : pos+16])
		pos += 16
		if length != tensorBytes {
			return nil, platformerrors.Newf(platformerrors.KindPackCorrupt, op, "voice %s has tensor size %d, want %d", name, length, tensorBytes)
		}
		entries = append(entries, entry{name: name, offset: offset})
	}

	blob := data[pos:]
	voices := make(map[string]*Voice, count)
	ids := make([]string, 0, count)
	for _, e := range entries {
		// Subtraction form so a huge directory offset cannot overflow
		// the comparison.
		if uint64(len(blob)) < tensorBytes || e.offset > uint64(len(blob))-tensorBytes {
			return nil, platformerrors.Newf(platformerrors.KindPackCorrupt, op, "voice %s tensor out of bounds", e.name)
		}
		if _, dup := voices[e.name]; dup {
			return nil, platformerrors.Newf(platformerrors.KindPackCorrupt, op, "duplicate voice %s", e.name)
		}
		tensor := make([]float32, TensorLen)
		raw := blob[e.offset : e.offset+tensorBytes]
		for i := range tensor {
			tensor[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4 : i*4+4]))
		}
		lang, gender := metadataForID(e.name)
		voices[e.name] = &Voice{
			ID:       e.name,
			Language: lang,
			Gender:   gender,
			Style:    NewStyle(tensor),
		}
		ids = append(ids, e.name)
	}
	sort.Strings(ids)

	return &Pack{voices: voices, ids: ids}, nil
}

// Get returns the voice for id.
func (p *Pack) Get(id string) (*Voice, error) {
	v, ok := p.voices[id]
	if !ok {
		p.unknownHits.Add(1)
		return nil, platformerrors.Newf(platformerrors.KindUnknownVoice, "voice.Get", "unknown voice %q", id)
	}
	return v, nil
}

// Has reports whether id exists in the pack.
func (p *Pack) Has(id string) bool {
	_, ok := p.voices[id]
	return ok
}

// List returns all voice ids sorted.
func (p *Pack) List() []string {
	out := make([]string, len(p.ids))
	copy(out, p.ids)
	return out
}

// Count returns the number of voices.
func (p *Pack) Count() int {
	return len(p.voices)
}

// Path returns where the pack was loaded from.
func (p *Pack) Path() string {
	return p.path
}

// UnknownHits reports how many lookups missed.
func (p *Pack) UnknownHits() int64 {
	return p.unknownHits.Load()
}

// WritePack serializes voices into the pack format. Used by tooling
// and tests; the ids are written in sorted order.
func WritePack(w io.Writer, tensors map[string][]float32) error {
	const op = "voice.WritePack"

	ids := make([]string, 0, len(tensors))
	for id := range tensors {
		if len(tensors[id]) != TensorLen {
			return platformerrors.Newf(platformerrors.KindPackCorrupt, op, "voice %s has %d floats, want %d", id, len(tensors[id]), TensorLen)
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var buf bytes.Buffer
	buf.WriteString(packMagic)
	binary.Write(&buf, binary.LittleEndian, uint16(packVersion))
	binary.Write(&buf, binary.LittleEndian, uint32(len(ids)))

	offset := uint64(0)
	for _, id := range ids {
		binary.Write(&buf, binary.LittleEndian, uint16(len(id)))
		buf.WriteString(id)
		binary.Write(&buf, binary.LittleEndian, offset)
		binary.Write(&buf, binary.LittleEndian, uint64(tensorBytes))
		offset += tensorBytes
	}
	for _, id := range ids {
		binary.Write(&buf, binary.LittleEndian, tensors[id])
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return platformerrors.Wrap(platformerrors.KindInternal, op, "write pack", err)
	}
	return nil
}

// WritePackFile writes a pack to disk, gzip-compressed when the path
// ends in .gz.
func WritePackFile(path string, tensors map[string][]float32) error {
	const op = "voice.WritePackFile"

	file, err := os.Create(path)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindInternal, op, "create pack file", err)
	}
	defer file.Close()

	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(file)
		if err := WritePack(gz, tensors); err != nil {
			return err
		}
		if err := gz.Close(); err != nil {
			return platformerrors.Wrap(platformerrors.KindInternal, op, "finalize gzip stream", err)
		}
		return nil
	}
	return WritePack(file, tensors)
}
