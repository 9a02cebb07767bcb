package audio

import (
	"bytes"
	"encoding/binary"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	platformerrors "kokorod/internal/platform/errors"
)

// EncodeWAV renders samples as a complete in-memory WAV file,
// 16-bit mono PCM at the engine sample rate.
func EncodeWAV(samples []float32) []byte {
	pcm := FloatToPCM16(samples)
	dataLen := len(pcm) * 2

	var buf bytes.Buffer
	buf.Grow(44 + dataLen)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(SampleRate*2)) // byte rate
	binary.Write(&buf, binary.LittleEndian, uint16(2))            // block align
	binary.Write(&buf, binary.LittleEndian, uint16(16))           // bits per sample

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	binary.Write(&buf, binary.LittleEndian, pcm)

	return buf.Bytes()
}

// WriteWAVFile writes samples to a WAV file on disk.
func WriteWAVFile(path string, samples []float32) error {
	const op = "audio.WriteWAVFile"

	file, err := os.Create(path)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindInternal, op, "create file", err)
	}
	defer file.Close()

	pcm := FloatToPCM16(samples)
	intData := make([]int, len(pcm))
	for i, s := range pcm {
		intData[i] = int(s)
	}

	encoder := wav.NewEncoder(file, SampleRate, 16, 1, 1)
	buf := &gaudio.IntBuffer{
		Data:           intData,
		Format:         &gaudio.Format{SampleRate: SampleRate, NumChannels: 1},
		SourceBitDepth: 16,
	}
	if err := encoder.Write(buf); err != nil {
		return platformerrors.Wrap(platformerrors.KindInternal, op, "write samples", err)
	}
	if err := encoder.Close(); err != nil {
		return platformerrors.Wrap(platformerrors.KindInternal, op, "finalize encoder", err)
	}
	return nil
}

// ReadWAVFile loads a mono 16-bit WAV file back into float samples.
func ReadWAVFile(path string) ([]float32, error) {
	const op = "audio.ReadWAVFile"

	file, err := os.Open(path)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindInternal, op, "open file", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindInternal, op, "decode samples", err)
	}

	out := make([]float32, len(buf.Data))
	for i, s := range buf.Data {
		out[i] = float32(int16(s)) / 32767
	}
	return out, nil
}
