package audio

import (
	"bytes"

	"github.com/braheezy/shine-mp3/pkg/mp3"

	platformerrors "kokorod/internal/platform/errors"
)

// EncodeMP3 renders samples as an MP3 stream at the engine sample rate.
func EncodeMP3(samples []float32) ([]byte, error) {
	encoder := mp3.NewEncoder(SampleRate, 1)

	var buf bytes.Buffer
	if err := encoder.Write(&buf, FloatToPCM16(samples)); err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindInternal, "audio.EncodeMP3", "encode samples", err)
	}
	return buf.Bytes(), nil
}
