// Package audio provides WAV file inspection and PCM decoding for the
// assessment pipeline. Uploaded recordings are probed for validity and
// duration before transcription, and decoded to normalised mono float32
// samples for on-device speech recognition.
package audio

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-audio/wav"
)

// ErrInvalidWAV is returned when the input is not a decodable WAV file.
var ErrInvalidWAV = errors.New("audio: not a valid wav file")

// Info describes a decoded WAV file's format and length.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
}

// Probe reads the WAV header from r and returns format information and the
// audio duration. It returns [ErrInvalidWAV] when r does not contain a
// decodable WAV stream.
func Probe(r io.ReadSeeker) (Info, error) {
	d := wav.NewDecoder(r)
	d.ReadInfo()
	if !d.IsValidFile() {
		return Info{}, ErrInvalidWAV
	}

	dur, err := d.Duration()
	if err != nil {
		return Info{}, fmt.Errorf("audio: read duration: %w", err)
	}

	return Info{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		Duration:   dur,
	}, nil
}

// Samples decodes the full PCM payload of a WAV stream into mono float32
// samples normalised to [-1.0, 1.0]. Multi-channel audio is down-mixed by
// averaging all channels per frame.
func Samples(r io.ReadSeeker) ([]float32, error) {
	d := wav.NewDecoder(r)
	d.ReadInfo()
	if !d.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("audio: decode pcm: %w", err)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float32(int64(1) << (bitDepth - 1))

	frames := len(buf.Data) / channels
	mono := make([]float32, frames)
	for i := range frames {
		var sum float32
		for ch := range channels {
			sum += float32(buf.Data[i*channels+ch]) / scale
		}
		mono[i] = sum / float32(channels)
	}
	return mono, nil
}
