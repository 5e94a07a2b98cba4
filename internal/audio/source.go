// ABOUTME: Clip loaders for WAV, MP3 and FLAC files
// ABOUTME: Decodes an entire file to a mono int16 clip at its native rate
package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	gioaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/mewkiz/flac"
)

// LoadClip decodes the file at path into a mono clip. The format is chosen
// by extension, as the engine only ever loads from its own sound library.
func LoadClip(path string) (*Clip, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".wav":
		return loadWAV(path)
	case ".mp3":
		return loadMP3(path)
	case ".flac":
		return loadFLAC(path)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .wav, .mp3, .flac)", ext)
	}
}

// loadWAV decodes a WAV file using go-audio/wav.
func loadWAV(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode WAV: %w", err)
	}

	bitDepth := int(decoder.SampleBitDepth())
	samples := intBufferToInt16(buf, bitDepth)
	samples = Downmix(samples, buf.Format.NumChannels)

	log.Printf("Loaded WAV: %s (%d Hz, %d channels, %d-bit, %d frames)",
		filepath.Base(path), buf.Format.SampleRate, buf.Format.NumChannels, bitDepth, len(samples))

	return &Clip{
		Samples:    samples,
		SampleRate: buf.Format.SampleRate,
	}, nil
}

// intBufferToInt16 scales decoded integer samples to the 16-bit range.
// 8-bit WAV data is unsigned with 128 as the zero line and is recentered
// before scaling.
func intBufferToInt16(buf *gioaudio.IntBuffer, bitDepth int) []int16 {
	samples := make([]int16, len(buf.Data))

	shift := bitDepth - 16
	for i, v := range buf.Data {
		if bitDepth == 8 {
			v -= 128
		}
		switch {
		case shift > 0:
			samples[i] = int16(v >> shift)
		case shift < 0:
			samples[i] = int16(v << -shift)
		default:
			samples[i] = int16(v)
		}
	}
	return samples
}

// loadMP3 decodes an MP3 file using go-mp3. The decoder always emits
// 16-bit stereo, which is downmixed to mono.
func loadMP3(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open MP3 file: %w", err)
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode MP3: %w", err)
	}

	raw, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("failed to read MP3 samples: %w", err)
	}

	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	samples = Downmix(samples, 2)

	log.Printf("Loaded MP3: %s (%d Hz, %d frames)",
		filepath.Base(path), decoder.SampleRate(), len(samples))

	return &Clip{
		Samples:    samples,
		SampleRate: decoder.SampleRate(),
	}, nil
}

// loadFLAC decodes a FLAC file frame by frame using mewkiz/flac.
func loadFLAC(path string) (*Clip, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	bitDepth := int(info.BitsPerSample)

	var samples []int16
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse FLAC frame: %w", err)
		}

		for i := 0; i < int(frame.BlockSize); i++ {
			for ch := 0; ch < channels; ch++ {
				sample := frame.Subframes[ch].Samples[i]
				samples = append(samples, scaleTo16Bit(sample, bitDepth))
			}
		}
	}

	samples = Downmix(samples, channels)

	log.Printf("Loaded FLAC: %s (%d Hz, %d channels, %d-bit, %d frames)",
		filepath.Base(path), info.SampleRate, channels, bitDepth, len(samples))

	return &Clip{
		Samples:    samples,
		SampleRate: int(info.SampleRate),
	}, nil
}

// scaleTo16Bit converts a sample at the given bit depth into 16-bit range.
func scaleTo16Bit(sample int32, bitDepth int) int16 {
	shift := bitDepth - 16
	if shift > 0 {
		return int16(sample >> shift)
	}
	return int16(sample << -shift)
}
