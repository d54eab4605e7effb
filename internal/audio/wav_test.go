package audio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSamplesToPCMBytes(t *testing.T) {
	pcm := SamplesToPCMBytes([]float32{0, 0.5, -0.5, 1, -1})
	require.Len(t, pcm, 10)

	require.EqualValues(t, 0, int16(binary.LittleEndian.Uint16(pcm[0:])))
	require.EqualValues(t, 16383, int16(binary.LittleEndian.Uint16(pcm[2:])))
	require.EqualValues(t, -16383, int16(binary.LittleEndian.Uint16(pcm[4:])))
	require.EqualValues(t, pcmMax, int16(binary.LittleEndian.Uint16(pcm[6:])))
}

func TestSamplesToPCMBytesClampsOutOfRange(t *testing.T) {
	pcm := SamplesToPCMBytes([]float32{2.5, -2.5})

	require.EqualValues(t, pcmMax, int16(binary.LittleEndian.Uint16(pcm[0:])))
	require.EqualValues(t, pcmMin, int16(binary.LittleEndian.Uint16(pcm[2:])))
}

func TestPCMBytesToWavBytesHeader(t *testing.T) {
	pcm := SamplesToPCMBytes(make([]float32, 100))
	wav, err := PCMBytesToWavBytes(pcm, 1, 22050)
	require.NoError(t, err)

	require.Len(t, wav, 44+len(pcm))
	require.Equal(t, "RIFF", string(wav[0:4]))
	require.Equal(t, "WAVE", string(wav[8:12]))
	require.Equal(t, "fmt ", string(wav[12:16]))
	require.Equal(t, "data", string(wav[36:40]))

	require.EqualValues(t, 36+len(pcm), binary.LittleEndian.Uint32(wav[4:]))   // file size
	require.EqualValues(t, 1, binary.LittleEndian.Uint16(wav[20:]))            // PCM format
	require.EqualValues(t, 1, binary.LittleEndian.Uint16(wav[22:]))            // channels
	require.EqualValues(t, 22050, binary.LittleEndian.Uint32(wav[24:]))        // sample rate
	require.EqualValues(t, 22050*2, binary.LittleEndian.Uint32(wav[28:]))      // byte rate
	require.EqualValues(t, 16, binary.LittleEndian.Uint16(wav[34:]))           // bits per sample
	require.EqualValues(t, len(pcm), binary.LittleEndian.Uint32(wav[40:]))     // data size
}

func TestPCMBytesToWavBytesRejectsBadInput(t *testing.T) {
	_, err := PCMBytesToWavBytes(nil, 1, 22050)
	require.Error(t, err)

	_, err = PCMBytesToWavBytes([]byte{0, 0}, 3, 22050)
	require.Error(t, err)

	_, err = PCMBytesToWavBytes([]byte{0, 0}, 1, 0)
	require.Error(t, err)

	// Stereo needs frame-aligned data.
	_, err = PCMBytesToWavBytes([]byte{0, 0}, 2, 22050)
	require.Error(t, err)
}
