// Package state converts multichannel binary activity into integer state codes.
//
// Each time step of a SpikeMatrix is read as a binary word with channel 0 as the
// most significant bit, so on 4 channels the activity pattern 1 0 1 0 (spikes on
// channels 0 and 2) is state 10.
package state

import (
	"fmt"

	"github.com/arloliu/neurokl/errs"
)

// MaxChannels is the largest channel count accepted by the encoder. Downstream
// histograms allocate 2^C bins, so the limit keeps them addressable in memory.
const MaxChannels = 24

// SpikeMatrix holds binarized activity with shape (time steps, channels).
// Every element must be 0 or 1.
type SpikeMatrix [][]uint8

// Sequence is a sequence of state codes in [0, 2^C).
type Sequence []int

// Rows returns the number of time steps.
func (m SpikeMatrix) Rows() int {
	return len(m)
}

// Channels validates the matrix shape and returns its channel count.
//
// An empty matrix has zero channels. Rows of different lengths, or a channel
// count outside [1, MaxChannels], are reported as errs.ErrInvalidInput.
func Channels(spikes SpikeMatrix) (int, error) {
	if len(spikes) == 0 {
		return 0, nil
	}

	channels := len(spikes[0])
	if channels < 1 || channels > MaxChannels {
		return 0, fmt.Errorf("%w: channel count %d outside [1, %d]", errs.ErrInvalidInput, channels, MaxChannels)
	}
	for t, row := range spikes {
		if len(row) != channels {
			return 0, fmt.Errorf("%w: row %d has %d channels, expected %d", errs.ErrInvalidInput, t, len(row), channels)
		}
	}

	return channels, nil
}

// Encode converts every row of spikes into its state code.
//
// The bit at position (C-1-k) of a code equals the value of channel k. Any
// element other than 0 or 1 fails the whole call with errs.ErrInvalidInput.
func Encode(spikes SpikeMatrix) (Sequence, error) {
	channels, err := Channels(spikes)
	if err != nil {
		return nil, err
	}

	states := make(Sequence, len(spikes))
	for t, row := range spikes {
		code := 0
		for k, v := range row {
			if v > 1 {
				return nil, fmt.Errorf("%w: input array must be binary, got %d at row %d channel %d",
					errs.ErrInvalidInput, v, t, k)
			}
			code |= int(v) << (channels - 1 - k)
		}
		states[t] = code
	}

	return states, nil
}

// Decode returns the binary activity pattern of a state code on the given
// number of channels. It is the exact inverse of the row mapping used by Encode.
func Decode(code, channels int) ([]uint8, error) {
	if channels < 1 || channels > MaxChannels {
		return nil, fmt.Errorf("%w: channel count %d outside [1, %d]", errs.ErrInvalidInput, channels, MaxChannels)
	}
	if code < 0 || code >= 1<<channels {
		return nil, fmt.Errorf("%w: state %d outside [0, %d)", errs.ErrInvalidInput, code, 1<<channels)
	}

	row := make([]uint8, channels)
	for k := range row {
		row[k] = uint8((code >> (channels - 1 - k)) & 1)
	}

	return row, nil
}

// DecodeAll expands a sequence of codes back into a SpikeMatrix.
func DecodeAll(states Sequence, channels int) (SpikeMatrix, error) {
	spikes := make(SpikeMatrix, len(states))
	for t, code := range states {
		row, err := Decode(code, channels)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", t, err)
		}
		spikes[t] = row
	}

	return spikes, nil
}

// NumStates returns 2^channels, the number of distinct codes on that many channels.
func NumStates(channels int) int {
	return 1 << channels
}
