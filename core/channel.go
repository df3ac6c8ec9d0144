package core

const (
	NumChannels = 6 // PWM output channels per block
	NumPairs    = 3 // Channel pairs sharing a prescaler and a dead-zone generator
)

// Channel is a PWM output channel, 0-5
type Channel uint8

// Valid reports whether ch names one of the block's channels
func (ch Channel) Valid() bool {
	return ch < NumChannels
}

// Pair returns the channel pair ch belongs to.
// Channels 2N and 2N+1 share the prescaler and dead-zone generator of pair N.
func (ch Channel) Pair() Pair {
	return Pair(ch >> 1)
}

// Partner returns the other channel of ch's pair
func (ch Channel) Partner() Channel {
	return ch ^ 1
}

// Mask returns a ChannelMask holding only ch
func (ch Channel) Mask() ChannelMask {
	return 1 << ch
}

// Pair is a channel pair, 0-2 (channels 0&1, 2&3, 4&5)
type Pair uint8

// Valid reports whether p names one of the block's pairs
func (p Pair) Valid() bool {
	return p < NumPairs
}

// Channels returns the even and odd channel of the pair
func (p Pair) Channels() (Channel, Channel) {
	return Channel(p * 2), Channel(p*2 + 1)
}

// Mask returns a ChannelMask holding both channels of the pair
func (p Pair) Mask() ChannelMask {
	return 3 << (p * 2)
}

// ChannelMask selects channels: bit 0 is channel 0, bit 1 channel 1...
// Bits above channel 5 are ignored by every operation.
type ChannelMask uint32

// AllChannels selects channels 0-5
const AllChannels ChannelMask = 1<<NumChannels - 1

// Has reports whether ch is selected
func (m ChannelMask) Has(ch Channel) bool {
	return ch.Valid() && m&(1<<ch) != 0
}

// Mask builds a ChannelMask from a list of channels. Invalid channels are skipped.
func Mask(channels ...Channel) ChannelMask {
	var m ChannelMask
	for _, ch := range channels {
		if ch.Valid() {
			m |= ch.Mask()
		}
	}
	return m
}

// channelBits places one bit per selected channel at pos + stride*ch
func channelBits(m ChannelMask, pos, stride uint) uint32 {
	var bits uint32
	for ch := Channel(0); ch < NumChannels; ch++ {
		if m&(1<<ch) != 0 {
			bits |= 1 << (pos + stride*uint(ch))
		}
	}
	return bits
}
