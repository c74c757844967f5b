package codec

import "time"

// Options ambient settings shared by every encode/decode call, never
// modified by the codecs
type Options struct {
	// TimeZone used for values without an offset (dates, times and
	// timestamps without time zone), UTC when nil
	TimeZone *time.Location
}

func (opts *Options) location() *time.Location {
	if opts == nil || opts.TimeZone == nil {
		return time.UTC
	}
	return opts.TimeZone
}
