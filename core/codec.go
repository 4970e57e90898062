package core

import (
	"fmt"
	"strconv"
	"strings"
)

// BaseCodec holds the targets shared by all codec adapters and parses the
// parameter tokens common to all of them. Adapters embed it and delegate
// unmatched tokens back to it.
type BaseCodec struct {
	// QTarget is a quality (or quality-proxy) target, e.g. JPEG quality.
	QTarget float64
	// DistanceTarget is a perceptual distance target for encoders that take
	// one instead of a quality setting.
	DistanceTarget float64

	params []string
}

// ParseBaseParam handles tokens common to all codecs: "q<float>" sets QTarget
// and "d<float>" sets DistanceTarget. It reports whether the token was
// consumed; an error means the token matched but carried a bad value.
func (b *BaseCodec) ParseBaseParam(param string) (bool, error) {
	if len(param) < 2 {
		return false, nil
	}
	switch param[0] {
	case 'q':
		v, err := strconv.ParseFloat(param[1:], 64)
		if err != nil {
			return false, nil
		}
		b.QTarget = v
		return true, nil
	case 'd':
		v, err := strconv.ParseFloat(param[1:], 64)
		if err != nil {
			return false, nil
		}
		b.DistanceTarget = v
		return true, nil
	}
	return false, nil
}

// RecordParam appends a successfully applied token to the description.
func (b *BaseCodec) RecordParam(param string) {
	b.params = append(b.params, param)
}

// DescribeAs renders "name:param:param..." for applied tokens.
func (b *BaseCodec) DescribeAs(name string) string {
	if len(b.params) == 0 {
		return name
	}
	return fmt.Sprintf("%s:%s", name, strings.Join(b.params, ":"))
}
