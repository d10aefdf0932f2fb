package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Decibels is a PSNR value. JSON has no infinity, so a lossless +Inf is
// written as the string "inf" and read back from it.
type Decibels float64

var infJSON = []byte(`"inf"`)

func (d Decibels) MarshalJSON() ([]byte, error) {
	f := float64(d)
	switch {
	case math.IsInf(f, 1):
		return infJSON, nil
	case math.IsInf(f, -1), math.IsNaN(f):
		return nil, fmt.Errorf("psnr %v is not representable", f)
	}
	return strconv.AppendFloat(nil, f, 'f', 4, 64), nil
}

func (d *Decibels) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, infJSON) {
		*d = Decibels(math.Inf(1))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("psnr: %w", err)
	}
	*d = Decibels(f)
	return nil
}

// IsLossless reports whether d is +Inf.
func (d Decibels) IsLossless() bool { return math.IsInf(float64(d), 1) }

func (d Decibels) String() string {
	if d.IsLossless() {
		return "inf"
	}
	return strconv.FormatFloat(float64(d), 'f', 2, 64) + " dB"
}
