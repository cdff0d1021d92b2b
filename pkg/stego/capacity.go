package stego

import "reflect"

// CapacityBits is the number of payload bits c can hold with lsb bits per cell. The
// container header counts against it.
func CapacityBits(c Carrier, lsb int) int {
	if isNil(c) || lsb < 1 {
		return 0
	}
	return c.Len() * lsb
}

// RegionCapacityBits is CapacityBits restricted to region.
func RegionCapacityBits(c Carrier, region Region, lsb int) (int, error) {
	if isNil(c) || lsb < 1 {
		return 0, nil
	}
	cells, err := c.Eligible(region, RGB)
	if err != nil {
		return 0, err
	}
	return len(cells) * lsb, nil
}

// MaxPayloadBytes is the largest data size that fits after the header and a MIME label of
// mimeLen bytes.
func MaxPayloadBytes(capacityBits, mimeLen int) int {
	n := capacityBits/8 - HeaderLen - mimeLen
	if n < 0 {
		return 0
	}
	return n
}

// isNil catches typed nil pointers stored in the interface.
func isNil(c Carrier) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
