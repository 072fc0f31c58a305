package ft232h

import (
	"fmt"
	"github.com/yunginnanet/ft232h"
	"strconv"
)

// ErrBadDescriptor is returned when a [Descriptor] selects no device.
var ErrBadDescriptor = fmt.Errorf("invalid FT232H descriptor provided")

// Descriptor picks one FT232H among those attached, by enumeration index,
// serial number or a full [ft232h.Mask].
type Descriptor struct {
	Index  int
	Serial string
	mask   *ft232h.Mask
}

// ByIndex selects the index-th FT232H found.
func ByIndex(index int) Descriptor {
	return Descriptor{Index: index}
}

// BySerial selects the FT232H with the given serial number.
func BySerial(serial string) Descriptor {
	return Descriptor{Serial: serial, Index: -1}
}

// ByMask selects the FT232H matching mask.
func ByMask(mask *ft232h.Mask) Descriptor {
	return Descriptor{mask: mask, Index: -1}
}

// Validate checks that d selects something.
func (d Descriptor) Validate() error {
	if d.Index < 0 && d.Serial == "" && emptyMask(d.mask) {
		return ErrBadDescriptor
	}
	return nil
}

// Mask merges Index and Serial into a copy of the descriptor's mask.
func (d Descriptor) Mask() *ft232h.Mask {
	m := new(ft232h.Mask)
	if d.mask != nil {
		*m = *d.mask
	}
	if d.Serial != "" {
		m.Serial = d.Serial
	}
	if d.Index >= 0 {
		m.Index = strconv.Itoa(d.Index)
	}
	return m
}

func (d Descriptor) String() string {
	return fmt.Sprintf("Descriptor{Index:%d, Serial:%q, mask:%v}", d.Index, d.Serial, d.mask)
}
