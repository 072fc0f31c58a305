package ft232h

import (
	"fmt"
	"github.com/yunginnanet/ft232h"
	"time"
)

// DeviceInfo represents a snapshot of the device information for the [FT232H] device.
type DeviceInfo struct {
	Index       int
	Serial      string
	Description string
	ProductID   string
	VendorID    string
	IsOpen      bool
	IsHighSpeed bool
}

// String returns a string representation of the device information.
func (info DeviceInfo) String() string {
	return fmt.Sprintf(
		"DeviceInfo{Index:%d, Serial:%s, Description:%s, ProductID:%s, VendorID:%s, IsOpen:%t, IsHighSpeed:%t}",
		info.Index, info.Serial, info.Description, info.ProductID, info.VendorID, info.IsOpen, info.IsHighSpeed,
	)
}

// FT232H is an FTDI FT232H whose ACBUS GPIO pins bit-bang an I2C controller.
// It implements i2cwire.Master.
type FT232H struct {
	*ft232h.FT232H

	scl, sda ft232h.CPin
	half     time.Duration // half of one SCL period
	started  bool          // between Start and Stop
}

// Info returns a snapshot of the device information for the FT232H device. Read-only.
func (ft *FT232H) Info() DeviceInfo {
	vid, pid := ft.vidPid()
	return DeviceInfo{
		Index:       ft.Index(),
		Serial:      ft.Serial(),
		Description: ft.Desc(),
		ProductID:   pid,
		VendorID:    vid,
		IsOpen:      ft.IsOpen(),
		IsHighSpeed: ft.IsHiSpeed(),
	}
}

// String returns a string representation of the FT232H device. It includes the vendor ID, product ID, and description.
func (ft *FT232H) String() string {
	info := ft.Info()
	return fmt.Sprintf("FT232H[%s:%s]: %s", info.VendorID, info.ProductID, info.Description)
}

// Connect opens the first FT232H found, or the one selected by a single [Descriptor].
func Connect(choice ...Descriptor) (ft *FT232H, err error) {
	ft = &FT232H{half: DefaultClock.Period() / 2}

	switch len(choice) {
	case 0:
		ft.FT232H, err = ft232h.New()
	case 1:
		if err = choice[0].Validate(); err != nil {
			return nil, err
		}
		ft.FT232H, err = ft232h.OpenMask(choice[0].Mask())
	default:
		return nil, fmt.Errorf("invalid number of arguments")
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open FT232H: %w", err)
	}
	return ft, nil
}
