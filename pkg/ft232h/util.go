package ft232h

import (
	"fmt"
	"github.com/yunginnanet/ft232h"
)

func (ft *FT232H) vidPid() (vid string, pid string) {
	return fmt.Sprintf("%04x", ft.VID()), fmt.Sprintf("%04x", ft.PID())
}

func emptyMask(mask *ft232h.Mask) bool {
	return mask == nil || (mask.Serial == "" && mask.PID == "" && mask.VID == "" && mask.Desc == "" && mask.Index == "")
}
