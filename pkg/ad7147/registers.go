package ad7147

import (
	"fmt"
)

// Register is an address in the AD7147's 16-bit register space.
type Register uint16

// Hi returns the high byte of the register address.
func (r Register) Hi() byte {
	return byte(r >> 8 & 0xFF)
}

// Lo returns the low byte of the register address.
func (r Register) Lo() byte {
	return byte(r & 0xFF)
}

var bank1Names = map[Register]string{
	RegPwrControl:             "PWR_CONTROL",
	RegStageCalEn:             "STAGE_CAL_EN",
	RegAmbCompCtrl0:           "AMB_COMP_CTRL0",
	RegAmbCompCtrl1:           "AMB_COMP_CTRL1",
	RegAmbCompCtrl2:           "AMB_COMP_CTRL2",
	RegStageLowIntEnable:      "STAGE_LOW_INT_ENABLE",
	RegStageHighIntEnable:     "STAGE_HIGH_INT_ENABLE",
	RegStageCompleteIntEnable: "STAGE_COMPLETE_INT_ENABLE",
	RegStageLowIntStatus:      "STAGE_LOW_INT_STATUS",
	RegStageHighIntStatus:     "STAGE_HIGH_INT_STATUS",
	RegStageCompleteIntStatus: "STAGE_COMPLETE_INT_STATUS",
	RegDeviceID:               "DEVICE_ID",
	RegProximityStatus:        "PROXIMITY_STATUS",
}

var stageRegNames = [StageBankSize]string{
	offConnection60:  "CONNECTION[6:0]",
	offConnection127: "CONNECTION[12:7]",
	offAFEOffset:     "AFE_OFFSET",
	offSensitivity:   "SENSITIVITY",
	offOffsetLow:     "OFFSET_LOW",
	offOffsetHigh:    "OFFSET_HIGH",
	offOffsetHighClm: "OFFSET_HIGH_CLAMP",
	offOffsetLowClm:  "OFFSET_LOW_CLAMP",
}

// String returns the datasheet name of the register, or its hex address if unnamed.
func (r Register) String() string {
	if name, ok := bank1Names[r]; ok {
		return name
	}
	if r >= RegCDCResultS0 && r < RegCDCResultS0+NumStages {
		return fmt.Sprintf("CDC_RESULT_S%d", r-RegCDCResultS0)
	}
	if r >= RegStage0Base && r < RegStage0Base+NumStages*StageBankSize {
		off := r - RegStage0Base
		return fmt.Sprintf("STAGE%d_%s", off/StageBankSize, stageRegNames[off%StageBankSize])
	}
	return fmt.Sprintf("REG_0x%03X", uint16(r))
}

// Stage identifies one of the twelve conversion stages.
type Stage uint8

const (
	Stage0 Stage = iota
	Stage1
	Stage2
	Stage3
	Stage4
	Stage5
	Stage6
	Stage7
	Stage8
	Stage9
	Stage10
	Stage11
)

func (s Stage) String() string {
	if s >= NumStages {
		return "(invalid stage)"
	}
	return fmt.Sprintf("STAGE%d", uint8(s))
}

func (s Stage) bank(off Register) Register {
	return RegStage0Base + Register(s)*StageBankSize + off
}

// Connection60 is the STAGEx_CONNECTION[6:0] register of the stage.
func (s Stage) Connection60() Register { return s.bank(offConnection60) }

// Connection127 is the STAGEx_CONNECTION[12:7] register of the stage.
func (s Stage) Connection127() Register { return s.bank(offConnection127) }

func (s Stage) AFEOffset() Register       { return s.bank(offAFEOffset) }
func (s Stage) Sensitivity() Register     { return s.bank(offSensitivity) }
func (s Stage) OffsetLow() Register       { return s.bank(offOffsetLow) }
func (s Stage) OffsetHigh() Register      { return s.bank(offOffsetHigh) }
func (s Stage) OffsetHighClamp() Register { return s.bank(offOffsetHighClm) }
func (s Stage) OffsetLowClamp() Register  { return s.bank(offOffsetLowClm) }

// Result is the CDC_RESULT_Sx register holding the stage's latest conversion.
func (s Stage) Result() Register {
	return RegCDCResultS0 + Register(s)
}

// Mask is the stage's bit in the calibration and interrupt enable registers.
func (s Stage) Mask() uint16 {
	return 1 << s
}
