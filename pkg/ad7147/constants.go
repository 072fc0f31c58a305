package ad7147

// Constants from the datasheet

// Address is the fixed 7-bit bus address of the AD7147 (ADD0/ADD1 strapped low).
const Address uint8 = 0x2C

// Bank 1 registers
const (
	// RegPwrControl selects power mode, conversion delay, sequence length and decimation.
	RegPwrControl Register = 0x000
	// RegStageCalEn enables per-stage calibration and sets averaging skips.
	RegStageCalEn Register = 0x001
	// RegAmbCompCtrl0 is ambient compensation control register 0.
	RegAmbCompCtrl0 Register = 0x002
	// RegAmbCompCtrl1 is ambient compensation control register 1.
	RegAmbCompCtrl1 Register = 0x003
	// RegAmbCompCtrl2 is ambient compensation control register 2.
	RegAmbCompCtrl2 Register = 0x004

	RegStageLowIntEnable      Register = 0x005
	RegStageHighIntEnable     Register = 0x006
	RegStageCompleteIntEnable Register = 0x007

	// The status registers clear when read.
	RegStageLowIntStatus      Register = 0x008
	RegStageHighIntStatus     Register = 0x009
	RegStageCompleteIntStatus Register = 0x00A

	// CDC_RESULT_Sn holds the conversion result of stage n.
	RegCDCResultS0  Register = 0x00B
	RegCDCResultS1  Register = 0x00C
	RegCDCResultS2  Register = 0x00D
	RegCDCResultS3  Register = 0x00E
	RegCDCResultS4  Register = 0x00F
	RegCDCResultS5  Register = 0x010
	RegCDCResultS6  Register = 0x011
	RegCDCResultS7  Register = 0x012
	RegCDCResultS8  Register = 0x013
	RegCDCResultS9  Register = 0x014
	RegCDCResultS10 Register = 0x015
	RegCDCResultS11 Register = 0x016

	// RegDeviceID holds the part ID (0x147) in bits 15:4 and the revision in bits 3:0.
	RegDeviceID Register = 0x017

	RegProximityStatus Register = 0x042
)

// Bank 2 holds one block of stage configuration registers per stage.
const (
	RegStage0Base Register = 0x080

	// StageBankSize is the register stride between consecutive stage blocks.
	StageBankSize = 8

	offConnection60  = 0 // CIN0..CIN6 connection setup
	offConnection127 = 1 // CIN7..CIN12 connection setup, SE setup, AFE offset disables
	offAFEOffset     = 2
	offSensitivity   = 3
	offOffsetLow     = 4
	offOffsetHigh    = 5
	offOffsetHighClm = 6
	offOffsetLowClm  = 7
)

// NumStages is the number of conversion stages the sequencer can run.
const NumStages = 12

// NumInputs is the number of CIN input pins.
const NumInputs = 13

// DeviceIDPart is the expected value of RegDeviceID bits 15:4.
const DeviceIDPart = 0x147

// Bits for the PWR_CONTROL register
const (
	PwrModeFull     = 0x0000 // bits 1:0
	PwrModeShutdown = 0x0001
	PwrModeLow      = 0x0002

	PwrLPConvDelay200ms = 0x0000 // bits 3:2
	PwrLPConvDelay400ms = 0x0004
	PwrLPConvDelay600ms = 0x0008
	PwrLPConvDelay800ms = 0x000C

	// PwrSequenceShift positions SEQUENCE_STAGE_NUM (number of stages - 1).
	PwrSequenceShift = 4
	PwrSequenceMask  = 0x00F0

	PwrDecimation256 = 0x0000 // bits 9:8
	PwrDecimation128 = 0x0100
	PwrDecimation64  = 0x0200

	PwrSWReset   = 0x0400
	PwrIntPolHi  = 0x0800
	PwrExtSource = 0x1000

	PwrCDCBiasNormal = 0x0000 // bits 15:14
	PwrCDCBias20     = 0x4000
	PwrCDCBias35     = 0x8000
	PwrCDCBias50     = 0xC000
)

// Bits for the STAGE_CAL_EN register
const (
	// CalEnStageMask covers the per-stage calibration enable bits 11:0.
	CalEnStageMask = 0x0FFF

	CalAvgFPSkip3  = 0x0000 // bits 13:12
	CalAvgFPSkip7  = 0x1000
	CalAvgFPSkip15 = 0x2000
	CalAvgFPSkip31 = 0x3000

	CalAvgLPSkip0 = 0x0000 // bits 15:14
	CalAvgLPSkip1 = 0x4000
	CalAvgLPSkip2 = 0x8000
	CalAvgLPSkip3 = 0xC000
)

// CIN connection codes, two bits per input in the stage connection registers.
const (
	CINUnconnected = 0b00
	CINNegative    = 0b01
	CINPositive    = 0b10
	CINBias        = 0b11
)

// Bits for the STAGEx_CONNECTION[12:7] register beyond the CIN7..CIN12 fields.
const (
	ConnSESetupMask   = 0x3000 // bits 13:12
	ConnSESetupPos    = 0x1000 // single-ended, positive input active
	ConnSESetupNeg    = 0x2000 // single-ended, negative input active
	ConnNegAFEDisable = 0x4000
	ConnPosAFEDisable = 0x8000
)
