package ad7147

import (
	"time"
)

// ConfigEntry is one register write of a bring-up table.
type ConfigEntry struct {
	Register Register
	Value    uint16
}

// Table is an ordered list of register writes. Interrupt enables come after
// the power and connection setup; the order is otherwise kept as authored.
type Table []ConfigEntry

// Registers returns the registers of t in table order.
func (t Table) Registers() []Register {
	regs := make([]Register, 0, len(t))
	for _, e := range t {
		regs = append(regs, e.Register)
	}
	return regs
}

// Variant is a device configuration: the bring-up table plus the stages to poll.
type Variant struct {
	Name     string
	Table    Table
	Stages   []Stage
	Interval time.Duration // poll interval
}

// Results returns the CDC result registers of the variant's stages, in stage order.
func (v Variant) Results() []Register {
	regs := make([]Register, 0, len(v.Stages))
	for _, s := range v.Stages {
		regs = append(regs, s.Result())
	}
	return regs
}

// Minimal is the three-button configuration: CIN0..CIN2 on stages 0..2.
var Minimal = Variant{
	Name: "minimal",
	Table: Table{
		{RegPwrControl, 0b0000001011000000}, // low power, 400ms conversion delay, decimation 64
		{RegStageCalEn, 0b1110000000000000},
		{Stage0.Connection60(), 0b1111111111000010},
		{Stage0.Connection127(), 0b0001111111111111},
		{Stage1.Connection60(), 0b1111111111001000},
		{Stage1.Connection127(), 0b0001111111111111},
		{Stage2.Connection60(), 0b1111111111100000},
		{Stage2.Connection127(), 0b0010111111111111},
		{RegStageLowIntEnable, 0b0000000000000000},
		{RegStageHighIntEnable, 0b0000000000000000},
		{RegStageCompleteIntEnable, 0b0000000000000100},
	},
	Stages:   []Stage{Stage0, Stage1, Stage2},
	Interval: 1000 * time.Millisecond,
}

// Extended runs all twelve stages, stage n sensing CIN n.
var Extended = Variant{
	Name:     "extended",
	Table:    extendedTable(),
	Stages:   []Stage{Stage0, Stage1, Stage2, Stage3, Stage4, Stage5, Stage6, Stage7, Stage8, Stage9, Stage10, Stage11},
	Interval: 100 * time.Millisecond,
}

// Variants lists the built-in configurations by name.
var Variants = map[string]Variant{
	Minimal.Name:  Minimal,
	Extended.Name: Extended,
}

func extendedTable() Table {
	active := make([]int, NumStages)
	for i := range active {
		active[i] = i
	}

	t := Table{
		{RegPwrControl, PwrModeFull | (NumStages-1)<<PwrSequenceShift | PwrDecimation64},
		{RegStageCalEn, CalAvgLPSkip3 | CalAvgFPSkip15 | CalEnStageMask},
	}
	for s := Stage0; s < NumStages; s++ {
		conn60, conn127 := SingleEndedConnection(int(s), active)
		t = append(t,
			ConfigEntry{s.Connection60(), conn60},
			ConfigEntry{s.Connection127(), conn127},
			ConfigEntry{s.AFEOffset(), 0x0000},
		)
	}
	return append(t,
		ConfigEntry{RegStageLowIntEnable, 0x0000},
		ConfigEntry{RegStageHighIntEnable, 0x0000},
		ConfigEntry{RegStageCompleteIntEnable, Stage11.Mask()},
	)
}
