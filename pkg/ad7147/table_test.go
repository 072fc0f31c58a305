package ad7147

import (
	"testing"
)

func TestRegisterString(t *testing.T) {
	cases := map[Register]string{
		RegPwrControl:            "PWR_CONTROL",
		RegCDCResultS0:           "CDC_RESULT_S0",
		Stage11.Result():         "CDC_RESULT_S11",
		Stage0.Connection60():    "STAGE0_CONNECTION[6:0]",
		Stage2.Connection127():   "STAGE2_CONNECTION[12:7]",
		Stage11.OffsetLowClamp(): "STAGE11_OFFSET_LOW_CLAMP",
		0x300:                    "REG_0x300",
	}
	for reg, want := range cases {
		if got := reg.String(); got != want {
			t.Errorf("0x%03X: expected %q, got %q", uint16(reg), want, got)
		}
	}
}

func TestStageRegisters(t *testing.T) {
	if Stage0.Connection60() != 0x080 || Stage0.Connection127() != 0x081 {
		t.Error("unexpected stage 0 connection registers")
	}
	if Stage1.Connection60() != 0x088 || Stage2.Connection127() != 0x091 {
		t.Error("unexpected stage bank stride")
	}
	if Stage2.AFEOffset() != 0x092 {
		t.Errorf("unexpected AFE offset register 0x%03X", uint16(Stage2.AFEOffset()))
	}
	if Stage0.Result() != 0x00B || Stage2.Result() != 0x00D || Stage6.Result() != 0x011 {
		t.Error("unexpected CDC result registers")
	}
	results := []Register{
		RegCDCResultS0, RegCDCResultS1, RegCDCResultS2, RegCDCResultS3,
		RegCDCResultS4, RegCDCResultS5, RegCDCResultS6, RegCDCResultS7,
		RegCDCResultS8, RegCDCResultS9, RegCDCResultS10, RegCDCResultS11,
	}
	for s := Stage0; s < NumStages; s++ {
		if s.Result() != results[s] {
			t.Errorf("%s: expected result register 0x%03X, got 0x%03X", s, uint16(results[s]), uint16(s.Result()))
		}
	}
	if RegCDCResultS11+1 != RegDeviceID {
		t.Error("DEVICE_ID should follow CDC_RESULT_S11")
	}
	if Stage(12).String() != "(invalid stage)" {
		t.Error("expected invalid stage")
	}
}

func TestMinimalTable(t *testing.T) {
	want := Table{
		{0x000, 0x02C0},
		{0x001, 0xE000},
		{0x080, 0xFFC2},
		{0x081, 0x1FFF},
		{0x088, 0xFFC8},
		{0x089, 0x1FFF},
		{0x090, 0xFFE0},
		{0x091, 0x2FFF},
		{0x005, 0x0000},
		{0x006, 0x0000},
		{0x007, 0x0004},
	}
	if len(Minimal.Table) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(Minimal.Table))
	}
	for i := range want {
		if Minimal.Table[i] != want[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, want[i], Minimal.Table[i])
		}
	}
	if Minimal.Interval.Milliseconds() != 1000 {
		t.Errorf("unexpected interval %s", Minimal.Interval)
	}
}

func TestExtendedTable(t *testing.T) {
	tbl := Extended.Table
	if len(tbl) != 2+3*NumStages+3 {
		t.Fatalf("unexpected table length %d", len(tbl))
	}

	t.Run("InterruptsLast", func(t *testing.T) {
		tail := tbl[len(tbl)-3:]
		if tail[0].Register != RegStageLowIntEnable ||
			tail[1].Register != RegStageHighIntEnable ||
			tail[2].Register != RegStageCompleteIntEnable {
			t.Errorf("interrupt enables must close the table:\n%s", pprint.Sdump(tail))
		}
	})

	t.Run("PowerControl", func(t *testing.T) {
		if tbl[0].Register != RegPwrControl {
			t.Fatal("power control must come first")
		}
		if seq := (tbl[0].Value & PwrSequenceMask) >> PwrSequenceShift; seq != NumStages-1 {
			t.Errorf("expected sequence of 12 stages, got field %d", seq)
		}
	})

	t.Run("OnePositiveInputPerStage", func(t *testing.T) {
		for s := Stage0; s < NumStages; s++ {
			var lo, hi uint16
			for _, e := range tbl {
				switch e.Register {
				case s.Connection60():
					lo = e.Value
				case s.Connection127():
					hi = e.Value
				}
			}
			positives := 0
			for i := 0; i < 7; i++ {
				if lo>>(2*i)&0b11 == CINPositive {
					positives++
				}
			}
			for i := 0; i < 6; i++ {
				if hi>>(2*i)&0b11 == CINPositive {
					positives++
				}
			}
			if positives != 1 {
				t.Errorf("%s: expected one positive input, got %d (%016b %016b)", s, positives, lo, hi)
			}
		}
	})

	if len(Extended.Results()) != NumStages {
		t.Errorf("expected %d result registers", NumStages)
	}
}
