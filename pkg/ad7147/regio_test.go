package ad7147

import (
	"errors"
	"github.com/l0nax/go-spew/spew"
	"math/rand"
	"testing"
	"time"
)

var pprint = spew.ConfigState{
	Indent:                  "\t",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	SpewKeys:                true,
}

func newTestDevice(t *testing.T) (*AD7147, *Simulator) {
	t.Helper()
	sim := NewSimulator(Address)
	dev := NewAD7147(sim, Config{Delay: sim})
	return dev, sim
}

func TestWriteRegister(t *testing.T) {
	t.Run("FrameOrder", func(t *testing.T) {
		dev, sim := newTestDevice(t)
		if err := dev.WriteRegister(0x0A81, 0xBEEF); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tr := sim.Transfers()
		if len(tr) != 1 {
			t.Fatalf("expected 1 transfer, got %d:\n%s", len(tr), pprint.Sdump(tr))
		}
		want := []byte{0x0A, 0x81, 0xBE, 0xEF}
		if string(tr[0].Write) != string(want) {
			t.Errorf("expected frame % X, got % X", want, tr[0].Write)
		}
		if tr[0].Hold {
			t.Error("write must end with a stop, not a repeated start")
		}
		if tr[0].Addr != Address {
			t.Errorf("expected bus address 0x%02X, got 0x%02X", Address, tr[0].Addr)
		}
	})

	t.Run("AllWidths", func(t *testing.T) {
		dev, sim := newTestDevice(t)
		rng := rand.New(rand.NewSource(7147))
		for i := 0; i < 500; i++ {
			reg, val := Register(rng.Intn(0x10000)), uint16(rng.Intn(0x10000))
			sim.Reset()
			if err := dev.WriteRegister(reg, val); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			w := sim.Transfers()[0].Write
			if len(w) != 4 ||
				w[0] != byte(reg>>8&0xFF) || w[1] != byte(reg&0xFF) ||
				w[2] != byte(val>>8&0xFF) || w[3] != byte(val&0xFF) {
				t.Fatalf("reg 0x%04X val 0x%04X: bad frame % X", uint16(reg), val, w)
			}
		}
	})

	t.Run("SettleDelay", func(t *testing.T) {
		dev, sim := newTestDevice(t)
		_ = dev.WriteRegister(RegPwrControl, 0)
		sim.Fail = func(int, Transfer) Status { return StatusDataNACK }
		_ = dev.WriteRegister(RegPwrControl, 0)
		d := sim.Delays()
		if len(d) != 2 || d[0] != time.Millisecond || d[1] != time.Millisecond {
			t.Errorf("expected two 1ms delays, got %v", d)
		}
	})

	t.Run("NACK", func(t *testing.T) {
		dev, sim := newTestDevice(t)
		sim.Fail = func(int, Transfer) Status { return StatusDataNACK }
		err := dev.WriteRegister(RegStageCalEn, 0x1234)
		if err == nil {
			t.Fatal("expected error")
		}
		var te *TransportError
		if !errors.As(err, &te) {
			t.Fatalf("expected *TransportError, got %T", err)
		}
		if te.Op != "write" || te.Register != RegStageCalEn {
			t.Errorf("unexpected error fields: %s", pprint.Sdump(te))
		}
		if !errors.Is(err, ErrDataNACK) {
			t.Errorf("expected ErrDataNACK in chain: %v", err)
		}
		if n := len(sim.Transfers()); n != 1 {
			t.Errorf("write was retried: %d transfers", n)
		}
		if len(sim.Writes()) != 0 {
			t.Error("failed write must not reach the register file")
		}
	})

	t.Run("WrongAddress", func(t *testing.T) {
		sim := NewSimulator(0x2D)
		dev := NewAD7147(sim, Config{Delay: sim})
		if err := dev.WriteRegister(RegPwrControl, 1); !errors.Is(err, ErrAddressNACK) {
			t.Errorf("expected ErrAddressNACK, got %v", err)
		}
	})
}

func TestReadRegister(t *testing.T) {
	t.Run("Frame", func(t *testing.T) {
		dev, sim := newTestDevice(t)
		sim.Set(RegCDCResultS1, 0x1234)
		v, err := dev.ReadRegister(RegCDCResultS1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != 0x1234 {
			t.Errorf("expected 0x1234, got 0x%04X", v)
		}
		tr := sim.Transfers()
		if len(tr) != 2 {
			t.Fatalf("expected pointer write and request, got:\n%s", pprint.Sdump(tr))
		}
		if string(tr[0].Write) != "\x00\x0C" || !tr[0].Hold {
			t.Errorf("expected held 2-byte pointer write, got:\n%s", pprint.Sdump(tr[0]))
		}
		if tr[1].Read != 2 || tr[1].Addr != Address {
			t.Errorf("expected a 2-byte request, got:\n%s", pprint.Sdump(tr[1]))
		}
		if d := sim.Delays(); len(d) != 1 || d[0] != time.Millisecond {
			t.Errorf("expected one settle delay, got %v", d)
		}
	})

	t.Run("ByteOrder", func(t *testing.T) {
		dev, sim := newTestDevice(t)
		sim.Set(RegCDCResultS0, 0x01FF)
		v, _ := dev.ReadRegister(RegCDCResultS0)
		if v != 0x01FF {
			t.Errorf("expected 0x01FF, got 0x%04X (bytes swapped?)", v)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		dev, _ := newTestDevice(t)
		rng := rand.New(rand.NewSource(42))
		for i := 0; i < 500; i++ {
			reg, val := Register(rng.Intn(0x1000)), uint16(rng.Intn(0x10000))
			switch reg {
			case RegStageLowIntStatus, RegStageHighIntStatus, RegStageCompleteIntStatus:
				continue
			}
			if err := dev.WriteRegister(reg, val); err != nil {
				t.Fatalf("write: %v", err)
			}
			got, err := dev.ReadRegister(reg)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if got != val {
				t.Fatalf("reg 0x%03X: wrote 0x%04X, read 0x%04X", uint16(reg), val, got)
			}
		}
	})

	t.Run("NothingAvailable", func(t *testing.T) {
		dev, sim := newTestDevice(t)
		sim.Set(RegCDCResultS0, 0xAAAA)
		sim.RxLimit = 0
		r := dev.Read(RegCDCResultS0)
		if r.OK() {
			t.Fatalf("expected failure, got value 0x%04X", r.Value)
		}
		if !errors.Is(r.Err, ErrShortRead) {
			t.Errorf("expected ErrShortRead, got %v", r.Err)
		}
		if r.Int() != -1 {
			t.Errorf("expected sentinel -1, got %d", r.Int())
		}
	})

	t.Run("OneByteAvailable", func(t *testing.T) {
		dev, sim := newTestDevice(t)
		sim.Set(RegCDCResultS0, 0xAB00)
		sim.RxLimit = 1
		if _, err := dev.ReadRegister(RegCDCResultS0); !errors.Is(err, ErrShortRead) {
			t.Fatalf("expected ErrShortRead, got %v", err)
		}
		if n := sim.Available(); n != 0 {
			t.Errorf("partial data left in receive buffer: %d bytes", n)
		}

		sim.RxLimit = -1
		sim.Set(RegCDCResultS0, 0x0102)
		if v, err := dev.ReadRegister(RegCDCResultS0); err != nil || v != 0x0102 {
			t.Errorf("next read should be clean, got 0x%04X, %v", v, err)
		}
	})

	t.Run("PointerNACK", func(t *testing.T) {
		dev, sim := newTestDevice(t)
		sim.Fail = func(int, Transfer) Status { return StatusAddressNACK }
		sim.Set(RegPwrControl, 0x1234)
		v, err := dev.ReadRegister(RegPwrControl)
		if !errors.Is(err, ErrAddressNACK) {
			t.Fatalf("expected ErrAddressNACK, got %v", err)
		}
		if v != 0 {
			t.Errorf("expected no value on failure, got 0x%04X", v)
		}
		tr := sim.Transfers()
		if len(tr) != 2 || tr[1].Read != 2 {
			t.Fatalf("expected the 2-byte request after the failed pointer write, got:\n%s", pprint.Sdump(tr))
		}
		if n := sim.Available(); n != 0 {
			t.Errorf("received bytes left in buffer: %d", n)
		}
		if d := sim.Delays(); len(d) != 1 {
			t.Errorf("expected one settle delay, got %v", d)
		}
	})
}

type erroringWire struct {
	*Simulator
	err error
}

func (w erroringWire) Err() error { return w.err }

func TestTransportErrorCause(t *testing.T) {
	sim := NewSimulator(Address)
	sim.Fail = func(int, Transfer) Status { return StatusOther }
	cause := errors.New("i2c: remote I/O error")
	dev := NewAD7147(erroringWire{Simulator: sim, err: cause}, Config{Delay: sim})

	err := dev.WriteRegister(RegPwrControl, 0)
	if !errors.Is(err, cause) {
		t.Errorf("expected transport cause in chain: %v", err)
	}
	if !errors.Is(err, ErrBus) {
		t.Errorf("expected ErrBus in chain: %v", err)
	}
}

func TestDeviceID(t *testing.T) {
	dev, sim := newTestDevice(t)
	part, rev, err := dev.DeviceID()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if part != DeviceIDPart || rev != 2 {
		t.Errorf("expected part 0x147 rev 2, got 0x%03X rev %d", part, rev)
	}

	sim.Set(RegDeviceID, 0x1480)
	if _, _, err = dev.DeviceID(); !errors.Is(err, ErrUnexpectedDevice) {
		t.Errorf("expected ErrUnexpectedDevice, got %v", err)
	}
}

func TestInterruptStatus(t *testing.T) {
	dev, sim := newTestDevice(t)
	sim.Set(RegStageLowIntStatus, 0x0001)
	sim.Set(RegStageHighIntStatus, 0x0002)
	sim.Set(RegStageCompleteIntStatus, 0x0004)

	low, high, complete, err := dev.InterruptStatus()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if low != 1 || high != 2 || complete != 4 {
		t.Errorf("unexpected status %d %d %d", low, high, complete)
	}

	low, high, complete, _ = dev.InterruptStatus()
	if low|high|complete != 0 {
		t.Errorf("status registers should clear on read, got %d %d %d", low, high, complete)
	}
}
