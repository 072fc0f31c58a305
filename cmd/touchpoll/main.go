package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/rs/zerolog"
	"github.com/yunginnanet/ftdi-ad7147/pkg/ad7147"
	"github.com/yunginnanet/ftdi-ad7147/pkg/ft232h"
	"github.com/yunginnanet/ftdi-ad7147/pkg/i2cwire"
	"os"
	"os/signal"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
	"syscall"
	"time"
)

var log zerolog.Logger

func init() {
	cw := zerolog.ConsoleWriter{Out: os.Stderr}
	log = zerolog.New(cw).With().Timestamp().Logger()
}

type options struct {
	transport string
	bus       string
	ftindex   int
	scl, sda  uint
	clock     physic.Frequency
	variant   string
	interval  time.Duration
	addr      uint
	debug     bool
}

func flags() options {
	opts := options{clock: ft232h.DefaultClock}
	flag.StringVar(&opts.transport, "transport", "ft232h", "Bus transport: sim, periph or ft232h")
	flag.StringVar(&opts.bus, "bus", "", "periph I2C bus name (empty for the first one)")
	flag.IntVar(&opts.ftindex, "FT232H", 0, "FT232H Index")
	flag.UintVar(&opts.scl, "SCL", 0x01, "I2C clock (GPIO, open-drain)")
	flag.UintVar(&opts.sda, "SDA", 0x02, "I2C data (GPIO, open-drain)")
	flag.Var(&opts.clock, "clock", "Bit-banged SCL frequency")
	flag.StringVar(&opts.variant, "variant", "minimal", "Configuration table: minimal or extended")
	flag.DurationVar(&opts.interval, "interval", 0, "Poll interval override")
	flag.UintVar(&opts.addr, "addr", uint(ad7147.Address), "AD7147 7-bit bus address")
	flag.BoolVar(&opts.debug, "debug", false, "Log every bus transaction failure and bring-up step")
	flag.Parse()
	return opts
}

// simulated returns a device model with plausible conversion results loaded.
func simulated(addr uint8) *ad7147.Simulator {
	sim := ad7147.NewSimulator(addr)
	sim.MaxLog = 64
	for s := ad7147.Stage0; s < ad7147.NumStages; s++ {
		sim.Set(s.Result(), 0x8000+uint16(s)*0x10)
	}
	return sim
}

// openWire returns the transport selected by opts and a function releasing it.
func openWire(opts options) (ad7147.Wire, func() error, error) {
	nop := func() error { return nil }

	switch opts.transport {
	case "sim":
		return simulated(uint8(opts.addr)), nop, nil
	case "periph":
		if _, err := host.Init(); err != nil {
			return nil, nil, err
		}
		bus, err := i2creg.Open(opts.bus)
		if err != nil {
			return nil, nil, err
		}
		w := i2cwire.NewBus(bus)
		w.SetLogger(log)
		log.Info().Stringer("bus", bus).Msg("opened I2C bus")
		return w, bus.Close, nil
	case "ft232h":
		ft, err := ft232h.Connect(ft232h.ByIndex(opts.ftindex))
		if err != nil {
			return nil, nil, err
		}
		log.Info().Any("info", ft.Info()).
			Msgf("connected to FT232H: %s", ft)
		if err = ft.SetClock(opts.clock); err != nil {
			_ = ft.Close()
			return nil, nil, err
		}
		if err = ft.SetPins(opts.scl, opts.sda); err != nil {
			_ = ft.Close()
			return nil, nil, err
		}
		w := i2cwire.NewMaster(ft)
		w.SetLogger(log)
		return w, ft.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown transport %q", opts.transport)
	}
}

func main() {
	opts := flags()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if opts.debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	variant, ok := ad7147.Variants[opts.variant]
	if !ok {
		log.Fatal().Str("variant", opts.variant).Msg("unknown variant")
	}

	wire, closer, err := openWire(opts)
	if err != nil {
		log.Fatal().Err(err).Str("transport", opts.transport).Msg("failed to open bus transport")
	}
	defer func() {
		if err := closer(); err != nil {
			log.Error().Err(err).Msg("failed to close bus transport")
		}
	}()

	cfg := ad7147.DefaultConfig()
	cfg.Address = uint8(opts.addr)
	cfg.Logger = &log

	dev := ad7147.NewAD7147(wire, cfg)

	part, rev, err := dev.DeviceID()
	if err != nil {
		log.Warn().Err(err).Msg("AD7147 did not identify itself")
	} else {
		log.Info().Uint16("part", part).Uint8("revision", rev).
			Msgf("found AD7147 at 0x%02X", dev.BusAddress())
	}

	console := ad7147.NewConsole(os.Stdout)
	seq := ad7147.NewSequencer(dev, variant, console)
	if opts.interval > 0 {
		seq.SetInterval(opts.interval)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("variant", variant.Name).Int("stages", len(variant.Stages)).
		Dur("interval", seq.Variant().Interval).Msg("starting")

	if err = seq.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("sequencer stopped")
	}
	if err = console.Err(); err != nil {
		log.Error().Err(err).Msg("failed to write results")
	}
}
