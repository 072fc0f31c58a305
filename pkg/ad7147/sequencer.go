package ad7147

import (
	"context"
	"errors"
	"fmt"
	"github.com/rs/zerolog"
	"time"
)

// Sequencer brings an AD7147 up from a [Variant]'s table and then samples its
// conversion results.
type Sequencer struct {
	dev     *AD7147
	variant Variant
	out     Reporter
	log     zerolog.Logger

	// StopOnError makes BringUp abort at the first failed write. By default
	// every entry is attempted and failures are only collected.
	StopOnError bool
}

// NewSequencer returns a Sequencer for dev configured as v, reporting to out.
func NewSequencer(dev *AD7147, v Variant, out Reporter) *Sequencer {
	return &Sequencer{
		dev:     dev,
		variant: v,
		out:     out,
		log:     dev.log.With().Str("variant", v.Name).Logger(),
	}
}

// Variant returns the configuration the sequencer applies.
func (s *Sequencer) Variant() Variant {
	return s.variant
}

// SetInterval overrides the variant's poll interval.
func (s *Sequencer) SetInterval(d time.Duration) {
	s.variant.Interval = d
}

// BringUp writes every table entry in order. A failed write does not stop the
// sequence unless StopOnError is set; all failures are returned joined.
func (s *Sequencer) BringUp() error {
	var errs []error
	for i, e := range s.variant.Table {
		if err := s.dev.WriteRegister(e.Register, e.Value); err != nil {
			s.log.Warn().Err(err).Int("entry", i).Msg("bring-up write failed")
			errs = append(errs, err)
			if s.StopOnError {
				return fmt.Errorf("bring-up aborted at entry %d: %w", i, errors.Join(errs...))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("bring-up: %d of %d writes failed: %w", len(errs), len(s.variant.Table), errors.Join(errs...))
	}
	s.log.Debug().Int("entries", len(s.variant.Table)).Msg("bring-up complete")
	return nil
}

// Verify reads back every register named in the table, in table order, and
// reports each value by name. Nothing is compared.
func (s *Sequencer) Verify() []Result {
	results := make([]Result, 0, len(s.variant.Table))
	for _, reg := range s.variant.Table.Registers() {
		r := s.dev.Read(reg)
		s.out.Register(reg.String(), r)
		results = append(results, r)
	}
	return results
}

// Cycle reads the conversion result of every stage, in stage order, and
// reports them as one line.
func (s *Sequencer) Cycle() []Result {
	results := make([]Result, 0, len(s.variant.Stages))
	for _, reg := range s.variant.Results() {
		results = append(results, s.dev.Read(reg))
	}
	s.out.Cycle(results)
	return results
}

// Poll runs Cycle then waits the poll interval, until ctx is done. Read
// failures never stop it. With a context that is never cancelled Poll does
// not return.
func (s *Sequencer) Poll(ctx context.Context) error {
	for ctx.Err() == nil {
		s.Cycle()
		s.dev.Sleep(s.variant.Interval)
	}
	return ctx.Err()
}

// Run performs the whole start-up contract: bring-up, verification reads, then
// polling. Bring-up failures are logged and do not prevent polling.
func (s *Sequencer) Run(ctx context.Context) error {
	if err := s.BringUp(); err != nil {
		if s.StopOnError {
			return err
		}
		s.log.Warn().Err(err).Msg("continuing after bring-up failures")
	}
	s.Verify()
	return s.Poll(ctx)
}
