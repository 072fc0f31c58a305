package ad7147

import (
	"bufio"
	"io"
	"strconv"
	"sync"
)

// Reporter receives verification values and polling cycles.
type Reporter interface {
	// Register reports one labelled register value.
	Register(name string, r Result)
	// Cycle reports one polling cycle, one result per stage.
	Cycle(results []Result)
}

// Console is a line-oriented [Reporter] writing plain decimal text.
// Failed reads print as -1.
type Console struct {
	mu    sync.Mutex
	w     *bufio.Writer
	delim string
	err   error
}

// NewConsole returns a Console writing to w with tab-separated fields.
func NewConsole(w io.Writer) *Console {
	return &Console{w: bufio.NewWriter(w), delim: "\t"}
}

// SetDelimiter changes the field separator.
func (c *Console) SetDelimiter(delim string) {
	c.mu.Lock()
	c.delim = delim
	c.mu.Unlock()
}

func (c *Console) Register(name string, r Result) {
	c.mu.Lock()
	_, _ = c.w.WriteString(name)
	_, _ = c.w.WriteString(c.delim)
	_, _ = c.w.WriteString(strconv.Itoa(int(r.Int())))
	_ = c.w.WriteByte('\n')
	c.flush()
	c.mu.Unlock()
}

func (c *Console) Cycle(results []Result) {
	c.mu.Lock()
	for i, r := range results {
		if i > 0 {
			_, _ = c.w.WriteString(c.delim)
		}
		_, _ = c.w.WriteString(strconv.Itoa(int(r.Int())))
	}
	_ = c.w.WriteByte('\n')
	c.flush()
	c.mu.Unlock()
}

func (c *Console) flush() {
	if err := c.w.Flush(); err != nil && c.err == nil {
		c.err = err
	}
}

// Err returns the first error hit writing to the underlying writer.
func (c *Console) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
