package emulator

import (
	"context"
	"errors"
	"log"
	"math"
	"sync"
	"time"

	"github.com/ezrec/i8080/cpu"
)

const (
	RUN_BATCH_STEPS  = 1000      // Instructions per batch while running.
	MAX_CYCLES_LIMIT = 6_000_000 // Largest cycles per second limit.

	LIMIT_WINDOW    = 50 * time.Millisecond  // Throttle window of a batch.
	STATUS_INTERVAL = 100 * time.Millisecond // Status period while running.
	RATE_INTERVAL   = 500 * time.Millisecond // Cycles per second sample period.

	STATUS_DEPTH = 16 // Buffered status updates.
)

// Command is a request to the controller.
type Command int

//go:generate go tool stringer -linecomment -type=Command
const (
	CMD_RUN   = Command(0) // run
	CMD_STEP  = Command(1) // step
	CMD_STOP  = Command(2) // stop
	CMD_RESET = Command(3) // reset
	CMD_LIMIT = Command(4) // limit
)

type request struct {
	cmd   Command
	limit uint64
}

// Status is a snapshot published by the controller.
type Status struct {
	cpu.State
	LineNo          int    // Source line at PC.
	Running         bool   // Set while running continuously.
	CyclesLimit     uint64 // Cycles per second limit, 0 if unlimited.
	CyclesPerSecond uint64 // Measured execution rate.
	Err             error  // Runtime error that stopped the controller.
}

// Controller owns an Emulator in its own goroutine, and drives it with
// run, step, stop, reset and cycle limit commands.
type Controller struct {
	emu *Emulator

	requests chan request
	status   chan Status
	quit     chan struct{}
	done     chan struct{}
	once     sync.Once
	err      error

	// Owned by the controller goroutine.
	running    bool
	limit      uint64
	cycles     uint64
	cps        uint64
	lastHalted bool
	lastRate   time.Time
	lastStatus time.Time
}

// NewController starts a controller for emu, which must not be used by
// the caller until Wait returns. A zero limit runs unthrottled.
func NewController(ctx context.Context, emu *Emulator, limit uint64) (ctl *Controller) {
	ctl = &Controller{
		emu:      emu,
		requests: make(chan request),
		status:   make(chan Status, STATUS_DEPTH),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		limit:    min(limit, MAX_CYCLES_LIMIT),
	}

	go ctl.loop(ctx)

	return
}

// Status returns the channel of status updates. It is closed when the
// controller stops.
func (ctl *Controller) Status() <-chan Status {
	return ctl.status
}

// Run executes continuously until halted or stopped.
func (ctl *Controller) Run() {
	ctl.send(request{cmd: CMD_RUN})
}

// Step executes a single instruction.
func (ctl *Controller) Step() {
	ctl.send(request{cmd: CMD_STEP})
}

// Stop ends continuous execution after the current batch.
func (ctl *Controller) Stop() {
	ctl.send(request{cmd: CMD_STOP})
}

// Reset the emulator.
func (ctl *Controller) Reset() {
	ctl.send(request{cmd: CMD_RESET})
}

// SetCyclesLimit sets the cycles per second limit, 0 for unlimited.
func (ctl *Controller) SetCyclesLimit(limit uint64) {
	ctl.send(request{cmd: CMD_LIMIT, limit: limit})
}

// Close stops the controller.
func (ctl *Controller) Close() {
	ctl.once.Do(func() { close(ctl.quit) })
}

// Wait blocks until the controller stops, and returns the error that
// stopped it.
func (ctl *Controller) Wait() error {
	<-ctl.done
	return ctl.err
}

func (ctl *Controller) send(req request) {
	select {
	case ctl.requests <- req:
	case <-ctl.done:
	}
}

// publish queues a status, dropping the oldest queued one if full.
func (ctl *Controller) publish(err error) {
	emu := ctl.emu
	st := Status{
		State:           emu.Cpu.Snapshot(),
		LineNo:          emu.LineNo(),
		Running:         ctl.running,
		CyclesLimit:     ctl.limit,
		CyclesPerSecond: ctl.cps,
		Err:             err,
	}

	ctl.lastStatus = time.Now()
	ctl.lastHalted = st.Halted

	for {
		select {
		case ctl.status <- st:
			return
		default:
		}
		select {
		case <-ctl.status:
		default:
		}
	}
}

func (ctl *Controller) loop(ctx context.Context) {
	defer close(ctl.done)
	defer close(ctl.status)

	ctl.lastHalted = ctl.emu.Cpu.Halted
	ctl.lastRate = time.Now()
	ctl.publish(nil)

	for {
		var err error

		if !ctl.running {
			select {
			case <-ctx.Done():
				ctl.err = ctx.Err()
				return
			case <-ctl.quit:
				return
			case req := <-ctl.requests:
				err = ctl.handle(req)
			}
		} else {
			err = ctl.batch(ctx)
			if err == nil {
				select {
				case <-ctx.Done():
					ctl.err = ctx.Err()
					return
				case <-ctl.quit:
					return
				case req := <-ctl.requests:
					err = ctl.handle(req)
				default:
				}
			}
			ctl.report()
		}

		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				ctl.err = err
				return
			}
			if ctl.emu.Verbose {
				log.Printf("controller: %v", err)
			}
			ctl.running = false
			ctl.err = err
			ctl.publish(err)
			return
		}
	}
}

// handle executes one command, and publishes the resulting status.
func (ctl *Controller) handle(req request) (err error) {
	if ctl.emu.Verbose {
		log.Printf("controller: %v", req.cmd)
	}

	switch req.cmd {
	case CMD_RUN:
		ctl.running = !ctl.emu.Cpu.Halted
		ctl.lastRate = time.Now()
		ctl.cycles = 0
	case CMD_STEP:
		var cycles int
		cycles, err = ctl.step()
		if err != nil {
			return
		}
		elapsed := time.Since(ctl.lastRate)
		ctl.cps = 0
		if elapsed > 0 {
			ctl.cps = uint64(math.Round(float64(ctl.cycles+uint64(cycles)) / elapsed.Seconds()))
		}
		ctl.cycles = 0
		ctl.lastRate = time.Now()
	case CMD_STOP:
		ctl.running = false
	case CMD_RESET:
		err = ctl.emu.Reset()
		if err != nil {
			return
		}
		ctl.running = false
		ctl.cycles = 0
		ctl.cps = 0
		ctl.lastRate = time.Now()
	case CMD_LIMIT:
		ctl.limit = min(req.limit, MAX_CYCLES_LIMIT)
	}

	ctl.publish(nil)
	return
}

func (ctl *Controller) step() (cycles int, err error) {
	if ctl.emu.Cpu.Halted {
		return
	}

	return ctl.emu.Step()
}

// batch runs up to RUN_BATCH_STEPS instructions, then sleeps off any
// time left over from the cycle limit.
func (ctl *Controller) batch(ctx context.Context) (err error) {
	if ctl.emu.Cpu.Halted {
		ctl.running = false
		ctl.publish(nil)
		return
	}

	start := time.Now()
	budget := uint64(math.MaxUint64)
	if ctl.limit != 0 {
		budget = max(uint64(math.Ceil(float64(ctl.limit)*LIMIT_WINDOW.Seconds())), 1)
	}

	var cycles uint64
	for steps := 0; steps < RUN_BATCH_STEPS && !ctl.emu.Cpu.Halted && cycles < budget; steps++ {
		var n int
		n, err = ctl.step()
		cycles += uint64(n)
		if err != nil {
			break
		}
	}
	ctl.cycles += cycles

	if err != nil || ctl.limit == 0 {
		return
	}

	expected := time.Duration(float64(cycles) / float64(ctl.limit) * float64(time.Second))
	if wait := expected - time.Since(start); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			err = ctx.Err()
		}
	}

	return
}

// report updates the execution rate and publishes periodic status while
// running.
func (ctl *Controller) report() {
	if elapsed := time.Since(ctl.lastRate); elapsed >= RATE_INTERVAL {
		ctl.cps = uint64(math.Round(float64(ctl.cycles) / elapsed.Seconds()))
		ctl.cycles = 0
		ctl.lastRate = time.Now()
	}

	if ctl.emu.Cpu.Halted {
		ctl.running = false
	}

	if ctl.emu.Cpu.Halted != ctl.lastHalted || time.Since(ctl.lastStatus) >= STATUS_INTERVAL {
		ctl.publish(nil)
	}
}
