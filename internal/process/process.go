// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具
//
// Package process wraps exec.Cmd for running an ffmpeg extraction to completion.

package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/ZSC714725/framegrab/internal/logger"
)

// Process represents a child process that runs until it exits on its own
// or is stopped
type Process interface {
	Status() Status
	Start() error
	Stop(wait bool) error
	IsRunning() bool
	// Wait blocks until the current run has exited or ctx is done
	Wait(ctx context.Context) error
}

// Config for a process
type Config struct {
	Binary       string
	Args         []string
	StaleTimeout time.Duration
	KillTimeout  time.Duration
	Parser       Parser
	Sampler      Sampler
	Logger       logger.Logger
	OnStart      func()
	OnExit       func(state string)
	// OnStateChange is called in its own goroutine
	OnStateChange func(from, to string)
}

// Status of a process
type Status struct {
	State    string
	States   States
	Order    string
	Duration time.Duration
	Time     time.Time
	ExitCode int
	CPU      float64
	Memory   uint64
}

// States cumulative counts
type States struct {
	Finished  uint64
	Starting  uint64
	Running   uint64
	Finishing uint64
	Failed    uint64
	Killed    uint64
}

// ErrNoBinary is returned by New without a binary
var ErrNoBinary = errors.New("no valid binary given")

type stateType string

const (
	stateFinished  stateType = "finished"
	stateStarting  stateType = "starting"
	stateRunning   stateType = "running"
	stateFinishing stateType = "finishing"
	stateFailed    stateType = "failed"
	stateKilled    stateType = "killed"
)

func (s stateType) String() string { return string(s) }

func (s stateType) IsRunning() bool {
	return s == stateStarting || s == stateRunning || s == stateFinishing
}

// transitions lists the states reachable from each state
var transitions = map[stateType][]stateType{
	stateFinished:  {stateStarting},
	stateStarting:  {stateRunning, stateFailed},
	stateRunning:   {stateFinished, stateFinishing, stateFailed, stateKilled},
	stateFinishing: {stateFinished, stateFailed, stateKilled},
	stateFailed:    {stateStarting},
	stateKilled:    {stateStarting},
}

type process struct {
	binary string
	args   []string
	cmd    *exec.Cmd
	stderr io.ReadCloser
	done   chan struct{}

	state struct {
		state    stateType
		time     time.Time
		states   States
		exitCode int
		lock     sync.Mutex
	}
	order struct {
		order string
		lock  sync.Mutex
	}
	stale struct {
		last    time.Time
		timeout time.Duration
		cancel  context.CancelFunc
		lock    sync.Mutex
	}
	killTimeout   time.Duration
	killTimer     *time.Timer
	killTimerLock sync.Mutex

	parser    Parser
	sampler   Sampler
	logger    logger.Logger
	callbacks struct {
		onStart       func()
		onExit        func(state string)
		onStateChange func(from, to string)
	}
}

// New creates a new process
func New(config Config) (Process, error) {
	if len(config.Binary) == 0 {
		return nil, ErrNoBinary
	}

	p := &process{
		binary:      config.Binary,
		args:        config.Args,
		parser:      config.Parser,
		sampler:     config.Sampler,
		logger:      config.Logger,
		killTimeout: config.KillTimeout,
	}

	if p.parser == nil {
		p.parser = &nullParser{}
	}
	if p.sampler == nil {
		p.sampler = NewSysSampler()
	}
	if p.logger == nil {
		p.logger = logger.Nop()
	}
	if p.killTimeout <= 0 {
		p.killTimeout = 5 * time.Second
	}

	p.order.order = "stop"
	p.state.state = stateFinished
	p.state.time = time.Now()
	p.stale.timeout = config.StaleTimeout
	p.callbacks.onStart = config.OnStart
	p.callbacks.onExit = config.OnExit
	p.callbacks.onStateChange = config.OnStateChange

	// 未启动时 Wait 立即返回
	p.done = make(chan struct{})
	close(p.done)

	return p, nil
}

func (p *process) setState(state stateType) error {
	p.state.lock.Lock()
	defer p.state.lock.Unlock()

	prev := p.state.state
	allowed := false
	for _, s := range transitions[prev] {
		if s == state {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("can't change from %s to %s", prev, state)
	}

	p.state.state = state
	p.state.time = time.Now()
	switch state {
	case stateFinished:
		p.state.states.Finished++
	case stateStarting:
		p.state.states.Starting++
	case stateRunning:
		p.state.states.Running++
	case stateFinishing:
		p.state.states.Finishing++
	case stateFailed:
		p.state.states.Failed++
	case stateKilled:
		p.state.states.Killed++
	}

	p.logger.Debug("state %s -> %s", prev, state)
	if p.callbacks.onStateChange != nil {
		go p.callbacks.onStateChange(prev.String(), state.String())
	}
	return nil
}

func (p *process) getState() stateType {
	p.state.lock.Lock()
	defer p.state.lock.Unlock()
	return p.state.state
}

func (p *process) Status() Status {
	cpu, memory := p.sampler.Current()

	p.state.lock.Lock()
	s := Status{
		State:    p.state.state.String(),
		States:   p.state.states,
		Duration: time.Since(p.state.time),
		Time:     p.state.time,
		ExitCode: p.state.exitCode,
	}
	p.state.lock.Unlock()

	p.order.lock.Lock()
	s.Order = p.order.order
	p.order.lock.Unlock()

	s.CPU = cpu
	s.Memory = memory
	return s
}

func (p *process) IsRunning() bool {
	return p.getState().IsRunning()
}

func (p *process) Start() error {
	p.order.lock.Lock()
	defer p.order.lock.Unlock()

	if p.getState().IsRunning() {
		return nil
	}
	p.order.order = "start"
	return p.start()
}

func (p *process) start() error {
	if err := p.setState(stateStarting); err != nil {
		return err
	}

	p.parser.ResetStats()
	p.parser.ResetLog()

	var err error
	p.cmd = exec.Command(p.binary, p.args...)
	p.cmd.Env = []string{}

	p.stderr, err = p.cmd.StderrPipe()
	if err == nil {
		err = p.cmd.Start()
	}
	if err != nil {
		p.parser.Parse(err.Error())
		p.setState(stateFailed)
		p.order.order = "stop"
		return err
	}

	p.done = make(chan struct{})
	p.sampler.Start(p.cmd.Process.Pid)
	p.setState(stateRunning)
	p.logger.Info("started pid %d", p.cmd.Process.Pid)

	if p.callbacks.onStart != nil {
		go p.callbacks.onStart()
	}

	if p.stale.timeout != 0 {
		ctx, cancel := context.WithCancel(context.Background())
		p.stale.lock.Lock()
		p.stale.cancel = cancel
		p.stale.last = time.Now()
		p.stale.lock.Unlock()
		go p.staler(ctx)
	}

	go p.reader(p.cmd, p.stderr, p.done)

	return nil
}

func (p *process) Stop(wait bool) error {
	p.order.lock.Lock()
	p.order.order = "stop"
	done, err := p.stop()
	p.order.lock.Unlock()

	if err == nil && wait {
		<-done
	}
	return err
}

// stop asks the process to quit and returns the channel closed on exit.
// The caller holds the order lock.
func (p *process) stop() (chan struct{}, error) {
	done := p.done
	state := p.getState()
	if !state.IsRunning() || state == stateFinishing {
		return done, nil
	}
	if err := p.setState(stateFinishing); err != nil {
		return done, err
	}

	var err error
	if runtime.GOOS == "windows" {
		err = p.cmd.Process.Kill()
	} else {
		// ffmpeg flushes its outputs on SIGINT
		err = p.cmd.Process.Signal(os.Interrupt)
		if err != nil {
			err = p.cmd.Process.Kill()
		} else {
			proc := p.cmd.Process
			p.killTimerLock.Lock()
			p.killTimer = time.AfterFunc(p.killTimeout, func() {
				proc.Kill()
			})
			p.killTimerLock.Unlock()
		}
	}

	if err != nil {
		p.parser.Parse(err.Error())
		p.logger.Error("stop: %v", err)
	}
	return done, err
}

func (p *process) Wait(ctx context.Context) error {
	p.order.lock.Lock()
	done := p.done
	p.order.lock.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *process) staler(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			p.stale.lock.Lock()
			last := p.stale.last
			timeout := p.stale.timeout
			p.stale.lock.Unlock()

			if t.Sub(last) > timeout {
				p.logger.Error("no progress for %s, stopping", timeout)
				p.order.lock.Lock()
				p.stop()
				p.order.lock.Unlock()
				return
			}
		}
	}
}

func (p *process) reader(cmd *exec.Cmd, stderr io.Reader, done chan struct{}) {
	scanner := bufio.NewScanner(stderr)
	scanner.Split(scanLine)

	for scanner.Scan() {
		if n := p.parser.Parse(scanner.Text()); n != 0 {
			p.stale.lock.Lock()
			p.stale.last = time.Now()
			p.stale.lock.Unlock()
		}
	}

	p.waiter(cmd, done)
}

func (p *process) waiter(cmd *exec.Cmd, done chan struct{}) {
	err := cmd.Wait()
	stopping := p.getState() == stateFinishing
	exitCode := 0
	next := stateFinished

	if err != nil {
		var exiterr *exec.ExitError
		if errors.As(err, &exiterr) {
			status, ok := exiterr.Sys().(syscall.WaitStatus)
			switch {
			case ok && status.Exited():
				exitCode = status.ExitStatus()
				// ffmpeg exits with 255 after SIGINT
				if stopping && exitCode == 255 {
					next = stateKilled
				} else {
					next = stateFailed
				}
			default:
				exitCode = -1
				next = stateKilled
			}
		} else {
			exitCode = -1
			next = stateKilled
		}
	}
	if stopping && next == stateFinished {
		// 收到停止信号但正常退出
		next = stateKilled
	}

	p.state.lock.Lock()
	p.state.exitCode = exitCode
	p.state.lock.Unlock()
	p.setState(next)
	p.logger.Info("exited with code %d (%s)", exitCode, next)

	p.sampler.Stop()

	p.killTimerLock.Lock()
	if p.killTimer != nil {
		p.killTimer.Stop()
		p.killTimer = nil
	}
	p.killTimerLock.Unlock()

	p.stale.lock.Lock()
	if p.stale.cancel != nil {
		p.stale.cancel()
		p.stale.cancel = nil
	}
	p.stale.lock.Unlock()

	close(done)

	if p.callbacks.onExit != nil {
		go p.callbacks.onExit(next.String())
	}
}

// scanLine splits on \n and \r so that ffmpeg's carriage-return progress
// updates arrive as separate lines
func scanLine(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) {
		r, w := utf8.DecodeRune(data[start:])
		if r != '\n' && r != '\r' {
			break
		}
		start += w
	}

	for i := start; i < len(data); {
		r, w := utf8.DecodeRune(data[i:])
		if r == '\n' || r == '\r' {
			return i + w, data[start:i], nil
		}
		i += w
	}

	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	return start, nil, nil
}
