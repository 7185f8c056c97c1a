package modules

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tevino/abool"
)

var (
	modulesLock sync.RWMutex
	modules     = make(map[string]*Module)

	// ErrCleanExit is returned by Start() when the program is interrupted
	// before starting. This can happen for example, when using the "--help" flag.
	ErrCleanExit = errors.New("clean exit requested")
)

// Module represents a module.
type Module struct {
	sync.Mutex

	Name string

	// lifecycle mgmt
	Prepped      *abool.AtomicBool
	Started      *abool.AtomicBool
	Stopped      *abool.AtomicBool
	inTransition *abool.AtomicBool

	// lifecycle callback functions
	prepFn  func() error
	startFn func() error
	stopFn  func() error

	// shutdown mgmt
	Ctx             context.Context
	cancelCtx       func()
	stopFlag        *abool.AtomicBool
	ctrlFuncRunning *abool.AtomicBool
	workerCnt       *int32
	stopComplete    chan struct{}

	// events
	eventHooks     map[string][]*eventHook
	eventHooksLock sync.RWMutex

	// dependency mgmt
	depNames   []string
	depModules []*Module
	depReverse []*Module
}

// IsStopping returns whether the module has started shutting down. In most
// cases, you should use Stopping instead.
func (m *Module) IsStopping() bool {
	return m.stopFlag.IsSet()
}

// Stopping lets you listen for the module shutdown signal.
func (m *Module) Stopping() <-chan struct{} {
	return m.Ctx.Done()
}

// OnlineSoon returns whether the module is or is about to be online.
func (m *Module) OnlineSoon() bool {
	return !m.stopFlag.IsSet()
}

func (m *Module) checkIfStopComplete() {
	if m.stopFlag.IsSet() &&
		atomic.LoadInt32(m.workerCnt) == 0 &&
		!m.ctrlFuncRunning.IsSet() {

		m.Lock()
		defer m.Unlock()
		if m.stopComplete != nil {
			close(m.stopComplete)
			m.stopComplete = nil
		}
	}
}

func (m *Module) shutdown() error {
	// signal shutdown
	m.stopFlag.Set()
	m.cancelCtx()

	// set up completion signal before checking
	m.Lock()
	stopComplete := make(chan struct{})
	m.stopComplete = stopComplete
	m.Unlock()

	// check right away in case no workers are active
	m.checkIfStopComplete()

	// wait for workers
	select {
	case <-stopComplete:
	case <-time.After(3 * time.Second):
		return errors.New("timed out while waiting for module workers to finish")
	}

	// call shutdown function, workers are finished
	return m.runCtrlFnWithTimeout("stop module", 10*time.Second, m.stopFn)
}

func dummyAction() error {
	return nil
}

func initNewModule(name string, prep, start, stop func() error, dependencies ...string) *Module {
	ctx, cancelCtx := context.WithCancel(context.Background())
	var workerCnt int32

	newModule := &Module{
		Name:            name,
		Prepped:         abool.NewBool(false),
		Started:         abool.NewBool(false),
		Stopped:         abool.NewBool(false),
		inTransition:    abool.NewBool(false),
		Ctx:             ctx,
		cancelCtx:       cancelCtx,
		stopFlag:        abool.NewBool(false),
		ctrlFuncRunning: abool.NewBool(false),
		workerCnt:       &workerCnt,
		prepFn:          prep,
		startFn:         start,
		stopFn:          stop,
		eventHooks:      make(map[string][]*eventHook),
		depNames:        dependencies,
	}

	// replace nil arguments with dummy action
	if newModule.prepFn == nil {
		newModule.prepFn = dummyAction
	}
	if newModule.startFn == nil {
		newModule.startFn = dummyAction
	}
	if newModule.stopFn == nil {
		newModule.stopFn = dummyAction
	}

	return newModule
}

// Register registers a new module. The control functions `prep`, `start` and
// `stop` are technically optional. `stop` is called _after_ all added module
// workers finished.
func Register(name string, prep, start, stop func() error, dependencies ...string) *Module {
	newModule := initNewModule(name, prep, start, stop, dependencies...)

	modulesLock.Lock()
	defer modulesLock.Unlock()
	modules[name] = newModule
	return newModule
}

func initDependencies() error {
	for _, m := range modules {
		for _, depName := range m.depNames {

			// get dependency
			depModule, ok := modules[depName]
			if !ok {
				return fmt.Errorf("module %s declares dependency \"%s\", but this module has not been registered", m.Name, depName)
			}

			// link together
			m.depModules = append(m.depModules, depModule)
			depModule.depReverse = append(depModule.depReverse, m)

		}
	}

	return nil
}

// ReadyToPrep returns whether all dependencies are ready for this module to prep.
func (m *Module) ReadyToPrep() bool {
	if m.inTransition.IsSet() || m.Prepped.IsSet() {
		return false
	}

	for _, dep := range m.depModules {
		if !dep.Prepped.IsSet() {
			return false
		}
	}

	return true
}

// ReadyToStart returns whether all dependencies are ready for this module to start.
func (m *Module) ReadyToStart() bool {
	if m.inTransition.IsSet() || m.Started.IsSet() {
		return false
	}

	for _, dep := range m.depModules {
		if !dep.Started.IsSet() {
			return false
		}
	}

	return true
}

// ReadyToStop returns whether all dependencies are ready for this module to stop.
func (m *Module) ReadyToStop() bool {
	if !m.Started.IsSet() || m.inTransition.IsSet() || m.Stopped.IsSet() {
		return false
	}

	for _, revDep := range m.depReverse {
		// not ready if a reverse dependency was started, but not yet stopped
		if revDep.Started.IsSet() && !revDep.Stopped.IsSet() {
			return false
		}
	}

	return true
}
