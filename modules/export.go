package modules

import "sync/atomic"

// Status holds an exported status summary of the modules system.
type Status struct {
	Modules map[string]*ModuleStatus
	Total   struct {
		Workers int
	}
}

// ModuleStatus holds an exported status summary of one module.
type ModuleStatus struct {
	Prepped bool
	Started bool
	Stopped bool

	Workers      int
	Dependencies []string
}

// GetStatus exports status data from the module system.
func GetStatus() *Status {
	modulesLock.RLock()
	defer modulesLock.RUnlock()

	status := &Status{
		Modules: make(map[string]*ModuleStatus, len(modules)),
	}

	for name, m := range modules {
		workers := int(atomic.LoadInt32(m.workerCnt))

		status.Modules[name] = &ModuleStatus{
			Prepped:      m.Prepped.IsSet(),
			Started:      m.Started.IsSet(),
			Stopped:      m.Stopped.IsSet(),
			Workers:      workers,
			Dependencies: m.depNames,
		}
		status.Total.Workers += workers
	}

	return status
}
