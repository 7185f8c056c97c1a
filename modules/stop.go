package modules

import (
	"errors"
	"fmt"

	"github.com/tevino/abool"

	"github.com/saradhi4688/qrngenv/log"
)

var (
	shutdownSignal         = make(chan struct{})
	shutdownSignalClosed   = abool.NewBool(false)
	shutdownCompleteSignal = make(chan struct{})
)

// ShuttingDown returns a channel read on the global shutdown signal.
func ShuttingDown() <-chan struct{} {
	return shutdownSignal
}

// Shutdown stops all modules in the correct order.
func Shutdown() error {

	if shutdownSignalClosed.SetToIf(false, true) {
		close(shutdownSignal)
	} else {
		// shutdown was already issued
		return errors.New("shutdown already initiated")
	}

	if startComplete.IsSet() {
		log.Warning("modules: starting shutdown...")
	} else {
		log.Warning("modules: aborting start, shutting down...")
	}
	modulesLock.Lock()
	defer modulesLock.Unlock()

	err := stopModules()
	if err != nil {
		log.Error(err.Error())
	}

	log.Info("modules: shutdown complete")
	log.Shutdown()

	// release anyone waiting for the shutdown to complete
	close(shutdownCompleteSignal)

	return err
}

func stopModules() error {
	var rep *report
	reports := make(chan *report)
	execCnt := 0
	reportCnt := 0
	var lastErr error

	// get number of started modules
	startedCnt := 0
	for _, m := range modules {
		if m.Started.IsSet() {
			startedCnt++
		}
	}
	if startedCnt == 0 {
		return nil
	}

	for {
		// find modules to exec
		for _, m := range modules {
			if m.ReadyToStop() {
				execCnt++
				m.inTransition.Set()

				execM := m
				go func() {
					reports <- &report{
						module: execM,
						err:    execM.shutdown(),
					}
				}()
			}
		}

		// check for dep loop
		if execCnt == reportCnt {
			return fmt.Errorf("modules: dependency loop detected, cannot continue")
		}

		// wait for reports
		rep = <-reports
		rep.module.inTransition.UnSet()
		rep.module.Stopped.Set()
		if rep.err != nil {
			lastErr = fmt.Errorf("modules: could not stop module %s: %s", rep.module.Name, rep.err)
			log.Error(lastErr.Error())
		} else {
			log.Infof("modules: stopped %s", rep.module.Name)
		}
		reportCnt++

		// exit if done
		if reportCnt == startedCnt {
			return lastErr
		}

	}
}
