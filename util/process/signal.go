package process

import (
	"os"
	"os/signal"
)

// Block until one of the signals arrives and return it.
func WaitForSignal(signals ...os.Signal) os.Signal {
	stopSignal := make(chan os.Signal, 1)
	signal.Notify(stopSignal, signals...)
	defer signal.Stop(stopSignal)
	return <-stopSignal
}
