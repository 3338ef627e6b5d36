package logger

import (
	"time"
)

// LogAndMeasureExecutionTime logs the start of operation at debug level and
// returns a function that logs its completion along with the elapsed time.
func LogAndMeasureExecutionTime(log *Logger, operation string) (onEnd func()) {
	start := time.Now()
	log.Debugf("%s started", operation)
	return func() {
		log.Debugf("%s finished in %s", operation, time.Since(start))
	}
}
