package logger

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Setup configures the package level logger used across the repo. Debug
// turns on timestamps and caller info.
func Setup(debug bool) {
	log.SetOutput(os.Stderr)
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
		log.SetReportCaller(true)
		log.SetTimeFormat(time.Kitchen)
		return
	}
	log.SetLevel(log.WarnLevel)
	log.SetReportTimestamp(false)
	log.SetReportCaller(false)
}
