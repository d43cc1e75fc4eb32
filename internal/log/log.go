// Package log provides the leveled loggers used across the service.
package log

import (
	"io"
	"log"
	"os"

	"github.com/fatih/color"
)

var (
	Info  *log.Logger
	Warn  *log.Logger
	Error *log.Logger
)

func init() {
	SetOutput(os.Stdout, os.Stderr)
}

// SetOutput redirects the loggers. Info and Warn go to out, Error goes to errOut.
func SetOutput(out, errOut io.Writer) {
	Info = log.New(out,
		color.GreenString("[INFO] "),
		log.LstdFlags|log.Lshortfile)
	Warn = log.New(out,
		color.YellowString("[WARN] "),
		log.LstdFlags|log.Lshortfile)

	Error = log.New(errOut,
		color.RedString("[ERROR] "),
		log.LstdFlags|log.Lshortfile)
}
