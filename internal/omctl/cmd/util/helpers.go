package util

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// DefaultErrorExitCode defines the default exit code.
const DefaultErrorExitCode = 1

var fatalErrHandler = fatal

// BehaviorOnFatal allows you to override the default behavior when a fatal
// error occurs, which is to call os.Exit(code). You can pass 'panic' as a function
// here if you prefer the panic() over os.Exit(1).
func BehaviorOnFatal(f func(string, int)) {
	fatalErrHandler = f
}

// DefaultBehaviorOnFatal allows you to undo any previous override.
func DefaultBehaviorOnFatal() {
	fatalErrHandler = fatal
}

func fatal(msg string, code int) {
	if len(msg) > 0 {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), msg)
	}
	os.Exit(code)
}

// CheckErr prints a user friendly error to STDERR and exits with a non-zero
// exit code.
func CheckErr(err error) {
	if err == nil {
		return
	}
	fatalErrHandler(err.Error(), DefaultErrorExitCode)
}

// UsageErrorf returns an error that points the user at the command help.
func UsageErrorf(cmdPath, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s\nSee '%s -h' for help and examples", msg, cmdPath)
}
