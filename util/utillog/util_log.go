// Logging hooks for leaf packages under util/.
//
// Packages like util/hash never import a logging library directly, they call these hooks instead.
// The app layer replaces them (see lockset.SetupLogging) to route the messages into logrus.
package utillog

import "fmt"

var (
	DebugLog func(pat string, args ...any) = func(pat string, args ...any) {}
	WarnLog  func(pat string, args ...any) = func(pat string, args ...any) {
		fmt.Printf("[Warn] "+pat+"\n", args...)
	}
	ErrorLog func(pat string, args ...any) = func(pat string, args ...any) {
		fmt.Printf("[Error] "+pat+"\n", args...)
	}
)
