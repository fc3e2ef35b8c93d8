package txrx

import "go.uber.org/zap"

// logger is shared by every Channel in the package. It is a nop unless the
// host application installs one.
var logger = zap.NewNop()

// SetLogger installs a zap logger for the package's debug output. Pass
// zap.NewNop() to silence it again. Install during startup; the package
// does not synchronize logger replacement against in-flight calls.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
