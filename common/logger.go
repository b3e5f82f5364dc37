package common

import (
	"github.com/Nathan-JzSu/qwt/util/status"
)

// MT: Constant after initialization; thread-safe
var Log status.Logger = status.Default()
