package generator

import (
	"github.com/krcwallet/kaspacore/infrastructure/logger"
)

var log = logger.RegisterSubSystem("GNRT")
