package krc20

import "github.com/krcwallet/kaspacore/infrastructure/logger"

var log = logger.RegisterSubSystem("KRC2")
