package ldb

import "github.com/krcwallet/kaspacore/infrastructure/logger"

var log = logger.RegisterSubSystem("LDB")
