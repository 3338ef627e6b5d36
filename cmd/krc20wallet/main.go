package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/krcwallet/kaspacore/infrastructure/logger"
)

func main() {
	subCmd, conf, err := parseCommandLine(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	err = initLog(conf.common())
	if err != nil {
		printErrorAndExit(err)
	}

	switch subCmd {
	case addressInfoSubCmd:
		err = addressInfo(conf.(*addressInfoConfig))
	case paramsSubCmd:
		err = params(conf.(*paramsConfig))
	case sendSubCmd:
		err = send(conf.(*sendConfig))
	case krc20CommitSubCmd:
		err = krc20Commit(conf.(*krc20CommitConfig))
	case krc20RevealSubCmd:
		err = krc20Reveal(conf.(*krc20RevealConfig))
	case krc20PendingSubCmd:
		err = krc20Pending(conf.(*krc20PendingConfig))
	case krc20ConfirmSubCmd:
		err = krc20Confirm(conf.(*krc20ConfirmConfig))
	default:
		err = errors.Errorf("Unknown sub-command '%s'\n", subCmd)
	}
	logger.BackendLog.Close()

	if err != nil {
		printErrorAndExit(err)
	}
}
