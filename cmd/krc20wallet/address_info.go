package main

import (
	"encoding/hex"

	"github.com/krcwallet/kaspacore/domain/consensus/utils/txscript"
	"github.com/krcwallet/kaspacore/util"
)

type addressInfoOutput struct {
	Address         string `json:"address"`
	Prefix          string `json:"prefix"`
	Version         uint8  `json:"version"`
	Payload         string `json:"payload"`
	ScriptPublicKey string `json:"scriptPublicKey"`
	ScriptVersion   uint16 `json:"scriptVersion"`
}

func addressInfo(conf *addressInfoConfig) error {
	address, err := util.DecodeAddress(conf.Address, conf.NetParams().Prefix)
	if err != nil {
		return err
	}
	scriptPublicKey, err := txscript.PayToAddrScript(address)
	if err != nil {
		return err
	}

	output := &addressInfoOutput{
		Address:         address.EncodeAddress(),
		Prefix:          address.Prefix().String(),
		Version:         uint8(address.Version()),
		Payload:         hex.EncodeToString(address.ScriptAddress()),
		ScriptPublicKey: hex.EncodeToString(scriptPublicKey.Script),
		ScriptVersion:   scriptPublicKey.Version,
	}
	return printJSON(output)
}

func params(conf *paramsConfig) error {
	netParams := conf.NetParams()
	log.Debugf("Printing the params of %s", netParams.NetworkID())
	return printJSON(netParams)
}
