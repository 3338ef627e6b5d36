// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"fmt"
)

// MessageCommand identifies the RPC call a message belongs to
type MessageCommand uint32

func (cmd MessageCommand) String() string {
	cmdString, ok := RPCMessageCommandToString[cmd]
	if !ok {
		cmdString = "unknown command"
	}
	return fmt.Sprintf("%s [code %d]", cmdString, uint8(cmd))
}

// Method returns the name of the RPC method the command belongs to
func (cmd MessageCommand) Method() string {
	return rpcMethods[cmd]
}

// Commands of the RPC messages the wallet core exchanges with a node
const (
	CmdGetUTXOsByAddressesRequestMessage MessageCommand = iota
	CmdGetUTXOsByAddressesResponseMessage
	CmdGetFeeEstimateRequestMessage
	CmdGetFeeEstimateResponseMessage
	CmdSubmitTransactionRequestMessage
	CmdSubmitTransactionResponseMessage
)

// RPCMessageCommandToString maps all MessageCommands to their string representation
var RPCMessageCommandToString = map[MessageCommand]string{
	CmdGetUTXOsByAddressesRequestMessage:  "GetUTXOsByAddressesRequest",
	CmdGetUTXOsByAddressesResponseMessage: "GetUTXOsByAddressesResponse",
	CmdGetFeeEstimateRequestMessage:       "GetFeeEstimateRequest",
	CmdGetFeeEstimateResponseMessage:      "GetFeeEstimateResponse",
	CmdSubmitTransactionRequestMessage:    "SubmitTransactionRequest",
	CmdSubmitTransactionResponseMessage:   "SubmitTransactionResponse",
}

var rpcMethods = map[MessageCommand]string{
	CmdGetUTXOsByAddressesRequestMessage:  "getUtxosByAddresses",
	CmdGetUTXOsByAddressesResponseMessage: "getUtxosByAddresses",
	CmdGetFeeEstimateRequestMessage:       "getFeeEstimate",
	CmdGetFeeEstimateResponseMessage:      "getFeeEstimate",
	CmdSubmitTransactionRequestMessage:    "submitTransaction",
	CmdSubmitTransactionResponseMessage:   "submitTransaction",
}

// Message is an interface that describes an RPC message. Messages are
// plain data which marshal to the JSON the node's RPC server speaks.
type Message interface {
	Command() MessageCommand
}
