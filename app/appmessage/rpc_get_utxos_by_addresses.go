package appmessage

// GetUTXOsByAddressesRequestMessage is an appmessage corresponding to
// its respective RPC message
type GetUTXOsByAddressesRequestMessage struct {
	Addresses []string `json:"addresses"`
}

// Command returns the protocol command string for the message
func (msg *GetUTXOsByAddressesRequestMessage) Command() MessageCommand {
	return CmdGetUTXOsByAddressesRequestMessage
}

// NewGetUTXOsByAddressesRequestMessage returns a instance of the message
func NewGetUTXOsByAddressesRequestMessage(addresses []string) *GetUTXOsByAddressesRequestMessage {
	return &GetUTXOsByAddressesRequestMessage{
		Addresses: addresses,
	}
}

// GetUTXOsByAddressesResponseMessage is an appmessage corresponding to
// its respective RPC message
type GetUTXOsByAddressesResponseMessage struct {
	Entries []*UTXOsByAddressesEntry `json:"entries"`

	Error *RPCError `json:"error,omitempty"`
}

// Command returns the protocol command string for the message
func (msg *GetUTXOsByAddressesResponseMessage) Command() MessageCommand {
	return CmdGetUTXOsByAddressesResponseMessage
}

// NewGetUTXOsByAddressesResponseMessage returns a instance of the message
func NewGetUTXOsByAddressesResponseMessage(entries []*UTXOsByAddressesEntry) *GetUTXOsByAddressesResponseMessage {
	return &GetUTXOsByAddressesResponseMessage{
		Entries: entries,
	}
}

// UTXOsByAddressesEntry represents a UTXO of some address
type UTXOsByAddressesEntry struct {
	Address   string        `json:"address"`
	Outpoint  *RPCOutpoint  `json:"outpoint"`
	UTXOEntry *RPCUTXOEntry `json:"utxoEntry"`
}
