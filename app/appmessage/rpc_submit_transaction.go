package appmessage

// SubmitTransactionRequestMessage asks a node to add Transaction to its
// mempool and relay it.
type SubmitTransactionRequestMessage struct {
	Transaction *RPCTransaction `json:"transaction"`
	AllowOrphan bool            `json:"allowOrphan"`
}

// Command returns the submitTransaction request command
func (msg *SubmitTransactionRequestMessage) Command() MessageCommand {
	return CmdSubmitTransactionRequestMessage
}

// NewSubmitTransactionRequestMessage wraps transaction in a submit request.
// Wallet generated chains are submitted in order, so allowOrphan is normally
// false.
func NewSubmitTransactionRequestMessage(transaction *RPCTransaction, allowOrphan bool) *SubmitTransactionRequestMessage {
	return &SubmitTransactionRequestMessage{Transaction: transaction, AllowOrphan: allowOrphan}
}

// SubmitTransactionResponseMessage carries either the ID the node accepted
// the transaction under or the reason it was rejected.
type SubmitTransactionResponseMessage struct {
	TransactionID string    `json:"transactionId"`
	Error         *RPCError `json:"error,omitempty"`
}

// Command returns the submitTransaction response command
func (msg *SubmitTransactionResponseMessage) Command() MessageCommand {
	return CmdSubmitTransactionResponseMessage
}

// Result returns the accepted transaction ID, or the node's error.
func (msg *SubmitTransactionResponseMessage) Result() (string, error) {
	if msg.Error != nil {
		return "", msg.Error
	}
	return msg.TransactionID, nil
}
