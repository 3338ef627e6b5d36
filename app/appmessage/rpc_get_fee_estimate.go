package appmessage

// RPCFeeRateBucket is a fee rate, in sompi per gram, together with the
// time it is expected to take a transaction paying it to get included
type RPCFeeRateBucket struct {
	FeeRate          float64 `json:"feerate"`
	EstimatedSeconds float64 `json:"estimatedSeconds"`
}

// RPCFeeEstimate is the fee rate buckets a node estimates
type RPCFeeEstimate struct {
	PriorityBucket RPCFeeRateBucket   `json:"priorityBucket"`
	NormalBuckets  []RPCFeeRateBucket `json:"normalBuckets"`
	LowBuckets     []RPCFeeRateBucket `json:"lowBuckets"`
}

// GetFeeEstimateRequestMessage is an appmessage corresponding to
// its respective RPC message
type GetFeeEstimateRequestMessage struct{}

// Command returns the protocol command string for the message
func (msg *GetFeeEstimateRequestMessage) Command() MessageCommand {
	return CmdGetFeeEstimateRequestMessage
}

// NewGetFeeEstimateRequestMessage returns a instance of the message
func NewGetFeeEstimateRequestMessage() *GetFeeEstimateRequestMessage {
	return &GetFeeEstimateRequestMessage{}
}

// GetFeeEstimateResponseMessage is an appmessage corresponding to
// its respective RPC message
type GetFeeEstimateResponseMessage struct {
	Estimate RPCFeeEstimate `json:"estimate"`

	Error *RPCError `json:"error,omitempty"`
}

// Command returns the protocol command string for the message
func (msg *GetFeeEstimateResponseMessage) Command() MessageCommand {
	return CmdGetFeeEstimateResponseMessage
}

// NewGetFeeEstimateResponseMessage returns a instance of the message
func NewGetFeeEstimateResponseMessage(estimate RPCFeeEstimate) *GetFeeEstimateResponseMessage {
	return &GetFeeEstimateResponseMessage{
		Estimate: estimate,
	}
}

// PriorityFeeRate returns the fee rate of the priority bucket
func (msg *GetFeeEstimateResponseMessage) PriorityFeeRate() float64 {
	return msg.Estimate.PriorityBucket.FeeRate
}
