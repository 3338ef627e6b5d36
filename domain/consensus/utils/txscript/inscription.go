package txscript

import "github.com/pkg/errors"

// SchnorrPublicKeySize is the size of an x-only Schnorr public key.
const SchnorrPublicKeySize = 32

// InscriptionRedeemScript builds a redeem script that is spendable by the
// owner of publicKey and carries content in an unexecuted envelope:
//
//	<publicKey> OP_CHECKSIG OP_FALSE OP_IF <protocol> OP_FALSE <content...> OP_ENDIF
//
// content is split into pushes of at most MaxScriptElementSize bytes.
func InscriptionRedeemScript(publicKey []byte, protocol string, content []byte) ([]byte, error) {
	if len(publicKey) != SchnorrPublicKeySize {
		return nil, errors.Wrapf(ErrScriptBuilder, "inscription public key must be %d bytes, got %d",
			SchnorrPublicKeySize, len(publicKey))
	}
	if len(protocol) == 0 {
		return nil, errors.Wrapf(ErrScriptBuilder, "inscription protocol is empty")
	}

	builder := NewScriptBuilder().
		AddData(publicKey).
		AddOp(OpCheckSig).
		AddOp(OpFalse).
		AddOp(OpIf).
		AddData([]byte(protocol)).
		AddOp(OpFalse)
	for len(content) > 0 {
		chunkSize := len(content)
		if chunkSize > MaxScriptElementSize {
			chunkSize = MaxScriptElementSize
		}
		builder.AddData(content[:chunkSize])
		content = content[chunkSize:]
	}
	builder.AddOp(OpEndIf)

	return builder.Script()
}

// ExtractInscription returns the protocol and content carried by a redeem
// script built with InscriptionRedeemScript, along with the public key
// that can spend it.
func ExtractInscription(redeemScript []byte) (publicKey []byte, protocol string, content []byte, err error) {
	pops, err := parseScript(redeemScript)
	if err != nil {
		return nil, "", nil, err
	}

	const headerLength = 6
	if len(pops) < headerLength+1 ||
		pops[0].opcode.value != OpData32 ||
		pops[1].opcode.value != OpCheckSig ||
		pops[2].opcode.value != OpFalse ||
		pops[3].opcode.value != OpIf ||
		pops[5].opcode.value != OpFalse ||
		pops[len(pops)-1].opcode.value != OpEndIf {

		return nil, "", nil, errors.Wrapf(ErrMalformedScript, "script is not an inscription envelope")
	}

	for _, pop := range pops[headerLength : len(pops)-1] {
		if pop.opcode.length == 1 {
			return nil, "", nil, errors.Wrapf(ErrMalformedScript,
				"unexpected opcode %s in inscription content", pop.opcode.name)
		}
		content = append(content, pop.data...)
	}

	return pops[0].data, string(pops[4].data), content, nil
}
