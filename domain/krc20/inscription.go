package krc20

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/krcwallet/kaspacore/util"
	"github.com/pkg/errors"
)

const (
	// Protocol is the envelope protocol tag of KRC20 inscriptions
	Protocol = "kasplex"

	// ProtocolName is the "p" field of every KRC20 operation
	ProtocolName = "krc-20"

	// DefaultDecimals is the number of decimal places of a token deployed
	// without an explicit "dec" field
	DefaultDecimals = 8

	maxDecimals = 18
)

var tickFormat = regexp.MustCompile(`^[A-Z]{4,6}$`)

// Operation is a KRC20 operation name
type Operation string

// KRC20 operations
const (
	OpDeploy   Operation = "deploy"
	OpMint     Operation = "mint"
	OpTransfer Operation = "transfer"
)

// Inscription is the JSON content of a KRC20 operation. Fields are
// serialized in declaration order and empty ones are left out.
type Inscription struct {
	Protocol  string    `json:"p"`
	Operation Operation `json:"op"`
	Tick      string    `json:"tick"`
	Amount    string    `json:"amt,omitempty"`
	Max       string    `json:"max,omitempty"`
	Limit     string    `json:"lim,omitempty"`
	Decimals  string    `json:"dec,omitempty"`
	PreMint   string    `json:"pre,omitempty"`
	To        string    `json:"to,omitempty"`
}

func normalizeTick(tick string) (string, error) {
	tick = strings.ToUpper(strings.TrimSpace(tick))
	if !tickFormat.MatchString(tick) {
		return "", errors.Wrapf(ErrInvalidInscription, "tick %q must be 4 to 6 letters", tick)
	}
	return tick, nil
}

// baseUnits converts a decimal token amount to an integer string of base
// units. Zero amounts are rejected.
func baseUnits(name, amount string, decimals int32) (string, error) {
	value, err := util.ParseFixedPoint(amount, decimals)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidInscription, "%s: %s", name, err)
	}
	if value == 0 {
		return "", errors.Wrapf(ErrInvalidInscription, "%s must be positive", name)
	}
	return strconv.FormatUint(value, 10), nil
}

// Transfer returns the inscription transferring amount tokens, given in
// token units with the token's decimals, to to
func Transfer(tick string, amount string, decimals int32, to util.Address) (*Inscription, error) {
	tick, err := normalizeTick(tick)
	if err != nil {
		return nil, err
	}
	if to == nil {
		return nil, errors.Wrapf(ErrInvalidInscription, "transfer without a recipient")
	}
	amt, err := baseUnits("amt", amount, decimals)
	if err != nil {
		return nil, err
	}
	return &Inscription{
		Protocol:  ProtocolName,
		Operation: OpTransfer,
		Tick:      tick,
		Amount:    amt,
		To:        to.EncodeAddress(),
	}, nil
}

// Mint returns the inscription minting tick. to may be nil, in which case
// the tokens go to the address revealing the inscription.
func Mint(tick string, to util.Address) (*Inscription, error) {
	tick, err := normalizeTick(tick)
	if err != nil {
		return nil, err
	}
	inscription := &Inscription{
		Protocol:  ProtocolName,
		Operation: OpMint,
		Tick:      tick,
	}
	if to != nil {
		inscription.To = to.EncodeAddress()
	}
	return inscription, nil
}

// DeploySettings describe a new token. Max, Limit and PreMint are in token
// units with Decimals decimal places.
type DeploySettings struct {
	Tick     string
	Max      string
	Limit    string
	Decimals int32
	PreMint  string
	To       util.Address
}

// Deploy returns the inscription deploying a new token
func Deploy(settings *DeploySettings) (*Inscription, error) {
	tick, err := normalizeTick(settings.Tick)
	if err != nil {
		return nil, err
	}
	if settings.Decimals < 0 || settings.Decimals > maxDecimals {
		return nil, errors.Wrapf(ErrInvalidInscription, "decimals must be between 0 and %d", maxDecimals)
	}
	maxSupply, err := baseUnits("max", settings.Max, settings.Decimals)
	if err != nil {
		return nil, err
	}
	limit, err := baseUnits("lim", settings.Limit, settings.Decimals)
	if err != nil {
		return nil, err
	}

	inscription := &Inscription{
		Protocol:  ProtocolName,
		Operation: OpDeploy,
		Tick:      tick,
		Max:       maxSupply,
		Limit:     limit,
	}
	if settings.Decimals != DefaultDecimals {
		inscription.Decimals = strconv.Itoa(int(settings.Decimals))
	}
	if settings.PreMint != "" {
		inscription.PreMint, err = baseUnits("pre", settings.PreMint, settings.Decimals)
		if err != nil {
			return nil, err
		}
		if settings.To == nil {
			return nil, errors.Wrapf(ErrInvalidInscription, "pre-mint without a recipient")
		}
	}
	if settings.To != nil {
		inscription.To = settings.To.EncodeAddress()
	}
	return inscription, nil
}

func (inscription *Inscription) validate() error {
	if inscription.Protocol != ProtocolName {
		return errors.Wrapf(ErrInvalidInscription, "unexpected protocol %q", inscription.Protocol)
	}
	switch inscription.Operation {
	case OpDeploy, OpMint, OpTransfer:
	default:
		return errors.Wrapf(ErrInvalidInscription, "unknown operation %q", inscription.Operation)
	}
	if !tickFormat.MatchString(inscription.Tick) {
		return errors.Wrapf(ErrInvalidInscription, "tick %q must be 4 to 6 upper case letters", inscription.Tick)
	}
	return nil
}

// Content returns the serialized inscription
func (inscription *Inscription) Content() ([]byte, error) {
	err := inscription.validate()
	if err != nil {
		return nil, err
	}
	content, err := json.Marshal(inscription)
	return content, errors.WithStack(err)
}

// ParseInscription parses the content of a KRC20 inscription
func ParseInscription(content []byte) (*Inscription, error) {
	inscription := &Inscription{}
	err := json.Unmarshal(content, inscription)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidInscription, "malformed content: %s", err)
	}
	err = inscription.validate()
	if err != nil {
		return nil, err
	}
	return inscription, nil
}
