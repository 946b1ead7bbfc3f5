package router

import (
	"encoding/json"
	"strings"

	"github.com/holiman/uint256"

	"aliaspay/crypto"
)

// BlockSize is the padding granularity for outbound payloads and response
// data. Everything leaving the router is padded to a multiple of this size so
// response length never leaks payload shape.
const BlockSize = 256

// CallContext carries the host-authenticated facts about an invocation. The
// caller is the transaction sender as seen by the host runtime, never a value
// taken from a message body.
type CallContext struct {
	Caller      crypto.Address
	BlockHeight uint64
	BlockTime   uint64
}

// InitParams are the constructor arguments for the router.
type InitParams struct {
	// Admin receives fees and may adjust configuration. Bech32 encoded.
	Admin string
	// FeeRate and FeeDecimals encode the percentage FeeRate/10^FeeDecimals.
	FeeRate     *uint256.Int
	FeeDecimals uint8
	// TokenAddr and TokenCredential identify the well-known token contract
	// registered at construction time.
	TokenAddr       string
	TokenCredential string
	// Entropy seeds the PRNG.
	Entropy string
}

// ConfigView is the public, read-only projection of the configuration.
type ConfigView struct {
	Active      bool         `json:"active"`
	FeeRate     *uint256.Int `json:"fee"`
	FeeDecimals uint8        `json:"decimals"`
}

// Log is a key/value attribute attached to a successful response.
type Log struct {
	Key   string
	Value string
}

// Instruction is an outbound message the host runtime executes on the
// router's behalf after the call commits.
type Instruction interface {
	InstructionType() string
}

// RegisterReceive asks a token contract to deliver deposit notifications to
// the router, authenticated with the router's own callback credential.
type RegisterReceive struct {
	Token      crypto.Address
	Credential string
	Payload    []byte
}

// InstructionType implements the Instruction interface.
func (RegisterReceive) InstructionType() string { return "register_receive" }

// Transfer moves value held by a token contract to a recipient account.
type Transfer struct {
	Token      crypto.Address
	Credential string
	Recipient  crypto.Address
	Amount     *uint256.Int
	Payload    []byte
}

// InstructionType implements the Instruction interface.
func (Transfer) InstructionType() string { return "transfer" }

// Response aggregates the outcome of a successful handle call.
type Response struct {
	Instructions []Instruction
	Logs         []Log
	Data         []byte
}

type setAliasAnswer struct {
	Status string `json:"status"`
}

type handleAnswer struct {
	SetAlias *setAliasAnswer `json:"set_alias,omitempty"`
}

func setAliasSuccessData() []byte {
	data, err := json.Marshal(handleAnswer{SetAlias: &setAliasAnswer{Status: "success"}})
	if err != nil {
		// The answer shape is static; a marshal failure is a programming error.
		panic(err)
	}
	return padToBlock(data)
}

// padToBlock space-pads a payload so its length is a positive multiple of
// BlockSize. Trailing spaces are insignificant to JSON consumers.
func padToBlock(payload []byte) []byte {
	missing := BlockSize - len(payload)%BlockSize
	if missing == BlockSize && len(payload) != 0 {
		return payload
	}
	return append(payload, []byte(strings.Repeat(" ", missing))...)
}

type registerReceiveMsg struct {
	CodeHash string `json:"code_hash"`
	Padding  string `json:"padding"`
}

type registerReceiveEnvelope struct {
	RegisterReceive registerReceiveMsg `json:"register_receive"`
}

type transferMsg struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
	Padding   string `json:"padding"`
}

type transferEnvelope struct {
	Transfer transferMsg `json:"transfer"`
}

// newRegisterReceive builds the registration instruction addressed to a token
// contract, carrying the router's own callback credential.
func newRegisterReceive(token crypto.Address, tokenCredential, ownCredential string) RegisterReceive {
	payload := mustPadJSON(func(padding string) interface{} {
		return registerReceiveEnvelope{RegisterReceive: registerReceiveMsg{
			CodeHash: ownCredential,
			Padding:  padding,
		}}
	})
	return RegisterReceive{
		Token:      token,
		Credential: tokenCredential,
		Payload:    payload,
	}
}

// newTransfer builds a value-transfer instruction addressed to a token
// contract, authenticated with that token's callback credential.
func newTransfer(token crypto.Address, credential string, recipient crypto.Address, amount *uint256.Int) Transfer {
	payload := mustPadJSON(func(padding string) interface{} {
		return transferEnvelope{Transfer: transferMsg{
			Recipient: recipient.String(),
			Amount:    amount.Dec(),
			Padding:   padding,
		}}
	})
	return Transfer{
		Token:      token,
		Credential: credential,
		Recipient:  recipient,
		Amount:     new(uint256.Int).Set(amount),
		Payload:    payload,
	}
}

// mustPadJSON renders the message twice: once to measure it, once with a
// padding field sized so the serialized form lands on a BlockSize boundary.
func mustPadJSON(build func(padding string) interface{}) []byte {
	bare, err := json.Marshal(build(""))
	if err != nil {
		panic(err)
	}
	missing := BlockSize - len(bare)%BlockSize
	if missing == BlockSize {
		return bare
	}
	padded, err := json.Marshal(build(strings.Repeat(" ", missing)))
	if err != nil {
		panic(err)
	}
	return padded
}
