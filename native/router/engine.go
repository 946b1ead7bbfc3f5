package router

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"

	"aliaspay/core/events"
	"aliaspay/core/state"
	"aliaspay/crypto"
)

var errStateNotConfigured = errors.New("router: state not configured")

// engineState is the narrow persistence surface the engine operates against.
// *state.Manager satisfies it; tests may substitute their own.
type engineState interface {
	SetConfig(cfg *state.Config) error
	Config() (*state.Config, bool, error)
	SetSeed(seed []byte) error
	Seed() ([]byte, bool, error)
	SetTokenCredential(tokenAddr []byte, credential string) error
	TokenCredential(tokenAddr []byte) (string, bool, error)
	SetAliasOwner(alias string, owner []byte) error
	AliasOwner(alias string) ([]byte, bool, error)
	DeleteAlias(alias string) error
	SetCustomAlias(owner []byte, alias string) error
	CustomAlias(owner []byte) (string, bool, error)
}

// Engine wires the alias registry and fee-split routing logic with
// persistence and event emission. Operations validate before they write, so a
// returned error always means state was left untouched.
type Engine struct {
	state         engineState
	emitter       events.Emitter
	ownCredential string
}

// NewEngine constructs a router engine with default no-op dependencies.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetCallbackCredential configures the router's own callback credential,
// carried on register-receive instructions so token contracts can
// authenticate calls back into the router.
func (e *Engine) SetCallbackCredential(credential string) {
	e.ownCredential = credential
}

func (e *Engine) withState() (engineState, error) {
	if e == nil || e.state == nil {
		return nil, errStateNotConfigured
	}
	return e.state, nil
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) loadConfig(st engineState) (*state.Config, error) {
	cfg, ok, err := st.Config()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotInitialized
	}
	return cfg, nil
}

func requireAdmin(cfg *state.Config, caller crypto.Address) error {
	if !bytes.Equal(cfg.Admin, caller.Bytes()) {
		return ErrNotAdmin
	}
	return nil
}

// Initialize constructs the router state: config record, persisted PRNG seed
// and the well-known token registration. It emits one register-receive
// instruction addressed to that token.
func (e *Engine) Initialize(params InitParams) (*Response, error) {
	st, err := e.withState()
	if err != nil {
		return nil, err
	}
	admin, err := crypto.DecodeAddress(params.Admin)
	if err != nil {
		return nil, fmt.Errorf("router: invalid admin address: %w", err)
	}
	token, err := crypto.DecodeAddress(params.TokenAddr)
	if err != nil {
		return nil, fmt.Errorf("router: invalid token address: %w", err)
	}
	feeRate := params.FeeRate
	if feeRate == nil {
		feeRate = uint256.NewInt(0)
	}
	if !fitsUint128(feeRate) {
		return nil, ErrFeeOverflow
	}

	cfg := &state.Config{
		Admin:       admin.Bytes(),
		Active:      true,
		FeeRate:     new(uint256.Int).Set(feeRate),
		FeeDecimals: params.FeeDecimals,
	}
	if err := st.SetConfig(cfg); err != nil {
		return nil, err
	}
	if err := st.SetSeed(deriveSeed(params.Entropy)); err != nil {
		return nil, err
	}
	if err := st.SetTokenCredential(token.Bytes(), params.TokenCredential); err != nil {
		return nil, err
	}
	e.emit(events.TokenRegistered{Token: token})
	return &Response{
		Instructions: []Instruction{newRegisterReceive(token, params.TokenCredential, e.ownCredential)},
	}, nil
}

// Receive handles a deposit notification. The trust anchor is ctx.Caller: the
// host-authenticated sender of the call, expected to be a registered token
// contract. The payload is mandatory and selects the sub-operation.
//
// The from argument names the account whose funds moved; the routing protocol
// does not consult it, it exists for wire compatibility with token contracts.
func (e *Engine) Receive(ctx CallContext, sender string, from string, amount *uint256.Int, payload []byte) (*Response, error) {
	st, err := e.withState()
	if err != nil {
		return nil, err
	}
	cfg, err := e.loadConfig(st)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, ErrPayloadRequired
	}
	decoded, err := decodeReceivePayload(payload)
	if err != nil {
		return nil, err
	}
	switch {
	case decoded.ReceiveTokens != nil:
		return e.sendFunds(ctx, st, cfg, decoded.ReceiveTokens.Recipient, amount)
	case decoded.SetAlias != nil:
		// The alias owner is taken from the notification body, not from an
		// identity the token's transfer record vouches for. See DESIGN.md.
		owner, err := crypto.DecodeAddress(sender)
		if err != nil {
			return nil, fmt.Errorf("router: invalid sender address: %w", err)
		}
		return e.setAlias(ctx, st, cfg, owner, decoded.SetAlias.Alias)
	}
	return nil, ErrInvalidPayload
}

// sendFunds resolves the recipient alias, splits the deposit between admin
// fee and remainder, and queues the two outbound transfers. Both are
// addressed to the notifying token contract using its registered credential.
func (e *Engine) sendFunds(ctx CallContext, st engineState, cfg *state.Config, recipientAlias string, amount *uint256.Int) (*Response, error) {
	if !cfg.Active {
		return nil, ErrDisabled
	}
	credential, ok, err := st.TokenCredential(ctx.Caller.Bytes())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTokenNotRegistered
	}
	ownerBytes, ok, err := st.AliasOwner(recipientAlias)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAliasNotFound
	}
	recipient, err := crypto.NewAddress(crypto.PayPrefix, ownerBytes)
	if err != nil {
		return nil, err
	}
	admin, err := crypto.NewAddress(crypto.PayPrefix, cfg.Admin)
	if err != nil {
		return nil, err
	}
	fee, remaining, err := SplitFee(amount, cfg.FeeRate, cfg.FeeDecimals)
	if err != nil {
		return nil, err
	}
	e.emit(events.TransferRouted{
		Token:     ctx.Caller,
		Alias:     recipientAlias,
		Recipient: recipient,
		Fee:       fee.Dec(),
		Net:       remaining.Dec(),
	})
	// Fee first, remainder second: the order only matters for log readability.
	return &Response{
		Instructions: []Instruction{
			newTransfer(ctx.Caller, credential, admin, fee),
			newTransfer(ctx.Caller, credential, recipient, remaining),
		},
	}, nil
}

// SetAlias claims an alias for the owner account. With an alias supplied it
// claims that exact string (first-come, replace-on-reassign for the owner's
// previous custom alias). Without one it derives a random hex alias from the
// persisted seed and per-call entropy; derived aliases are additive.
func (e *Engine) SetAlias(ctx CallContext, owner crypto.Address, alias *string) (*Response, error) {
	st, err := e.withState()
	if err != nil {
		return nil, err
	}
	cfg, err := e.loadConfig(st)
	if err != nil {
		return nil, err
	}
	return e.setAlias(ctx, st, cfg, owner, alias)
}

func (e *Engine) setAlias(ctx CallContext, st engineState, cfg *state.Config, owner crypto.Address, alias *string) (*Response, error) {
	if !cfg.Active {
		return nil, ErrDisabled
	}
	if alias != nil {
		return e.claimCustomAlias(st, owner, *alias)
	}
	return e.claimRandomAlias(ctx, st, owner)
}

func (e *Engine) claimCustomAlias(st engineState, owner crypto.Address, alias string) (*Response, error) {
	if strings.TrimSpace(alias) == "" {
		return nil, fmt.Errorf("%w: alias must not be empty", ErrInvalidPayload)
	}
	_, taken, err := st.AliasOwner(alias)
	if err != nil {
		return nil, err
	}
	if taken {
		// First-come: a claimed alias is unavailable to everyone, including
		// its current owner re-claiming it.
		return nil, ErrAliasTaken
	}
	oldAlias, hadOld, err := st.CustomAlias(owner.Bytes())
	if err != nil {
		return nil, err
	}
	if err := st.SetCustomAlias(owner.Bytes(), alias); err != nil {
		return nil, err
	}
	if err := st.SetAliasOwner(alias, owner.Bytes()); err != nil {
		return nil, err
	}
	if hadOld && oldAlias != alias {
		if err := st.DeleteAlias(oldAlias); err != nil {
			return nil, err
		}
		e.emit(events.AliasRenamed{OldAlias: oldAlias, NewAlias: alias, Owner: owner})
	} else {
		e.emit(events.AliasSet{Alias: alias, Owner: owner})
	}
	return &Response{
		Logs: []Log{{Key: "alias", Value: alias}},
		Data: setAliasSuccessData(),
	}, nil
}

func (e *Engine) claimRandomAlias(ctx CallContext, st engineState, owner crypto.Address) (*Response, error) {
	seed, ok, err := st.Seed()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotInitialized
	}
	alias := hex.EncodeToString(randomBytes(seed, ctx.BlockHeight, ctx.BlockTime, ctx.Caller.Bytes()))
	// Collision space is 2^256; derived aliases are stored unconditionally.
	if err := st.SetAliasOwner(alias, owner.Bytes()); err != nil {
		return nil, err
	}
	e.emit(events.AliasSet{Alias: alias, Owner: owner})
	return &Response{
		Logs: []Log{{Key: "alias", Value: alias}},
		Data: setAliasSuccessData(),
	}, nil
}

// RegisterToken adds (or re-registers) a trusted token contract. Admin only.
// Mirrors Initialize by emitting a register-receive instruction to the token.
func (e *Engine) RegisterToken(ctx CallContext, tokenAddr string, credential string) (*Response, error) {
	st, err := e.withState()
	if err != nil {
		return nil, err
	}
	cfg, err := e.loadConfig(st)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(cfg, ctx.Caller); err != nil {
		return nil, err
	}
	token, err := crypto.DecodeAddress(tokenAddr)
	if err != nil {
		return nil, fmt.Errorf("router: invalid token address: %w", err)
	}
	if err := st.SetTokenCredential(token.Bytes(), credential); err != nil {
		return nil, err
	}
	e.emit(events.TokenRegistered{Token: token})
	return &Response{
		Instructions: []Instruction{newRegisterReceive(token, credential, e.ownCredential)},
	}, nil
}

// ChangeFee replaces the fee rate. Admin only. Decimals are fixed at
// initialisation; only the rate moves.
func (e *Engine) ChangeFee(ctx CallContext, newFee *uint256.Int) (*Response, error) {
	st, err := e.withState()
	if err != nil {
		return nil, err
	}
	cfg, err := e.loadConfig(st)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(cfg, ctx.Caller); err != nil {
		return nil, err
	}
	if newFee == nil {
		newFee = uint256.NewInt(0)
	}
	if !fitsUint128(newFee) {
		return nil, ErrFeeOverflow
	}
	cfg.FeeRate = new(uint256.Int).Set(newFee)
	if err := st.SetConfig(cfg); err != nil {
		return nil, err
	}
	e.emit(events.FeeUpdated{FeeRate: cfg.FeeRate.Dec()})
	return &Response{}, nil
}

// ChangeAdmin rotates the admin identity. Admin only.
func (e *Engine) ChangeAdmin(ctx CallContext, newAdmin string) (*Response, error) {
	st, err := e.withState()
	if err != nil {
		return nil, err
	}
	cfg, err := e.loadConfig(st)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(cfg, ctx.Caller); err != nil {
		return nil, err
	}
	next, err := crypto.DecodeAddress(newAdmin)
	if err != nil {
		return nil, fmt.Errorf("router: invalid admin address: %w", err)
	}
	old, err := crypto.NewAddress(crypto.PayPrefix, cfg.Admin)
	if err != nil {
		return nil, err
	}
	cfg.Admin = next.Bytes()
	if err := st.SetConfig(cfg); err != nil {
		return nil, err
	}
	e.emit(events.AdminRotated{OldAdmin: old, NewAdmin: next})
	return &Response{}, nil
}

// GetConfig returns the public configuration projection. No authorization:
// the fee schedule and active flag are readable by anyone.
func (e *Engine) GetConfig() (*ConfigView, error) {
	st, err := e.withState()
	if err != nil {
		return nil, err
	}
	cfg, err := e.loadConfig(st)
	if err != nil {
		return nil, err
	}
	return &ConfigView{
		Active:      cfg.Active,
		FeeRate:     new(uint256.Int).Set(cfg.FeeRate),
		FeeDecimals: cfg.FeeDecimals,
	}, nil
}

// CheckAlias reports whether an alias resolves to an owner.
func (e *Engine) CheckAlias(alias string) (bool, error) {
	st, err := e.withState()
	if err != nil {
		return false, err
	}
	_, ok, err := st.AliasOwner(alias)
	if err != nil {
		return false, err
	}
	return ok, nil
}
