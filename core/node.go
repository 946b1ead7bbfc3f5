package core

import (
	"sync"
	"time"

	"github.com/holiman/uint256"

	"aliaspay/core/events"
	"aliaspay/core/state"
	"aliaspay/crypto"
	"aliaspay/native/router"
	"aliaspay/observability/metrics"
	"aliaspay/storage"
)

// Node is the host runtime for the router: it owns the database handle,
// serializes calls against the contract instance, stamps each call with the
// synthetic block context, and surfaces engine events to metrics and any
// configured subscriber. Calls run one at a time; a failing call returns
// before any of its outbound instructions are surfaced.
type Node struct {
	mu     sync.Mutex
	db     storage.Database
	state  *state.Manager
	engine *router.Engine

	height uint64
	nowFn  func() uint64
}

// NewNode wires a node over the provided database.
func NewNode(db storage.Database) *Node {
	manager := state.NewManager(db)
	engine := router.NewEngine()
	engine.SetState(manager)
	node := &Node{
		db:     db,
		state:  manager,
		engine: engine,
		nowFn:  func() uint64 { return uint64(time.Now().Unix()) },
	}
	engine.SetEmitter(&meterEmitter{})
	return node
}

// SetEmitter forwards engine events to a subscriber while keeping the
// metrics bridge in place.
func (n *Node) SetEmitter(emitter events.Emitter) {
	n.engine.SetEmitter(&meterEmitter{next: emitter})
}

// SetCallbackCredential configures the router's own callback credential.
func (n *Node) SetCallbackCredential(credential string) {
	n.engine.SetCallbackCredential(credential)
}

// SetNowFunc overrides the block-time source for deterministic testing.
func (n *Node) SetNowFunc(now func() uint64) {
	if now == nil {
		n.nowFn = func() uint64 { return uint64(time.Now().Unix()) }
		return
	}
	n.nowFn = now
}

// State exposes the store handle for read paths and tests.
func (n *Node) State() *state.Manager {
	return n.state
}

// callContext advances the synthetic block height and stamps the call.
// Height moving every call is what keeps derived aliases fresh.
func (n *Node) callContext(caller crypto.Address) router.CallContext {
	n.height++
	return router.CallContext{
		Caller:      caller,
		BlockHeight: n.height,
		BlockTime:   n.nowFn(),
	}
}

// Initialized reports whether the router's config record exists.
func (n *Node) Initialized() (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok, err := n.state.Config()
	return ok, err
}

// Initialize constructs the router state from genesis parameters.
func (n *Node) Initialize(params router.InitParams) (*router.Response, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.engine.Initialize(params)
}

// Receive executes a deposit notification on behalf of the calling token
// contract.
func (n *Node) Receive(caller crypto.Address, sender, from string, amount *uint256.Int, payload []byte) (*router.Response, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	resp, err := n.engine.Receive(n.callContext(caller), sender, from, amount, payload)
	if err != nil {
		metrics.Router().ObserveCallRejected("receive")
		return nil, err
	}
	return resp, nil
}

// SetAlias claims an alias for the caller account.
func (n *Node) SetAlias(caller crypto.Address, alias *string) (*router.Response, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	resp, err := n.engine.SetAlias(n.callContext(caller), caller, alias)
	if err != nil {
		metrics.Router().ObserveCallRejected("set_alias")
		return nil, err
	}
	kind := "random"
	if alias != nil {
		kind = "custom"
	}
	metrics.Router().ObserveAliasClaimed(kind)
	return resp, nil
}

// RegisterToken adds a trusted token contract. Admin only.
func (n *Node) RegisterToken(caller crypto.Address, tokenAddr, credential string) (*router.Response, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	resp, err := n.engine.RegisterToken(n.callContext(caller), tokenAddr, credential)
	if err != nil {
		metrics.Router().ObserveCallRejected("register_token")
		return nil, err
	}
	return resp, nil
}

// ChangeFee replaces the fee rate. Admin only.
func (n *Node) ChangeFee(caller crypto.Address, newFee *uint256.Int) (*router.Response, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	resp, err := n.engine.ChangeFee(n.callContext(caller), newFee)
	if err != nil {
		metrics.Router().ObserveCallRejected("change_fee")
		return nil, err
	}
	return resp, nil
}

// ChangeAdmin rotates the admin identity. Admin only.
func (n *Node) ChangeAdmin(caller crypto.Address, newAdmin string) (*router.Response, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	resp, err := n.engine.ChangeAdmin(n.callContext(caller), newAdmin)
	if err != nil {
		metrics.Router().ObserveCallRejected("change_admin")
		return nil, err
	}
	return resp, nil
}

// GetConfig returns the public configuration projection.
func (n *Node) GetConfig() (*router.ConfigView, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.engine.GetConfig()
}

// CheckAlias reports whether an alias resolves to an owner.
func (n *Node) CheckAlias(alias string) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.engine.CheckAlias(alias)
}

// meterEmitter counts engine events before handing them to the subscriber.
type meterEmitter struct {
	next events.Emitter
}

func (m *meterEmitter) Emit(evt events.Event) {
	switch evt.(type) {
	case events.TransferRouted:
		metrics.Router().ObserveTransferRouted()
	case events.TokenRegistered:
		metrics.Router().ObserveTokenRegistered()
	}
	if m.next != nil {
		m.next.Emit(evt)
	}
}
