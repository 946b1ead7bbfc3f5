package events

import (
	"aliaspay/core/types"
	"aliaspay/crypto"
)

const (
	TypeAliasSet        = "router.alias.set"
	TypeAliasRenamed    = "router.alias.renamed"
	TypeTokenRegistered = "router.token.registered"
	TypeTransferRouted  = "router.transfer.routed"
	TypeFeeUpdated      = "router.fee.updated"
	TypeAdminRotated    = "router.admin.rotated"
)

// AliasSet is emitted when an account claims an alias for the first time.
type AliasSet struct {
	Alias string
	Owner crypto.Address
}

// EventType implements the Event interface.
func (AliasSet) EventType() string { return TypeAliasSet }

// Event converts the strongly typed event to the generic representation used by subscribers.
func (e AliasSet) Event() *types.Event {
	return &types.Event{
		Type: TypeAliasSet,
		Attributes: map[string]string{
			"alias": e.Alias,
			"owner": e.Owner.String(),
		},
	}
}

// AliasRenamed is emitted when an existing custom alias is replaced by a new
// value for the same account.
type AliasRenamed struct {
	OldAlias string
	NewAlias string
	Owner    crypto.Address
}

// EventType implements the Event interface.
func (AliasRenamed) EventType() string { return TypeAliasRenamed }

// Event converts the strongly typed event to the generic representation used by subscribers.
func (e AliasRenamed) Event() *types.Event {
	return &types.Event{
		Type: TypeAliasRenamed,
		Attributes: map[string]string{
			"old":   e.OldAlias,
			"new":   e.NewAlias,
			"owner": e.Owner.String(),
		},
	}
}

// TokenRegistered is emitted when a token contract is added to the trusted registry.
type TokenRegistered struct {
	Token crypto.Address
}

// EventType implements the Event interface.
func (TokenRegistered) EventType() string { return TypeTokenRegistered }

// Event converts the strongly typed event to the generic representation used by subscribers.
func (e TokenRegistered) Event() *types.Event {
	return &types.Event{
		Type: TypeTokenRegistered,
		Attributes: map[string]string{
			"token": e.Token.String(),
		},
	}
}

// TransferRouted is emitted after a deposit notification has been split and
// forwarded. Amounts are decimal strings in the token's smallest unit.
type TransferRouted struct {
	Token     crypto.Address
	Alias     string
	Recipient crypto.Address
	Fee       string
	Net       string
}

// EventType implements the Event interface.
func (TransferRouted) EventType() string { return TypeTransferRouted }

// Event converts the strongly typed event to the generic representation used by subscribers.
func (e TransferRouted) Event() *types.Event {
	return &types.Event{
		Type: TypeTransferRouted,
		Attributes: map[string]string{
			"token":     e.Token.String(),
			"alias":     e.Alias,
			"recipient": e.Recipient.String(),
			"fee":       e.Fee,
			"net":       e.Net,
		},
	}
}

// FeeUpdated is emitted when the admin changes the fee rate.
type FeeUpdated struct {
	FeeRate string
}

// EventType implements the Event interface.
func (FeeUpdated) EventType() string { return TypeFeeUpdated }

// Event converts the strongly typed event to the generic representation used by subscribers.
func (e FeeUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeFeeUpdated,
		Attributes: map[string]string{
			"feeRate": e.FeeRate,
		},
	}
}

// AdminRotated is emitted when the admin identity is replaced.
type AdminRotated struct {
	OldAdmin crypto.Address
	NewAdmin crypto.Address
}

// EventType implements the Event interface.
func (AdminRotated) EventType() string { return TypeAdminRotated }

// Event converts the strongly typed event to the generic representation used by subscribers.
func (e AdminRotated) Event() *types.Event {
	return &types.Event{
		Type: TypeAdminRotated,
		Attributes: map[string]string{
			"old": e.OldAdmin.String(),
			"new": e.NewAdmin.String(),
		},
	}
}
