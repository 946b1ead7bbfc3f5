package router

import (
	"encoding/json"
	"fmt"
)

// receivePayload is the opaque blob attached to a deposit notification. It
// selects the sub-operation: exactly one of the fields must be present.
type receivePayload struct {
	ReceiveTokens *receiveTokensMsg `json:"receive_tokens,omitempty"`
	SetAlias      *setAliasMsg      `json:"set_alias,omitempty"`
}

type receiveTokensMsg struct {
	Recipient string `json:"recipient"`
}

type setAliasMsg struct {
	Alias *string `json:"alias"`
}

func decodeReceivePayload(payload []byte) (*receivePayload, error) {
	decoded := new(receivePayload)
	if err := json.Unmarshal(payload, decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if decoded.ReceiveTokens == nil && decoded.SetAlias == nil {
		return nil, ErrInvalidPayload
	}
	if decoded.ReceiveTokens != nil && decoded.SetAlias != nil {
		return nil, fmt.Errorf("%w: payload selects more than one operation", ErrInvalidPayload)
	}
	return decoded, nil
}
