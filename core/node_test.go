package core

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"aliaspay/core/events"
	"aliaspay/crypto"
	"aliaspay/native/router"
	"aliaspay/storage"
)

func nodeAddr(last byte) crypto.Address {
	b := make([]byte, 20)
	b[19] = last
	return crypto.MustNewAddress(crypto.PayPrefix, b)
}

type captureEmitter struct {
	seen []string
}

func (c *captureEmitter) Emit(evt events.Event) {
	c.seen = append(c.seen, evt.EventType())
}

func newTestNode(t *testing.T) *Node {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(func() {
		db.Close()
	})
	node := NewNode(db)
	node.SetCallbackCredential("own-credential")
	node.SetNowFunc(func() uint64 { return 1700000000 })
	return node
}

func initTestNode(t *testing.T, node *Node) (admin, token, user crypto.Address) {
	t.Helper()
	admin, token, user = nodeAddr(1), nodeAddr(2), nodeAddr(3)
	_, err := node.Initialize(router.InitParams{
		Admin:           admin.String(),
		FeeRate:         uint256.NewInt(5),
		FeeDecimals:     0,
		TokenAddr:       token.String(),
		TokenCredential: "hT",
		Entropy:         "node entropy",
	})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return admin, token, user
}

func TestNodeLifecycle(t *testing.T) {
	node := newTestNode(t)

	if ok, err := node.Initialized(); err != nil || ok {
		t.Fatalf("expected uninitialised node, ok=%v err=%v", ok, err)
	}
	admin, token, user := initTestNode(t, node)
	if ok, err := node.Initialized(); err != nil || !ok {
		t.Fatalf("expected initialised node, ok=%v err=%v", ok, err)
	}

	alias := "alice"
	if _, err := node.SetAlias(user, &alias); err != nil {
		t.Fatalf("set alias: %v", err)
	}
	if exists, err := node.CheckAlias("alice"); err != nil || !exists {
		t.Fatalf("alias must resolve: exists=%v err=%v", exists, err)
	}

	payload := []byte(`{"receive_tokens":{"recipient":"alice"}}`)
	resp, err := node.Receive(token, user.String(), user.String(), uint256.NewInt(1000), payload)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if len(resp.Instructions) != 2 {
		t.Fatalf("expected two transfers, got %d", len(resp.Instructions))
	}
	fee := resp.Instructions[0].(router.Transfer)
	if !fee.Recipient.Equal(admin) || fee.Amount.Uint64() != 50 {
		t.Fatalf("fee transfer wrong: %s to %s", fee.Amount, fee.Recipient)
	}
}

func TestNodeHeightAdvancesPerCall(t *testing.T) {
	node := newTestNode(t)
	_, _, user := initTestNode(t, node)

	first, err := node.SetAlias(user, nil)
	if err != nil {
		t.Fatalf("first random alias: %v", err)
	}
	second, err := node.SetAlias(user, nil)
	if err != nil {
		t.Fatalf("second random alias: %v", err)
	}
	if first.Logs[0].Value == second.Logs[0].Value {
		t.Fatalf("height must advance between calls so derived aliases differ")
	}
}

func TestNodeForwardsEvents(t *testing.T) {
	node := newTestNode(t)
	capture := &captureEmitter{}
	node.SetEmitter(capture)
	_, token, user := initTestNode(t, node)

	alias := "bob"
	if _, err := node.SetAlias(user, &alias); err != nil {
		t.Fatalf("set alias: %v", err)
	}
	payload := []byte(`{"receive_tokens":{"recipient":"bob"}}`)
	if _, err := node.Receive(token, user.String(), user.String(), uint256.NewInt(200), payload); err != nil {
		t.Fatalf("receive: %v", err)
	}

	want := map[string]bool{
		events.TypeTokenRegistered: false,
		events.TypeAliasSet:        false,
		events.TypeTransferRouted:  false,
	}
	for _, kind := range capture.seen {
		if _, ok := want[kind]; ok {
			want[kind] = true
		}
	}
	for kind, seen := range want {
		if !seen {
			t.Fatalf("expected %s event to reach the subscriber", kind)
		}
	}
}

func TestNodeAdminFlow(t *testing.T) {
	node := newTestNode(t)
	admin, _, user := initTestNode(t, node)

	if _, err := node.ChangeFee(user, uint256.NewInt(9)); !errors.Is(err, router.ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
	if _, err := node.ChangeFee(admin, uint256.NewInt(9)); err != nil {
		t.Fatalf("change fee: %v", err)
	}
	view, err := node.GetConfig()
	if err != nil {
		t.Fatalf("get config: %v", err)
	}
	if view.FeeRate.Uint64() != 9 {
		t.Fatalf("fee not applied: %s", view.FeeRate)
	}

	other := nodeAddr(9)
	if _, err := node.RegisterToken(admin, other.String(), "hX"); err != nil {
		t.Fatalf("register token: %v", err)
	}
	credential, ok, err := node.State().TokenCredential(other.Bytes())
	if err != nil || !ok || credential != "hX" {
		t.Fatalf("token not registered: %q ok=%v err=%v", credential, ok, err)
	}
}
