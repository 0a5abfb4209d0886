package mocknet

import (
	"context"
	"testing"
	"time"

	"github.com/openphe/paillier-go/pkg/phe"
)

func TestDeliveryPreservesOrder(t *testing.T) {
	n := New()
	server := n.Endpoint(phe.RoleServer)
	client := n.Endpoint(phe.RoleClient)
	ctx := context.Background()

	for _, msg := range []string{"one", "two", "three"} {
		if err := client.Send(ctx, phe.RoleServer, []byte(msg)); err != nil {
			t.Fatalf("Send failed: %v", err)
		}
	}
	for _, want := range []string{"one", "two", "three"} {
		got, err := server.Receive(ctx, phe.RoleClient)
		if err != nil {
			t.Fatalf("Receive failed: %v", err)
		}
		if string(got) != want {
			t.Errorf("out of order: got %q, want %q", got, want)
		}
	}
}

func TestDirectionsAreIndependent(t *testing.T) {
	n := New()
	server := n.Endpoint(phe.RoleServer)
	client := n.Endpoint(phe.RoleClient)
	ctx := context.Background()

	if err := server.Send(ctx, phe.RoleClient, []byte("from server")); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if err := client.Send(ctx, phe.RoleServer, []byte("from client")); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	got, err := client.Receive(ctx, phe.RoleServer)
	if err != nil || string(got) != "from server" {
		t.Fatalf("client received %q (%v)", got, err)
	}
	got, err = server.Receive(ctx, phe.RoleClient)
	if err != nil || string(got) != "from client" {
		t.Fatalf("server received %q (%v)", got, err)
	}
}

func TestPayloadIsCopied(t *testing.T) {
	n := New()
	server := n.Endpoint(phe.RoleServer)
	client := n.Endpoint(phe.RoleClient)
	ctx := context.Background()

	buf := []byte("original")
	if err := client.Send(ctx, phe.RoleServer, buf); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	buf[0] = 'X'

	got, err := server.Receive(ctx, phe.RoleClient)
	if err != nil {
		t.Fatalf("Receive failed: %v", err)
	}
	if string(got) != "original" {
		t.Errorf("payload aliased sender's buffer: %q", got)
	}
}

func TestReceiveHonorsCancellation(t *testing.T) {
	n := New()
	server := n.Endpoint(phe.RoleServer)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := server.Receive(ctx, phe.RoleClient)
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if err == nil {
			t.Error("expected context error")
		}
	case <-time.After(time.Second):
		t.Fatal("Receive did not unblock on cancellation")
	}
}

func TestRoleValidation(t *testing.T) {
	n := New()
	server := n.Endpoint(phe.RoleServer)
	ctx := context.Background()

	if err := server.Send(ctx, phe.RoleServer, []byte("x")); err == nil {
		t.Error("send to self should fail")
	}
	if _, err := server.Receive(ctx, phe.RoleServer); err == nil {
		t.Error("receive from self should fail")
	}
}
