package phe_test

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openphe/paillier-go/pkg/phe"
	"github.com/openphe/paillier-go/pkg/phe/mocknet"
	"github.com/openphe/paillier-go/pkg/phe/paillier"
	"github.com/openphe/paillier-go/pkg/phe/wire"
)

const testKeyBits = 256

type session struct {
	client    *phe.Client
	clientEnd *mocknet.Endpoint
	keys      *paillier.KeyPair
	serverErr chan error
	cancel    context.CancelFunc
}

// startSession wires a server and client over mocknet and completes the
// handshake. The server runs until the test ends.
func startSession(t *testing.T) *session {
	t.Helper()

	keys, err := paillier.GenerateKey(testKeyBits)
	require.NoError(t, err)
	server, err := phe.NewServer(keys)
	require.NoError(t, err)

	net := mocknet.New()
	serverEnd := net.Endpoint(phe.RoleServer)
	clientEnd := net.Endpoint(phe.RoleClient)

	ctx, cancel := context.WithCancel(context.Background())
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Run(ctx, serverEnd)
	}()

	client, err := phe.NewClient(clientEnd)
	require.NoError(t, err)
	require.NoError(t, client.Handshake(ctx))

	s := &session{client: client, clientEnd: clientEnd, keys: keys, serverErr: serverErr, cancel: cancel}
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-serverErr:
			assert.NoError(t, err, "server should shut down cleanly")
		case <-time.After(5 * time.Second):
			t.Error("server did not stop after cancellation")
		}
	})
	return s
}

func TestHandshakeDeliversPublicKey(t *testing.T) {
	s := startSession(t)

	pub := s.client.PublicKey()
	require.NotNil(t, pub)
	assert.True(t, pub.Equal(s.keys.Public))
}

func TestRemoteAdd(t *testing.T) {
	s := startSession(t)
	ctx := context.Background()

	got, err := s.client.Add(ctx, big.NewInt(20), big.NewInt(22))
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Int64())
}

func TestRemoteSubtractWraps(t *testing.T) {
	s := startSession(t)
	ctx := context.Background()

	got, err := s.client.Subtract(ctx, big.NewInt(100), big.NewInt(58))
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Int64())

	// m1 < m2 wraps to the modular complement.
	got, err = s.client.Subtract(ctx, big.NewInt(3), big.NewInt(10))
	require.NoError(t, err)
	want := new(big.Int).Sub(s.client.PublicKey().N, big.NewInt(7))
	assert.Zero(t, got.Cmp(want))
}

func TestRemoteScalarMultiply(t *testing.T) {
	s := startSession(t)
	ctx := context.Background()

	got, err := s.client.ScalarMultiply(ctx, big.NewInt(6), big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Int64())
}

func TestLocalCombineThenRemoteDecrypt(t *testing.T) {
	s := startSession(t)
	ctx := context.Background()
	pub := s.client.PublicKey()

	// Combine locally with the public key only, ask the server to decrypt.
	e1, err := pub.Encrypt(big.NewInt(1000))
	require.NoError(t, err)
	e2, err := pub.Encrypt(big.NewInt(337))
	require.NoError(t, err)
	sum, err := pub.Add(e1, e2)
	require.NoError(t, err)

	got, err := s.client.Decrypt(ctx, sum)
	require.NoError(t, err)
	assert.Equal(t, int64(1337), got.Int64())
}

func TestServerRejectsOversizedCiphertext(t *testing.T) {
	s := startSession(t)
	ctx := context.Background()

	bad := paillier.NewCiphertext(s.client.PublicKey().NSquared())
	_, err := s.client.Decrypt(ctx, bad)

	var remote *phe.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, wire.CodeInvalidCiphertext, remote.Code)
}

func TestServerRejectsKeyMismatch(t *testing.T) {
	s := startSession(t)
	ctx := context.Background()

	// A request encrypted under some other modulus must be refused, not
	// decrypted into garbage.
	payload, err := wire.Encode(&wire.DecryptRequest{
		RequestID:  wire.NewRequestID(),
		N:          big.NewInt(323),
		Ciphertext: paillier.NewCiphertext(big.NewInt(17)),
	})
	require.NoError(t, err)
	require.NoError(t, s.clientEnd.Send(ctx, phe.RoleServer, payload))

	respPayload, err := s.clientEnd.Receive(ctx, phe.RoleServer)
	require.NoError(t, err)
	resp, err := wire.Decode(respPayload)
	require.NoError(t, err)

	errResp, ok := resp.(*wire.ErrorResponse)
	require.True(t, ok, "got %T", resp)
	assert.Equal(t, wire.CodeKeyMismatch, errResp.Code)
}

func TestServerRejectsGarbageAndKeepsServing(t *testing.T) {
	s := startSession(t)
	ctx := context.Background()

	require.NoError(t, s.clientEnd.Send(ctx, phe.RoleServer, []byte("not a message")))
	respPayload, err := s.clientEnd.Receive(ctx, phe.RoleServer)
	require.NoError(t, err)
	resp, err := wire.Decode(respPayload)
	require.NoError(t, err)

	errResp, ok := resp.(*wire.ErrorResponse)
	require.True(t, ok, "got %T", resp)
	assert.Equal(t, wire.CodeDecode, errResp.Code)

	// The failed exchange must not poison the session.
	got, err := s.client.Add(ctx, big.NewInt(1), big.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Int64())
}

func TestOperationsRequireHandshake(t *testing.T) {
	net := mocknet.New()
	client, err := phe.NewClient(net.Endpoint(phe.RoleClient))
	require.NoError(t, err)

	_, err = client.Add(context.Background(), big.NewInt(1), big.NewInt(2))
	assert.ErrorIs(t, err, phe.ErrHandshakeRequired)
}

func TestOneKeyPairServesConcurrentSessions(t *testing.T) {
	keys, err := paillier.GenerateKey(testKeyBits)
	require.NoError(t, err)
	server, err := phe.NewServer(keys)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const sessions = 4
	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		net := mocknet.New()
		go func() {
			_ = server.Run(ctx, net.Endpoint(phe.RoleServer))
		}()

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			client, err := phe.NewClient(net.Endpoint(phe.RoleClient))
			require.NoError(t, err)
			require.NoError(t, client.Handshake(ctx))

			got, err := client.Add(ctx, big.NewInt(int64(i)), big.NewInt(100))
			require.NoError(t, err)
			assert.Equal(t, int64(i+100), got.Int64())
		}(i)
	}
	wg.Wait()
}
