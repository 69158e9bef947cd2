//go:build integration

package smb

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/marmos91/sharetab/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	sambaUser     = "sharetab"
	sambaPassword = "sharetab-pass"
	sambaShare    = "data"
)

// sambaHelper runs a Samba server in a container, or points at an existing
// one when SMB_TEST_ADDR (host:port) is set.
type sambaHelper struct {
	container testcontainers.Container
	host      string
	port      int
}

func newSambaHelper(t *testing.T) *sambaHelper {
	t.Helper()
	ctx := context.Background()

	if addr := os.Getenv("SMB_TEST_ADDR"); addr != "" {
		host, portStr, err := net.SplitHostPort(addr)
		require.NoError(t, err)
		port, err := strconv.Atoi(portStr)
		require.NoError(t, err)
		return &sambaHelper{host: host, port: port}
	}

	req := testcontainers.ContainerRequest{
		Image:        "dperson/samba:latest",
		ExposedPorts: []string{"445/tcp"},
		Cmd: []string{
			"-u", fmt.Sprintf("%s;%s", sambaUser, sambaPassword),
			"-s", fmt.Sprintf("%s;/share;yes;no;no;%s", sambaShare, sambaUser),
			"-p",
		},
		WaitingFor: wait.ForListeningPort("445/tcp").WithStartupTimeout(90 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start samba container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := container.MappedPort(ctx, "445")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get container port: %v", err)
	}

	return &sambaHelper{container: container, host: host, port: mapped.Int()}
}

func (h *sambaHelper) cleanup() {
	if h.container != nil {
		_ = h.container.Terminate(context.Background())
	}
}

func (h *sambaHelper) credentials(password string) transport.Credentials {
	return transport.Credentials{
		Server:   h.host,
		Port:     h.port,
		Share:    sambaShare,
		Username: sambaUser,
		Password: password,
	}
}

func TestSambaIntegration(t *testing.T) {
	h := newSambaHelper(t)
	defer h.cleanup()

	ctx := context.Background()
	sessions := transport.NewSessionManager(NewDialer(10*time.Second), h.credentials(sambaPassword), nil)
	defer sessions.Close()

	_, err := sessions.Connect(ctx)
	require.NoError(t, err)

	gw := transport.NewGateway(sessions, "")
	lister := transport.NewLister(sessions, 0)
	dir := fmt.Sprintf("it-%d", time.Now().UnixNano())

	t.Run("WriteThenRead", func(t *testing.T) {
		addr := sessions.Address("roundtrip.csv")
		require.NoError(t, gw.WithWriter(ctx, addr, transport.OpenOptions{}, func(w io.Writer) error {
			_, err := io.WriteString(w, "a;b\n1;2\n")
			return err
		}))

		var got []byte
		require.NoError(t, gw.WithReader(ctx, addr, transport.OpenOptions{}, func(r io.Reader) error {
			var err error
			got, err = io.ReadAll(r)
			return err
		}))
		assert.Equal(t, "a;b\n1;2\n", string(got))
	})

	t.Run("ListRoot", func(t *testing.T) {
		names, err := lister.List(ctx, sessions.Address())
		require.NoError(t, err)
		assert.Contains(t, names, "roundtrip.csv")
		assert.NotContains(t, names, ".")
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := gw.OpenRead(ctx, sessions.Address(dir, "missing.csv"), transport.OpenOptions{})
		assert.True(t, transport.IsNotFound(err), "got %v", err)
	})
}

func TestSambaBadPassword(t *testing.T) {
	h := newSambaHelper(t)
	defer h.cleanup()

	sessions := transport.NewSessionManager(NewDialer(10*time.Second), h.credentials("wrong"), nil)
	defer sessions.Close()

	_, err := sessions.Connect(context.Background())
	var connErr *transport.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.False(t, sessions.Connected())
}
