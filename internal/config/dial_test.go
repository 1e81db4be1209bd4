package config

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pipeConn struct {
	net.Conn
	target string
}

func TestDialFirstPicksFastestAddress(t *testing.T) {
	dial := func(ctx context.Context, network, address string) (net.Conn, error) {
		if address == "10.0.1.5:3306" {
			select {
			case <-time.After(50 * time.Millisecond):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		client, server := net.Pipe()
		go func() {
			<-ctx.Done()
			server.Close()
		}()
		return pipeConn{Conn: client, target: address}, nil
	}

	conn, err := dialFirst(context.Background(), []string{"10.0.1.5:3306", "10.0.2.5:3306"}, dial)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "10.0.2.5:3306", conn.(pipeConn).target)
}

func TestDialFirstSkipsFailures(t *testing.T) {
	dial := func(_ context.Context, _, address string) (net.Conn, error) {
		if address == "10.0.1.5:3306" {
			return nil, errors.New("no route to host")
		}
		client, _ := net.Pipe()
		return pipeConn{Conn: client, target: address}, nil
	}

	conn, err := dialFirst(context.Background(), []string{"10.0.1.5:3306", "10.0.2.5:3306"}, dial)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, "10.0.2.5:3306", conn.(pipeConn).target)
}

func TestDialFirstAllFail(t *testing.T) {
	dial := func(_ context.Context, _, address string) (net.Conn, error) {
		return nil, errors.New("refused " + address)
	}

	_, err := dialFirst(context.Background(), []string{"10.0.1.5:3306", "10.0.2.5:3306"}, dial)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refused 10.0.1.5:3306")
	assert.Contains(t, err.Error(), "refused 10.0.2.5:3306")
}

func TestDialFirstNoTargets(t *testing.T) {
	_, err := dialFirst(context.Background(), nil, nil)
	assert.Error(t, err)
}
