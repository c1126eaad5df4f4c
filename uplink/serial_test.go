package uplink

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialUplinkSendWritesLengthPrefixedFrame(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	up := NewSerialUplink(client, 64)

	done := make(chan []byte, 1)
	go func() {
		r := NewReader(server, 64)
		frame, err := r.ReadFrame()
		if err != nil {
			done <- nil
			return
		}
		done <- frame
	}()

	ok := up.Send([]byte{TagHello, 3, 0x00})
	require.True(t, ok)

	select {
	case got := <-done:
		assert.Equal(t, []byte{TagHello, 3, 0x00}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
	}
}

func TestSerialUplinkPollDownDrainsBackgroundReads(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	up := NewSerialUplink(client, 64)

	_, err := server.Write(Encode([]byte{TagConfig, 5, 0xAA}))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, ok := up.PollDown()
		return ok
	}, 2*time.Second, 10*time.Millisecond, "frame never arrived")
}

func TestSerialUplinkDisconnectsOnReadError(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	up := NewSerialUplink(client, 64)
	assert.True(t, up.IsConnected())

	server.Close()

	require.Eventually(t, func() bool {
		return !up.IsConnected()
	}, 2*time.Second, 10*time.Millisecond, "uplink never noticed the closed connection")
}
