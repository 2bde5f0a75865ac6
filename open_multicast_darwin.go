package announce

import (
	"fmt"
	"net"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// OpenMulticastUDP4 opens an unconnected IPv4 UDP socket suitable for sending
// to a multicast group. The socket binds the wildcard address with an
// ephemeral port; destinations are chosen per send. If ifi is not nil the
// socket is pinned to that interface, otherwise the OS routing table decides
// which interface carries the packet.
func OpenMulticastUDP4(ifi *net.Interface) (net.PacketConn, error) {

	// Create socket
	sock, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, unix.IPPROTO_UDP)
	if err != nil {
		return nil, fmt.Errorf("could not get socket: %w", err)
	}

	// Reuse the address
	if err := unix.SetsockoptInt(sock, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		_ = unix.Close(sock)
		return nil, fmt.Errorf("could not set socket reuseaddr: %w", err)
	}

	// Attach to specific interface if requested
	if ifi != nil {
		if err := unix.SetsockoptInt(sock, unix.IPPROTO_IP, unix.IP_BOUND_IF, ifi.Index); err != nil {
			_ = unix.Close(sock)
			return nil, fmt.Errorf("could not bind to interface: %w", err)
		}
	}

	// Bind the socket to the wildcard address with an ephemeral port
	lsa := syscall.SockaddrInet4{Port: 0}
	if err := syscall.Bind(sock, &lsa); err != nil {
		_ = syscall.Close(sock)
		return nil, fmt.Errorf("could not bind socket: %w", err)
	}

	// Turn the socket file descriptor into an *os.File
	file := os.NewFile(uintptr(sock), "")

	// Turn it into a net.PacketConn
	conn, err := net.FilePacketConn(file)
	file.Close() // We no longer need the file
	if err != nil {
		return nil, fmt.Errorf("could not wrap filepacketconn: %w", err)
	}

	return conn, nil

}
