// Package announce emits one-shot IPv4 multicast beacons. An Announcer owns a
// single UDP socket, configures the IP-level multicast options before any
// send, and writes a fixed payload to a well-known group/port pair.
package announce

import (
	"fmt"
	"net"
	"net/netip"

	"go.uber.org/atomic"
	"golang.org/x/net/ipv4"
)

// Defaults for the beacon destination. TTL 2 keeps the packet from being
// forwarded past two router hops.
const (
	DefaultGroup = "239.255.1.1"
	DefaultPort  = 49788
	DefaultTTL   = 2
)

// DefaultPayload is the beacon body. It carries no structure; embedders may
// substitute their own marker.
var DefaultPayload = []byte("robot")

type Announcer struct {
	GroupAddr netip.Addr
	GroupPort uint16
	TTL       int
	IFace     *net.Interface
	Loopback  bool
	Payload   []byte

	conn4 *ipv4.PacketConn
	dst   *net.UDPAddr

	packets atomic.Uint64
	bytes   atomic.Uint64
}

// Open creates the sending socket and applies the multicast options. Fields
// left at their zero value fall back to the package defaults. Every sockopt
// failure is returned: a socket whose multicast TTL could not be set must not
// be used to send.
func (a *Announcer) Open() error {
	if !a.GroupAddr.IsValid() {
		a.GroupAddr = netip.MustParseAddr(DefaultGroup)
	}
	if a.GroupPort == 0 {
		a.GroupPort = DefaultPort
	}
	if a.TTL == 0 {
		a.TTL = DefaultTTL
	}
	if a.Payload == nil {
		a.Payload = DefaultPayload
	}

	if !a.GroupAddr.Is4() || !a.GroupAddr.IsMulticast() {
		return fmt.Errorf("%s is not an ipv4 multicast group", a.GroupAddr)
	}
	if a.TTL < 0 || a.TTL > 255 {
		return fmt.Errorf("ttl %d out of range", a.TTL)
	}
	a.dst = net.UDPAddrFromAddrPort(netip.AddrPortFrom(a.GroupAddr, a.GroupPort))

	conn, err := OpenMulticastUDP4(a.IFace)
	if err != nil {
		return fmt.Errorf("failed to create sending socket: %w", err)
	}
	a.conn4 = ipv4.NewPacketConn(conn)

	if a.IFace != nil {
		if err := a.conn4.SetMulticastInterface(a.IFace); err != nil {
			a.conn4.Close()
			return fmt.Errorf("set multicast interface: %w", err)
		}
	}
	if err := a.conn4.SetMulticastTTL(a.TTL); err != nil {
		a.conn4.Close()
		return fmt.Errorf("set multicast ttl: %w", err)
	}
	if err := a.conn4.SetTTL(a.TTL); err != nil {
		a.conn4.Close()
		return fmt.Errorf("set ttl: %w", err)
	}
	if err := a.conn4.SetMulticastLoopback(a.Loopback); err != nil {
		a.conn4.Close()
		return fmt.Errorf("set multicast loopback: %w", err)
	}
	return nil
}

// Announce writes the payload to the group once. Each call is an independent
// datagram with identical content; no sequencing or timestamps are added.
func (a *Announcer) Announce() (int, error) {
	if a.conn4 == nil {
		return 0, fmt.Errorf("announcer is not open")
	}
	n, err := a.conn4.WriteTo(a.Payload, nil, a.dst)
	if err != nil {
		return n, fmt.Errorf("send to %s: %w", a.dst, err)
	}
	a.packets.Inc()
	a.bytes.Add(uint64(n))
	return n, nil
}

// MulticastTTL queries the live sockopt value on the open socket.
func (a *Announcer) MulticastTTL() (int, error) {
	if a.conn4 == nil {
		return 0, fmt.Errorf("announcer is not open")
	}
	return a.conn4.MulticastTTL()
}

// Stats reports how many datagrams and payload bytes have been sent.
func (a *Announcer) Stats() (packets, bytes uint64) {
	return a.packets.Load(), a.bytes.Load()
}

func (a *Announcer) LocalAddr() net.Addr {
	if a.conn4 == nil {
		return nil
	}
	return a.conn4.LocalAddr()
}

func (a *Announcer) Close() error {
	if a.conn4 == nil {
		return nil
	}
	return a.conn4.Close()
}
