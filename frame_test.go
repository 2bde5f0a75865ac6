package announce_test

import (
	"bytes"
	"net"
	"net/netip"
	"testing"

	"github.com/blockcast/go-announce"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

func TestFrameWireFormat(t *testing.T) {
	a := &announce.Announcer{
		GroupAddr: netip.MustParseAddr(announce.DefaultGroup),
		GroupPort: announce.DefaultPort,
		TTL:       announce.DefaultTTL,
	}
	frame, err := a.Frame()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := gopacket.NewPacket(frame, layers.LayerTypeIPv4, gopacket.Default)
	ipHdr, ok := p.NetworkLayer().(*layers.IPv4)
	if !ok {
		t.Fatalf("frame does not decode as ipv4")
	}
	if !ipHdr.DstIP.Equal(net.IPv4(239, 255, 1, 1)) {
		t.Errorf("unexpected destination ip: got %s, want 239.255.1.1", ipHdr.DstIP)
	}
	if ipHdr.TTL != 2 {
		t.Errorf("unexpected ttl: got %d, want 2", ipHdr.TTL)
	}
	udpHdr, ok := p.TransportLayer().(*layers.UDP)
	if !ok {
		t.Fatalf("frame does not decode as udp")
	}
	if udpHdr.DstPort != 49788 {
		t.Errorf("unexpected destination port: got %d, want 49788", udpHdr.DstPort)
	}
	app := p.ApplicationLayer()
	if app == nil {
		t.Fatalf("frame has no payload")
	}
	if !bytes.Equal(app.Payload(), []byte{0x72, 0x6f, 0x62, 0x6f, 0x74}) {
		t.Errorf("unexpected payload: got % x, want 72 6f 62 6f 74", app.Payload())
	}
}

func TestFrameCustomPayload(t *testing.T) {
	a := &announce.Announcer{
		GroupAddr: netip.MustParseAddr("239.0.0.7"),
		GroupPort: 5000,
		TTL:       1,
		Payload:   []byte("hello"),
	}
	frame, err := a.Frame()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := gopacket.NewPacket(frame, layers.LayerTypeIPv4, gopacket.Default)
	app := p.ApplicationLayer()
	if app == nil {
		t.Fatalf("frame has no payload")
	}
	if !bytes.Equal(app.Payload(), []byte("hello")) {
		t.Errorf("unexpected payload: got %q, want %q", app.Payload(), "hello")
	}
}

func TestFrameRequiresGroup(t *testing.T) {
	a := &announce.Announcer{}
	if _, err := a.Frame(); err == nil {
		t.Errorf("expected error for unconfigured group, got nil")
	}
}
