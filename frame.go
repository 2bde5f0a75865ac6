package announce

import (
	"fmt"
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// Frame renders the announcement as a complete IPv4/UDP frame, with lengths
// and checksums filled in, as it would appear on the wire. The source address
// and port are taken from the open socket when there is one, otherwise left
// unspecified. Useful for diagnostics and wire-level assertions without a
// live network; Announce does not use it.
func (a *Announcer) Frame() ([]byte, error) {
	if !a.GroupAddr.IsValid() {
		return nil, fmt.Errorf("no group address configured")
	}

	srcIP := net.IPv4zero
	srcPort := 0
	if a.conn4 != nil {
		if la, ok := a.conn4.LocalAddr().(*net.UDPAddr); ok {
			srcIP = la.IP.To4()
			srcPort = la.Port
		}
	}

	ipLayer := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      uint8(a.TTL),
		Protocol: layers.IPProtocolUDP,
		SrcIP:    srcIP,
		DstIP:    a.GroupAddr.AsSlice(),
	}
	udpLayer := &layers.UDP{
		SrcPort: layers.UDPPort(srcPort),
		DstPort: layers.UDPPort(a.GroupPort),
	}
	if err := udpLayer.SetNetworkLayerForChecksum(ipLayer); err != nil {
		return nil, fmt.Errorf("set checksum layer: %w", err)
	}

	payload := a.Payload
	if payload == nil {
		payload = DefaultPayload
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, ipLayer, udpLayer, gopacket.Payload(payload)); err != nil {
		return nil, fmt.Errorf("error serializing frame: %w", err)
	}
	return buf.Bytes(), nil
}
