package config

import (
	"fmt"
	"net/netip"
)

// CIDRSubnet calculates a subnet address given a network prefix, a netmask
// size increase and a subnet number, like Terraform's cidrsubnet function.
// Only IPv4 prefixes are supported.
func CIDRSubnet(prefix string, newbits, netnum int) (string, error) {
	p, err := netip.ParsePrefix(prefix)
	if err != nil {
		return "", fmt.Errorf("invalid CIDR prefix: %w", err)
	}
	if !p.Addr().Is4() {
		return "", fmt.Errorf("only IPv4 addresses are supported, got %s", prefix)
	}
	p = p.Masked()

	bits := p.Bits() + newbits
	if newbits < 0 || bits > 32 {
		return "", fmt.Errorf("prefix extension of %d bits is too large for %s", newbits, prefix)
	}
	if netnum < 0 || netnum >= 1<<newbits {
		return "", fmt.Errorf("subnet number %d exceeds max subnets %d", netnum, 1<<newbits)
	}

	base := p.Addr().As4()
	ip := uint32(base[0])<<24 | uint32(base[1])<<16 | uint32(base[2])<<8 | uint32(base[3])
	// #nosec G115
	ip += uint32(netnum) << (32 - bits)

	addr := netip.AddrFrom4([4]byte{byte(ip >> 24), byte(ip >> 16), byte(ip >> 8), byte(ip)})
	return netip.PrefixFrom(addr, bits).String(), nil
}

// SplitSubnets carves count consecutive subnets out of prefix, each newbits
// longer than prefix.
func SplitSubnets(prefix string, newbits, count int) ([]string, error) {
	subnets := make([]string, 0, count)
	for i := range count {
		s, err := CIDRSubnet(prefix, newbits, i)
		if err != nil {
			return nil, err
		}
		subnets = append(subnets, s)
	}
	return subnets, nil
}
