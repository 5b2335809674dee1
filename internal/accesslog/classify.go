package accesslog

import (
	"errors"
	"fmt"
	"net/netip"
)

// ErrBadAddress is returned for a dotted quad that is not a valid IPv4 address.
var ErrBadAddress = errors.New("invalid IPv4 address")

// Origin tells whether a client address is publicly routable.
type Origin int

const (
	// Local addresses are private, loopback, reserved and the like.
	Local Origin = iota
	// Remote addresses are globally routable.
	Remote
)

// String returns the lowercase name of the origin.
func (o Origin) String() string {
	if o == Remote {
		return "remote"
	}
	return "local"
}

// nonGlobal lists the IANA IPv4 special-purpose blocks that are not
// globally reachable.
var nonGlobal = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),          // this network
	netip.MustParsePrefix("10.0.0.0/8"),         // private
	netip.MustParsePrefix("100.64.0.0/10"),      // shared address space
	netip.MustParsePrefix("127.0.0.0/8"),        // loopback
	netip.MustParsePrefix("169.254.0.0/16"),     // link local
	netip.MustParsePrefix("172.16.0.0/12"),      // private
	netip.MustParsePrefix("192.0.0.0/24"),       // IETF protocol assignments
	netip.MustParsePrefix("192.0.2.0/24"),       // TEST-NET-1
	netip.MustParsePrefix("192.168.0.0/16"),     // private
	netip.MustParsePrefix("198.18.0.0/15"),      // benchmarking
	netip.MustParsePrefix("198.51.100.0/24"),    // TEST-NET-2
	netip.MustParsePrefix("203.0.113.0/24"),     // TEST-NET-3
	netip.MustParsePrefix("240.0.0.0/4"),        // reserved
	netip.MustParsePrefix("255.255.255.255/32"), // limited broadcast
}

// globalExceptions are globally reachable hosts inside a non-global block.
var globalExceptions = []netip.Addr{
	netip.MustParseAddr("192.0.0.9"),  // port control protocol anycast
	netip.MustParseAddr("192.0.0.10"), // traversal using relays anycast
}

// Classify reports whether addr is a Remote (globally routable) or Local
// IPv4 address.
func Classify(addr string) (Origin, error) {
	ip, err := netip.ParseAddr(addr)
	if err != nil || !ip.Is4() {
		return Local, fmt.Errorf("%w: %q", ErrBadAddress, addr)
	}

	for _, g := range globalExceptions {
		if ip == g {
			return Remote, nil
		}
	}
	for _, p := range nonGlobal {
		if p.Contains(ip) {
			return Local, nil
		}
	}
	return Remote, nil
}
