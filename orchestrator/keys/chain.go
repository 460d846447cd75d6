package keys

import "fmt"

// Chain identifies which network a key belongs to. Records of different
// chains never share a namespace: the chain is part of the on-disk file
// extension, so "alice" may exist once per chain.
type Chain string

const (
	ChainCosmos   Chain = "cosmos"
	ChainEthereum Chain = "eth"
)

// ParseChain maps a user-facing chain name onto the closed Chain set.
func ParseChain(s string) (Chain, error) {
	switch s {
	case "cosmos":
		return ChainCosmos, nil
	case "eth", "ethereum":
		return ChainEthereum, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChain, s)
}

func (c Chain) String() string {
	return string(c)
}

// ext is the chain-specific record file extension, e.g. "alice.eth.json".
func (c Chain) ext() string {
	return "." + string(c) + ".json"
}
