package ens

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Namehash maps a dot-separated name to its ENS node identifier: starting
// from the zero node, labels are folded in root-to-leaf order with
// node = keccak256(node ++ keccak256(label)). The empty name has no node.
func Namehash(name string) (common.Hash, bool) {
	if name == "" {
		return common.Hash{}, false
	}
	node := make([]byte, 32)
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := crypto.Keccak256([]byte(labels[i]))
		node = crypto.Keccak256(node, labelHash)
	}
	return common.BytesToHash(node), true
}
