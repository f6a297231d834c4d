package auction

import (
	"bytes"

	"golang.org/x/crypto/sha3"
)

// Selector computes the 4-byte function selector for a canonical signature
// such as "itemCount()".
func Selector(sig string) [4]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(sig))
	var out [4]byte
	copy(out[:], h.Sum(nil)[:4])
	return out
}

// HasSelector reports whether runtime bytecode contains the selector for sig.
// Solidity dispatchers PUSH4 every external selector, so absence is a strong
// hint the code at an address is not the expected contract.
func HasSelector(code []byte, sig string) bool {
	sel := Selector(sig)
	return bytes.Contains(code, sel[:])
}
