package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// TransferHashKey fingerprints a transfer by its business fields. The inputs
// are the raw strings as returned by the explorer, concatenated without a
// delimiter, so the key is reproducible across restarts.
func TransferHashKey(amountWei, fromAddress, txHash string) string {
	sum := sha256.Sum256([]byte(amountWei + fromAddress + txHash))
	return hex.EncodeToString(sum[:])
}

// DonationHashKey fingerprints a donation event. The log index participates
// because one transaction can emit the same donation more than once.
func DonationHashKey(amountWei, fromAddress, txHash, logIndex string) string {
	sum := sha256.Sum256([]byte(amountWei + fromAddress + txHash + logIndex))
	return hex.EncodeToString(sum[:])
}
