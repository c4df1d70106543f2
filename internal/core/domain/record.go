// Package domain holds the records the watcher persists and the content
// fingerprints that make ingestion idempotent.
package domain

// Transfer is a native-currency send (regular or internal call) reported by
// the block explorer for the watched address. Immutable once recorded.
type Transfer struct {
	TxHash      string `db:"tx_hash"      json:"tx_hash"`
	FromAddress string `db:"from_address" json:"from_address"`
	EthAmount   string `db:"eth_amount"   json:"eth_amount"`
	HashKey     string `db:"hash_key"     json:"hash_key"`
	FromName    string `db:"from_name"    json:"from_name"`
}

// Donation is a Donation event sighting from the watched contract. All fields
// are write-once except Removed, which flips when the chain retracts the log
// on a reorganization.
type Donation struct {
	Removed     bool   `db:"removed"      json:"removed"`
	TxHash      string `db:"tx_hash"      json:"tx_hash"`
	LogIndex    string `db:"log_index"    json:"log_index"`
	FromAddress string `db:"from_address" json:"from_address"`
	EthAmount   string `db:"eth_amount"   json:"eth_amount"`
	HashKey     string `db:"hash_key"     json:"hash_key"`
	FromName    string `db:"from_name"    json:"from_name"`
}
