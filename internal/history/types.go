package history

// Status is the lifecycle state of a recorded transfer. A record starts
// pending and moves exactly once to confirmed or failed.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

// Direction of a transfer. Receive is a reserved value for future use; the
// dashboard only ever writes send records.
type TxType string

const (
	TypeSend    TxType = "send"
	TypeReceive TxType = "receive"
)

// Transaction is one durable record of a submitted transfer. The hash is the
// identity within an (account, chainId) partition; everything except Status is
// fixed at submission time.
type Transaction struct {
	Hash      string `json:"hash"`
	From      string `json:"from"`
	To        string `json:"to"`
	Value     string `json:"value"` // human-entered amount, not raw units
	Symbol    string `json:"symbol"`
	Timestamp int64  `json:"timestamp"` // milliseconds since epoch
	Status    Status `json:"status"`
	Type      TxType `json:"type"`
}

// Changes is a partial update merged into an existing record. Nil fields are
// left untouched.
type Changes struct {
	Status *Status
}

func (c Changes) apply(tx *Transaction) {
	if c.Status != nil {
		tx.Status = *c.Status
	}
}
