package events

const (
	TopicOrderCreated       = "ledger.order.created"
	TopicPaymentRecorded    = "ledger.payment.recorded"
	TopicTransactionAdded   = "ledger.transaction.added"
	TopicTransactionDeleted = "ledger.transaction.deleted"
)

// Partition key = entity id, so every event of one order stays in sequence.
func PartitionKey(id string) []byte { return []byte(id) }
