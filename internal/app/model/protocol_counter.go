package model

// ProtocolCounter backs the per-day protocol sequence. Allocation increments
// last_seq atomically inside the briefing creation transaction, so concurrent
// creators serialize on the day row and can never draw the same number.
type ProtocolCounter struct {
	Day     string `gorm:"primarykey;size:8"` // YYYYMMDD
	LastSeq int    `gorm:"not null;default:0"`
}

func (ProtocolCounter) TableName() string {
	return "protocol_counters"
}
