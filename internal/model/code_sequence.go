package model

// CodeSequence is the per-prefix counter behind paper code and job number
// generation. Rows are read under FOR UPDATE inside the minting transaction,
// which serializes concurrent generation per prefix.
type CodeSequence struct {
	Prefix    string `gorm:"primaryKey"`
	LastValue int64  `gorm:"not null"`
}

func (CodeSequence) TableName() string { return "code_sequences" }
