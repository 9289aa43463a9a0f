package entity

// Holding records how many units of one instrument a user owns.
// A row is created lazily on the first buy and kept afterwards even when
// the quantity drops back to zero.
type Holding struct {
	// UserID and InstrumentID form the composite primary key.
	UserID       uint `gorm:"primaryKey"`
	InstrumentID uint `gorm:"primaryKey"`

	// Quantity is the number of units held. Never negative.
	Quantity int64 `gorm:"not null"`

	// Instrument is the owned instrument, preloaded for portfolio views.
	Instrument Instrument
}
