package entity

// Operation kind names. The two rows are reference data created at
// migration time and referenced by every trade record.
const (
	OperationBuy  = "Buy"
	OperationSell = "Sell"
)

// Operation is the kind of a trade (Buy or Sell).
type Operation struct {
	// ID is the unique identifier for the operation kind.
	ID uint `gorm:"primaryKey"`

	// Name is the operation kind name. It must be unique.
	Name string `gorm:"uniqueIndex;size:20;not null"`
}
