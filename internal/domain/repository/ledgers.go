package repository

// Ledgers repositorios de los cuatro libros atados a una misma transacción.
type Ledgers struct {
	Levels    StockLevelRepository
	Movements StockMovementRepository
	Cash      CashRepository
	Credit    CustomerCreditRepository
	Records   ReturnRecordRepository
}
