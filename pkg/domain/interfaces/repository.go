package interfaces

// Repository is the record store behind the dashboard
type Repository interface {
	Risk() RiskRepository
	Area() AreaRepository
	Equipment() EquipmentRepository
	Reading() ReadingRepository
	User() UserRepository

	Close() error
}
