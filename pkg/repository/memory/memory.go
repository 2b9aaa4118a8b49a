package memory

import (
	"github.com/biogas-ops/gutboard/pkg/domain/interfaces"
)

type Memory struct {
	risk      *riskRepository
	area      *areaRepository
	equipment *equipmentRepository
	reading   *readingRepository
	user      *userRepository
}

var _ interfaces.Repository = &Memory{}

// New creates an in-memory repository for development and tests
func New() *Memory {
	return &Memory{
		risk:      newRiskRepository(),
		area:      newAreaRepository(),
		equipment: newEquipmentRepository(),
		reading:   newReadingRepository(),
		user:      newUserRepository(),
	}
}

func (m *Memory) Risk() interfaces.RiskRepository {
	return m.risk
}

func (m *Memory) Area() interfaces.AreaRepository {
	return m.area
}

func (m *Memory) Equipment() interfaces.EquipmentRepository {
	return m.equipment
}

func (m *Memory) Reading() interfaces.ReadingRepository {
	return m.reading
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) Close() error {
	return nil
}
