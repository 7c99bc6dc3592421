package database_test

import (
	"testing"

	"cyoa-server/shared/database"
)

func TestMemoryScreenRepository(t *testing.T) {
	runScreenRepositoryContract(t, database.NewMemoryScreenRepository())
}

func TestMemoryTemplateRepository(t *testing.T) {
	runTemplateRepositoryContract(t, database.NewMemoryTemplateRepository())
}

func TestMemoryParameterRepository(t *testing.T) {
	runParameterRepositoryContract(t, database.NewMemoryParameterRepository())
}
