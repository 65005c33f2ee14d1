package config

const (
	StoreDriverMemory = "memory"
	StoreDriverSQLite = "sqlite"

	defaultStorePath = "./data/state.db"
)

type StoreConfig interface {
	GetStoreDriver() string
	GetStorePath() string
}

func (v Values) GetStoreDriver() string {
	return valueOr(v.StoreDriver, StoreDriverMemory)
}

func (v Values) GetStorePath() string {
	return valueOr(v.StorePath, defaultStorePath)
}
