package config

//go:generate go run github.com/dmarkham/enumer -type Backend -trimprefix Backend -transform lower -yaml -output backend.gen.go

// Backend selects the storage backend
type Backend int

const (
	BackendMemory Backend = iota
	BackendSQLite
	BackendPostgres
)

// SQL reports whether the backend is served by a SQL database
func (b Backend) SQL() bool {
	return b == BackendSQLite || b == BackendPostgres
}
